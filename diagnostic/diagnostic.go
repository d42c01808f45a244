// Copyright © 2026 The Crisp authors

// Package diagnostic models compiler style diagnostics: an Engine issues
// custom diagnostic ids, builds diagnostics from them and hands every
// emitted diagnostic to a swappable Consumer.  Consumers render annotated
// source snippets, write plain "file:line:col: level: message" lines or
// collect diagnostics for inspection.
package diagnostic

import "fmt"

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// ParseSeverity returns the severity spelled s, as written by String.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "note":
		return SeverityNote, true
	}
	return 0, false
}

// Position is a presumed source position.  Line and Col are 1-based; a zero
// Line means the position is unknown.
type Position struct {
	File string
	Line int
	Col  int
}

// IsValid reports whether the position names a line.
func (p Position) IsValid() bool { return p.File != "" && p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// Range is a highlighted region.  Ranges spanning several lines are
// highlighted on their first line only.
type Range struct {
	Begin Position
	End   Position
}

// Diagnostic is one emitted warning, note or error.
type Diagnostic struct {
	ID       ID
	Severity Severity
	// Message is the formatted text, arguments already substituted.
	Message string
	Pos     Position
	Ranges  []Range
}

func (d Diagnostic) String() string {
	if !d.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
}
