// Copyright © 2026 The Crisp authors

// Package lint provides static analysis for rule files.
//
// The linter is modeled after go vet: each check is an independent Analyzer
// that receives the parsed clauses of a file and reports diagnostics. The
// framework handles parsing, running analyzers, collecting results, and
// formatting output.
package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/crisp-analysis/crisp/bridge"
	"github.com/crisp-analysis/crisp/parser"
)

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// Analyzer defines a single lint check.
type Analyzer struct {
	// Name is a short identifier for this check (e.g. "unknown-predicate").
	Name string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Severity is the default severity for diagnostics from this analyzer.
	Severity Severity

	// Run executes the check. It should call pass.Report() for each finding.
	Run func(pass *Pass) error
}

// Pass provides context to a running analyzer.
type Pass struct {
	// Analyzer is the currently running check.
	Analyzer *Analyzer

	// Filename is the source file being analyzed.
	Filename string

	// Clauses are the clauses and directives of the file, in order.
	Clauses []*parser.Clause

	// Known holds every procedure a goal of the file may call.
	Known *Index

	diagnostics []Diagnostic
}

// Report records a diagnostic finding.
func (p *Pass) Report(d Diagnostic) {
	d.Analyzer = p.Analyzer.Name
	if d.Severity == severityUnset {
		d.Severity = p.Analyzer.Severity
	}
	p.diagnostics = append(p.diagnostics, d)
}

// Reportf is a convenience for reporting a diagnostic on a line.
func (p *Pass) Reportf(line int, format string, args ...interface{}) {
	p.Report(Diagnostic{
		Pos:     Position{File: p.Filename, Line: line},
		Message: fmt.Sprintf(format, args...),
	})
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Pos      Position `json:"pos"`
	Message  string   `json:"message"`
	Analyzer string   `json:"analyzer"`
	Severity Severity `json:"severity"`
	// Notes are optional hint text lines for the user.
	Notes []string `json:"notes,omitempty"`
}

// Position identifies a line of a rule file.
type Position struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// String returns the position in file:line format.
func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// String returns the diagnostic in go vet style: file:line: message (analyzer)
// with optional note lines appended.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s (%s)", d.Pos, d.Message, d.Analyzer)
	for _, n := range d.Notes {
		s += "\n  = note: " + n
	}
	return s
}

// Linter runs a set of analyzers over rule files.
type Linter struct {
	Analyzers []*Analyzer
	// Registry lists the foreign predicates rules may call.  Nil means the
	// predicates of a run.
	Registry *bridge.Registry
}

// LintFile analyzes a single rule file and returns all diagnostics sorted by
// line.
func (l *Linter) LintFile(source []byte, filename string) ([]Diagnostic, error) {
	clauses, err := parser.Parse(filename, source)
	if err != nil {
		return nil, err
	}
	known, err := NewIndex(l.Registry, clauses)
	if err != nil {
		return nil, err
	}

	var all []Diagnostic
	for _, analyzer := range l.Analyzers {
		pass := &Pass{
			Analyzer: analyzer,
			Filename: filename,
			Clauses:  clauses,
			Known:    known,
		}
		if err := analyzer.Run(pass); err != nil {
			return nil, fmt.Errorf("%s: analyzer %s: %w", filename, analyzer.Name, err)
		}
		all = append(all, pass.diagnostics...)
	}

	all = filterSuppressed(all, source)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Pos.File != all[j].Pos.File {
			return all[i].Pos.File < all[j].Pos.File
		}
		return all[i].Pos.Line < all[j].Pos.Line
	})
	return all, nil
}

var nolintComment = regexp.MustCompile(`%\s*nolint(?::([\w,\- ]+))?\s*$`)

// filterSuppressed removes diagnostics on lines with a "% nolint" comment,
// optionally naming the analyzers it silences.
func filterSuppressed(diags []Diagnostic, source []byte) []Diagnostic {
	nolintLines := make(map[int][]string)
	for i, line := range strings.Split(string(source), "\n") {
		m := nolintComment.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		var names []string
		for _, name := range strings.Split(m[1], ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		nolintLines[i+1] = names
	}

	var filtered []Diagnostic
	for _, d := range diags {
		names, ok := nolintLines[d.Pos.Line]
		if !ok {
			filtered = append(filtered, d)
			continue
		}
		if len(names) == 0 {
			continue
		}
		suppressed := false
		for _, name := range names {
			if name == d.Analyzer {
				suppressed = true
				break
			}
		}
		if !suppressed {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// FormatText writes diagnostics in go vet text format.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes diagnostics as JSON.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// DefaultAnalyzers returns the built-in set of lint checks.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerUnknownPredicate,
		AnalyzerArityMismatch,
		AnalyzerEntryGoal,
		AnalyzerSingletonVariable,
		AnalyzerReportRequest,
	}
}
