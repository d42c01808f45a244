// Copyright © 2026 The Crisp authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// Renderer formats diagnostics the way C++ compilers print them: a
// "file:line:col: level: message" header, the source line, and a caret line
// marking the position with "^" and highlighted ranges with "~".
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	r.writeHeader(ew, d, p)
	if d.Pos.IsValid() {
		r.writeSnippet(ew, d, p)
	}

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for _, d := range diags {
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// Summary returns the trailing "N warnings generated." line, or "" when
// nothing was reported.
func Summary(warnings, errors int) string {
	var parts []string
	if warnings > 0 {
		parts = append(parts, plural(warnings, "warning"))
	}
	if errors > 0 {
		parts = append(parts, plural(errors, "error"))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " and ") + " generated."
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// errWriter wraps a writer and captures the first error, short-circuiting
// subsequent writes. This avoids checking every fmt.Fprintf return value.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (r *Renderer) writeHeader(ew *errWriter, d Diagnostic, p palette) {
	var sevColor string
	switch d.Severity {
	case SeverityError:
		sevColor = p.boldRed
	case SeverityWarning:
		sevColor = p.boldMagenta
	case SeverityNote:
		sevColor = p.boldBlack
	}
	if d.Pos.IsValid() {
		ew.printf("%s%s:%s ", p.bold, d.Pos, p.reset)
	}
	ew.printf("%s%s:%s %s%s%s\n", sevColor, d.Severity, p.reset, p.bold, d.Message, p.reset)
}

func (r *Renderer) writeSnippet(ew *errWriter, d Diagnostic, p palette) {
	source := r.readSourceLine(d.Pos.File, d.Pos.Line)
	if source == "" {
		return
	}
	ew.printf("%s\n", expandTabs(source))

	marks := make([]byte, len(source)+1)
	for i := range marks {
		marks[i] = ' '
	}
	for _, rg := range d.Ranges {
		if rg.Begin.File != d.Pos.File || rg.Begin.Line != d.Pos.Line {
			continue
		}
		end := len(source)
		if rg.End.Line == rg.Begin.Line && rg.End.Col > rg.Begin.Col {
			end = rg.End.Col - 1
		}
		for i := rg.Begin.Col - 1; i < end && i < len(marks); i++ {
			if i >= 0 {
				marks[i] = '~'
			}
		}
	}
	if c := d.Pos.Col - 1; c >= 0 && c < len(marks) {
		marks[c] = '^'
	}
	line := strings.TrimRight(string(marks), " ")
	ew.printf("%s%s%s\n", p.boldGreen, expandTabsLike(source, line), p.reset)
}

func (r *Renderer) readSourceLine(file string, line int) string {
	if line <= 0 || file == "" {
		return ""
	}
	reader := r.SourceReader
	if reader == nil {
		reader = func(name string) ([]byte, error) {
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		}
	}
	data, err := reader(file)
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for i := 1; scanner.Scan(); i++ {
		if i == line {
			return scanner.Text()
		}
	}
	return ""
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// expandTabsLike widens the marker line wherever the source line has a tab
// so that markers stay under their columns.
func expandTabsLike(source, marks string) string {
	var sb strings.Builder
	for i := 0; i < len(marks); i++ {
		if i < len(source) && source[i] == '\t' {
			sb.WriteString(strings.Repeat(string(marks[i]), 4))
			continue
		}
		sb.WriteByte(marks[i])
	}
	return sb.String()
}

// fileFromWriter attempts to extract an *os.File from a writer for terminal
// detection. Returns nil if the writer is not backed by a file.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
