// Copyright © 2026 The Crisp authors

package cmd

import (
	"io"

	"github.com/crisp-analysis/crisp/diagnostic"
	lintpkg "github.com/crisp-analysis/crisp/lint"
)

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode()}
}

// lintDiagToDiagnostics converts a lint.Diagnostic to a diagnostic followed
// by one note per hint, the way a compiler attaches notes.
func lintDiagToDiagnostics(ld lintpkg.Diagnostic) []diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Message:  ld.Message + " (" + ld.Analyzer + ")",
	}
	if ld.Severity == lintpkg.SeverityError {
		d.Severity = diagnostic.SeverityError
	}
	if ld.Pos.Line > 0 {
		d.Pos = diagnostic.Position{File: ld.Pos.File, Line: ld.Pos.Line}
	}
	out := []diagnostic.Diagnostic{d}
	notes := append(append([]string(nil), ld.Notes...),
		"to suppress: add \"% nolint:"+ld.Analyzer+"\" as a comment on this line")
	for _, n := range notes {
		out = append(out, diagnostic.Diagnostic{Severity: diagnostic.SeverityNote, Message: n})
	}
	return out
}

// renderLintDiagnostics renders lint diagnostics with diagnostic formatting to w.
func renderLintDiagnostics(w io.Writer, diags []lintpkg.Diagnostic) {
	var ds []diagnostic.Diagnostic
	for _, ld := range diags {
		ds = append(ds, lintDiagToDiagnostics(ld)...)
	}
	_ = newRenderer().RenderAll(w, ds)
}
