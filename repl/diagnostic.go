// Copyright © 2026 The Crisp authors

package repl

import (
	"io"

	"github.com/crisp-analysis/crisp/diagnostic"
)

// renderError renders a query error with the diagnostic renderer.  Console
// input has no source file, so only the header line is written.
func renderError(w io.Writer, err error) {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  err.Error(),
	}
	r := &diagnostic.Renderer{Color: diagnostic.ColorAuto}
	_ = r.Render(w, d)
}
