// Copyright © 2026 The Crisp authors

// Package facts asserts the initial fact base of a run: an isA/2 fact for
// every declaration and type of a translation unit, or for the module
// under analysis, plus the main file name and imported diagnostics.
package facts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/golang/glog"

	"github.com/crisp-analysis/crisp/bridge"
	"github.com/crisp-analysis/crisp/cxxast"
	"github.com/crisp-analysis/crisp/diagnostic"
	"github.com/crisp-analysis/crisp/session"
)

// Executor runs Prolog text.  *prolog.Interpreter is one.
type Executor interface {
	Exec(query string, args ...interface{}) error
}

// batchSize bounds the number of directives sent to the engine at once.
const batchSize = 512

// batch buffers assertz directives.
type batch struct {
	p     Executor
	b     strings.Builder
	n     int
	total int
}

func (b *batch) assertz(format string, v ...any) error {
	b.b.WriteString(":- assertz(")
	fmt.Fprintf(&b.b, format, v...)
	b.b.WriteString(").\n")
	b.n++
	b.total++
	if b.n >= batchSize {
		return b.flush()
	}
	return nil
}

func (b *batch) flush() error {
	if b.n == 0 {
		return nil
	}
	text := b.b.String()
	b.b.Reset()
	b.n = 0
	if err := b.p.Exec(text); err != nil {
		return fmt.Errorf("assert facts: %w", err)
	}
	return nil
}

// TranslationUnit asserts isA(H, Sort) for every declaration below the
// translation unit root and every type of the session's translation unit,
// then
// translationUnitMainFileName(File).  Declarations are visited in tree
// order; the sort is the kind name, for example 'CXXConstructorDecl'.
// Types follow in creation order with the type class name plus "Type".
// It returns the number of facts asserted.
func TranslationUnit(p Executor, s *session.Session) (int, error) {
	ctx := s.AST()
	if ctx == nil {
		return 0, errors.New("assert facts: session has no translation unit")
	}
	b := &batch{p: p}
	handles := s.Tables().Handles
	var err error
	cxxast.Inspect(ctx.TU, func(n cxxast.Node) bool {
		if err != nil {
			return false
		}
		if _, root := n.(*cxxast.TranslationUnitDecl); root {
			return true
		}
		if d, ok := n.(cxxast.Decl); ok {
			err = b.assertz("isA(%d, %s)", handles.Intern(d), bridge.QuoteAtom(d.KindName()))
		}
		return true
	})
	if err != nil {
		return b.total, err
	}
	for _, t := range ctx.Types() {
		if err := b.assertz("isA(%d, %s)", handles.Intern(t), bridge.QuoteAtom(t.TypeClassName()+"Type")); err != nil {
			return b.total, err
		}
	}
	if err := b.assertz("translationUnitMainFileName(%s)", bridge.QuoteAtom(s.MainFile())); err != nil {
		return b.total, err
	}
	if err := b.flush(); err != nil {
		return b.total, err
	}
	glog.V(1).Infof("asserted %d facts for %s", b.total, s.MainFile())
	return b.total, nil
}

// Module asserts isA(M, 'Module') and llvmModuleFileName(File) for the
// session's module.
func Module(p Executor, s *session.Session) (int, error) {
	m := s.Module()
	if m == nil {
		return 0, errors.New("assert facts: session has no module")
	}
	b := &batch{p: p}
	if err := b.assertz("isA(%d, 'Module')", s.Tables().Handles.Intern(m)); err != nil {
		return 0, err
	}
	if err := b.assertz("llvmModuleFileName(%s)", bridge.QuoteAtom(s.MainFile())); err != nil {
		return 0, err
	}
	return b.total, b.flush()
}

// Diagnostics asserts clangDiagnostic(File, Line, Col, Severity, Message)
// for every diagnostic in the text stream at path, as written by an
// earlier translation-unit run.  A missing file asserts nothing.
func Diagnostics(p Executor, path string) (int, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		glog.V(1).Infof("no diagnostics to import from %s", path)
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()
	diags, err := diagnostic.ParseText(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	b := &batch{p: p}
	for _, d := range diags {
		err := b.assertz("clangDiagnostic(%s, %d, %d, %s, %s)",
			bridge.QuoteAtom(d.Pos.File), d.Pos.Line, d.Pos.Col,
			bridge.QuoteAtom(d.Severity.String()), bridge.QuoteAtom(d.Message))
		if err != nil {
			return b.total, err
		}
	}
	if err := b.flush(); err != nil {
		return b.total, err
	}
	glog.V(1).Infof("imported %d diagnostics from %s", b.total, path)
	return b.total, nil
}
