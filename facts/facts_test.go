// Copyright © 2026 The Crisp authors

package facts

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ichiban/prolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisp-analysis/crisp/frontend"
	"github.com/crisp-analysis/crisp/ir"
	"github.com/crisp-analysis/crisp/session"
)

const source = `class B {
public:
  B();
  virtual void func() {}
};

B::B() {
  func();
}
`

func interpreter(t *testing.T) *prolog.Interpreter {
	t.Helper()
	p := prolog.New(strings.NewReader(""), io.Discard)
	require.NoError(t, p.Exec(`:- dynamic(isA/2).
:- dynamic(translationUnitMainFileName/1).
:- dynamic(llvmModuleFileName/1).
:- dynamic(clangDiagnostic/5).`))
	return p
}

func holds(t *testing.T, p *prolog.Interpreter, query string) bool {
	t.Helper()
	err := p.QuerySolution(query).Err()
	if errors.Is(err, prolog.ErrNoSolutions) {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestTranslationUnit(t *testing.T) {
	ctx, err := frontend.ParseSource("input.cpp", []byte(source))
	require.NoError(t, err)
	s := session.Begin(session.Config{AST: ctx})
	defer s.End()
	p := interpreter(t)

	n, err := TranslationUnit(p, s)
	require.NoError(t, err)
	assert.Greater(t, n, len(ctx.Types()))

	assert.True(t, holds(t, p, `translationUnitMainFileName('input.cpp').`))
	assert.False(t, holds(t, p, `isA(_, 'TranslationUnitDecl').`), "the root is not a fact")
	assert.True(t, holds(t, p, `isA(_, 'CXXRecordDecl').`))
	assert.True(t, holds(t, p, `isA(_, 'CXXMethodDecl').`))
	assert.True(t, holds(t, p, `isA(_, 'BuiltinType').`))
	assert.True(t, holds(t, p, `isA(_, 'RecordType').`))
	assert.True(t, holds(t, p, `findall(H, isA(H, 'CXXConstructorDecl'), Hs), length(Hs, 2).`),
		"the in-class declaration and the out-of-line definition")
	// Statements are not asserted.
	assert.False(t, holds(t, p, `isA(_, 'CXXMemberCallExpr').`))
}

func TestTranslationUnitHandles(t *testing.T) {
	ctx, err := frontend.ParseSource("input.cpp", []byte(source))
	require.NoError(t, err)
	s := session.Begin(session.Config{AST: ctx})
	defer s.End()

	rec := &recorder{}
	n, err := TranslationUnit(rec, s)
	require.NoError(t, err)
	assert.Equal(t, n, strings.Count(rec.text(), "assertz("))
	assert.Equal(t, n-1, s.Tables().Handles.Len(), "one handle per entity")
	assert.Contains(t, rec.text(), ":- assertz(translationUnitMainFileName('input.cpp')).\n")
}

func TestEmptyTranslationUnit(t *testing.T) {
	ctx, err := frontend.ParseSource("empty.cpp", nil)
	require.NoError(t, err)
	s := session.Begin(session.Config{AST: ctx})
	defer s.End()
	p := interpreter(t)

	n, err := TranslationUnit(p, s)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only the main file name")
	assert.True(t, holds(t, p, `findall(S, isA(_, S), []).`))
	assert.True(t, holds(t, p, `translationUnitMainFileName('empty.cpp').`))
}

func TestTranslationUnitWithoutAST(t *testing.T) {
	s := session.Begin(session.Config{})
	defer s.End()
	_, err := TranslationUnit(&recorder{}, s)
	assert.Error(t, err)
	_, err = Module(&recorder{}, s)
	assert.Error(t, err)
}

func TestModule(t *testing.T) {
	ctx, err := frontend.ParseSource("m.cpp", []byte("void f() {}\n"))
	require.NoError(t, err)
	m := ir.Lower(ctx, nil)
	s := session.Begin(session.Config{Module: m})
	defer s.End()
	p := interpreter(t)

	n, err := Module(p, s)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, holds(t, p, `isA(M, 'Module'), integer(M).`))
	assert.True(t, holds(t, p, `llvmModuleFileName('m.cpp').`))
}

func TestDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.cpp.diags")
	require.NoError(t, os.WriteFile(path, []byte(
		"input.cpp:8:3: warning: HICPP 3.3.13: ctor/dtor 'B' calls (maybe indirectly) virtual method 'func'\n"+
			"not a diagnostic\n"+
			"input.cpp:4:16: note: HICPP 3.3.13: called virtual method 'func' declared here\n"), 0o644))
	p := interpreter(t)

	n, err := Diagnostics(p, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, holds(t, p, `clangDiagnostic('input.cpp', 8, 3, warning, M), atom_length(M, L), L > 0.`))
	assert.True(t, holds(t, p, `clangDiagnostic(_, 4, 16, note, 'HICPP 3.3.13: called virtual method \'func\' declared here').`))

	n, err = Diagnostics(p, filepath.Join(dir, "missing.diags"))
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestBatching(t *testing.T) {
	rec := &recorder{}
	b := &batch{p: rec}
	for i := 0; i < batchSize+1; i++ {
		require.NoError(t, b.assertz("f(%d)", i))
	}
	require.NoError(t, b.flush())
	assert.Len(t, rec.execs, 2)
	assert.Equal(t, batchSize+1, b.total)

	b = &batch{p: failing{}}
	require.NoError(t, b.assertz("f"))
	assert.Error(t, b.flush())
}

type recorder struct {
	execs []string
}

func (r *recorder) Exec(query string, _ ...interface{}) error {
	r.execs = append(r.execs, query)
	return nil
}

func (r *recorder) text() string { return strings.Join(r.execs, "") }

type failing struct{}

func (failing) Exec(string, ...interface{}) error { return errors.New("boom") }
