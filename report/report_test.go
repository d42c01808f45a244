// Copyright © 2026 The Crisp authors

package report

import (
	"testing"

	"github.com/ichiban/prolog/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisp-analysis/crisp/bridge"
	"github.com/crisp-analysis/crisp/cxxast"
	"github.com/crisp-analysis/crisp/diagnostic"
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

type fixture struct {
	s      *session.Session
	diags  *diagnostic.Collector
	ctor   bridge.Handle
	method bridge.Handle
	call   bridge.Handle
	rec    bridge.Handle
	typ    bridge.Handle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx, err := frontend.ParseSource("input.cpp", []byte(source))
	require.NoError(t, err)
	f := &fixture{diags: &diagnostic.Collector{}}
	f.s = session.Begin(session.Config{AST: ctx, Diagnostics: diagnostic.NewEngine(f.diags)})
	t.Cleanup(func() { f.s.End() })

	handles := f.s.Tables().Handles
	cxxast.Inspect(ctx.TU, func(n cxxast.Node) bool {
		switch n := n.(type) {
		case cxxast.CXXConstructorDecl:
			if n.HasBody() {
				f.ctor = handles.Intern(n)
			}
		case *cxxast.CXXRecordDecl:
			f.rec = handles.Intern(n)
			f.typ = handles.Intern(n.TypeForDecl())
		case cxxast.CXXMethodDecl:
			if n.Name() == "func" {
				f.method = handles.Intern(n)
			}
		case *cxxast.CXXMemberCallExpr:
			f.call = handles.Intern(n)
		}
		return true
	})
	require.NotZero(t, f.ctor)
	require.NotZero(t, f.method)
	require.NotZero(t, f.call)
	return f
}

func atom(name string) engine.Atom { return engine.NewAtom(name) }

func tagged(tag string, h bridge.Handle) engine.Term {
	return atom(tag).Apply(engine.Integer(h))
}

func TestViolation(t *testing.T) {
	f := newFixture(t)
	reqs := engine.List(
		atom("warn").Apply(
			atom("ctor/dtor %0 calls (maybe indirectly) virtual method %1"),
			tagged("Stmt", f.call),
			engine.List(tagged("NamedDecl", f.ctor), tagged("NamedDecl", f.method)),
			tagged("Stmt", f.call),
		),
		atom("note").Apply(
			atom("called virtual method %0 declared here"),
			tagged("Decl", f.method),
			engine.List(tagged("NamedDecl", f.method)),
			atom("Null"),
		),
	)
	n := Violation(f.s, "HICPP 3.3.13", reqs, nil)
	assert.Equal(t, 2, n)

	diags := f.diags.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, diagnostic.SeverityWarning, diags[0].Severity)
	assert.Equal(t, "HICPP 3.3.13: ctor/dtor 'B' calls (maybe indirectly) virtual method 'func'", diags[0].Message)
	assert.Equal(t, diagnostic.Position{File: "input.cpp", Line: 8, Col: 3}, diags[0].Pos)
	require.Len(t, diags[0].Ranges, 1)
	assert.Equal(t, 8, diags[0].Ranges[0].End.Line)

	assert.Equal(t, diagnostic.SeverityNote, diags[1].Severity)
	assert.Equal(t, "HICPP 3.3.13: called virtual method 'func' declared here", diags[1].Message)
	assert.Equal(t, 4, diags[1].Pos.Line)
	assert.Empty(t, diags[1].Ranges)
}

func TestTypeItem(t *testing.T) {
	f := newFixture(t)
	req, err := Parse(f.s, atom("warn").Apply(
		atom("type %0"),
		tagged("Decl", f.rec),
		engine.List(tagged("Type", f.typ)),
		atom("Null"),
	), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"'class B'"}, req.Items)
	assert.Equal(t, 1, req.Pos.Line)
}

func TestMalformedRequestsAreDropped(t *testing.T) {
	f := newFixture(t)
	good := atom("warn").Apply(atom("ok"), tagged("Decl", f.ctor), engine.List(), atom("Null"))
	tests := []struct {
		name string
		req  engine.Term
	}{
		{"wrong functor", atom("error").Apply(atom("m"), tagged("Decl", f.ctor), engine.List(), atom("Null"))},
		{"wrong arity", atom("warn").Apply(atom("m"), tagged("Decl", f.ctor))},
		{"format not an atom", atom("warn").Apply(engine.Integer(1), tagged("Decl", f.ctor), engine.List(), atom("Null"))},
		{"unknown anchor tag", atom("warn").Apply(atom("m"), tagged("Type", f.typ), engine.List(), atom("Null"))},
		{"anchor of wrong kind", atom("warn").Apply(atom("m"), tagged("Stmt", f.ctor), engine.List(), atom("Null"))},
		{"unknown handle", atom("warn").Apply(atom("m"), tagged("Decl", 9999), engine.List(), atom("Null"))},
		{"items not a list", atom("warn").Apply(atom("m"), tagged("Decl", f.ctor), atom("items"), atom("Null"))},
		{"unnamed item", atom("warn").Apply(atom("m"), tagged("Decl", f.ctor), engine.List(tagged("NamedDecl", f.call)), atom("Null"))},
		{"bad range", atom("warn").Apply(atom("m"), tagged("Decl", f.ctor), engine.List(), atom("Range"))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := len(f.diags.Diagnostics())
			n := Violation(f.s, "R", engine.List(tc.req, good), nil)
			assert.Equal(t, 1, n)
			diags := f.diags.Diagnostics()
			require.Len(t, diags, before+1)
			assert.Equal(t, "R: ok", diags[len(diags)-1].Message)
		})
	}
	assert.Zero(t, Violation(f.s, "R", atom("notalist"), nil))
}

func TestViolationLLVM(t *testing.T) {
	ctx, err := frontend.ParseSource("m.cpp", []byte("void f(int *p) {\n  *p = 1;\n}\n"))
	require.NoError(t, err)
	m := ir.Lower(ctx, nil)
	c := &diagnostic.Collector{}
	s := session.Begin(session.Config{Module: m, Diagnostics: diagnostic.NewEngine(c)})
	defer s.End()

	fn := m.Function("_Z1fPi")
	require.NotNil(t, fn)
	var store *ir.Instruction
	for _, inst := range fn.Instructions() {
		if inst.Op == ir.OpStore {
			store = inst
		}
	}
	require.NotNil(t, store)
	h := s.Tables().Handles.Intern(ir.Value(store))

	ok := ViolationLLVM(s, "MEM", "store %0", engine.List(engine.Integer(h)), nil)
	require.True(t, ok)
	diags := c.Diagnostics()
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "MEM: store '")
	assert.Equal(t, "m.cpp", diags[0].Pos.File)
	assert.Equal(t, 2, diags[0].Pos.Line)

	assert.False(t, ViolationLLVM(s, "MEM", "x", engine.List(engine.Integer(9999)), nil))
	assert.False(t, ViolationLLVM(s, "MEM", "x", atom("nope"), nil))
	assert.Len(t, c.Diagnostics(), 1)
}
