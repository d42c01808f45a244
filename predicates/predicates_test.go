// Copyright © 2026 The Crisp authors

package predicates

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ichiban/prolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisp-analysis/crisp/bridge"
	"github.com/crisp-analysis/crisp/cxxast"
	"github.com/crisp-analysis/crisp/diagnostic"
	"github.com/crisp-analysis/crisp/frontend"
	"github.com/crisp-analysis/crisp/ir"
	"github.com/crisp-analysis/crisp/session"
	"github.com/crisp-analysis/crisp/status"
)

const classSource = `class B {
public:
  B();
  virtual void func() {}
};

B::B() {
  func();
}

void g(int *p, const int *q) {}
`

type fixture struct {
	p     *prolog.Interpreter
	s     *session.Session
	diags *diagnostic.Collector
}

func newFixture(t *testing.T, cfg session.Config) *fixture {
	t.Helper()
	f := &fixture{diags: &diagnostic.Collector{}}
	cfg.Diagnostics = diagnostic.NewEngine(f.diags)
	f.s = session.Begin(cfg)
	t.Cleanup(func() { f.s.End() })
	f.p = prolog.New(strings.NewReader(""), io.Discard)
	require.NoError(t, Registry().Install(&f.p.VM, f.s))
	return f
}

func newASTFixture(t *testing.T, name, src string) (*fixture, *cxxast.ASTContext) {
	t.Helper()
	ctx, err := frontend.ParseSource(name, []byte(src))
	require.NoError(t, err)
	return newFixture(t, session.Config{AST: ctx}), ctx
}

func (f *fixture) holds(t *testing.T, format string, args ...any) bool {
	t.Helper()
	err := f.p.QuerySolution(fmt.Sprintf(format, args...) + ".").Err()
	if errors.Is(err, prolog.ErrNoSolutions) {
		return false
	}
	require.NoError(t, err)
	return true
}

func (f *fixture) handle(obj any) bridge.Handle { return f.s.Tables().Handles.Intern(obj) }

// find returns the first node of the tree the predicate accepts.
func find(root cxxast.Node, accept func(cxxast.Node) bool) cxxast.Node {
	var found cxxast.Node
	cxxast.Inspect(root, func(n cxxast.Node) bool {
		if found == nil && accept(n) {
			found = n
		}
		return found == nil
	})
	return found
}

func ctorDefinition(ctx *cxxast.ASTContext) cxxast.Node {
	return find(ctx.TU, func(n cxxast.Node) bool {
		c, ok := n.(cxxast.CXXConstructorDecl)
		return ok && c.HasBody()
	})
}

func method(ctx *cxxast.ASTContext, name string) cxxast.Node {
	return find(ctx.TU, func(n cxxast.Node) bool {
		m, ok := n.(cxxast.CXXMethodDecl)
		return ok && m.Name() == name
	})
}

func TestRegistry(t *testing.T) {
	r := bridge.NewRegistry()
	Register(r)
	n := r.Len()
	assert.Equal(t, len(clangPredicates)+len(llvmPredicates)+len(manualPredicates), n, "indicators are distinct")
	Register(r)
	assert.Equal(t, n, r.Len())
	assert.Same(t, Registry(), Registry())

	for _, ind := range []struct {
		name  string
		arity int
	}{
		{"Stmt::descendant", 2},
		{"CXXMethodDecl::isVirtual", 1},
		{"report_violation", 2},
		{"report_violation", 3},
		{"containsArgument", 2},
		{"Module::function", 2},
	} {
		_, ok := r.Lookup(ind.name, ind.arity)
		assert.True(t, ok, "%s/%d", ind.name, ind.arity)
	}
	p, _ := r.Lookup("Stmt::descendant", 2)
	assert.True(t, p.Nondeterministic)
	if names := r.Suggest("NamedDecl::getNmae"); assert.NotEmpty(t, names) {
		assert.Equal(t, "NamedDecl::getName", names[0])
	}
}

func TestVirtualCallChain(t *testing.T) {
	f, ctx := newASTFixture(t, "input.cpp", classSource)
	ctor := f.handle(ctorDefinition(ctx))
	require.NotZero(t, ctor)

	assert.True(t, f.holds(t, `'FunctionDecl::getBody'(%d, Body),
		'Stmt::descendant'(Body, S),
		'Stmt::getStmtClassName'(S, 'CXXMemberCallExpr'),
		'CXXMemberCallExpr::getImplicitObjectArgument'(S, O),
		'Stmt::getStmtClassName'(O, 'CXXThisExpr'),
		'CXXMemberCallExpr::getMethodDecl'(S, M),
		'CXXMethodDecl::isVirtual'(M),
		'NamedDecl::getName'(M, func),
		'CXXMethodDecl::getParent'(M, R),
		'NamedDecl::getName'(R, 'B').`, ctor))

	f.s.Tables().Ledger.PruneAll()
	assert.Zero(t, f.s.Tables().Ledger.Live())
	assert.Zero(t, f.s.Tables().Cursors.Live(), "abandoned cursors are released")
	assert.Zero(t, f.s.Tables().Cursors.Faults())
}

func TestDeclPredicates(t *testing.T) {
	f, ctx := newASTFixture(t, "input.cpp", classSource)
	fn := f.handle(method(ctx, "func"))
	ctor := f.handle(ctorDefinition(ctx))

	assert.True(t, f.holds(t, `'Decl::getKindName'(%d, 'CXXMethodDecl')`, fn))
	assert.True(t, f.holds(t, `'Decl::getKindName'(%d, 'CXXConstructorDecl')`, ctor))
	assert.True(t, f.holds(t, `'Decl::getAccess'(%d, public)`, fn))
	assert.False(t, f.holds(t, `'Decl::getAccess'(%d, private)`, fn))
	assert.True(t, f.holds(t, `'NamedDecl::getQualifiedName'(%d, 'B::func')`, fn))
	assert.True(t, f.holds(t, `'FunctionDecl::hasBody'(%d)`, fn))
	assert.False(t, f.holds(t, `'CXXMethodDecl::isPure'(%d)`, fn))
	assert.True(t, f.holds(t, `'CXXMethodDecl::getParent'(%d, R), 'CXXRecordDecl::isPolymorphic'(R)`, fn))
	assert.True(t, f.holds(t, `findall(M, ('CXXMethodDecl::getParent'(%d, R), 'CXXRecordDecl::method'(R, M)), Ms), length(Ms, N), N >= 2`, fn))
}

func TestTypePredicates(t *testing.T) {
	f, ctx := newASTFixture(t, "input.cpp", classSource)
	g := find(ctx.TU, func(n cxxast.Node) bool {
		d, ok := n.(cxxast.FunctionDecl)
		return ok && d.Name() == "g"
	})
	require.NotNil(t, g)
	h := f.handle(g)

	// g(int *p, const int *q)
	assert.True(t, f.holds(t, `'FunctionDecl::param'(%d, P), 'NamedDecl::getName'(P, p),
		'ValueDecl::getType'(P, Q), 'QualType::getTypePtr'(Q, T), 'Type::isPointerType'(T),
		'Type::getPointeeType'(T, E), 'QualType::getAsString'(E, int)`, h))
	assert.True(t, f.holds(t, `'FunctionDecl::param'(%d, P), 'NamedDecl::getName'(P, q),
		'ValueDecl::getType'(P, Q), 'QualType::getTypePtr'(Q, T),
		'Type::getPointeeType'(T, E), 'QualType::isConstQualified'(E)`, h))

	// The pointee of a non-pointer fails rather than binding a null type.
	assert.False(t, f.holds(t, `'FunctionDecl::param'(%d, P), 'ValueDecl::getType'(P, Q),
		'QualType::getTypePtr'(Q, T), 'Type::getPointeeType'(T, E),
		'QualType::getTypePtr'(E, I), 'Type::getPointeeType'(I, _)`, h))
	var builtin cxxast.Type
	for _, ty := range ctx.Types() {
		if ty.IsBuiltinType() && ty.AsString() == "int" {
			builtin = ty
		}
	}
	require.NotNil(t, builtin)
	assert.False(t, f.holds(t, `'Type::getPointeeType'(%d, _)`, f.handle(builtin)))
	assert.True(t, f.holds(t, `'Type::getTypeClassName'(%d, 'Builtin')`, f.handle(builtin)))
}

func TestInstantiationFaults(t *testing.T) {
	f, ctx := newASTFixture(t, "input.cpp", classSource)
	assert.False(t, f.holds(t, `'NamedDecl::getName'(_, N)`))
	assert.False(t, f.holds(t, `'NamedDecl::getName'(9999, N)`))
	assert.False(t, f.holds(t, `'NamedDecl::getName'(foo, N)`))
	// A statement handle where a declaration is expected.
	body := f.handle(ctorDefinition(ctx).(cxxast.FunctionDecl).Body())
	assert.False(t, f.holds(t, `'NamedDecl::getName'(%d, N)`, body))
	assert.False(t, f.holds(t, `getPresumedLoc(_, F, L, C)`))
	assert.True(t, f.holds(t, `'Decl::getKindName'(%d, _) ; true`, body), "the session continues")
}

func TestGetPresumedLoc(t *testing.T) {
	f, ctx := newASTFixture(t, "input.cpp", classSource)
	fn := f.handle(method(ctx, "func"))
	call := f.handle(find(ctx.TU, func(n cxxast.Node) bool {
		_, ok := n.(*cxxast.CXXMemberCallExpr)
		return ok
	}))
	assert.True(t, f.holds(t, `getPresumedLoc(%d, 'input.cpp', 4, _)`, fn))
	assert.True(t, f.holds(t, `getPresumedLoc(%d, 'input.cpp', 8, 3)`, call))
}

func TestMangleName(t *testing.T) {
	f, ctx := newASTFixture(t, "input.cpp", classSource)
	ctor := f.handle(ctorDefinition(ctx))
	assert.True(t, f.holds(t, `mangleName(%d, '_ZN1BC1Ev')`, ctor))
	assert.True(t, f.holds(t, `llvmName(%d, '_ZN1BC1Ev')`, ctor))
}

func TestIsConstFunctionProtoType(t *testing.T) {
	f, ctx := newASTFixture(t, "input.cpp", "class A {\npublic:\n  int get() const;\n  int set();\n};\n")
	get := method(ctx, "get").(cxxast.CXXMethodDecl)
	set := method(ctx, "set").(cxxast.CXXMethodDecl)
	assert.True(t, f.holds(t, `isConstFunctionProtoType(%d)`, f.handle(get.Type())))
	assert.False(t, f.holds(t, `isConstFunctionProtoType(%d)`, f.handle(set.Type())))
	assert.False(t, f.holds(t, `isConstFunctionProtoType(%d)`, f.handle(get)))
}

func TestReportViolation(t *testing.T) {
	f, ctx := newASTFixture(t, "input.cpp", classSource)
	fn := f.handle(method(ctx, "func"))
	assert.True(t, f.holds(t, `report_violation('R', [warn('m %%0', 'Decl'(%d), ['NamedDecl'(%d)], 'Null'), bogus])`, fn, fn))
	diags := f.diags.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "R: m 'func'", diags[0].Message)
	assert.True(t, f.holds(t, `report_violation('R', notalist)`))
}

func TestReportViolationAuxFailure(t *testing.T) {
	main := filepath.Join(t.TempDir(), "missing", "input.cpp")
	f, _ := newASTFixture(t, main, classSource)
	err := f.p.QuerySolution(`report_violation('R', [], true).`).Err()
	assert.Error(t, err)
	assert.ErrorIs(t, f.s.Err(), status.ErrAuxStream)
	assert.True(t, f.holds(t, `report_violation('R', [], false)`))
}

const moduleSource = `void f(int *p) {
  *p = 1;
}

int g(int a, int b) {
  return a;
}
`

func newModuleFixture(t *testing.T) (*fixture, *ir.Module) {
	t.Helper()
	ctx, err := frontend.ParseSource("m.cpp", []byte(moduleSource))
	require.NoError(t, err)
	m := ir.Lower(ctx, nil)
	return newFixture(t, session.Config{Module: m}), m
}

func TestModulePredicates(t *testing.T) {
	f, m := newModuleFixture(t)
	mod := f.handle(m)

	assert.True(t, f.holds(t, `getFunction(%d, '_Z1fPi', F), isA_(F, 'Function'), getName(F, '_Z1fPi')`, mod))
	assert.False(t, f.holds(t, `getFunction(%d, nope, _)`, mod))
	assert.False(t, f.holds(t, `getFunction(%d, _, _)`, mod))
	assert.True(t, f.holds(t, `findall(F, 'Module::function'(%d, F), Fs), length(Fs, 2)`, mod))
	assert.True(t, f.holds(t, `getFunction(%d, '_Z1gii', G), findall(A, containsArgument(G, A), As), length(As, 2)`, mod))
	assert.True(t, f.holds(t, `getFunction(%d, '_Z1gii', G), containsArgument(G, A), 'Argument::getArgNo'(A, 1)`, mod))
	assert.True(t, f.holds(t, `getFunction(%d, '_Z1fPi', F), 'Function::instruction'(F, I),
		isA_(I, 'StoreInst'), 'Instruction::getOpcodeName'(I, store)`, mod))
}

func TestAliasPredicates(t *testing.T) {
	f, m := newModuleFixture(t)
	mod := f.handle(m)
	before := f.s.AuxRecords()
	assert.True(t, f.holds(t, `getFunction(%d, '_Z1fPi', F), 'Function::instruction'(F, I),
		getLocationFromStoreUser(I, L), alias(L, L, 3), aliasLessThanNoAlias(L, L)`, mod))
	assert.Greater(t, f.s.AuxRecords(), before)
	assert.False(t, f.holds(t, `getFunction(%d, '_Z1fPi', F), 'Function::instruction'(F, I),
		isA_(I, 'LoadInst'), getLocationFromStoreUser(I, _)`, mod))
	assert.True(t, f.holds(t, `getFunction(%d, '_Z1fPi', F), 'Function::instruction'(F, I),
		'Instruction::getPointerOperand'(I, P), createLocation(P, L), alias(L, L, C), C >= 0`, mod))
	assert.False(t, f.holds(t, `alias(1, _, _)`))
}

func TestReportViolationLLVM(t *testing.T) {
	f, m := newModuleFixture(t)
	mod := f.handle(m)
	assert.True(t, f.holds(t, `getFunction(%d, '_Z1fPi', F), 'Function::instruction'(F, I),
		isA_(I, 'StoreInst'), !, report_violation_llvm('MEM', 'store %%0', [I])`, mod))
	diags := f.diags.Diagnostics()
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "MEM: store '")
	assert.Equal(t, "m.cpp", diags[0].Pos.File)
	assert.True(t, f.holds(t, `report_violation_llvm('MEM', x, nope)`))
	assert.Len(t, f.diags.Diagnostics(), 1)
}
