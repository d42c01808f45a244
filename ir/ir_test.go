// Copyright © 2026 The Crisp authors

package ir

import (
	"testing"

	"github.com/crisp-analysis/crisp/cxxast"
	"github.com/crisp-analysis/crisp/frontend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lowerSource(t *testing.T, src string) (*Module, *cxxast.ASTContext) {
	t.Helper()
	ctx, err := frontend.ParseSource("input.cpp", []byte(src))
	require.NoError(t, err)
	return Lower(ctx, nil), ctx
}

func ops(f *Function, op Opcode) []*Instruction {
	var out []*Instruction
	for _, i := range f.Instructions() {
		if i.Op == op {
			out = append(out, i)
		}
	}
	return out
}

func TestLowerConstructorCall(t *testing.T) {
	m, ctx := lowerSource(t, "class B {\npublic:\n  B();\n  virtual void func() {}\n};\nB::B() { func(); }\n")
	assert.Equal(t, "input.cpp", m.Identifier)

	ctor := m.Function("_ZN1BC1Ev")
	require.NotNil(t, ctor)
	assert.False(t, ctor.IsDeclaration())
	require.Len(t, ctor.Args(), 1)
	this := ctor.Args()[0]
	assert.Equal(t, "this", this.Name())
	assert.Equal(t, "%class.B*", this.Type().String())
	assert.Same(t, ctor, this.Parent())

	calls := ops(ctor, OpCall)
	require.Len(t, calls, 1)
	callee := calls[0].CalledFunction()
	require.NotNil(t, callee)
	assert.Equal(t, "_ZN1B4funcEv", callee.Name())
	assert.False(t, callee.IsDeclaration())
	require.Len(t, calls[0].CallArgs(), 1)
	assert.Equal(t, OpLoad, calls[0].CallArgs()[0].(*Instruction).Op)
	assert.Equal(t, "CallInst", calls[0].Sort())

	p := ctx.SourceManager.PresumedLoc(calls[0].Loc)
	assert.Equal(t, 6, p.Line)

	last := ctor.Instructions()[len(ctor.Instructions())-1]
	assert.Equal(t, OpRet, last.Op)
	assert.Same(t, m, ctor.Parent())
}

func TestLowerLoadsAndStores(t *testing.T) {
	m, _ := lowerSource(t, `int g;
int f(int a, int *p) {
  int x = a;
  *p = x;
  g = 1;
  return x;
}
`)
	g := m.Global("g")
	require.NotNil(t, g)
	assert.Equal(t, "GlobalVariable", g.Sort())

	f := m.Function("_Z1fiPi")
	require.NotNil(t, f)
	require.Len(t, f.Args(), 2)
	assert.Equal(t, []string{"a", "p"}, []string{f.Args()[0].Name(), f.Args()[1].Name()})
	assert.Equal(t, "i32*", f.Args()[1].Type().String())

	allocas := ops(f, OpAlloca)
	require.Len(t, allocas, 3)
	assert.Equal(t, "a.addr", allocas[0].Name())
	assert.Equal(t, "p.addr", allocas[1].Name())
	assert.Equal(t, "x", allocas[2].Name())

	stores := ops(f, OpStore)
	require.Len(t, stores, 5)
	assert.Same(t, f.Args()[0], stores[0].ValueOperand())
	assert.Same(t, allocas[0], stores[0].PointerOperand())
	assert.Same(t, allocas[2], stores[2].PointerOperand())
	// *p = x stores through the loaded value of p.
	through, ok := stores[3].PointerOperand().(*Instruction)
	require.True(t, ok)
	assert.Equal(t, OpLoad, through.Op)
	assert.Same(t, allocas[1], through.PointerOperand())
	assert.Same(t, g, stores[4].PointerOperand())

	// Every use is recorded on the used value.
	assert.Contains(t, allocas[2].Users(), stores[2])
	assert.Len(t, f.Args()[0].Users(), 1)

	rets := ops(f, OpRet)
	require.Len(t, rets, 1)
	require.Len(t, rets[0].Operands, 1)
}

func TestLayout(t *testing.T) {
	_, ctx := lowerSource(t, `struct S { char c; int i; double d; };
class P { public: virtual void v(); int x; };
class Q : public P { public: int y; };
struct E {};
`)
	l := NewLayout()
	records := map[string]*cxxast.CXXRecordDecl{}
	for _, d := range ctx.TU.Decls() {
		if r, ok := d.(*cxxast.CXXRecordDecl); ok {
			records[r.Name()] = r
		}
	}
	s := records["S"]
	require.NotNil(t, s)
	st := l.TypeOf(s.TypeForDecl())
	assert.Equal(t, "%struct.S", st.String())
	assert.EqualValues(t, 16, st.Size)
	want := []int64{0, 4, 8}
	for i, f := range s.Fields() {
		off, ok := l.FieldOffset(s, f)
		require.True(t, ok)
		assert.Equal(t, want[i], off, f.Name())
	}

	p, q := records["P"], records["Q"]
	assert.EqualValues(t, 16, l.TypeOf(p.TypeForDecl()).Size)
	assert.EqualValues(t, 24, l.TypeOf(q.TypeForDecl()).Size)
	off, ok := l.FieldOffset(q, p.Fields()[0])
	require.True(t, ok)
	assert.EqualValues(t, 8, off)
	off, ok = l.FieldOffset(q, q.Fields()[0])
	require.True(t, ok)
	assert.EqualValues(t, 16, off)
	off, ok = l.BaseOffset(q, p)
	require.True(t, ok)
	assert.EqualValues(t, 0, off)

	assert.EqualValues(t, 1, l.TypeOf(records["E"].TypeForDecl()).Size)
}

func TestAlias(t *testing.T) {
	m, _ := lowerSource(t, `struct S { int a; int b; };
void f(int *p) {
  int x;
  int y;
  S s;
  x = 1;
  y = 2;
  s.a = 3;
  s.b = 4;
  *p = 5;
}
void h() {
  int *q;
  int z;
  q = &z;
  *q = 1;
  z = 2;
}
`)
	f := m.Function("_Z1fPi")
	require.NotNil(t, f)
	stores := ops(f, OpStore)
	require.Len(t, stores, 6)
	loc := func(i int) Location {
		l, ok := StoreLocation(stores[i])
		require.True(t, ok)
		return l
	}
	aa := NewAliasAnalysis()
	x, y, sa, sb, deref := loc(1), loc(2), loc(3), loc(4), loc(5)
	assert.EqualValues(t, 4, x.Size)

	tests := []struct {
		name string
		a, b Location
		want AliasResult
	}{
		{"same slot", x, x, MustAlias},
		{"distinct slots", x, y, NoAlias},
		{"distinct fields", sa, sb, NoAlias},
		{"field and object", LocationOf(ops(f, OpAlloca)[3]), sb, PartialAlias},
		{"unescaped local and argument", x, deref, NoAlias},
		{"zero size", Location{Ptr: x.Ptr, Size: 0}, x, NoAlias},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, aa.Alias(tc.a, tc.b))
			assert.Equal(t, tc.want, aa.Alias(tc.b, tc.a))
		})
	}

	h := m.Function("_Z1hv")
	require.NotNil(t, h)
	hs := ops(h, OpStore)
	require.Len(t, hs, 3)
	viaQ, ok := StoreLocation(hs[1])
	require.True(t, ok)
	z, ok := StoreLocation(hs[2])
	require.True(t, ok)
	assert.Equal(t, MayAlias, aa.Alias(viaQ, z))

	assert.Equal(t, 0, int(NoAlias))
	assert.Equal(t, 3, int(MustAlias))
	assert.Equal(t, "PartialAlias", PartialAlias.String())
}

func TestLowerNewAndDelete(t *testing.T) {
	m, _ := lowerSource(t, `class A {
public:
  A();
  int v;
};
A::A() { v = 0; }
int main() { A *a = new A; delete a; return 0; }
`)
	main := m.Function("main")
	require.NotNil(t, main)
	calls := ops(main, OpCall)
	require.Len(t, calls, 3)
	assert.Equal(t, OperatorNew, calls[0].CalledFunction().Name())
	size, ok := calls[0].CallArgs()[0].(*Constant)
	require.True(t, ok)
	assert.EqualValues(t, 4, size.Int)
	assert.Equal(t, "_ZN1AC1Ev", calls[1].CalledFunction().Name())
	assert.Equal(t, OperatorDelete, calls[2].CalledFunction().Name())
	assert.True(t, m.Function(OperatorNew).IsDeclaration())

	obj, off, known := Underlying(calls[1].CallArgs()[0])
	assert.Same(t, calls[0], obj)
	assert.Zero(t, off)
	assert.True(t, known)

	ctor := m.Function("_ZN1AC1Ev")
	stores := ops(ctor, OpStore)
	require.Len(t, stores, 2)
	field, ok := stores[1].PointerOperand().(*Instruction)
	require.True(t, ok)
	assert.Equal(t, OpGetElementPtr, field.Op)
	assert.True(t, field.OffsetKnown)
	assert.Zero(t, field.Offset)
}

func TestLowerEmptyUnit(t *testing.T) {
	m, _ := lowerSource(t, "")
	assert.Empty(t, m.Functions())
	assert.Empty(t, m.Globals())
	assert.Nil(t, m.Function("main"))
}
