// Copyright © 2026 The Crisp authors

package cxxast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresumedLoc(t *testing.T) {
	src := "int a;\n#line 100 \"gen.y\"\nint b;\nint c;\n#line 7\nint d;\n"
	sm := NewSourceManager()
	id := sm.AddFile("main.cpp", []byte(src))
	assert.Equal(t, id, sm.MainFileID())
	assert.Equal(t, "main.cpp", sm.MainFileName())

	offset := func(needle string) int {
		for i := 0; i+len(needle) <= len(src); i++ {
			if src[i:i+len(needle)] == needle {
				return i
			}
		}
		t.Fatalf("%q not found", needle)
		return -1
	}

	tests := []struct {
		needle string
		file   string
		line   int
		col    int
	}{
		{"a;", "main.cpp", 1, 5},
		{"int b", "gen.y", 100, 1},
		{"c;", "gen.y", 101, 5},
		{"d;", "gen.y", 7, 5},
	}
	for _, test := range tests {
		p := sm.PresumedLoc(sm.Loc(id, offset(test.needle)))
		assert.True(t, p.IsValid(), test.needle)
		assert.Equal(t, test.file, p.Filename, test.needle)
		assert.Equal(t, test.line, p.Line, test.needle)
		assert.Equal(t, test.col, p.Column, test.needle)
	}
	phys := sm.PhysicalLoc(sm.Loc(id, offset("d;")))
	assert.Equal(t, 6, phys.Line)
	assert.False(t, sm.PresumedLoc(SourceLocation{}).IsValid())
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, "CXXConstructorDecl", NewCXXConstructorDecl(DeclInfo{}, "B", QualType{}).KindName())
	assert.Equal(t, "CXXMemberCallExpr", ExprCXXMemberCall.String())
	assert.Equal(t, "Pointer", TypePointer.String())
	assert.Equal(t, "private", AccessPrivate.String())
	assert.Equal(t, "Invalid", DeclKindMax.String())
}

// record builds "class name { ... }" at the top of ctx.
func record(ctx *ASTContext, parent DeclContext, name string) *CXXRecordDecl {
	r := NewCXXRecordDecl(DeclInfo{Context: parent, Access: AccessNone}, TagClass, name)
	AddDecl(parent, r)
	r.SetComplete()
	ctx.RecordType(r)
	return r
}

func TestTypesTable(t *testing.T) {
	ctx := NewASTContext(NewSourceManager())
	i1 := ctx.BuiltinType("int")
	i2 := ctx.BuiltinType("signed int")
	assert.Equal(t, i1, i2)
	assert.Equal(t, "unsigned long long", NormalizeBuiltinName("long long unsigned int"))

	p1 := ctx.PointerType(i1)
	p2 := ctx.PointerType(i1)
	assert.Equal(t, p1, p2)
	assert.Equal(t, "int *", p1.AsString())
	assert.Equal(t, "const int *", ctx.PointerType(i1.WithConst()).AsString())
	assert.Equal(t, "int *const", p1.WithConst().AsString())

	td := NewTypedefDecl(DeclInfo{Context: ctx.TU}, "IntPtr", p1)
	tdt := ctx.TypedefType(td)
	assert.NotEqual(t, p1, tdt)
	assert.Equal(t, p1, tdt.CanonicalType())
	assert.True(t, tdt.TypePtr().IsPointerType())
	assert.Equal(t, i1, tdt.TypePtr().PointeeType())
	assert.True(t, i1.TypePtr().PointeeType().IsNull())

	cq := i1.WithConst()
	assert.True(t, cq.IsConstQualified())
	assert.Equal(t, i1, cq.UnqualifiedType())
	assert.Equal(t, i1.TypePtr(), cq.TypePtr())

	fp := ctx.FunctionProtoType(ctx.VoidType(), []QualType{tdt}, false, true)
	assert.Equal(t, "void (IntPtr) const", fp.AsString())
	canon := fp.CanonicalType()
	assert.NotEqual(t, fp, canon)
	assert.Equal(t, "void (int *) const", canon.AsString())

	// Creation order is the order of first use.
	types := ctx.Types()
	require.NotEmpty(t, types)
	assert.Equal(t, i1.TypePtr(), types[0])
}

func TestRecordQueries(t *testing.T) {
	ctx := NewASTContext(NewSourceManager())
	base := record(ctx, ctx.TU, "A")
	fnType := ctx.FunctionProtoType(ctx.VoidType(), nil, false, false)
	pure := NewCXXMethodDecl(DeclInfo{Context: base, Access: AccessPublic}, "run", fnType)
	pure.Virtual = true
	pure.Pure = true
	AddDecl(base, pure)

	derived := record(ctx, ctx.TU, "B")
	derived.AddBase(&CXXBaseSpecifier{BaseType: base.TypeForDecl(), BaseClass: base, AccessAs: AccessPublic})
	over := NewCXXMethodDecl(DeclInfo{Context: derived, Access: AccessPublic}, "run", fnType)
	over.AddOverriddenMethod(pure)
	AddDecl(derived, over)

	assert.True(t, base.IsPolymorphic())
	assert.True(t, base.IsAbstract())
	assert.True(t, derived.IsPolymorphic())
	assert.False(t, derived.IsAbstract())
	assert.True(t, over.IsVirtual())
	assert.True(t, derived.IsDerivedFrom(base))
	assert.False(t, base.IsDerivedFrom(derived))
	assert.Equal(t, "B::run", over.QualifiedName())

	found := LookupMember(derived, "run")
	require.Len(t, found, 1)
	assert.Same(t, over, found[0])
}

func TestOutOfLineDefinition(t *testing.T) {
	ctx := NewASTContext(NewSourceManager())
	b := record(ctx, ctx.TU, "B")
	fnType := ctx.FunctionProtoType(ctx.VoidType(), nil, false, false)
	decl := NewCXXConstructorDecl(DeclInfo{Context: b, Access: AccessPublic}, "B", fnType)
	AddDecl(b, decl)
	def := NewCXXConstructorDecl(DeclInfo{Context: b, Lexical: ctx.TU, Access: AccessPublic}, "B", fnType)
	SetCanonicalDecl(def, decl)
	AddDecl(ctx.TU, def)
	def.SetBody(NewCompoundStmt(SourceRange{}, nil))

	assert.False(t, decl.HasBody())
	assert.True(t, def.HasBody())
	assert.Same(t, decl, def.CanonicalDecl())
	assert.Same(t, def, decl.Definition())
	assert.Same(t, b, def.Parent())
	assert.Equal(t, ctx.TU, def.LexicalDeclContext())
	require.Len(t, b.Ctors(), 1)
}

func TestMangle(t *testing.T) {
	ctx := NewASTContext(NewSourceManager())
	m := NewMangler()
	void := ctx.VoidType()
	b := record(ctx, ctx.TU, "B")
	bp := ctx.PointerType(b.TypeForDecl())

	ctor := NewCXXConstructorDecl(DeclInfo{Context: b}, "B", ctx.FunctionProtoType(void, nil, false, false))
	ctor2 := NewCXXConstructorDecl(DeclInfo{Context: b}, "B", ctx.FunctionProtoType(void, []QualType{bp}, false, false))
	ctor2.AddParam(NewParmVarDecl(DeclInfo{}, "other", bp))
	dtor := NewCXXDestructorDecl(DeclInfo{Context: b}, "~B", ctx.FunctionProtoType(void, nil, false, false))
	get := NewCXXMethodDecl(DeclInfo{Context: b}, "get", ctx.FunctionProtoType(ctx.IntType(), nil, false, true))

	ns := NewNamespaceDecl(DeclInfo{Context: ctx.TU}, "ns")
	free := NewFunctionDecl(DeclInfo{Context: ns}, "f", ctx.FunctionProtoType(void, []QualType{ctx.IntType(), ctx.PointerType(ctx.BuiltinType("char").WithConst())}, false, false))
	free.AddParam(NewParmVarDecl(DeclInfo{}, "a", ctx.IntType()))
	free.AddParam(NewParmVarDecl(DeclInfo{}, "s", ctx.PointerType(ctx.BuiltinType("char").WithConst())))

	main := NewFunctionDecl(DeclInfo{Context: ctx.TU}, "main", ctx.FunctionProtoType(ctx.IntType(), nil, false, false))
	cfn := NewFunctionDecl(DeclInfo{Context: ctx.TU}, "c_func", ctx.FunctionProtoType(void, nil, false, false))
	cfn.SetExternC()

	global := NewVarDecl(DeclInfo{Context: ctx.TU}, "I01", ctx.IntType(), StorageNone)
	anon := NewNamespaceDecl(DeclInfo{Context: ctx.TU}, "")
	hidden := NewVarDecl(DeclInfo{Context: anon}, "I05", ctx.IntType(), StorageNone)
	member := NewVarDecl(DeclInfo{Context: b}, "count", ctx.IntType(), StorageStatic)

	tests := []struct {
		decl NamedDecl
		want string
	}{
		{ctor, "_ZN1BC1Ev"},
		{ctor2, "_ZN1BC1EPS_"},
		{dtor, "_ZN1BD1Ev"},
		{get, "_ZNK1B3getEv"},
		{free, "_ZN2ns1fEiPKc"},
		{main, "main"},
		{cfn, "c_func"},
		{global, "I01"},
		{hidden, "_ZN12_GLOBAL__N_13I05E"},
		{member, "_ZN1B5countE"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, m.Mangle(test.decl), test.decl.QualifiedName())
	}
	assert.False(t, m.ShouldMangle(main))
	assert.True(t, m.ShouldMangle(ctor))
}

func TestDescendantCursor(t *testing.T) {
	ctx := NewASTContext(NewSourceManager())
	one := NewIntegerLiteral(SourceRange{}, 1, ctx.IntType())
	two := NewIntegerLiteral(SourceRange{}, 2, ctx.IntType())
	sum := NewBinaryOperator(SourceRange{}, "+", one, two, ctx.IntType())
	ret := NewReturnStmt(SourceRange{}, sum)
	null := NewNullStmt(SourceRange{})
	body := NewCompoundStmt(SourceRange{}, []Stmt{ret, null})

	got := Descendants(body)
	assert.Equal(t, []Stmt{ret, sum, one, two, null}, got)
	assert.Empty(t, Descendants(null))

	var classes []string
	Inspect(body, func(n Node) bool {
		if s, ok := n.(Stmt); ok {
			classes = append(classes, s.StmtClassName())
		}
		return true
	})
	assert.Equal(t, []string{"CompoundStmt", "ReturnStmt", "BinaryOperator", "IntegerLiteral", "IntegerLiteral", "NullStmt"}, classes)
}

func TestImplicitThis(t *testing.T) {
	ctx := NewASTContext(NewSourceManager())
	b := record(ctx, ctx.TU, "B")
	bp := ctx.PointerType(b.TypeForDecl())
	m := NewCXXMethodDecl(DeclInfo{Context: b}, "func", ctx.FunctionProtoType(ctx.VoidType(), nil, false, false))

	implicit := NewCXXThisExpr(SourceRange{}, bp, true)
	call := NewCXXMemberCallExpr(SourceRange{}, NewMemberExpr(SourceRange{}, implicit, true, "func", m, m.Type()), nil, m, ctx.VoidType())
	assert.True(t, call.ImplicitObjectArgument().IsImplicitCXXThis())
	assert.Same(t, m, call.MethodDecl())
	assert.Equal(t, Expr(implicit), call.ImplicitObjectArgument())

	explicit := NewParenExpr(SourceRange{}, NewCXXThisExpr(SourceRange{}, bp, false))
	assert.False(t, explicit.IsImplicitCXXThis())
	assert.Equal(t, ExprCXXThis, explicit.IgnoreParenImpCasts().StmtClass())

	var plain CallExpr = NewCallExpr(SourceRange{}, nil, nil, nil, ctx.VoidType())
	assert.Nil(t, plain.DirectCallee())
}
