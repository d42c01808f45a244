// Copyright © 2026 The Crisp authors

package cxxast

// FunctionDecl is implemented by free functions, methods, constructors and
// destructors.  A function is also the context of its parameters and local
// declarations.
type FunctionDecl interface {
	ValueDecl
	DeclContext
	Params() []*ParmVarDecl
	ReturnType() QualType
	// HasBody reports whether this declaration carries a body.
	HasBody() bool
	// Definition returns the declaration of the entity that carries the
	// body, or nil if the function is never defined in the translation unit.
	Definition() FunctionDecl
	IsMain() bool
	IsExternC() bool
	IsVariadic() bool
	function() *Function
}

// CXXMethodDecl is a member function.
type CXXMethodDecl interface {
	FunctionDecl
	Parent() *CXXRecordDecl
	IsVirtual() bool
	IsPure() bool
	IsConst() bool
	IsStatic() bool
	OverriddenMethods() []CXXMethodDecl
	method() *Method
}

// CXXConstructorDecl is a constructor.
type CXXConstructorDecl interface {
	CXXMethodDecl
	Initializers() []*CXXCtorInitializer
	IsDefaultConstructor() bool
}

// CXXDestructorDecl is a destructor.
type CXXDestructorDecl interface {
	CXXMethodDecl
	destructor()
}

// Function is a free function.  Methods embed it.
type Function struct {
	valueBase
	contextBase
	params   []*ParmVarDecl
	body     Stmt
	def      FunctionDecl
	externC  bool
	variadic bool
	Static   bool
	Inline   bool
}

func (f *Function) function() *Function { return f }

// NewFunctionDecl creates a free function declaration.  t must be a
// FunctionProtoType.
func NewFunctionDecl(info DeclInfo, name string, t QualType) *Function {
	f := &Function{}
	f.setup(DeclFunction, f, info)
	f.name = name
	f.typ = t
	return f
}

func (f *Function) Params() []*ParmVarDecl { return f.params }

// AddParam appends a parameter and makes f its context.
func (f *Function) AddParam(p *ParmVarDecl) {
	p.ctx = f.self.(DeclContext)
	p.Index = len(f.params)
	f.params = append(f.params, p)
	f.decls = append(f.decls, p)
}

func (f *Function) ReturnType() QualType {
	if fp, ok := f.typ.TypePtr().(*FunctionProtoType); ok {
		return fp.Result
	}
	return QualType{}
}

func (f *Function) Body() Stmt { return f.body }

func (f *Function) HasBody() bool { return f.body != nil }

// SetBody attaches the body and records f as the definition of its entity.
func (f *Function) SetBody(body Stmt) {
	f.body = body
	self := f.self.(FunctionDecl)
	f.def = self
	if c, ok := f.CanonicalDecl().(FunctionDecl); ok {
		c.function().def = self
	}
}

func (f *Function) Definition() FunctionDecl {
	if f.def != nil {
		return f.def
	}
	if c, ok := f.CanonicalDecl().(FunctionDecl); ok {
		return c.function().def
	}
	return nil
}

func (f *Function) IsMain() bool {
	_, atTU := f.ctx.(*TranslationUnitDecl)
	return atTU && f.name == "main" && f.kind == DeclFunction
}

func (f *Function) IsExternC() bool {
	if f.externC {
		return true
	}
	for ctx := f.LexicalDeclContext(); ctx != nil; ctx = ctx.DeclContext() {
		if ls, ok := ctx.(*LinkageSpecDecl); ok {
			return ls.Language == "C"
		}
	}
	if c, ok := f.CanonicalDecl().(FunctionDecl); ok && c.function() != f {
		return c.IsExternC()
	}
	return false
}

// SetExternC marks a function declared with extern "C" without a block.
func (f *Function) SetExternC() { f.externC = true }

func (f *Function) IsVariadic() bool {
	if fp, ok := f.typ.TypePtr().(*FunctionProtoType); ok {
		return fp.Variadic
	}
	return f.variadic
}

// Method is a non-special member function.  Constructors and destructors
// embed it.
type Method struct {
	Function
	Virtual    bool
	Pure       bool
	overridden []CXXMethodDecl
}

func (m *Method) method() *Method { return m }

func NewCXXMethodDecl(info DeclInfo, name string, t QualType) *Method {
	m := &Method{}
	m.setup(DeclCXXMethod, m, info)
	m.name = name
	m.typ = t
	return m
}

func (m *Method) Parent() *CXXRecordDecl {
	r, _ := m.ctx.(*CXXRecordDecl)
	return r
}

func (m *Method) canonical() *Method {
	if c, ok := m.CanonicalDecl().(CXXMethodDecl); ok {
		return c.method()
	}
	return m
}

// IsVirtual reports whether the method is declared virtual or overrides a
// virtual method.
func (m *Method) IsVirtual() bool {
	c := m.canonical()
	return c.Virtual || len(c.overridden) > 0
}

func (m *Method) IsPure() bool { return m.canonical().Pure }

// IsConst reports whether the method has a const qualifier.
func (m *Method) IsConst() bool {
	if fp, ok := m.typ.TypePtr().(*FunctionProtoType); ok {
		return fp.Const
	}
	return false
}

func (m *Method) IsStatic() bool { return m.canonical().Static }

func (m *Method) OverriddenMethods() []CXXMethodDecl { return m.canonical().overridden }

// AddOverriddenMethod records that m overrides base.
func (m *Method) AddOverriddenMethod(base CXXMethodDecl) {
	c := m.canonical()
	for _, o := range c.overridden {
		if o == base {
			return
		}
	}
	c.overridden = append(c.overridden, base)
}

// CXXCtorInitializer is one entry of a constructor's mem-initializer list.
// Exactly one of Member and BaseClass is set.
type CXXCtorInitializer struct {
	Range     SourceRange
	Member    *FieldDecl
	BaseClass *CXXRecordDecl
	Init      Expr
}

// IsBaseInitializer reports whether the initializer names a base class.
func (i *CXXCtorInitializer) IsBaseInitializer() bool { return i.BaseClass != nil }

// Constructor is a constructor declaration.
type Constructor struct {
	Method
	inits []*CXXCtorInitializer
}

func NewCXXConstructorDecl(info DeclInfo, name string, t QualType) *Constructor {
	c := &Constructor{}
	c.setup(DeclCXXConstructor, c, info)
	c.name = name
	c.typ = t
	return c
}

func (c *Constructor) Initializers() []*CXXCtorInitializer { return c.inits }

// AddInitializer appends a mem-initializer.
func (c *Constructor) AddInitializer(init *CXXCtorInitializer) { c.inits = append(c.inits, init) }

func (c *Constructor) IsDefaultConstructor() bool { return len(c.params) == 0 }

// Destructor is a destructor declaration.
type Destructor struct {
	Method
}

func NewCXXDestructorDecl(info DeclInfo, name string, t QualType) *Destructor {
	d := &Destructor{}
	d.setup(DeclCXXDestructor, d, info)
	d.name = name
	d.typ = t
	return d
}

func (d *Destructor) destructor() {}

func sameParams(a, b FunctionDecl) bool {
	pa, pb := a.Params(), b.Params()
	if len(pa) != len(pb) {
		return false
	}
	for i := range pa {
		if pa[i].Type().CanonicalType() != pb[i].Type().CanonicalType() {
			return false
		}
	}
	return true
}

// SameSignature reports whether two functions have the same name and
// parameter types.  It is the override test used by the frontend.
func SameSignature(a, b FunctionDecl) bool {
	return a.Name() == b.Name() && sameParams(a, b)
}

// StorageClass is the storage class written on a variable declaration.
type StorageClass uint

const (
	StorageNone StorageClass = iota
	StorageStatic
	StorageExtern
)

// VarDecl is implemented by variables and parameters.
type VarDecl interface {
	ValueDecl
	Init() Expr
	HasGlobalStorage() bool
	IsStaticDataMember() bool
	IsLocalVarDecl() bool
	variable() *Variable
}

// Variable is a variable declaration: a global, a local or a static data
// member.
type Variable struct {
	valueBase
	init    Expr
	Storage StorageClass
}

func (v *Variable) variable() *Variable { return v }

func NewVarDecl(info DeclInfo, name string, t QualType, storage StorageClass) *Variable {
	v := &Variable{Storage: storage}
	v.setup(DeclVar, v, info)
	v.name = name
	v.typ = t
	return v
}

func (v *Variable) Init() Expr { return v.init }

// SetInit attaches the initializer expression.
func (v *Variable) SetInit(e Expr) { v.init = e }

func (v *Variable) IsLocalVarDecl() bool {
	if v.kind == DeclParmVar {
		return false
	}
	_, local := v.ctx.(FunctionDecl)
	return local
}

func (v *Variable) IsStaticDataMember() bool {
	_, member := v.ctx.(*CXXRecordDecl)
	return member
}

func (v *Variable) HasGlobalStorage() bool {
	if v.kind == DeclParmVar {
		return false
	}
	if v.IsLocalVarDecl() {
		return v.Storage == StorageStatic || v.Storage == StorageExtern
	}
	return true
}

// ParmVarDecl is a function parameter.
type ParmVarDecl struct {
	Variable
	Index int
}

func NewParmVarDecl(info DeclInfo, name string, t QualType) *ParmVarDecl {
	p := &ParmVarDecl{}
	p.setup(DeclParmVar, p, info)
	p.name = name
	p.typ = t
	return p
}

// DefaultArg returns the default argument expression, or nil.
func (p *ParmVarDecl) DefaultArg() Expr { return p.init }

// SetDefaultArg attaches a default argument.
func (p *ParmVarDecl) SetDefaultArg(e Expr) { p.init = e }

// SetFunctionBody attaches body to f and records f as the definition.
func SetFunctionBody(f FunctionDecl, body Stmt) {
	f.function().SetBody(body)
}

// AddFunctionParam appends a parameter to f.
func AddFunctionParam(f FunctionDecl, p *ParmVarDecl) {
	f.function().AddParam(p)
}

// AddOverriddenMethod records that m overrides base.
func AddOverriddenMethod(m, base CXXMethodDecl) {
	m.method().AddOverriddenMethod(base)
}

// AddCtorInitializer appends a mem-initializer to a constructor.
func AddCtorInitializer(c CXXConstructorDecl, init *CXXCtorInitializer) {
	if ctor, ok := c.(*Constructor); ok {
		ctor.AddInitializer(init)
	}
}

// RequiredParams returns the number of parameters without a default
// argument.
func RequiredParams(f FunctionDecl) int {
	n := 0
	for _, p := range f.Params() {
		if p.DefaultArg() != nil {
			break
		}
		n++
	}
	return n
}
