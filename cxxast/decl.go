// Copyright © 2026 The Crisp authors

package cxxast

import "strings"

// Decl is implemented by every declaration of the program model.
type Decl interface {
	Kind() DeclKind
	// KindName returns the kind name with the "Decl" suffix, as used in
	// isA/2 facts.
	KindName() string
	Location() SourceLocation
	SourceRange() SourceRange
	// DeclContext returns the semantic parent context.  It is nil only for
	// the translation unit.
	DeclContext() DeclContext
	// LexicalDeclContext returns the context the declaration appears in
	// textually.  It differs from DeclContext for out-of-line members.
	LexicalDeclContext() DeclContext
	Access() AccessSpecifier
	IsImplicit() bool
	// Body returns the body attached to this particular declaration, or nil.
	Body() Stmt
	// CanonicalDecl returns the first declaration of the entity.
	CanonicalDecl() Decl
	base() *declBase
}

// NamedDecl is a declaration with a name.
type NamedDecl interface {
	Decl
	Name() string
	QualifiedName() string
}

// ValueDecl is a named declaration with a type.
type ValueDecl interface {
	NamedDecl
	Type() QualType
}

// DeclContext is a declaration that contains other declarations.
type DeclContext interface {
	Decl
	Decls() []Decl
	addDecl(d Decl)
}

type declBase struct {
	kind      DeclKind
	self      Decl
	loc       SourceLocation
	rng       SourceRange
	ctx       DeclContext
	lexical   DeclContext
	access    AccessSpecifier
	implicit  bool
	canonical Decl
}

func (d *declBase) base() *declBase { return d }

func (d *declBase) Kind() DeclKind { return d.kind }

func (d *declBase) KindName() string { return d.kind.String() + "Decl" }

func (d *declBase) Location() SourceLocation { return d.loc }

func (d *declBase) SourceRange() SourceRange { return d.rng }

func (d *declBase) DeclContext() DeclContext { return d.ctx }

func (d *declBase) LexicalDeclContext() DeclContext {
	if d.lexical != nil {
		return d.lexical
	}
	return d.ctx
}

func (d *declBase) Access() AccessSpecifier { return d.access }

func (d *declBase) IsImplicit() bool { return d.implicit }

func (d *declBase) Body() Stmt { return nil }

func (d *declBase) CanonicalDecl() Decl {
	if d.canonical != nil {
		return d.canonical
	}
	return d.self
}

// DeclInfo carries the attributes every declaration constructor takes.
type DeclInfo struct {
	Loc      SourceLocation
	Range    SourceRange
	Context  DeclContext
	Lexical  DeclContext
	Access   AccessSpecifier
	Implicit bool
}

func (d *declBase) setup(kind DeclKind, self Decl, info DeclInfo) {
	d.kind = kind
	d.self = self
	d.loc = info.Loc
	d.rng = info.Range
	d.ctx = info.Context
	d.lexical = info.Lexical
	d.access = info.Access
	d.implicit = info.Implicit
}

// SetCanonicalDecl records prev as the first declaration of d's entity.
func SetCanonicalDecl(d, prev Decl) {
	d.base().canonical = prev.CanonicalDecl()
}

type namedBase struct {
	declBase
	name string
}

func (d *namedBase) Name() string { return d.name }

// QualifiedName joins the names of the enclosing namespaces and records with
// "::".  Anonymous namespaces are spelled "(anonymous namespace)".
func (d *namedBase) QualifiedName() string {
	parts := []string{d.name}
	for ctx := d.ctx; ctx != nil; ctx = ctx.DeclContext() {
		switch c := ctx.(type) {
		case *NamespaceDecl:
			if c.name == "" {
				parts = append(parts, "(anonymous namespace)")
			} else {
				parts = append(parts, c.name)
			}
		case *CXXRecordDecl:
			parts = append(parts, c.name)
		case *EnumDecl:
			if c.Scoped {
				parts = append(parts, c.name)
			}
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "::")
}

type valueBase struct {
	namedBase
	typ QualType
}

func (d *valueBase) Type() QualType { return d.typ }

// SetType replaces the type of a value declaration.  The frontend uses it
// once the declarator has been fully resolved.
func SetType(d ValueDecl, t QualType) {
	switch v := d.(type) {
	case *FieldDecl:
		v.typ = t
	case *Variable:
		v.typ = t
	case *ParmVarDecl:
		v.typ = t
	case *EnumConstantDecl:
		v.typ = t
	case FunctionDecl:
		v.function().typ = t
	}
}

type contextBase struct {
	decls []Decl
}

func (c *contextBase) Decls() []Decl { return c.decls }

func (c *contextBase) addDecl(d Decl) { c.decls = append(c.decls, d) }

// AddDecl appends d to the declarations of ctx.
func AddDecl(ctx DeclContext, d Decl) {
	ctx.addDecl(d)
}

// TranslationUnitDecl is the root of the declaration tree.
type TranslationUnitDecl struct {
	declBase
	contextBase
}

// NewTranslationUnitDecl creates the root declaration.
func NewTranslationUnitDecl(info DeclInfo) *TranslationUnitDecl {
	d := &TranslationUnitDecl{}
	info.Access = AccessNone
	d.setup(DeclTranslationUnit, d, info)
	return d
}

// NamespaceDecl is a namespace.  Anonymous namespaces have an empty name.
type NamespaceDecl struct {
	namedBase
	contextBase
}

func NewNamespaceDecl(info DeclInfo, name string) *NamespaceDecl {
	d := &NamespaceDecl{}
	d.setup(DeclNamespace, d, info)
	d.name = name
	return d
}

// IsAnonymousNamespace reports whether the namespace has no name.
func (d *NamespaceDecl) IsAnonymousNamespace() bool { return d.name == "" }

// LinkageSpecDecl is an extern "C" or extern "C++" block.
type LinkageSpecDecl struct {
	declBase
	contextBase
	Language string
}

func NewLinkageSpecDecl(info DeclInfo, lang string) *LinkageSpecDecl {
	d := &LinkageSpecDecl{Language: lang}
	d.setup(DeclLinkageSpec, d, info)
	return d
}

// TagKind distinguishes class, struct and union records.
type TagKind uint

const (
	TagClass TagKind = iota
	TagStruct
	TagUnion
)

func (k TagKind) String() string {
	switch k {
	case TagStruct:
		return "struct"
	case TagUnion:
		return "union"
	default:
		return "class"
	}
}

// CXXBaseSpecifier is one entry of a class base clause.
type CXXBaseSpecifier struct {
	Range     SourceRange
	Virtual   bool
	AccessAs  AccessSpecifier
	BaseType  QualType
	BaseClass *CXXRecordDecl
}

// Type returns the type named in the base clause.
func (b *CXXBaseSpecifier) Type() QualType { return b.BaseType }

// IsVirtual reports whether the base is a virtual base.
func (b *CXXBaseSpecifier) IsVirtual() bool { return b.Virtual }

// AccessSpecifier returns the access the base was named with.
func (b *CXXBaseSpecifier) AccessSpecifier() AccessSpecifier { return b.AccessAs }

// Decl returns the base class declaration, or nil when it is unknown.
func (b *CXXBaseSpecifier) Decl() *CXXRecordDecl { return b.BaseClass }

// SourceRange returns the range of the base clause entry.
func (b *CXXBaseSpecifier) SourceRange() SourceRange { return b.Range }

// CXXRecordDecl is a class, struct or union.
type CXXRecordDecl struct {
	namedBase
	contextBase
	TagKind     TagKind
	complete    bool
	bases       []*CXXBaseSpecifier
	definition  *CXXRecordDecl
	typeForDecl QualType
}

func NewCXXRecordDecl(info DeclInfo, tag TagKind, name string) *CXXRecordDecl {
	d := &CXXRecordDecl{TagKind: tag}
	d.setup(DeclCXXRecord, d, info)
	d.name = name
	return d
}

// SetComplete marks the record as a definition.
func (d *CXXRecordDecl) SetComplete() {
	d.complete = true
	d.definition = d
	if c, ok := d.CanonicalDecl().(*CXXRecordDecl); ok && c != d {
		c.definition = d
	}
}

// AddBase appends a base specifier.
func (d *CXXRecordDecl) AddBase(b *CXXBaseSpecifier) { d.bases = append(d.bases, b) }

// SetTypeForDecl records the RecordType created for the declaration.
func (d *CXXRecordDecl) SetTypeForDecl(t QualType) { d.typeForDecl = t }

// TypeForDecl returns the record type of the declaration.
func (d *CXXRecordDecl) TypeForDecl() QualType { return d.typeForDecl }

// IsCompleteDefinition reports whether this declaration is the definition.
func (d *CXXRecordDecl) IsCompleteDefinition() bool { return d.complete }

// HasDefinition reports whether any declaration of the record is a
// definition.
func (d *CXXRecordDecl) HasDefinition() bool { return d.Definition() != nil }

// Definition returns the defining declaration, or nil.
func (d *CXXRecordDecl) Definition() *CXXRecordDecl {
	if d.definition != nil {
		return d.definition
	}
	if c, ok := d.CanonicalDecl().(*CXXRecordDecl); ok {
		return c.definition
	}
	return nil
}

// IsStruct reports whether the record was declared with "struct".
func (d *CXXRecordDecl) IsStruct() bool { return d.TagKind == TagStruct }

// IsClass reports whether the record was declared with "class".
func (d *CXXRecordDecl) IsClass() bool { return d.TagKind == TagClass }

// IsUnion reports whether the record was declared with "union".
func (d *CXXRecordDecl) IsUnion() bool { return d.TagKind == TagUnion }

// Bases returns the base specifiers of the definition.
func (d *CXXRecordDecl) Bases() []*CXXBaseSpecifier {
	if def := d.Definition(); def != nil {
		return def.bases
	}
	return d.bases
}

// Methods returns the methods declared in the definition, constructors and
// destructors included.
func (d *CXXRecordDecl) Methods() []CXXMethodDecl {
	var ms []CXXMethodDecl
	for _, m := range d.members() {
		if m, ok := m.(CXXMethodDecl); ok {
			ms = append(ms, m)
		}
	}
	return ms
}

// Ctors returns the constructors declared in the definition.
func (d *CXXRecordDecl) Ctors() []CXXConstructorDecl {
	var cs []CXXConstructorDecl
	for _, m := range d.members() {
		if c, ok := m.(CXXConstructorDecl); ok {
			cs = append(cs, c)
		}
	}
	return cs
}

// Destructor returns the declared destructor, or nil.
func (d *CXXRecordDecl) Destructor() CXXDestructorDecl {
	for _, m := range d.members() {
		if dd, ok := m.(CXXDestructorDecl); ok {
			return dd
		}
	}
	return nil
}

// Fields returns the non-static data members.
func (d *CXXRecordDecl) Fields() []*FieldDecl {
	var fs []*FieldDecl
	for _, m := range d.members() {
		if f, ok := m.(*FieldDecl); ok {
			fs = append(fs, f)
		}
	}
	return fs
}

func (d *CXXRecordDecl) members() []Decl {
	if def := d.Definition(); def != nil {
		return def.decls
	}
	return d.decls
}

// IsPolymorphic reports whether the class declares or inherits a virtual
// method.
func (d *CXXRecordDecl) IsPolymorphic() bool {
	return d.anyMethod(func(m CXXMethodDecl) bool { return m.IsVirtual() })
}

// IsAbstract reports whether the class declares or inherits a pure virtual
// method that is not overridden.
func (d *CXXRecordDecl) IsAbstract() bool {
	for _, m := range d.Methods() {
		if m.IsPure() {
			return true
		}
	}
	for _, b := range d.Bases() {
		if b.BaseClass == nil || !b.BaseClass.IsAbstract() {
			continue
		}
		for _, m := range b.BaseClass.Methods() {
			if m.IsPure() && d.findOverrider(m) == nil {
				return true
			}
		}
	}
	return false
}

func (d *CXXRecordDecl) anyMethod(pred func(CXXMethodDecl) bool) bool {
	for _, m := range d.Methods() {
		if pred(m) {
			return true
		}
	}
	for _, b := range d.Bases() {
		if b.BaseClass != nil && b.BaseClass != d && b.BaseClass.anyMethod(pred) {
			return true
		}
	}
	return false
}

func (d *CXXRecordDecl) findOverrider(m CXXMethodDecl) CXXMethodDecl {
	for _, own := range d.Methods() {
		if own.Name() == m.Name() && sameParams(own, m) {
			return own
		}
	}
	return nil
}

// IsDerivedFrom reports whether base is a direct or indirect base of d.
func (d *CXXRecordDecl) IsDerivedFrom(base *CXXRecordDecl) bool {
	for _, b := range d.Bases() {
		if b.BaseClass == nil {
			continue
		}
		if b.BaseClass == base || b.BaseClass.CanonicalDecl() == base.CanonicalDecl() {
			return true
		}
		if b.BaseClass != d && b.BaseClass.IsDerivedFrom(base) {
			return true
		}
	}
	return false
}

// AccessSpecDecl records an access label such as "public:".
type AccessSpecDecl struct {
	declBase
}

func NewAccessSpecDecl(info DeclInfo) *AccessSpecDecl {
	d := &AccessSpecDecl{}
	d.setup(DeclAccessSpec, d, info)
	return d
}

// FieldDecl is a non-static data member.
type FieldDecl struct {
	valueBase
	Mutable bool
	init    Expr
}

func NewFieldDecl(info DeclInfo, name string, t QualType) *FieldDecl {
	d := &FieldDecl{}
	d.setup(DeclField, d, info)
	d.name = name
	d.typ = t
	return d
}

// Parent returns the record the field belongs to.
func (d *FieldDecl) Parent() *CXXRecordDecl {
	r, _ := d.ctx.(*CXXRecordDecl)
	return r
}

// InClassInitializer returns the default member initializer, or nil.
func (d *FieldDecl) InClassInitializer() Expr { return d.init }

// SetInClassInitializer sets the default member initializer.
func (d *FieldDecl) SetInClassInitializer(e Expr) { d.init = e }

// TypedefDecl is a typedef or alias declaration.
type TypedefDecl struct {
	namedBase
	Underlying QualType
}

func NewTypedefDecl(info DeclInfo, name string, underlying QualType) *TypedefDecl {
	d := &TypedefDecl{Underlying: underlying}
	d.setup(DeclTypedef, d, info)
	d.name = name
	return d
}

// UnderlyingType returns the aliased type.
func (d *TypedefDecl) UnderlyingType() QualType { return d.Underlying }

// EnumDecl is an enumeration.
type EnumDecl struct {
	namedBase
	contextBase
	Scoped      bool
	typeForDecl QualType
}

func NewEnumDecl(info DeclInfo, name string, scoped bool) *EnumDecl {
	d := &EnumDecl{Scoped: scoped}
	d.setup(DeclEnum, d, info)
	d.name = name
	return d
}

// SetTypeForDecl records the EnumType created for the declaration.
func (d *EnumDecl) SetTypeForDecl(t QualType) { d.typeForDecl = t }

// Enumerators returns the enumerator declarations.
func (d *EnumDecl) Enumerators() []*EnumConstantDecl {
	var es []*EnumConstantDecl
	for _, m := range d.decls {
		if e, ok := m.(*EnumConstantDecl); ok {
			es = append(es, e)
		}
	}
	return es
}

// EnumConstantDecl is one enumerator.
type EnumConstantDecl struct {
	valueBase
	Value int64
	init  Expr
}

func NewEnumConstantDecl(info DeclInfo, name string, t QualType, value int64, init Expr) *EnumConstantDecl {
	d := &EnumConstantDecl{Value: value, init: init}
	d.setup(DeclEnumConstant, d, info)
	d.name = name
	d.typ = t
	return d
}

// InitExpr returns the explicit initializer expression, or nil.
func (d *EnumConstantDecl) InitExpr() Expr { return d.init }

// InitVal returns the value of the enumerator.
func (d *EnumConstantDecl) InitVal() int { return int(d.Value) }
