// Copyright © 2026 The Crisp authors

package frontend

import (
	"strconv"
	"strings"

	"github.com/crisp-analysis/crisp/cxxast"
	"github.com/golang/glog"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// site is the context a declaration is built in.
type site struct {
	dc     cxxast.DeclContext
	access cxxast.AccessSpecifier
}

// declarations builds the top-level items of n into dc.
func (b *builder) declarations(n *sitter.Node, dc cxxast.DeclContext) {
	for _, c := range namedChildren(n) {
		b.topLevel(c, site{dc: dc, access: cxxast.AccessNone})
	}
}

func (b *builder) topLevel(n *sitter.Node, s site) {
	switch n.Kind() {
	case "namespace_definition":
		b.namespace(n, s.dc)
	case "linkage_specification":
		b.linkage(n, s.dc)
	case "function_definition":
		b.functionDefinition(n, s)
	case "declaration":
		b.declaration(n, s)
	case "type_definition":
		b.typedef(n, s)
	case "alias_declaration":
		b.alias(n, s)
	case "class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
		b.typeOf(n, s)
	case "declaration_list", "preproc_if", "preproc_ifdef", "preproc_else", "preproc_elif":
		for _, c := range namedChildren(n) {
			b.topLevel(c, s)
		}
	case "template_declaration":
		glog.V(2).Infof("%s: templates are not modelled", b.pos(n))
	}
}

func (b *builder) namespace(n *sitter.Node, dc cxxast.DeclContext) {
	var names []string
	if name := n.ChildByFieldName("name"); name != nil {
		if name.Kind() == "nested_namespace_specifier" {
			for _, c := range namedChildren(name) {
				names = append(names, b.text(c))
			}
		} else {
			names = append(names, b.text(name))
		}
	} else {
		names = append(names, "")
	}
	for _, name := range names {
		dc = b.openNamespace(n, dc, name)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		b.declarations(body, dc)
	}
}

// openNamespace reuses a namespace already declared in dc.  Reopening a
// namespace extends the first declaration.
func (b *builder) openNamespace(n *sitter.Node, dc cxxast.DeclContext, name string) *cxxast.NamespaceDecl {
	for _, d := range dc.Decls() {
		if ns, ok := d.(*cxxast.NamespaceDecl); ok && ns.Name() == name {
			return ns
		}
	}
	ns := cxxast.NewNamespaceDecl(cxxast.DeclInfo{
		Loc:     b.loc(n),
		Range:   b.rng(n),
		Context: dc,
		Access:  cxxast.AccessNone,
	}, name)
	cxxast.AddDecl(dc, ns)
	return ns
}

func (b *builder) linkage(n *sitter.Node, dc cxxast.DeclContext) {
	lang := strings.Trim(b.text(n.ChildByFieldName("value")), `"`)
	ls := cxxast.NewLinkageSpecDecl(cxxast.DeclInfo{
		Loc:     b.loc(n),
		Range:   b.rng(n),
		Context: dc,
		Access:  cxxast.AccessNone,
	}, lang)
	cxxast.AddDecl(dc, ls)
	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	if body.Kind() == "declaration_list" {
		b.declarations(body, ls)
		return
	}
	b.topLevel(body, site{dc: ls, access: cxxast.AccessNone})
}

// specifiers are the keywords of a declaration that are not part of a
// declarator.
type specifiers struct {
	typeNode *sitter.Node
	quals    cxxast.Qualifiers
	static   bool
	extern   bool
	inline   bool
	virtual  bool
}

func (b *builder) specifiers(n *sitter.Node) specifiers {
	sp := specifiers{typeNode: n.ChildByFieldName("type")}
	for _, c := range children(n) {
		switch c.Kind() {
		case "type_qualifier":
			sp.quals |= qualifier(b.text(c))
		case "storage_class_specifier":
			switch b.text(c) {
			case "static":
				sp.static = true
			case "extern":
				sp.extern = true
			case "inline":
				sp.inline = true
			}
		case "virtual", "virtual_function_specifier":
			sp.virtual = true
		}
	}
	return sp
}

func qualifier(s string) cxxast.Qualifiers {
	switch s {
	case "const", "constexpr":
		return cxxast.Const
	case "volatile":
		return cxxast.Volatile
	case "restrict", "__restrict":
		return cxxast.Restrict
	}
	return 0
}

var declaratorKinds = map[string]bool{
	"identifier":               true,
	"field_identifier":         true,
	"type_identifier":          true,
	"qualified_identifier":     true,
	"destructor_name":          true,
	"operator_name":            true,
	"init_declarator":          true,
	"pointer_declarator":       true,
	"reference_declarator":     true,
	"array_declarator":         true,
	"function_declarator":      true,
	"parenthesized_declarator": true,
	"attributed_declarator":    true,
	"template_function":        true,
}

// declaratorsOf returns the declarators of a declaration in order.  The
// type specifier is skipped by position; a default value or bitfield ends
// the list.
func (b *builder) declaratorsOf(n, typeNode *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for _, c := range children(n) {
		if sameNode(c, typeNode) {
			continue
		}
		if c.Kind() == "=" || c.Kind() == "bitfield_clause" {
			break
		}
		if c.IsNamed() && declaratorKinds[c.Kind()] {
			out = append(out, c)
		}
	}
	return out
}

type paramInfo struct {
	node *sitter.Node
	name string
	t    cxxast.QualType
	def  *sitter.Node
}

// declResult is the outcome of walking a declarator.
type declResult struct {
	t      cxxast.QualType
	name   *sitter.Node
	value  *sitter.Node
	fn     bool
	params []paramInfo
}

func isNameNode(n *sitter.Node) bool {
	switch n.Kind() {
	case "identifier", "field_identifier", "type_identifier", "qualified_identifier",
		"destructor_name", "operator_name", "template_function":
		return true
	}
	return false
}

// declarator applies the declarator n to the type t, innermost last.
func (b *builder) declarator(n *sitter.Node, t cxxast.QualType, s site) declResult {
	if n == nil {
		return declResult{t: t}
	}
	switch n.Kind() {
	case "init_declarator":
		r := b.declarator(n.ChildByFieldName("declarator"), t, s)
		r.value = n.ChildByFieldName("value")
		return r
	case "pointer_declarator", "abstract_pointer_declarator":
		pt := b.ctx.PointerType(t)
		for _, c := range children(n) {
			if c.Kind() == "type_qualifier" {
				pt = pt.WithQuals(qualifier(b.text(c)))
			}
		}
		return b.declarator(n.ChildByFieldName("declarator"), pt, s)
	case "reference_declarator", "abstract_reference_declarator":
		return b.declarator(lastNamedChild(n), b.ctx.LValueReferenceType(t), s)
	case "array_declarator", "abstract_array_declarator":
		var size int64
		if sz := n.ChildByFieldName("size"); sz != nil {
			size, _ = strconv.ParseInt(strings.TrimRight(b.text(sz), "uUlL"), 0, 64)
		}
		return b.declarator(n.ChildByFieldName("declarator"), b.ctx.ConstantArrayType(t, size), s)
	case "function_declarator", "abstract_function_declarator":
		params, variadic := b.parameters(n.ChildByFieldName("parameters"), s)
		isConst := false
		for _, c := range children(n) {
			if c.Kind() == "type_qualifier" && b.text(c) == "const" {
				isConst = true
			}
		}
		pts := make([]cxxast.QualType, len(params))
		for i, p := range params {
			pts[i] = p.t
		}
		inner := n.ChildByFieldName("declarator")
		r := b.declarator(inner, b.ctx.FunctionProtoType(t, pts, variadic, isConst), s)
		if inner != nil && isNameNode(inner) {
			r.fn = true
			r.params = params
		}
		return r
	case "parenthesized_declarator", "attributed_declarator", "abstract_parenthesized_declarator":
		return b.declarator(firstNamedChild(n), t, s)
	}
	if isNameNode(n) {
		return declResult{t: t, name: n}
	}
	return declResult{t: t}
}

func (b *builder) parameters(list *sitter.Node, s site) ([]paramInfo, bool) {
	var params []paramInfo
	variadic := false
	for _, c := range children(list) {
		switch c.Kind() {
		case "...", "variadic_parameter":
			variadic = true
		case "parameter_declaration", "optional_parameter_declaration":
			sp := b.specifiers(c)
			base := b.typeOf(sp.typeNode, s).WithQuals(sp.quals)
			decl := c.ChildByFieldName("declarator")
			if decl == nil && base.TypePtr() != nil && base.TypePtr().IsVoidType() && len(namedChildren(list)) == 1 {
				return nil, false
			}
			r := b.declarator(decl, base, s)
			p := paramInfo{node: c, t: b.decay(r.t), def: c.ChildByFieldName("default_value")}
			if r.name != nil {
				p.name = b.text(r.name)
			}
			params = append(params, p)
		}
	}
	return params, variadic
}

// decay applies the array-to-pointer and function-to-pointer adjustments of
// parameter types.
func (b *builder) decay(t cxxast.QualType) cxxast.QualType {
	switch ct := t.CanonicalType().TypePtr().(type) {
	case *cxxast.ConstantArrayType:
		return b.ctx.PointerType(ct.Element)
	case *cxxast.FunctionProtoType:
		return b.ctx.PointerType(t)
	}
	return t
}

func (b *builder) functionDefinition(n *sitter.Node, s site) {
	sp := b.specifiers(n)
	base := b.typeOf(sp.typeNode, s).WithQuals(sp.quals)
	r := b.declarator(n.ChildByFieldName("declarator"), base, s)
	if !r.fn {
		glog.V(2).Infof("%s: skipping definition without a function declarator", b.pos(n))
		return
	}
	fn := b.declareFunction(n, r, s, sp, false)
	if fn == nil {
		return
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	var inits *sitter.Node
	for _, c := range children(n) {
		if c.Kind() == "field_initializer_list" {
			inits = c
		}
	}
	b.funcs = append(b.funcs, pendingBody{fn: fn, body: body, inits: inits})
}

// declaration builds a simple declaration at namespace or class scope.
func (b *builder) declaration(n *sitter.Node, s site) {
	sp := b.specifiers(n)
	base := b.typeOf(sp.typeNode, s).WithQuals(sp.quals)
	for _, d := range b.declaratorsOf(n, sp.typeNode) {
		r := b.declarator(d, base, s)
		if r.name == nil {
			continue
		}
		if r.fn {
			b.declareFunction(n, r, s, sp, false)
			continue
		}
		b.declareVariable(n, r, s, sp)
	}
}

func (b *builder) declareVariable(n *sitter.Node, r declResult, s site, sp specifiers) *cxxast.Variable {
	storage := cxxast.StorageNone
	switch {
	case sp.static:
		storage = cxxast.StorageStatic
	case sp.extern:
		storage = cxxast.StorageExtern
	}
	semantic, nameNode := s.dc, r.name
	if r.name.Kind() == "qualified_identifier" {
		semantic, nameNode = b.qualified(r.name, s.dc)
		if semantic == nil {
			semantic = s.dc
		}
	}
	name := b.text(nameNode)
	info := cxxast.DeclInfo{
		Loc:     b.loc(nameNode),
		Range:   b.rng(n),
		Context: semantic,
		Access:  s.access,
	}
	if semantic != s.dc {
		info.Lexical = s.dc
	}
	var prev *cxxast.Variable
	for _, d := range semantic.Decls() {
		if v, ok := d.(*cxxast.Variable); ok && v.Name() == name {
			prev = v
		}
	}
	if prev != nil {
		info.Access = prev.Access()
		if storage == cxxast.StorageNone {
			storage = prev.Storage
		}
	}
	v := cxxast.NewVarDecl(info, name, r.t, storage)
	if prev != nil {
		cxxast.SetCanonicalDecl(v, prev)
	}
	cxxast.AddDecl(s.dc, v)
	if r.value != nil {
		dc := semantic
		b.inits = append(b.inits, pendingInit{dc: dc, node: r.value, t: r.t, apply: func(e cxxast.Expr) { v.SetInit(e) }})
	}
	return v
}

// functionName returns the simple name of the declared function and the
// context it is a member of.
func (b *builder) functionName(nameNode *sitter.Node, dc cxxast.DeclContext) (string, cxxast.DeclContext, bool) {
	semantic := dc
	if nameNode.Kind() == "qualified_identifier" {
		var n *sitter.Node
		semantic, n = b.qualified(nameNode, dc)
		if semantic == nil {
			return "", nil, false
		}
		nameNode = n
	}
	switch nameNode.Kind() {
	case "destructor_name":
		return "~" + strings.TrimSpace(strings.TrimPrefix(b.text(nameNode), "~")), semantic, true
	case "operator_name":
		return "operator" + strings.Join(strings.Fields(strings.TrimPrefix(b.text(nameNode), "operator")), ""), semantic, false
	case "template_function":
		return b.text(nameNode.ChildByFieldName("name")), semantic, false
	}
	return b.text(nameNode), semantic, false
}

// declareFunction creates the declaration of a function, method,
// constructor or destructor and links it to a previous declaration of the
// same entity.
func (b *builder) declareFunction(n *sitter.Node, r declResult, s site, sp specifiers, pure bool) cxxast.FunctionDecl {
	name, semantic, dtor := b.functionName(r.name, s.dc)
	if semantic == nil {
		glog.V(1).Infof("%s: unknown scope of %s", b.pos(n), b.text(r.name))
		return nil
	}
	record, member := semantic.(*cxxast.CXXRecordDecl)
	ctor := member && !dtor && sp.typeNode == nil && name == record.Name()

	info := cxxast.DeclInfo{
		Loc:     b.loc(r.name),
		Range:   b.rng(n),
		Context: semantic,
		Access:  s.access,
	}
	if semantic != s.dc {
		info.Lexical = s.dc
	}
	prev := b.previousFunction(semantic, name, r.t, member)
	if prev != nil {
		info.Access = prev.Access()
	}

	var fn cxxast.FunctionDecl
	switch {
	case member && dtor:
		d := cxxast.NewCXXDestructorDecl(info, name, r.t)
		d.Virtual = sp.virtual
		d.Inline = sp.inline
		fn = d
	case ctor:
		c := cxxast.NewCXXConstructorDecl(info, name, r.t)
		c.Inline = sp.inline
		fn = c
	case member:
		m := cxxast.NewCXXMethodDecl(info, name, r.t)
		m.Virtual = sp.virtual
		m.Pure = pure
		m.Static = sp.static
		m.Inline = sp.inline
		fn = m
	default:
		f := cxxast.NewFunctionDecl(info, name, r.t)
		f.Static = sp.static
		f.Inline = sp.inline
		fn = f
	}
	if prev != nil {
		cxxast.SetCanonicalDecl(fn, prev)
	}
	for _, p := range r.params {
		pv := cxxast.NewParmVarDecl(cxxast.DeclInfo{
			Loc:    b.loc(p.node),
			Range:  b.rng(p.node),
			Access: cxxast.AccessNone,
		}, p.name, p.t)
		cxxast.AddFunctionParam(fn, pv)
		if p.def != nil {
			b.inits = append(b.inits, pendingInit{dc: fn, node: p.def, t: p.t, apply: func(e cxxast.Expr) { pv.SetDefaultArg(e) }})
		}
	}
	cxxast.AddDecl(s.dc, fn)
	return fn
}

// previousFunction finds an earlier declaration of the same function in
// context dc.
func (b *builder) previousFunction(dc cxxast.DeclContext, name string, t cxxast.QualType, member bool) cxxast.FunctionDecl {
	var decls []cxxast.Decl
	if member {
		decls = dc.Decls()
	} else {
		decls = b.visibleDecls(dc)
	}
	for _, d := range decls {
		f, ok := d.(cxxast.FunctionDecl)
		if !ok || f.Name() != name {
			continue
		}
		if sameParamTypes(f.Type(), t) {
			return f
		}
	}
	return nil
}

func sameParamTypes(a, b cxxast.QualType) bool {
	pa, ok1 := a.CanonicalType().TypePtr().(*cxxast.FunctionProtoType)
	pb, ok2 := b.CanonicalType().TypePtr().(*cxxast.FunctionProtoType)
	if !ok1 || !ok2 || len(pa.Params) != len(pb.Params) || pa.Variadic != pb.Variadic || pa.Const != pb.Const {
		return false
	}
	for i := range pa.Params {
		if pa.Params[i].CanonicalType().UnqualifiedType() != pb.Params[i].CanonicalType().UnqualifiedType() {
			return false
		}
	}
	return true
}

// visibleDecls returns the declarations of dc with linkage specifications
// flattened.
func (b *builder) visibleDecls(dc cxxast.DeclContext) []cxxast.Decl {
	var out []cxxast.Decl
	for _, d := range dc.Decls() {
		if ls, ok := d.(*cxxast.LinkageSpecDecl); ok {
			out = append(out, b.visibleDecls(ls)...)
			continue
		}
		out = append(out, d)
	}
	return out
}

func (b *builder) typedef(n *sitter.Node, s site) {
	sp := b.specifiers(n)
	base := b.typeOf(sp.typeNode, s).WithQuals(sp.quals)
	for _, d := range b.declaratorsOf(n, sp.typeNode) {
		r := b.declarator(d, base, s)
		if r.name == nil {
			continue
		}
		b.addTypedef(n, r.name, b.text(r.name), r.t, s)
	}
}

func (b *builder) alias(n *sitter.Node, s site) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	b.addTypedef(n, name, b.text(name), b.typeDescriptor(n.ChildByFieldName("type"), s), s)
}

func (b *builder) addTypedef(n, nameNode *sitter.Node, name string, t cxxast.QualType, s site) {
	td := cxxast.NewTypedefDecl(cxxast.DeclInfo{
		Loc:     b.loc(nameNode),
		Range:   b.rng(n),
		Context: s.dc,
		Access:  s.access,
	}, name, t)
	cxxast.AddDecl(s.dc, td)
	b.ctx.TypedefType(td)
}

func tagOf(kind string) cxxast.TagKind {
	switch kind {
	case "struct_specifier":
		return cxxast.TagStruct
	case "union_specifier":
		return cxxast.TagUnion
	}
	return cxxast.TagClass
}

// record builds a class specifier.  Without a body it names an existing
// class or declares it.
func (b *builder) record(n *sitter.Node, s site) *cxxast.CXXRecordDecl {
	tag := tagOf(n.Kind())
	dc := s.dc
	var name string
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		if nameNode.Kind() == "qualified_type_identifier" || nameNode.Kind() == "qualified_identifier" {
			scope, last := b.qualified(nameNode, s.dc)
			if scope != nil {
				dc = scope
			}
			nameNode = last
		}
		name = b.text(nameNode)
		if nameNode.Kind() == "template_type" {
			name = b.text(nameNode.ChildByFieldName("name"))
		}
	}
	body := n.ChildByFieldName("body")
	var prev *cxxast.CXXRecordDecl
	if name != "" {
		prev = b.recordIn(dc, name)
		if prev == nil && body == nil {
			prev = b.lookupRecord(name, dc)
		}
	}
	if body == nil && prev != nil {
		return prev
	}
	info := cxxast.DeclInfo{
		Loc:     b.loc(n),
		Range:   b.rng(n),
		Context: dc,
		Access:  s.access,
	}
	if dc != s.dc {
		info.Lexical = s.dc
	}
	if _, inRecord := dc.(*cxxast.CXXRecordDecl); !inRecord && dc == s.dc {
		info.Access = cxxast.AccessNone
	}
	r := cxxast.NewCXXRecordDecl(info, tag, name)
	if prev != nil {
		cxxast.SetCanonicalDecl(r, prev)
	}
	cxxast.AddDecl(s.dc, r)
	r.SetTypeForDecl(b.ctx.RecordType(r))
	if body == nil {
		return r
	}
	for _, c := range children(n) {
		if c.Kind() == "base_class_clause" {
			b.bases(r, c)
		}
	}
	access := cxxast.AccessPrivate
	if tag != cxxast.TagClass {
		access = cxxast.AccessPublic
	}
	b.members(r, body, access)
	r.SetComplete()
	b.overrides(r)
	return r
}

// recordIn finds a class declared directly in dc.
func (b *builder) recordIn(dc cxxast.DeclContext, name string) *cxxast.CXXRecordDecl {
	for _, d := range b.visibleDecls(dc) {
		if r, ok := d.(*cxxast.CXXRecordDecl); ok && r.Name() == name {
			return r
		}
	}
	return nil
}

func (b *builder) bases(r *cxxast.CXXRecordDecl, clause *sitter.Node) {
	access := cxxast.AccessPrivate
	if r.TagKind != cxxast.TagClass {
		access = cxxast.AccessPublic
	}
	pendingAccess, virtual := access, false
	var start *sitter.Node
	for _, c := range children(clause) {
		switch c.Kind() {
		case "access_specifier":
			pendingAccess = accessOf(b.text(c))
			if start == nil {
				start = c
			}
		case "virtual":
			virtual = true
			if start == nil {
				start = c
			}
		case "type_identifier", "qualified_type_identifier", "qualified_identifier", "template_type":
			if start == nil {
				start = c
			}
			t := b.typeOf(c, site{dc: r.DeclContext()})
			spec := &cxxast.CXXBaseSpecifier{
				Range: cxxast.SourceRange{
					Begin: b.loc(start),
					End:   b.ctx.SourceManager.Loc(b.file, int(c.EndByte())),
				},
				Virtual:   virtual,
				AccessAs:  pendingAccess,
				BaseType:  t,
				BaseClass: t.TypePtr().AsCXXRecordDecl(),
			}
			r.AddBase(spec)
			pendingAccess, virtual, start = access, false, nil
		}
	}
}

func accessOf(s string) cxxast.AccessSpecifier {
	switch strings.TrimSuffix(strings.TrimSpace(s), ":") {
	case "public":
		return cxxast.AccessPublic
	case "protected":
		return cxxast.AccessProtected
	case "private":
		return cxxast.AccessPrivate
	}
	return cxxast.AccessNone
}

func (b *builder) members(r *cxxast.CXXRecordDecl, body *sitter.Node, access cxxast.AccessSpecifier) {
	for _, c := range namedChildren(body) {
		s := site{dc: r, access: access}
		switch c.Kind() {
		case "access_specifier":
			access = accessOf(b.text(c))
			cxxast.AddDecl(r, cxxast.NewAccessSpecDecl(cxxast.DeclInfo{
				Loc:     b.loc(c),
				Range:   b.rng(c),
				Context: r,
				Access:  access,
			}))
		case "field_declaration":
			b.fieldDeclaration(c, s)
		case "function_definition":
			b.functionDefinition(c, s)
		case "declaration":
			b.declaration(c, s)
		case "type_definition":
			b.typedef(c, s)
		case "alias_declaration":
			b.alias(c, s)
		case "preproc_if", "preproc_ifdef", "preproc_else", "preproc_elif":
			b.members(r, c, access)
		}
	}
}

func (b *builder) fieldDeclaration(n *sitter.Node, s site) {
	sp := b.specifiers(n)
	base := b.typeOf(sp.typeNode, s).WithQuals(sp.quals)
	def := n.ChildByFieldName("default_value")
	pure := def != nil && b.text(def) == "0"
	if hasChild(n, "pure_virtual_clause") {
		pure = true
	}
	for _, d := range b.declaratorsOf(n, sp.typeNode) {
		r := b.declarator(d, base, s)
		if r.name == nil {
			continue
		}
		if r.fn {
			b.declareFunction(n, r, s, sp, pure)
			continue
		}
		if sp.static {
			r.value = def
			b.declareVariable(n, r, s, sp)
			continue
		}
		f := cxxast.NewFieldDecl(cxxast.DeclInfo{
			Loc:     b.loc(r.name),
			Range:   b.rng(n),
			Context: s.dc,
			Access:  s.access,
		}, b.text(r.name), r.t)
		f.Mutable = b.hasKeyword(n, "mutable")
		cxxast.AddDecl(s.dc, f)
		if def != nil {
			b.inits = append(b.inits, pendingInit{dc: s.dc, node: def, t: r.t, apply: func(e cxxast.Expr) { f.SetInClassInitializer(e) }})
		}
	}
}

func (b *builder) hasKeyword(n *sitter.Node, word string) bool {
	for _, c := range children(n) {
		switch c.Kind() {
		case "storage_class_specifier", "type_qualifier", word:
			if b.text(c) == word {
				return true
			}
		}
	}
	return false
}

// overrides records, for each virtual-capable method of r, the base methods
// it overrides.
func (b *builder) overrides(r *cxxast.CXXRecordDecl) {
	for _, m := range r.Methods() {
		if _, ctor := m.(cxxast.CXXConstructorDecl); ctor || m.IsStatic() {
			continue
		}
		for _, base := range r.Bases() {
			if base.BaseClass == nil {
				continue
			}
			if _, dtor := m.(cxxast.CXXDestructorDecl); dtor {
				if bd := base.BaseClass.Definition(); bd != nil {
					if d := bd.Destructor(); d != nil && d.IsVirtual() {
						cxxast.AddOverriddenMethod(m, d)
					}
				}
				continue
			}
			for _, found := range cxxast.LookupMember(base.BaseClass, m.Name()) {
				bm, ok := found.(cxxast.CXXMethodDecl)
				if ok && bm.IsVirtual() && cxxast.SameSignature(m, bm) {
					cxxast.AddOverriddenMethod(m, bm)
				}
			}
		}
	}
}

func (b *builder) enum(n *sitter.Node, s site) *cxxast.EnumDecl {
	name := b.text(n.ChildByFieldName("name"))
	body := n.ChildByFieldName("body")
	if body == nil && name != "" {
		if e := b.lookupEnum(name, s.dc); e != nil {
			return e
		}
	}
	scoped := hasChild(n, "class", "struct")
	access := s.access
	if _, inRecord := s.dc.(*cxxast.CXXRecordDecl); !inRecord {
		access = cxxast.AccessNone
	}
	e := cxxast.NewEnumDecl(cxxast.DeclInfo{
		Loc:     b.loc(n),
		Range:   b.rng(n),
		Context: s.dc,
		Access:  access,
	}, name, scoped)
	cxxast.AddDecl(s.dc, e)
	t := b.ctx.EnumType(e)
	e.SetTypeForDecl(t)
	if body == nil {
		return e
	}
	var next int64
	for _, c := range namedChildren(body) {
		if c.Kind() != "enumerator" {
			continue
		}
		nameNode := c.ChildByFieldName("name")
		var init cxxast.Expr
		if v := c.ChildByFieldName("value"); v != nil {
			saved := b.dc
			b.dc = e
			init = b.expr(v)
			b.dc = saved
			if val, ok := constValue(init); ok {
				next = val
			}
		}
		ec := cxxast.NewEnumConstantDecl(cxxast.DeclInfo{
			Loc:     b.loc(c),
			Range:   b.rng(c),
			Context: e,
			Access:  access,
		}, b.text(nameNode), t, next, init)
		cxxast.AddDecl(e, ec)
		next++
	}
	return e
}

// constValue folds the integer constant expressions enumerators are
// usually written with.
func constValue(e cxxast.Expr) (int64, bool) {
	if e == nil {
		return 0, false
	}
	switch e := e.IgnoreParenImpCasts().(type) {
	case *cxxast.IntegerLiteral:
		return e.Value, true
	case *cxxast.DeclRefExpr:
		if ec, ok := e.Decl().(*cxxast.EnumConstantDecl); ok {
			return ec.Value, true
		}
	case *cxxast.UnaryOperator:
		v, ok := constValue(e.Sub)
		switch e.Opcode {
		case "-":
			return -v, ok
		case "~":
			return ^v, ok
		case "+":
			return v, ok
		}
	case *cxxast.BinaryOperator:
		l, ok1 := constValue(e.LHS)
		r, ok2 := constValue(e.RHS)
		if !ok1 || !ok2 {
			return 0, false
		}
		switch e.Opcode {
		case "+":
			return l + r, true
		case "-":
			return l - r, true
		case "*":
			return l * r, true
		case "<<":
			return l << uint(r), true
		case ">>":
			return l >> uint(r), true
		case "|":
			return l | r, true
		case "&":
			return l & r, true
		}
	}
	return 0, false
}
