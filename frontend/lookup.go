// Copyright © 2026 The Crisp authors

package frontend

import (
	"strings"

	"github.com/crisp-analysis/crisp/cxxast"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// typeIn finds a type named name declared directly in dc.  Linkage
// specifications and anonymous namespaces are transparent.
func (b *builder) typeIn(dc cxxast.DeclContext, name string) (cxxast.QualType, bool) {
	if r, ok := dc.(*cxxast.CXXRecordDecl); ok {
		if r.Name() == name {
			return b.ctx.RecordType(r), true
		}
		for _, d := range cxxast.LookupMember(r, name) {
			if t, ok := b.declaredType(d); ok {
				return t, true
			}
		}
		return cxxast.QualType{}, false
	}
	var found cxxast.QualType
	ok := false
	for _, d := range dc.Decls() {
		switch d := d.(type) {
		case *cxxast.LinkageSpecDecl:
			if t, hit := b.typeIn(d, name); hit {
				found, ok = t, true
			}
		case *cxxast.NamespaceDecl:
			if d.IsAnonymousNamespace() {
				if t, hit := b.typeIn(d, name); hit {
					found, ok = t, true
				}
			}
		case cxxast.NamedDecl:
			if d.Name() != name {
				continue
			}
			if t, hit := b.declaredType(d); hit {
				found, ok = t, true
			}
		}
	}
	return found, ok
}

func (b *builder) declaredType(d cxxast.NamedDecl) (cxxast.QualType, bool) {
	switch d := d.(type) {
	case *cxxast.CXXRecordDecl:
		return b.ctx.RecordType(d), true
	case *cxxast.TypedefDecl:
		return b.ctx.TypedefType(d), true
	case *cxxast.EnumDecl:
		return b.ctx.EnumType(d), true
	}
	return cxxast.QualType{}, false
}

// lookupType resolves an unqualified type name from dc outwards.
func (b *builder) lookupType(name string, dc cxxast.DeclContext) (cxxast.QualType, bool) {
	for ; dc != nil; dc = dc.DeclContext() {
		if t, ok := b.typeIn(dc, name); ok {
			return t, true
		}
	}
	return cxxast.QualType{}, false
}

func (b *builder) lookupRecord(name string, dc cxxast.DeclContext) *cxxast.CXXRecordDecl {
	t, ok := b.lookupType(name, dc)
	if !ok {
		return nil
	}
	if rt, ok := t.CanonicalType().TypePtr().(*cxxast.RecordType); ok {
		return rt.Decl
	}
	return nil
}

func (b *builder) lookupEnum(name string, dc cxxast.DeclContext) *cxxast.EnumDecl {
	t, ok := b.lookupType(name, dc)
	if !ok {
		return nil
	}
	if et, ok := t.CanonicalType().TypePtr().(*cxxast.EnumType); ok {
		return et.Decl
	}
	return nil
}

// scopeIn finds a namespace, class or scoped enumeration named name
// declared directly in dc.
func (b *builder) scopeIn(dc cxxast.DeclContext, name string) cxxast.DeclContext {
	if r, ok := dc.(*cxxast.CXXRecordDecl); ok && r.Name() == name {
		return recordDefinition(r)
	}
	for _, d := range b.visibleDecls(dc) {
		switch d := d.(type) {
		case *cxxast.NamespaceDecl:
			if d.Name() == name {
				return d
			}
			if d.IsAnonymousNamespace() {
				if s := b.scopeIn(d, name); s != nil {
					return s
				}
			}
		case *cxxast.CXXRecordDecl:
			if d.Name() == name {
				return recordDefinition(d)
			}
		case *cxxast.EnumDecl:
			if d.Name() == name {
				return d
			}
		case *cxxast.TypedefDecl:
			if d.Name() == name {
				if r := d.UnderlyingType().TypePtr().AsCXXRecordDecl(); r != nil {
					return recordDefinition(r)
				}
			}
		}
	}
	return nil
}

func recordDefinition(r *cxxast.CXXRecordDecl) *cxxast.CXXRecordDecl {
	if def := r.Definition(); def != nil {
		return def
	}
	if c, ok := r.CanonicalDecl().(*cxxast.CXXRecordDecl); ok {
		return c
	}
	return r
}

func (b *builder) scopeName(n *sitter.Node) string {
	if n.Kind() == "template_type" {
		return b.text(n.ChildByFieldName("name"))
	}
	return b.text(n)
}

// qualified resolves the scopes of a qualified name starting the search
// for the first scope at from.  It returns the innermost scope and the
// unqualified name node, or a nil scope if a component is unknown.
func (b *builder) qualified(n *sitter.Node, from cxxast.DeclContext) (cxxast.DeclContext, *sitter.Node) {
	ctx := from
	first := true
	for n != nil && strings.HasPrefix(n.Kind(), "qualified_") {
		scope := n.ChildByFieldName("scope")
		var next cxxast.DeclContext
		switch {
		case scope == nil:
			next = b.ctx.TU
		case first:
			name := b.scopeName(scope)
			for dc := ctx; dc != nil && next == nil; dc = dc.DeclContext() {
				next = b.scopeIn(dc, name)
			}
		default:
			next = b.scopeIn(ctx, b.scopeName(scope))
		}
		name := n.ChildByFieldName("name")
		if next == nil {
			return nil, name
		}
		ctx, first, n = next, false, name
	}
	return ctx, n
}

// valuesIn returns the value declarations named name in dc, including the
// enumerators of unscoped enumerations.
func (b *builder) valuesIn(dc cxxast.DeclContext, name string) []cxxast.NamedDecl {
	if r, ok := dc.(*cxxast.CXXRecordDecl); ok {
		var out []cxxast.NamedDecl
		for _, d := range cxxast.LookupMember(r, name) {
			if _, ok := d.(cxxast.ValueDecl); ok {
				out = append(out, d)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	var out []cxxast.NamedDecl
	for _, d := range b.visibleDecls(dc) {
		switch d := d.(type) {
		case *cxxast.EnumDecl:
			if d.Scoped {
				continue
			}
			for _, e := range d.Enumerators() {
				if e.Name() == name {
					out = append(out, e)
				}
			}
		case *cxxast.NamespaceDecl:
			if d.IsAnonymousNamespace() {
				out = append(out, b.valuesIn(d, name)...)
			}
		case cxxast.ValueDecl:
			if d.Name() == name {
				out = append(out, d)
			}
		}
	}
	return out
}

// lookupValue resolves an unqualified name in the current body: local
// scopes first, then the enclosing classes and namespaces.
func (b *builder) lookupValue(name string) []cxxast.NamedDecl {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if d, ok := b.scopes[i][name]; ok {
			return []cxxast.NamedDecl{d}
		}
	}
	for dc := b.dc; dc != nil; dc = dc.DeclContext() {
		if _, fn := dc.(cxxast.FunctionDecl); fn {
			continue
		}
		if e, ok := dc.(*cxxast.EnumDecl); ok {
			for _, ec := range e.Enumerators() {
				if ec.Name() == name {
					return []cxxast.NamedDecl{ec}
				}
			}
			continue
		}
		if found := b.valuesIn(dc, name); len(found) > 0 {
			return found
		}
	}
	return nil
}

// thisRecord returns the class of the implicit object in the current body,
// or nil outside of non-static member functions and class initializers.
func (b *builder) thisRecord() *cxxast.CXXRecordDecl {
	if m, ok := b.fn.(cxxast.CXXMethodDecl); ok {
		if m.IsStatic() {
			return nil
		}
		return m.Parent()
	}
	if b.fn == nil {
		if r, ok := b.dc.(*cxxast.CXXRecordDecl); ok {
			return r
		}
	}
	return nil
}

// thisType is the type of "this" in the current body.
func (b *builder) thisType() cxxast.QualType {
	r := b.thisRecord()
	if r == nil {
		return cxxast.QualType{}
	}
	t := b.ctx.RecordType(r)
	if m, ok := b.fn.(cxxast.CXXMethodDecl); ok && m.IsConst() {
		t = t.WithConst()
	}
	return b.ctx.PointerType(t)
}
