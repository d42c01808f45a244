// Copyright © 2026 The Crisp authors

package frontend

import (
	"strings"

	"github.com/crisp-analysis/crisp/cxxast"
	"github.com/golang/glog"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// typeOf returns the type named by a type specifier.  Specifiers that define
// a class or enumeration declare it in s as a side effect.  Names that do
// not resolve become builtin types spelled as written.
func (b *builder) typeOf(n *sitter.Node, s site) cxxast.QualType {
	if n == nil {
		return b.ctx.VoidType()
	}
	switch n.Kind() {
	case "primitive_type", "sized_type_specifier":
		return b.ctx.BuiltinType(strings.Join(strings.Fields(b.text(n)), " "))
	case "type_identifier":
		if t, ok := b.lookupType(b.text(n), s.dc); ok {
			return t
		}
	case "qualified_identifier", "qualified_type_identifier":
		if scope, name := b.qualified(n, s.dc); scope != nil && name != nil {
			if t, ok := b.typeIn(scope, b.scopeName(name)); ok {
				return t
			}
		}
	case "class_specifier", "struct_specifier", "union_specifier":
		return b.ctx.RecordType(b.record(n, s))
	case "enum_specifier":
		return b.ctx.EnumType(b.enum(n, s))
	case "placeholder_type_specifier", "auto":
		return b.ctx.BuiltinType("auto")
	case "type_descriptor":
		return b.typeDescriptor(n, s)
	}
	glog.V(2).Infof("%s: unresolved type %q", b.pos(n), b.text(n))
	return b.ctx.BuiltinType(strings.Join(strings.Fields(b.text(n)), " "))
}

// typeDescriptor returns the type of a type-id such as the operand of a
// cast or sizeof.
func (b *builder) typeDescriptor(n *sitter.Node, s site) cxxast.QualType {
	if n == nil {
		return cxxast.QualType{}
	}
	if n.Kind() != "type_descriptor" {
		return b.typeOf(n, s)
	}
	sp := b.specifiers(n)
	base := b.typeOf(sp.typeNode, s).WithQuals(sp.quals)
	return b.declarator(n.ChildByFieldName("declarator"), base, s).t
}

// nonReference strips a reference from the type of an expression naming a
// reference.
func nonReference(t cxxast.QualType) cxxast.QualType {
	if rt, ok := t.TypePtr().(*cxxast.LValueReferenceType); ok {
		return rt.Pointee
	}
	if c := t.CanonicalType(); !c.IsNull() {
		if rt, ok := c.TypePtr().(*cxxast.LValueReferenceType); ok {
			return rt.Pointee
		}
	}
	return t
}

// recordOf returns the class of an object expression's type, looking
// through a pointer when arrow is set.
func recordOf(t cxxast.QualType, arrow bool) *cxxast.CXXRecordDecl {
	t = nonReference(t)
	if t.IsNull() {
		return nil
	}
	if arrow {
		t = t.TypePtr().PointeeType()
		if t.IsNull() {
			return nil
		}
	}
	r := t.TypePtr().AsCXXRecordDecl()
	if r == nil {
		return nil
	}
	return recordDefinition(r)
}

// resultType is the type of a call to fn.
func resultType(fn cxxast.FunctionDecl) cxxast.QualType {
	if fn == nil {
		return cxxast.QualType{}
	}
	return nonReference(fn.ReturnType())
}
