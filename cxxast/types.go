// Copyright © 2026 The Crisp authors

package cxxast

import (
	"strconv"
	"strings"
)

// Type is implemented by every type node of the ASTContext types table.
// Types are uniqued: structurally equal types are the same object.
type Type interface {
	TypeClass() TypeClass
	// TypeClassName returns the class name without the "Type" suffix.
	TypeClassName() string
	// AsString returns the spelling of the type.
	AsString() string
	// CanonicalTypeInternal returns the canonical type, which may carry
	// qualifiers when the type is sugar for a qualified type.
	CanonicalTypeInternal() QualType
	// CanonicalTypeUnqualified returns the canonical type without
	// qualifiers.
	CanonicalTypeUnqualified() QualType
	// PointeeType returns the pointee of a pointer or reference type, or a
	// null QualType.
	PointeeType() QualType
	IsPointerType() bool
	IsReferenceType() bool
	IsRecordType() bool
	IsBuiltinType() bool
	IsFunctionProtoType() bool
	IsVoidType() bool
	// AsCXXRecordDecl returns the class behind a record type, or nil.
	AsCXXRecordDecl() *CXXRecordDecl
	typ() *typeBase
}

type typeBase struct {
	class TypeClass
	self  Type
	canon QualType
}

func (t *typeBase) typ() *typeBase { return t }

func (t *typeBase) TypeClass() TypeClass { return t.class }

func (t *typeBase) TypeClassName() string { return t.class.String() }

func (t *typeBase) CanonicalTypeInternal() QualType {
	if t.canon.IsNull() {
		return QualType{T: t.self}
	}
	return t.canon
}

func (t *typeBase) CanonicalTypeUnqualified() QualType {
	return t.CanonicalTypeInternal().UnqualifiedType()
}

func (t *typeBase) canonicalClass() TypeClass {
	c := t.CanonicalTypeInternal().T
	if c == nil {
		return TypeInvalid
	}
	return c.TypeClass()
}

func (t *typeBase) PointeeType() QualType {
	c := t.CanonicalTypeInternal().T
	if c == nil || c == t.self {
		return QualType{}
	}
	return c.PointeeType()
}

func (t *typeBase) IsPointerType() bool { return t.canonicalClass() == TypePointer }

func (t *typeBase) IsReferenceType() bool { return t.canonicalClass() == TypeLValueReference }

func (t *typeBase) IsRecordType() bool { return t.canonicalClass() == TypeRecord }

func (t *typeBase) IsBuiltinType() bool { return t.canonicalClass() == TypeBuiltin }

func (t *typeBase) IsFunctionProtoType() bool { return t.canonicalClass() == TypeFunctionProto }

func (t *typeBase) IsVoidType() bool {
	b, ok := t.CanonicalTypeInternal().T.(*BuiltinType)
	return ok && b.Name == "void"
}

func (t *typeBase) AsCXXRecordDecl() *CXXRecordDecl {
	if r, ok := t.CanonicalTypeInternal().T.(*RecordType); ok {
		return r.Decl
	}
	return nil
}

// BuiltinType is a fundamental type such as "int" or "void".
type BuiltinType struct {
	typeBase
	Name string
}

func (t *BuiltinType) AsString() string { return t.Name }

// IsSignedInteger reports whether the builtin is a signed integer type.
func (t *BuiltinType) IsSignedInteger() bool {
	switch t.Name {
	case "signed char", "short", "int", "long", "long long":
		return true
	}
	return false
}

// PointerType is "T *".
type PointerType struct {
	typeBase
	Pointee QualType
}

func (t *PointerType) AsString() string { return spellDerived(t.Pointee, "*") }

func (t *PointerType) PointeeType() QualType { return t.Pointee }

// LValueReferenceType is "T &".
type LValueReferenceType struct {
	typeBase
	Pointee QualType
}

func (t *LValueReferenceType) AsString() string { return spellDerived(t.Pointee, "&") }

func (t *LValueReferenceType) PointeeType() QualType { return t.Pointee }

func spellDerived(inner QualType, op string) string {
	s := inner.AsString()
	if strings.HasSuffix(s, "*") || strings.HasSuffix(s, "&") {
		return s + op
	}
	return s + " " + op
}

// RecordType is the type of a class, struct or union.
type RecordType struct {
	typeBase
	Decl *CXXRecordDecl
}

func (t *RecordType) AsString() string { return t.Decl.TagKind.String() + " " + t.Decl.QualifiedName() }

// EnumType is the type of an enumeration.
type EnumType struct {
	typeBase
	Decl *EnumDecl
}

func (t *EnumType) AsString() string { return "enum " + t.Decl.QualifiedName() }

// FunctionProtoType is a function signature.  Const is set for const-qualified
// methods.
type FunctionProtoType struct {
	typeBase
	Result   QualType
	Params   []QualType
	Variadic bool
	Const    bool
}

func (t *FunctionProtoType) AsString() string {
	var sb strings.Builder
	sb.WriteString(t.Result.AsString())
	sb.WriteString(" (")
	for i, p := range t.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.AsString())
	}
	if t.Variadic {
		if len(t.Params) > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("...")
	}
	sb.WriteString(")")
	if t.Const {
		sb.WriteString(" const")
	}
	return sb.String()
}

// ResultType returns the return type.
func (t *FunctionProtoType) ResultType() QualType { return t.Result }

// ParamTypes returns the parameter types.
func (t *FunctionProtoType) ParamTypes() []QualType { return t.Params }

// IsConst reports whether the prototype carries a const method qualifier.
func (t *FunctionProtoType) IsConst() bool { return t.Const }

// TypedefType is a use of a typedef name.
type TypedefType struct {
	typeBase
	Decl *TypedefDecl
}

func (t *TypedefType) AsString() string { return t.Decl.QualifiedName() }

// ConstantArrayType is "T [N]".
type ConstantArrayType struct {
	typeBase
	Element QualType
	Size    int64
}

func (t *ConstantArrayType) AsString() string {
	return t.Element.AsString() + " [" + strconv.FormatInt(t.Size, 10) + "]"
}

// ElementType returns the element type.
func (t *ConstantArrayType) ElementType() QualType { return t.Element }

// Qualifiers is a set of cv-qualifiers.
type Qualifiers uint

// Possible Qualifiers bits.
const (
	Const Qualifiers = 1 << iota
	Volatile
	Restrict
)

// QualType is a smart reference to a Type plus qualifiers.  It is a
// comparable value: two QualTypes are equal exactly when they denote the same
// qualified type.  The zero QualType is null.
type QualType struct {
	T     Type
	Quals Qualifiers
}

// IsNull reports whether the reference is empty.
func (q QualType) IsNull() bool { return q.T == nil }

// TypePtr returns the referenced type.
func (q QualType) TypePtr() Type { return q.T }

func (q QualType) IsConstQualified() bool { return q.Quals&Const != 0 }

func (q QualType) IsVolatileQualified() bool { return q.Quals&Volatile != 0 }

// WithConst returns q with the const qualifier added.
func (q QualType) WithConst() QualType {
	q.Quals |= Const
	return q
}

// WithQuals returns q with the given qualifiers added.
func (q QualType) WithQuals(quals Qualifiers) QualType {
	q.Quals |= quals
	return q
}

// UnqualifiedType returns q without local qualifiers.
func (q QualType) UnqualifiedType() QualType {
	return QualType{T: q.T}
}

// CanonicalType returns the canonical type with local and canonical
// qualifiers merged.
func (q QualType) CanonicalType() QualType {
	if q.T == nil {
		return q
	}
	c := q.T.CanonicalTypeInternal()
	c.Quals |= q.Quals
	return c
}

// AsString returns the spelling of the qualified type, for example
// "const int *".
func (q QualType) AsString() string {
	if q.T == nil {
		return "<null type>"
	}
	s := q.T.AsString()
	if q.Quals == 0 {
		return s
	}
	var quals []string
	if q.Quals&Const != 0 {
		quals = append(quals, "const")
	}
	if q.Quals&Volatile != 0 {
		quals = append(quals, "volatile")
	}
	if q.Quals&Restrict != 0 {
		quals = append(quals, "restrict")
	}
	if q.T.TypeClass() == TypePointer || q.T.TypeClass() == TypeLValueReference {
		return s + strings.Join(quals, " ")
	}
	return strings.Join(quals, " ") + " " + s
}

func (q QualType) String() string { return q.AsString() }
