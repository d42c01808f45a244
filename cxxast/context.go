// Copyright © 2026 The Crisp authors

package cxxast

import (
	"strconv"
	"strings"
)

// ASTContext owns a translation unit: its source manager, its declaration
// tree and the uniqued types table.
type ASTContext struct {
	SourceManager *SourceManager
	TU            *TranslationUnitDecl

	types     []Type
	builtins  map[string]*BuiltinType
	pointers  map[QualType]*PointerType
	refs      map[QualType]*LValueReferenceType
	records   map[*CXXRecordDecl]*RecordType
	enums     map[*EnumDecl]*EnumType
	typedefs  map[*TypedefDecl]*TypedefType
	protos    map[string]*FunctionProtoType
	arrays    map[arrayKey]*ConstantArrayType
	protoKeys map[QualType]string
}

type arrayKey struct {
	elem QualType
	size int64
}

// NewASTContext creates a context with an empty translation unit.
func NewASTContext(sm *SourceManager) *ASTContext {
	c := &ASTContext{
		SourceManager: sm,
		builtins:      make(map[string]*BuiltinType),
		pointers:      make(map[QualType]*PointerType),
		refs:          make(map[QualType]*LValueReferenceType),
		records:       make(map[*CXXRecordDecl]*RecordType),
		enums:         make(map[*EnumDecl]*EnumType),
		typedefs:      make(map[*TypedefDecl]*TypedefType),
		protos:        make(map[string]*FunctionProtoType),
		arrays:        make(map[arrayKey]*ConstantArrayType),
		protoKeys:     make(map[QualType]string),
	}
	var rng SourceRange
	if sm != nil && sm.MainFileID() != 0 {
		main := sm.MainFileID()
		rng = SourceRange{sm.Loc(main, 0), sm.Loc(main, len(sm.Content(main)))}
	}
	c.TU = NewTranslationUnitDecl(DeclInfo{Loc: rng.Begin, Range: rng})
	return c
}

// Types returns every type of the table in creation order.
func (c *ASTContext) Types() []Type {
	return c.types
}

func (c *ASTContext) add(t Type, class TypeClass, canon QualType) {
	b := t.typ()
	b.class = class
	b.self = t
	b.canon = canon
	c.types = append(c.types, t)
}

// BuiltinType returns the builtin type with the given spelling.
func (c *ASTContext) BuiltinType(name string) QualType {
	name = NormalizeBuiltinName(name)
	if t, ok := c.builtins[name]; ok {
		return QualType{T: t}
	}
	t := &BuiltinType{Name: name}
	c.add(t, TypeBuiltin, QualType{})
	c.builtins[name] = t
	return QualType{T: t}
}

// VoidType returns "void".
func (c *ASTContext) VoidType() QualType { return c.BuiltinType("void") }

// IntType returns "int".
func (c *ASTContext) IntType() QualType { return c.BuiltinType("int") }

// BoolType returns "bool".
func (c *ASTContext) BoolType() QualType { return c.BuiltinType("bool") }

// NormalizeBuiltinName maps the spellings of a builtin type to one name, for
// example "unsigned" and "unsigned int".
func NormalizeBuiltinName(name string) string {
	fields := strings.Fields(name)
	var signed, unsigned bool
	var longs, shorts int
	var base string
	for _, f := range fields {
		switch f {
		case "signed":
			signed = true
		case "unsigned":
			unsigned = true
		case "long":
			longs++
		case "short":
			shorts++
		default:
			base = f
		}
	}
	if base == "" && !signed && !unsigned && longs == 0 && shorts == 0 {
		return name
	}
	switch base {
	case "char":
		switch {
		case unsigned:
			return "unsigned char"
		case signed:
			return "signed char"
		}
		return "char"
	case "double":
		if longs > 0 {
			return "long double"
		}
		return "double"
	case "", "int":
		var s string
		switch {
		case shorts > 0:
			s = "short"
		case longs >= 2:
			s = "long long"
		case longs == 1:
			s = "long"
		default:
			s = "int"
		}
		if unsigned {
			return "unsigned " + s
		}
		return s
	}
	return strings.Join(fields, " ")
}

// PointerType returns "pointee *".
func (c *ASTContext) PointerType(pointee QualType) QualType {
	if t, ok := c.pointers[pointee]; ok {
		return QualType{T: t}
	}
	t := &PointerType{Pointee: pointee}
	var canon QualType
	if cp := pointee.CanonicalType(); cp != pointee {
		canon = c.PointerType(cp)
	}
	c.add(t, TypePointer, canon)
	c.pointers[pointee] = t
	return QualType{T: t}
}

// LValueReferenceType returns "referee &".
func (c *ASTContext) LValueReferenceType(referee QualType) QualType {
	if t, ok := c.refs[referee]; ok {
		return QualType{T: t}
	}
	t := &LValueReferenceType{Pointee: referee}
	var canon QualType
	if cr := referee.CanonicalType(); cr != referee {
		canon = c.LValueReferenceType(cr)
	}
	c.add(t, TypeLValueReference, canon)
	c.refs[referee] = t
	return QualType{T: t}
}

// RecordType returns the type of a class.  Every declaration of a class
// shares the type of its canonical declaration.
func (c *ASTContext) RecordType(d *CXXRecordDecl) QualType {
	if canon, ok := d.CanonicalDecl().(*CXXRecordDecl); ok {
		d = canon
	}
	if t, ok := c.records[d]; ok {
		return QualType{T: t}
	}
	t := &RecordType{Decl: d}
	c.add(t, TypeRecord, QualType{})
	c.records[d] = t
	d.SetTypeForDecl(QualType{T: t})
	return QualType{T: t}
}

// EnumType returns the type of an enumeration.
func (c *ASTContext) EnumType(d *EnumDecl) QualType {
	if t, ok := c.enums[d]; ok {
		return QualType{T: t}
	}
	t := &EnumType{Decl: d}
	c.add(t, TypeEnum, QualType{})
	c.enums[d] = t
	d.SetTypeForDecl(QualType{T: t})
	return QualType{T: t}
}

// TypedefType returns the sugared type naming d.
func (c *ASTContext) TypedefType(d *TypedefDecl) QualType {
	if t, ok := c.typedefs[d]; ok {
		return QualType{T: t}
	}
	t := &TypedefType{Decl: d}
	c.add(t, TypeTypedef, d.Underlying.CanonicalType())
	c.typedefs[d] = t
	return QualType{T: t}
}

// FunctionProtoType returns the prototype with the given signature.
func (c *ASTContext) FunctionProtoType(result QualType, params []QualType, variadic, isConst bool) QualType {
	key := c.protoKey(result, params, variadic, isConst)
	if t, ok := c.protos[key]; ok {
		return QualType{T: t}
	}
	t := &FunctionProtoType{
		Result:   result,
		Params:   append([]QualType(nil), params...),
		Variadic: variadic,
		Const:    isConst,
	}
	var canon QualType
	canonParams := make([]QualType, len(params))
	changed := result.CanonicalType() != result
	for i, p := range params {
		canonParams[i] = p.CanonicalType().UnqualifiedType()
		changed = changed || canonParams[i] != p
	}
	if changed {
		canon = c.FunctionProtoType(result.CanonicalType(), canonParams, variadic, isConst)
	}
	c.add(t, TypeFunctionProto, canon)
	c.protos[key] = t
	return QualType{T: t}
}

func (c *ASTContext) protoKey(result QualType, params []QualType, variadic, isConst bool) string {
	var sb strings.Builder
	sb.WriteString(c.typeKey(result))
	sb.WriteByte('(')
	for _, p := range params {
		sb.WriteString(c.typeKey(p))
		sb.WriteByte(',')
	}
	if variadic {
		sb.WriteString("...")
	}
	sb.WriteByte(')')
	if isConst {
		sb.WriteString("const")
	}
	return sb.String()
}

// typeKey identifies a QualType by object identity so that distinct classes
// with the same name do not collide.
func (c *ASTContext) typeKey(q QualType) string {
	if k, ok := c.protoKeys[q]; ok {
		return k
	}
	k := "#" + strconv.Itoa(len(c.protoKeys)) + ":" + q.AsString()
	c.protoKeys[q] = k
	return k
}

// ConstantArrayType returns "elem [size]".
func (c *ASTContext) ConstantArrayType(elem QualType, size int64) QualType {
	key := arrayKey{elem, size}
	if t, ok := c.arrays[key]; ok {
		return QualType{T: t}
	}
	t := &ConstantArrayType{Element: elem, Size: size}
	var canon QualType
	if ce := elem.CanonicalType(); ce != elem {
		canon = c.ConstantArrayType(ce, size)
	}
	c.add(t, TypeConstantArray, canon)
	c.arrays[key] = t
	return QualType{T: t}
}
