// Copyright © 2026 The Crisp authors

package ir

import (
	"strconv"
	"strings"

	"github.com/crisp-analysis/crisp/cxxast"
)

// recordLayout places the subobjects of a class.
type recordLayout struct {
	typ    *Type
	vptr   bool
	empty  bool
	fields map[*cxxast.FieldDecl]int64
	bases  map[*cxxast.CXXRecordDecl]int64
}

// Layout maps program model types to IR types and computes class layouts
// in the style of the Itanium ABI: a vtable pointer first when the class
// introduces virtual methods, then bases, then fields, each aligned to its
// natural alignment.  Virtual bases are laid out as ordinary bases.
type Layout struct {
	records map[*cxxast.CXXRecordDecl]*recordLayout
}

// NewLayout returns an empty layout cache.
func NewLayout() *Layout {
	return &Layout{records: map[*cxxast.CXXRecordDecl]*recordLayout{}}
}

// TypeOf returns the IR type of q.  References become pointers, enums
// become 32-bit integers.
func (l *Layout) TypeOf(q cxxast.QualType) *Type {
	if q.IsNull() {
		return Void()
	}
	c := q.CanonicalType()
	switch t := c.TypePtr().(type) {
	case *cxxast.BuiltinType:
		return builtinType(t.Name)
	case *cxxast.PointerType:
		return PointerTo(l.TypeOf(t.Pointee))
	case *cxxast.LValueReferenceType:
		return PointerTo(l.TypeOf(t.Pointee))
	case *cxxast.RecordType:
		return l.record(t.Decl).typ
	case *cxxast.EnumType:
		return Int(32)
	case *cxxast.ConstantArrayType:
		return ArrayOf(l.TypeOf(t.Element), t.Size)
	case *cxxast.FunctionProtoType:
		params := make([]*Type, 0, len(t.Params))
		for _, p := range t.Params {
			params = append(params, l.TypeOf(p))
		}
		return FunctionOf(l.TypeOf(t.Result), params, t.Variadic)
	}
	return Int(32)
}

// FieldOffset returns the byte offset of f in an object of class rec.  The
// field may belong to a base of rec.
func (l *Layout) FieldOffset(rec *cxxast.CXXRecordDecl, f *cxxast.FieldDecl) (int64, bool) {
	if rec == nil {
		return 0, false
	}
	rl := l.record(rec)
	if off, ok := rl.fields[f]; ok {
		return off, true
	}
	for base, boff := range rl.bases {
		if off, ok := l.FieldOffset(base, f); ok {
			return boff + off, true
		}
	}
	return 0, false
}

// BaseOffset returns the byte offset of the base subobject base in an
// object of class rec.
func (l *Layout) BaseOffset(rec, base *cxxast.CXXRecordDecl) (int64, bool) {
	if rec == nil || base == nil {
		return 0, false
	}
	rec, base = definition(rec), definition(base)
	if rec == base {
		return 0, true
	}
	rl := l.record(rec)
	for b, boff := range rl.bases {
		if off, ok := l.BaseOffset(b, base); ok {
			return boff + off, true
		}
	}
	return 0, false
}

func definition(r *cxxast.CXXRecordDecl) *cxxast.CXXRecordDecl {
	if d := r.Definition(); d != nil {
		return d
	}
	return r
}

func (l *Layout) record(rec *cxxast.CXXRecordDecl) *recordLayout {
	rec = definition(rec)
	if rl, ok := l.records[rec]; ok {
		return rl
	}
	name := rec.TagKind.String() + "." + strings.ReplaceAll(rec.QualifiedName(), "::", ".")
	rl := &recordLayout{
		typ:    &Type{Kind: StructKind, Name: name, Align: 1},
		fields: map[*cxxast.FieldDecl]int64{},
		bases:  map[*cxxast.CXXRecordDecl]int64{},
	}
	// Registered before the members so that self-referential pointers
	// resolve to the same type.
	l.records[rec] = rl

	var off int64
	align := int64(1)
	place := func(size, a int64) int64 {
		if a > align {
			align = a
		}
		at := alignTo(off, a)
		off = at + size
		return at
	}
	primary := false
	for _, b := range rec.Bases() {
		if b.BaseClass != nil && b.BaseClass.IsPolymorphic() {
			primary = true
		}
	}
	if rec.IsPolymorphic() && !primary {
		rl.vptr = true
		place(PointerSize, PointerSize)
	}
	for _, b := range rec.Bases() {
		if b.BaseClass == nil {
			continue
		}
		base := definition(b.BaseClass)
		bl := l.record(base)
		if bl.empty {
			rl.bases[base] = 0
			continue
		}
		rl.bases[base] = place(bl.typ.Size, bl.typ.Align)
	}
	for _, f := range rec.Fields() {
		ft := l.TypeOf(f.Type())
		size, a := ft.Size, ft.Align
		if a == 0 {
			a = 1
		}
		if rec.IsUnion() {
			rl.fields[f] = 0
			if size > off {
				off = size
			}
			if a > align {
				align = a
			}
			continue
		}
		rl.fields[f] = place(size, a)
	}
	rl.empty = off == 0
	if off == 0 {
		off = 1
	}
	rl.typ.Size = alignTo(off, align)
	rl.typ.Align = align
	return rl
}

func builtinType(name string) *Type {
	switch name {
	case "void":
		return Void()
	case "bool", "char", "signed char", "unsigned char", "char8_t":
		return Int(8)
	case "float":
		return Float(32)
	case "double":
		return Float(64)
	case "long double":
		t := Float(128)
		t.Align = 16
		return t
	case "char16_t":
		return Int(16)
	case "wchar_t", "char32_t":
		return Int(32)
	case "size_t", "ssize_t", "ptrdiff_t", "intptr_t", "uintptr_t", "std::size_t", "std::nullptr_t":
		return Int(64)
	}
	switch {
	case strings.Contains(name, "long"):
		return Int(64)
	case strings.Contains(name, "short"):
		return Int(16)
	case strings.HasSuffix(name, "_t") && strings.Contains(name, "int"):
		digits := strings.TrimFunc(name, func(r rune) bool { return r < '0' || r > '9' })
		if bits, err := strconv.Atoi(digits); err == nil && bits > 0 {
			return Int(bits)
		}
	}
	return Int(32)
}
