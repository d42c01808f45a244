// Copyright © 2026 The Crisp authors

package ir

import (
	"fmt"
	"strings"
)

// TypeKind is the class of an IR type.
type TypeKind uint

// Possible TypeKind values.
const (
	VoidKind TypeKind = iota
	IntKind
	FloatKind
	PointerKind
	StructKind
	ArrayKind
	FunctionKind
)

// PointerSize is the size in bytes of pointers on the modelled target.
const PointerSize = 8

// Type is an IR type.  Size and Align are in bytes; both are zero for void
// and function types.
type Type struct {
	Kind TypeKind
	// Bits is the width of integer and floating point types.
	Bits int
	// Elem is the pointee of a pointer, the element of an array and the
	// result of a function type.
	Elem *Type
	// Len is the number of elements of an array.
	Len int64
	// Name is the name of a struct type, for example "class.B".
	Name     string
	Params   []*Type
	Variadic bool
	Size     int64
	Align    int64
}

// Void returns the void type.
func Void() *Type { return &Type{Kind: VoidKind} }

// Int returns the integer type with the given width.
func Int(bits int) *Type {
	size := int64((bits + 7) / 8)
	return &Type{Kind: IntKind, Bits: bits, Size: size, Align: size}
}

// Float returns the floating point type with the given width.
func Float(bits int) *Type {
	size := int64(bits / 8)
	return &Type{Kind: FloatKind, Bits: bits, Size: size, Align: size}
}

// PointerTo returns the type of pointers to elem.
func PointerTo(elem *Type) *Type {
	return &Type{Kind: PointerKind, Elem: elem, Size: PointerSize, Align: PointerSize}
}

// ArrayOf returns the type of arrays of n elems.
func ArrayOf(elem *Type, n int64) *Type {
	return &Type{Kind: ArrayKind, Elem: elem, Len: n, Size: elem.Size * n, Align: elem.Align}
}

// FunctionOf returns a function type.
func FunctionOf(result *Type, params []*Type, variadic bool) *Type {
	return &Type{Kind: FunctionKind, Elem: result, Params: params, Variadic: variadic}
}

// IsPointer reports whether t is a pointer type.
func (t *Type) IsPointer() bool { return t != nil && t.Kind == PointerKind }

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case VoidKind:
		return "void"
	case IntKind:
		return fmt.Sprintf("i%d", t.Bits)
	case FloatKind:
		switch t.Bits {
		case 32:
			return "float"
		case 64:
			return "double"
		}
		return "x86_fp80"
	case PointerKind:
		return t.Elem.String() + "*"
	case StructKind:
		return "%" + t.Name
	case ArrayKind:
		return fmt.Sprintf("[%d x %s]", t.Len, t.Elem)
	}
	params := make([]string, 0, len(t.Params)+1)
	for _, p := range t.Params {
		params = append(params, p.String())
	}
	if t.Variadic {
		params = append(params, "...")
	}
	return fmt.Sprintf("%s (%s)", t.Elem, strings.Join(params, ", "))
}

func alignTo(off, align int64) int64 {
	if align <= 1 {
		return off
	}
	return (off + align - 1) / align * align
}
