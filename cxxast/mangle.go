// Copyright © 2026 The Crisp authors

package cxxast

import (
	"strconv"
	"strings"
)

// Mangler produces Itanium C++ ABI names for declarations.  Constructors and
// destructors use their complete object variants (C1 and D1).  Template
// arguments and discriminators of local entities are not encoded.
type Mangler struct{}

// NewMangler returns a Mangler.
func NewMangler() *Mangler {
	return &Mangler{}
}

// ShouldMangle reports whether d has a mangled symbol name.  main, extern "C"
// functions and variables at global scope keep their source name.
func (m *Mangler) ShouldMangle(d NamedDecl) bool {
	switch d := d.(type) {
	case FunctionDecl:
		return !d.IsMain() && !d.IsExternC()
	case *ParmVarDecl:
		return false
	case *Variable:
		if d.IsLocalVarDecl() {
			return d.Storage == StorageStatic
		}
		return len(enclosingNames(d)) > 0
	}
	return false
}

// Mangle returns the symbol name of d.  Declarations that are not mangled
// return their plain name.
func (m *Mangler) Mangle(d NamedDecl) string {
	if !m.ShouldMangle(d) {
		return d.Name()
	}
	s := newMangleState()
	s.buf.WriteString("_Z")
	switch d := d.(type) {
	case FunctionDecl:
		s.functionEncoding(d)
	case *Variable:
		if fn, ok := d.DeclContext().(FunctionDecl); ok {
			s.buf.WriteByte('Z')
			s.functionEncoding(fn)
			s.buf.WriteByte('E')
			s.sourceName(d.Name())
		} else {
			s.name(d, false)
		}
	}
	return s.buf.String()
}

type mangleState struct {
	buf  strings.Builder
	subs map[any]int
}

func newMangleState() *mangleState {
	return &mangleState{subs: make(map[any]int)}
}

// substitute writes the substitution for key if it is a candidate.
func (s *mangleState) substitute(key any) bool {
	i, ok := s.subs[key]
	if !ok {
		return false
	}
	s.buf.WriteString("S")
	if i > 0 {
		s.buf.WriteString(strings.ToUpper(strconv.FormatInt(int64(i-1), 36)))
	}
	s.buf.WriteString("_")
	return true
}

func (s *mangleState) addSubstitution(key any) {
	if _, ok := s.subs[key]; !ok {
		s.subs[key] = len(s.subs)
	}
}

func (s *mangleState) sourceName(name string) {
	s.buf.WriteString(strconv.Itoa(len(name)))
	s.buf.WriteString(name)
}

// enclosingNames returns the namespaces and records enclosing d, outermost
// first.  Linkage specifications are transparent.
func enclosingNames(d Decl) []NamedDecl {
	var names []NamedDecl
	for ctx := d.DeclContext(); ctx != nil; ctx = ctx.DeclContext() {
		switch c := ctx.(type) {
		case *NamespaceDecl:
			names = append(names, c)
		case *CXXRecordDecl:
			names = append(names, canonicalNamed(c))
		case *EnumDecl:
			if c.Scoped {
				names = append(names, c)
			}
		}
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

func canonicalNamed(d NamedDecl) NamedDecl {
	if c, ok := d.CanonicalDecl().(NamedDecl); ok {
		return c
	}
	return d
}

func isStd(d NamedDecl) bool {
	ns, ok := d.(*NamespaceDecl)
	if !ok || ns.Name() != "std" {
		return false
	}
	_, top := ns.DeclContext().(*TranslationUnitDecl)
	return top
}

func (s *mangleState) component(d NamedDecl) {
	if ns, ok := d.(*NamespaceDecl); ok && ns.IsAnonymousNamespace() {
		s.sourceName("_GLOBAL__N_1")
		return
	}
	s.sourceName(d.Name())
}

// prefix writes the nested-name prefix made of chain, reusing the longest
// prefix already seen.
func (s *mangleState) prefix(chain []NamedDecl) {
	if len(chain) == 0 {
		return
	}
	last := chain[len(chain)-1]
	if len(chain) == 1 && isStd(last) {
		s.buf.WriteString("St")
		return
	}
	if s.substitute(last) {
		return
	}
	s.prefix(chain[:len(chain)-1])
	s.component(last)
	s.addSubstitution(last)
}

func (s *mangleState) unqualifiedName(d NamedDecl) {
	switch d.(type) {
	case CXXConstructorDecl:
		s.buf.WriteString("C1")
		return
	case CXXDestructorDecl:
		s.buf.WriteString("D1")
		return
	}
	if op, ok := operatorCode(d.Name()); ok {
		s.buf.WriteString(op)
		return
	}
	s.sourceName(d.Name())
}

// name writes the (possibly nested) name of d.
func (s *mangleState) name(d NamedDecl, constMethod bool) {
	chain := enclosingNames(d)
	switch {
	case len(chain) == 0:
		s.unqualifiedName(d)
	case len(chain) == 1 && isStd(chain[0]) && !constMethod:
		s.buf.WriteString("St")
		s.unqualifiedName(d)
	default:
		s.buf.WriteByte('N')
		if constMethod {
			s.buf.WriteByte('K')
		}
		s.prefix(chain)
		s.unqualifiedName(d)
		s.buf.WriteByte('E')
	}
}

func (s *mangleState) functionEncoding(fn FunctionDecl) {
	constMethod := false
	if m, ok := fn.(CXXMethodDecl); ok {
		constMethod = m.IsConst()
	}
	s.name(fn, constMethod)
	params := fn.Params()
	if len(params) == 0 && !fn.IsVariadic() {
		s.buf.WriteByte('v')
		return
	}
	for _, p := range params {
		s.mangleType(p.Type().CanonicalType().UnqualifiedType())
	}
	if fn.IsVariadic() {
		s.buf.WriteByte('z')
	}
}

var builtinCodes = map[string]string{
	"void":               "v",
	"bool":               "b",
	"char":               "c",
	"signed char":        "a",
	"unsigned char":      "h",
	"short":              "s",
	"unsigned short":     "t",
	"int":                "i",
	"unsigned int":       "j",
	"long":               "l",
	"unsigned long":      "m",
	"long long":          "x",
	"unsigned long long": "y",
	"float":              "f",
	"double":             "d",
	"long double":        "e",
	"wchar_t":            "w",
	"char16_t":           "Ds",
	"char32_t":           "Di",
	"nullptr_t":          "Dn",
}

func (s *mangleState) recordName(d NamedDecl) {
	d = canonicalNamed(d)
	if s.substitute(d) {
		return
	}
	chain := enclosingNames(d)
	switch {
	case len(chain) == 0:
		s.sourceName(d.Name())
	case len(chain) == 1 && isStd(chain[0]):
		s.buf.WriteString("St")
		s.sourceName(d.Name())
	default:
		s.buf.WriteByte('N')
		s.prefix(chain)
		s.sourceName(d.Name())
		s.buf.WriteByte('E')
	}
	s.addSubstitution(d)
}

func (s *mangleState) mangleType(q QualType) {
	q = q.CanonicalType()
	if q.IsNull() {
		s.buf.WriteByte('v')
		return
	}
	if q.Quals != 0 {
		if s.substitute(q) {
			return
		}
		if q.Quals&Restrict != 0 {
			s.buf.WriteByte('r')
		}
		if q.Quals&Volatile != 0 {
			s.buf.WriteByte('V')
		}
		if q.Quals&Const != 0 {
			s.buf.WriteByte('K')
		}
		s.mangleType(q.UnqualifiedType())
		s.addSubstitution(q)
		return
	}
	switch t := q.T.(type) {
	case *BuiltinType:
		if code, ok := builtinCodes[t.Name]; ok {
			s.buf.WriteString(code)
		} else {
			s.buf.WriteByte('u')
			s.sourceName(t.Name)
		}
	case *RecordType:
		s.recordName(t.Decl)
	case *EnumType:
		s.recordName(t.Decl)
	default:
		if s.substitute(q) {
			return
		}
		switch t := t.(type) {
		case *PointerType:
			s.buf.WriteByte('P')
			s.mangleType(t.Pointee)
		case *LValueReferenceType:
			s.buf.WriteByte('R')
			s.mangleType(t.Pointee)
		case *FunctionProtoType:
			s.buf.WriteByte('F')
			s.mangleType(t.Result)
			if len(t.Params) == 0 && !t.Variadic {
				s.buf.WriteByte('v')
			}
			for _, p := range t.Params {
				s.mangleType(p)
			}
			if t.Variadic {
				s.buf.WriteByte('z')
			}
			s.buf.WriteByte('E')
		case *ConstantArrayType:
			s.buf.WriteByte('A')
			s.buf.WriteString(strconv.FormatInt(t.Size, 10))
			s.buf.WriteByte('_')
			s.mangleType(t.Element)
		}
		s.addSubstitution(q)
	}
}

var operatorCodes = map[string]string{
	"new": "nw", "new[]": "na", "delete": "dl", "delete[]": "da",
	"+": "pl", "-": "mi", "*": "ml", "/": "dv", "%": "rm",
	"&": "an", "|": "or", "^": "eo", "~": "co", "!": "nt",
	"=": "aS", "+=": "pL", "-=": "mI", "*=": "mL", "/=": "dV",
	"%=": "rM", "&=": "aN", "|=": "oR", "^=": "eO",
	"<<": "ls", ">>": "rs", "<<=": "lS", ">>=": "rS",
	"==": "eq", "!=": "ne", "<": "lt", ">": "gt", "<=": "le", ">=": "ge",
	"&&": "aa", "||": "oo", "++": "pp", "--": "mm", ",": "cm",
	"->*": "pm", "->": "pt", "()": "cl", "[]": "ix",
}

func operatorCode(name string) (string, bool) {
	op, ok := strings.CutPrefix(name, "operator")
	if !ok || op == "" {
		return "", false
	}
	code, ok := operatorCodes[strings.TrimSpace(op)]
	return code, ok
}
