// Copyright © 2026 The Crisp authors

package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the syntactic kind of a term.
type Kind uint

const (
	KindAtom Kind = iota
	KindVar
	KindInt
	KindFloat
	KindString
	KindCompound
)

var kindStrings = []string{
	KindAtom:     "atom",
	KindVar:      "variable",
	KindInt:      "integer",
	KindFloat:    "float",
	KindString:   "string",
	KindCompound: "compound",
}

func (k Kind) String() string {
	if int(k) >= len(kindStrings) {
		return "invalid"
	}
	return kindStrings[k]
}

// Term is a read term.  Name holds the atom text, the variable name, the
// numeric literal, the string contents or the functor of a compound.
// Lists are '.'/2 compounds ending in the atom [].
type Term struct {
	Kind Kind
	Name string
	Args []*Term
	// Line is the 1-based line the term starts on.
	Line int
}

// Atom returns the atom name.
func Atom(name string) *Term { return &Term{Kind: KindAtom, Name: name} }

// Compound returns name(args...).
func Compound(name string, args ...*Term) *Term {
	return &Term{Kind: KindCompound, Name: name, Args: args}
}

// IsCallable reports whether t can be a goal.
func (t *Term) IsCallable() bool {
	return t != nil && (t.Kind == KindAtom || t.Kind == KindCompound)
}

// Is reports whether t is callable with the given name and arity.
func (t *Term) Is(name string, arity int) bool {
	return t.IsCallable() && t.Name == name && len(t.Args) == arity
}

// Indicator returns name/arity for a callable term.
func (t *Term) Indicator() string {
	return fmt.Sprintf("%s/%d", t.Name, len(t.Args))
}

// Int returns the value of an integer term.
func (t *Term) Int() (int64, bool) {
	if t == nil || t.Kind != KindInt {
		return 0, false
	}
	v, err := strconv.ParseInt(t.Name, 10, 64)
	return v, err == nil
}

// List returns the elements of a proper list.
func (t *Term) List() ([]*Term, bool) {
	var elems []*Term
	for t != nil {
		switch {
		case t.Kind == KindAtom && t.Name == "[]":
			return elems, true
		case t.Is(".", 2):
			elems = append(elems, t.Args[0])
			t = t.Args[1]
		default:
			return nil, false
		}
	}
	return nil, false
}

func (t *Term) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Term) write(b *strings.Builder) {
	switch t.Kind {
	case KindAtom:
		b.WriteString(quoteAtom(t.Name))
	case KindString:
		b.WriteString(strconv.Quote(t.Name))
	case KindCompound:
		if t.Is(".", 2) {
			t.writeList(b)
			return
		}
		b.WriteString(quoteAtom(t.Name))
		b.WriteByte('(')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			a.write(b)
		}
		b.WriteByte(')')
	default:
		b.WriteString(t.Name)
	}
}

func (t *Term) writeList(b *strings.Builder) {
	b.WriteByte('[')
	for i := 0; ; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		t.Args[0].write(b)
		tail := t.Args[1]
		if tail.Is(".", 2) {
			t = tail
			continue
		}
		if !(tail.Kind == KindAtom && tail.Name == "[]") {
			b.WriteByte('|')
			tail.write(b)
		}
		break
	}
	b.WriteByte(']')
}

func quoteAtom(name string) string {
	switch name {
	case "[]", "!", ";", "{}", ",":
		if name == "," {
			return "','"
		}
		return name
	}
	if isSolo(name) || isSymbolic(name) {
		return name
	}
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range name {
		switch r {
		case '\'', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func isSolo(name string) bool {
	if name == "" || name[0] < 'a' || name[0] > 'z' {
		return false
	}
	for _, r := range name {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func isSymbolic(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !strings.ContainsRune(`+-*/\^<>=~:.?@#&$`, r) {
			return false
		}
	}
	return true
}

// Goals returns the goals a clause body calls, looking through control
// constructs and the meta-predicates whose arguments are goals.  Goals
// that are variables are skipped.
func Goals(body *Term) []*Term {
	var goals []*Term
	var walk func(t *Term, extra int)
	walk = func(t *Term, extra int) {
		if t == nil || !t.IsCallable() {
			return
		}
		if extra > 0 {
			args := make([]*Term, len(t.Args), len(t.Args)+extra)
			copy(args, t.Args)
			for i := 0; i < extra; i++ {
				args = append(args, &Term{Kind: KindVar, Name: "_", Line: t.Line})
			}
			t = &Term{Kind: t.Kind, Name: t.Name, Args: args, Line: t.Line}
			if t.Kind == KindAtom {
				t.Kind = KindCompound
			}
			goals = append(goals, t)
			return
		}
		switch {
		case t.Is(",", 2), t.Is(";", 2), t.Is("->", 2), t.Is("*->", 2):
			walk(t.Args[0], 0)
			walk(t.Args[1], 0)
			return
		case t.Is(`\+`, 1), t.Is("once", 1), t.Is("ignore", 1), t.Is("call", 1):
			walk(t.Args[0], 0)
			return
		case t.Name == "call" && len(t.Args) > 1:
			walk(t.Args[0], len(t.Args)-1)
			return
		case t.Is("findall", 3), t.Is("findall", 4), t.Is("aggregate_all", 3):
			walk(t.Args[1], 0)
			return
		case t.Is("bagof", 3), t.Is("setof", 3):
			g := t.Args[1]
			for g.Is("^", 2) {
				g = g.Args[1]
			}
			walk(g, 0)
			return
		case t.Is("forall", 2):
			walk(t.Args[0], 0)
			walk(t.Args[1], 0)
			return
		case t.Is("catch", 3):
			walk(t.Args[0], 0)
			walk(t.Args[2], 0)
			return
		}
		goals = append(goals, t)
	}
	walk(body, 0)
	return goals
}
