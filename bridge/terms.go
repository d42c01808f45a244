// Copyright © 2026 The Crisp authors

package bridge

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ichiban/prolog/engine"
)

// AtomText returns the text of t if it resolves to an atom.
func AtomText(t engine.Term, env *engine.Env) (string, bool) {
	a, ok := env.Resolve(t).(engine.Atom)
	if !ok {
		return "", false
	}
	return a.String(), true
}

// IntegerOf returns the value of t if it resolves to an integer.
func IntegerOf(t engine.Term, env *engine.Env) (int64, bool) {
	i, ok := env.Resolve(t).(engine.Integer)
	return int64(i), ok
}

// IsVariable reports whether t is unbound in env.
func IsVariable(t engine.Term, env *engine.Env) bool {
	_, ok := env.Resolve(t).(engine.Variable)
	return ok
}

// Compound splits t into its functor name and arguments.  An atom is a
// compound of arity zero.
func Compound(t engine.Term, env *engine.Env) (string, []engine.Term, bool) {
	switch t := env.Resolve(t).(type) {
	case engine.Atom:
		return t.String(), nil, true
	case engine.Compound:
		args := make([]engine.Term, t.Arity())
		for i := range args {
			args[i] = t.Arg(i)
		}
		return t.Functor().String(), args, true
	}
	return "", nil, false
}

// ListElems returns the elements of a proper list.
func ListElems(t engine.Term, env *engine.Env) ([]engine.Term, bool) {
	var elems []engine.Term
	iter := engine.ListIterator{List: t, Env: env}
	for iter.Next() {
		elems = append(elems, iter.Current())
	}
	if iter.Err() != nil {
		return nil, false
	}
	return elems, true
}

// QuoteAtom writes name as a quoted Prolog atom.
func QuoteAtom(name string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range name {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// TermString renders t with atoms quoted where needed, for diagnostics and
// logs.
func TermString(t engine.Term, env *engine.Env) string {
	var b strings.Builder
	writeTerm(&b, t, env)
	return b.String()
}

func writeTerm(b *strings.Builder, t engine.Term, env *engine.Env) {
	switch t := env.Resolve(t).(type) {
	case engine.Atom:
		b.WriteString(atomString(t.String()))
	case engine.Integer:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case engine.Float:
		b.WriteString(strconv.FormatFloat(float64(t), 'g', -1, 64))
	case engine.Variable:
		b.WriteString("_")
	case engine.Compound:
		if elems, ok := ListElems(t, env); ok {
			b.WriteByte('[')
			for i, e := range elems {
				if i > 0 {
					b.WriteByte(',')
				}
				writeTerm(b, e, env)
			}
			b.WriteByte(']')
			return
		}
		b.WriteString(atomString(t.Functor().String()))
		b.WriteByte('(')
		for i := 0; i < t.Arity(); i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			writeTerm(b, t.Arg(i), env)
		}
		b.WriteByte(')')
	default:
		b.WriteString("?")
	}
}

// atomString quotes name unless it is a plain lower case identifier.
func atomString(name string) string {
	if name == "[]" {
		return name
	}
	for i, r := range name {
		switch {
		case i == 0 && r >= 'a' && r <= 'z':
		case i > 0 && (r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)):
		default:
			return QuoteAtom(name)
		}
	}
	if name == "" {
		return "''"
	}
	return name
}
