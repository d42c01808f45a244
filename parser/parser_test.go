// Copyright © 2026 The Crisp authors

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTerm(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"foo(X, 'Bar', [1,2|T])", "foo(X,'Bar',[1,2|T])"},
		{"a :- b, c ; d", ":-(a,;(','(b,c),d))"},
		{":- dynamic(foo/1)", ":-(dynamic(/(foo,1)))"},
		{"p --> q", "-->(p,q)"},
		{"X is 1 + 2 * 3 - -4", "is(X,-(+(1,*(2,3)),-4))"},
		{`\+ a = b`, `\+(=(a,b))`},
		{"'Stmt::descendant'(B, S)", "'Stmt::descendant'(B,S)"},
		{"{a, b}", "{}(','(a,b))"},
		{`"str\n"`, `"str\n"`},
		{"0'a", "97"},
		{"a - b - c", "-(-(a,b),c)"},
		{"a ^ b ^ c", "^(a,^(b,c))"},
		{"[]", "[]"},
		{"f((a :- b))", "f(:-(a,b))"},
		{"X == Y -> true ; false", ";(->(==(X,Y),true),false)"},
		{"'it''s'", `'it\'s'`},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			term, err := ParseTerm(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.want, term.String())
		})
	}
}

func TestParseTermErrors(t *testing.T) {
	for _, text := range []string{"f(a :- b)", "foo(", "[a|b|c]"} {
		_, err := ParseTerm(text)
		assert.Error(t, err, text)
	}
}

const rules = `% header
:- dynamic isA/2.

/* block
   comment */
foo(X) :-         % line 6
    bar(X),
    \+ baz(X).
fact('it''s').
`

func TestParse(t *testing.T) {
	clauses, err := Parse("rules.pl", []byte(rules))
	require.NoError(t, err)
	require.Len(t, clauses, 3)

	assert.True(t, clauses[0].Directive)
	assert.Equal(t, "dynamic(/(isA,2))", clauses[0].Body.String())
	assert.Equal(t, 2, clauses[0].Line)

	assert.Equal(t, "foo/1", clauses[1].Indicator())
	assert.Equal(t, 6, clauses[1].Line)
	var goals []string
	for _, g := range Goals(clauses[1].Body) {
		goals = append(goals, g.Indicator())
	}
	assert.Equal(t, []string{"bar/1", "baz/1"}, goals)

	assert.Equal(t, "fact/1", clauses[2].Indicator())
	assert.Nil(t, clauses[2].Body)
	assert.Equal(t, "it's", clauses[2].Head.Args[0].Name)
}

func TestParseError(t *testing.T) {
	_, err := Parse("x.pl", []byte("ok.\nfoo(.\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x.pl:2")
}

func TestGoals(t *testing.T) {
	term, err := ParseTerm("a :- findall(X, p(X), L), call(q, 1), forall(r(Y), s(Y)), G, L = [_|_]")
	require.NoError(t, err)
	var got []string
	for _, g := range Goals(term.Args[1]) {
		got = append(got, g.Indicator())
	}
	assert.Equal(t, []string{"p/1", "q/2", "r/1", "s/1", "=/2"}, got)
}

func TestList(t *testing.T) {
	term, err := ParseTerm("[a, 'B', 3]")
	require.NoError(t, err)
	elems, ok := term.List()
	require.True(t, ok)
	require.Len(t, elems, 3)
	assert.Equal(t, KindAtom, elems[1].Kind)
	assert.Equal(t, "B", elems[1].Name)
	n, ok := elems[2].Int()
	assert.True(t, ok)
	assert.EqualValues(t, 3, n)

	_, ok = Atom("a").List()
	assert.False(t, ok)
}
