// Copyright © 2026 The Crisp authors

/*
Package parser reads Prolog source text: rule files and the predicate
tables the generator consumes.  It understands the standard operator table
restricted to the operators rule files use.

	clause   := <expr> '.'
	expr     := <unit> (<op> <unit>)*
	unit     := <prefix>* <primary>
	primary  := <functor> '(' <arg> (',' <arg>)* ')'
	          | '[' (<arg> (',' <arg>)* ('|' <arg>)?)? ']'
	          | '{' <expr> '}' | '(' <expr> ')'
	          | <string> | <number> | <variable> | <atom>
	arg      := <unit> (<op except ',' and '|'> <unit>)*
*/
package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	parsec "github.com/prataprc/goparsec"
)

// Clause is one read clause.  A directive has a nil Head and its goal in
// Body; a fact has a nil Body.
type Clause struct {
	Head      *Term
	Body      *Term
	Directive bool
	Line      int
}

// Indicator returns the name/arity of the clause head.
func (c *Clause) Indicator() string {
	if c.Head == nil {
		return ""
	}
	return c.Head.Indicator()
}

// Parse reads every clause of text.  The name is used in errors.
func Parse(name string, text []byte) ([]*Clause, error) {
	g, terms, readErr := read(name, text)
	var clauses []*Clause
	for _, t := range terms {
		c, err := g.clause(t)
		if err != nil {
			return clauses, fmt.Errorf("%s:%v", name, err)
		}
		clauses = append(clauses, c)
	}
	return clauses, readErr
}

// ParseTerm reads a single term, with or without the terminating period.
// The term is read at priority 1200, so a rule reads as a ':-'/2 term.
func ParseTerm(text string) (*Term, error) {
	text = strings.TrimSpace(text)
	if !strings.HasSuffix(text, ".") {
		text += "."
	}
	_, terms, err := read("term", []byte(text+"\n"))
	if err != nil {
		return nil, err
	}
	if len(terms) != 1 {
		return nil, fmt.Errorf("term: %d terms read", len(terms))
	}
	return terms[0], nil
}

// read returns the period terminated terms of text, up to the first
// syntax error.
func read(name string, text []byte) (*grammar, []*Term, error) {
	text = stripComments(text)
	g := newGrammar(text)
	s := parsec.NewScanner(text)
	parser := g.clauseParser()

	var terms []*Term
	root, s := parser(s)
	for root != nil {
		if err, ok := root.(error); ok {
			return g, terms, fmt.Errorf("%s:%v", name, err)
		}
		terms = append(terms, root.(*Term))
		root, s = parser(s)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		line := g.line(s.GetCursor())
		b, _ := s.Match(`[^\n]{1,16}`)
		if len(b) > 15 {
			b = append(b[:15:15], []byte("...")...)
		}
		return g, terms, fmt.Errorf("%s:%d: unexpected source text possibly starting: %s", name, line, b)
	}
	return g, terms, nil
}

type grammar struct {
	starts []int
}

func newGrammar(text []byte) *grammar {
	g := &grammar{starts: []int{0}}
	for i, c := range text {
		if c == '\n' {
			g.starts = append(g.starts, i+1)
		}
	}
	return g
}

func (g *grammar) line(pos int) int {
	return sort.Search(len(g.starts), func(i int) bool { return g.starts[i] > pos })
}

func (g *grammar) clause(t *Term) (*Clause, error) {
	c := &Clause{Line: t.Line}
	switch {
	case t.Is(":-", 2):
		c.Head, c.Body = t.Args[0], t.Args[1]
	case t.Is(":-", 1), t.Is("?-", 1):
		c.Directive, c.Body = true, t.Args[0]
	case t.Is("-->", 2):
		head := t.Args[0]
		args := append(append([]*Term{}, head.Args...), &Term{Kind: KindVar, Name: "_"}, &Term{Kind: KindVar, Name: "_"})
		c.Head = &Term{Kind: KindCompound, Name: head.Name, Args: args, Line: head.Line}
	default:
		c.Head = t
	}
	if c.Head != nil && !c.Head.IsCallable() {
		return nil, fmt.Errorf("%d: clause head %s is not callable", c.Line, c.Head)
	}
	return c, nil
}

// opPattern builds a token pattern matching any of ops, longest first.
func opPattern(ops map[string]opDef, skip ...string) string {
	var names []string
outer:
	for name := range ops {
		for _, s := range skip {
			if name == s {
				continue outer
			}
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	alts := make([]string, len(names))
	for i, name := range names {
		alts[i] = regexp.QuoteMeta(name)
		if isSolo(name) {
			alts[i] += `\b`
		}
	}
	return "(?:" + strings.Join(alts, "|") + ")"
}

func (g *grammar) clauseParser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	openB := parsec.Atom("[", "OPENB")
	closeB := parsec.Atom("]", "CLOSEB")
	openC := parsec.Atom("{", "OPENC")
	closeC := parsec.Atom("}", "CLOSEC")
	comma := parsec.Atom(",", "COMMA")
	bar := parsec.Atom("|", "BAR")
	end := parsec.Token(`\.(?:\s|$)`, "END")

	functor := parsec.Token(`(?:[a-z][A-Za-z0-9_]*|'(?:[^'\\]|\\.|'')*'|[+\-*/\\^<>=~:?@#&$]+)\(`, "FUNCTOR")
	str := parsec.Token(`"(?:[^"\\]|\\.)*"`, "STRING")
	float := parsec.Token(`[0-9]+\.[0-9]+(?:[eE][+-]?[0-9]+)?`, "FLOAT")
	char := parsec.Token(`0'(?:\\.|''|[^\\'])`, "CHAR")
	integer := parsec.Token(`[0-9]+`, "INT")
	variable := parsec.Token(`[A-Z_][A-Za-z0-9_]*`, "VAR")
	qname := parsec.Token(`'(?:[^'\\]|\\.|'')*'`, "QNAME")
	name := parsec.Token(`[a-z][A-Za-z0-9_]*`, "NAME")
	solo := parsec.Token(`!|;|\[\]|\{\}`, "SOLO")
	symbol := parsec.Token(`[+\-*/\\^<>=~:?@#&$]+`, "SYMBOL")

	infix := parsec.Token(opPattern(infixOps), "OP")
	argInfix := parsec.Token(opPattern(infixOps, ",", "|"), "OP")
	prefix := parsec.Token(opPattern(prefixOps), "PREFIX")

	var expr, arg parsec.Parser // forward declarations for recursion
	args := parsec.Kleene(nil, &arg, comma)
	compound := parsec.And(g.compound, functor, args, closeP)
	tail := parsec.And(nil, bar, &arg)
	list := parsec.And(g.list, openB, args, parsec.Kleene(nil, tail), closeB)
	curly := parsec.And(g.curly, openC, &expr, closeC)
	paren := parsec.And(g.paren, openP, &expr, closeP)
	atomic := parsec.OrdChoice(g.atomic,
		str, float, char, integer, variable, qname, name, solo,
		symbol, // symbol comes last because operators are symbols too
	)
	primary := parsec.OrdChoice(nil, compound, list, curly, paren, atomic)
	unit := parsec.OrdChoice(nil,
		parsec.And(g.prefixed, parsec.Kleene(nil, prefix), primary),
		// A prefix operator standing alone is an atom.
		primary,
	)
	expr = parsec.And(g.exprAt(1200), unit, parsec.Kleene(nil, parsec.And(nil, infix, unit)))
	arg = parsec.And(g.exprAt(999), unit, parsec.Kleene(nil, parsec.And(nil, argInfix, unit)))
	return parsec.And(g.end, &expr, end)
}

type parseError struct {
	line int
	msg  string
}

func (e *parseError) Error() string { return fmt.Sprintf("%d: %s", e.line, e.msg) }

// firstError returns the first error among nodes, looking into lists.
func firstError(nodes []parsec.ParsecNode) error {
	for _, n := range nodes {
		switch n := n.(type) {
		case error:
			return n
		case []parsec.ParsecNode:
			if err := firstError(n); err != nil {
				return err
			}
		}
	}
	return nil
}

func listOf(n parsec.ParsecNode) []parsec.ParsecNode {
	if l, ok := n.([]parsec.ParsecNode); ok {
		return l
	}
	return []parsec.ParsecNode{n}
}

// termOf unwraps the single term a choice produced.
func termOf(n parsec.ParsecNode) *Term {
	switch n := n.(type) {
	case *Term:
		return n
	case []parsec.ParsecNode:
		if len(n) == 1 {
			return termOf(n[0])
		}
	}
	return nil
}

func terminal(n parsec.ParsecNode) *parsec.Terminal {
	switch n := n.(type) {
	case *parsec.Terminal:
		return n
	case []parsec.ParsecNode:
		if len(n) == 1 {
			return terminal(n[0])
		}
	}
	return nil
}

func (g *grammar) end(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if err := firstError(nodes); err != nil {
		return err
	}
	t := termOf(nodes[0])
	if t == nil {
		return &parseError{msg: "unexpected token"}
	}
	return t
}

func (g *grammar) atomic(nodes []parsec.ParsecNode) parsec.ParsecNode {
	t := terminal(nodes[0])
	if t == nil {
		return &parseError{msg: "unexpected token"}
	}
	line := g.line(t.Position)
	switch t.Name {
	case "STRING":
		s, err := unquote(t.Value, '"')
		if err != nil {
			return &parseError{line, err.Error()}
		}
		return &Term{Kind: KindString, Name: s, Line: line}
	case "FLOAT":
		return &Term{Kind: KindFloat, Name: t.Value, Line: line}
	case "INT":
		return &Term{Kind: KindInt, Name: t.Value, Line: line}
	case "CHAR":
		s, err := unquote("'"+t.Value[2:]+"'", '\'')
		if err != nil || s == "" {
			return &parseError{line, "bad character code " + t.Value}
		}
		return &Term{Kind: KindInt, Name: strconv.Itoa(int([]rune(s)[0])), Line: line}
	case "VAR":
		return &Term{Kind: KindVar, Name: t.Value, Line: line}
	case "QNAME":
		s, err := unquote(t.Value, '\'')
		if err != nil {
			return &parseError{line, err.Error()}
		}
		return &Term{Kind: KindAtom, Name: s, Line: line}
	}
	return &Term{Kind: KindAtom, Name: t.Value, Line: line}
}

func (g *grammar) compound(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if err := firstError(nodes); err != nil {
		return err
	}
	f := terminal(nodes[0])
	line := g.line(f.Position)
	name := strings.TrimSuffix(f.Value, "(")
	if strings.HasPrefix(name, "'") {
		var err error
		if name, err = unquote(name, '\''); err != nil {
			return &parseError{line, err.Error()}
		}
	}
	t := &Term{Kind: KindCompound, Name: name, Line: line}
	for _, a := range listOf(nodes[1]) {
		if at := termOf(a); at != nil {
			t.Args = append(t.Args, at)
		}
	}
	if len(t.Args) == 0 {
		return &parseError{line, name + "() has no arguments"}
	}
	return t
}

func (g *grammar) list(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if err := firstError(nodes); err != nil {
		return err
	}
	line := g.line(terminal(nodes[0]).Position)
	tail := &Term{Kind: KindAtom, Name: "[]", Line: line}
	tails := listOf(nodes[2])
	if len(tails) > 1 {
		return &parseError{line, "list with more than one tail"}
	}
	if len(tails) == 1 {
		parts := listOf(tails[0])
		tail = termOf(parts[len(parts)-1])
	}
	var elems []*Term
	for _, e := range listOf(nodes[1]) {
		if et := termOf(e); et != nil {
			elems = append(elems, et)
		}
	}
	if len(elems) == 0 && len(tails) == 1 {
		return &parseError{line, "list tail without elements"}
	}
	for i := len(elems) - 1; i >= 0; i-- {
		tail = &Term{Kind: KindCompound, Name: ".", Args: []*Term{elems[i], tail}, Line: elems[i].Line}
	}
	return tail
}

func (g *grammar) curly(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if err := firstError(nodes); err != nil {
		return err
	}
	line := g.line(terminal(nodes[0]).Position)
	return &Term{Kind: KindCompound, Name: "{}", Args: []*Term{termOf(nodes[1])}, Line: line}
}

func (g *grammar) paren(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if err := firstError(nodes); err != nil {
		return err
	}
	return termOf(nodes[1])
}

// prefixed returns the token run of a unit with its prefix operators.
func (g *grammar) prefixed(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if err := firstError(nodes); err != nil {
		return err
	}
	var toks []tok
	for _, p := range listOf(nodes[0]) {
		if t := terminal(p); t != nil {
			toks = append(toks, tok{kind: tokPrefix, name: t.Value, line: g.line(t.Position)})
		}
	}
	primary := termOf(nodes[1])
	return append(toks, tok{kind: tokPrimary, term: primary, line: primary.Line})
}

func unitToks(n parsec.ParsecNode) []tok {
	switch n := n.(type) {
	case []tok:
		return n
	case *Term:
		return []tok{{kind: tokPrimary, term: n, line: n.Line}}
	case []parsec.ParsecNode:
		if len(n) == 1 {
			return unitToks(n[0])
		}
	}
	return nil
}

func (g *grammar) exprAt(max int) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		if err := firstError(nodes); err != nil {
			return err
		}
		toks := unitToks(nodes[0])
		for _, pair := range listOf(nodes[1]) {
			parts := listOf(pair)
			if len(parts) != 2 {
				continue
			}
			op := terminal(parts[0])
			toks = append(toks, tok{kind: tokInfix, name: op.Value, line: g.line(op.Position)})
			toks = append(toks, unitToks(parts[1])...)
		}
		t, err := resolve(toks, max)
		if err != nil {
			return &parseError{toks[0].line, err.Error()}
		}
		return t
	}
}

// unquote reads a quoted atom or string.  A doubled quote stands for
// itself.
func unquote(s string, q byte) (string, error) {
	if len(s) < 2 || s[0] != q || s[len(s)-1] != q {
		return "", fmt.Errorf("bad quoted text %s", s)
	}
	s = s[1 : len(s)-1]
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == q && i+1 < len(s) && s[i+1] == q:
			b.WriteByte(q)
			i++
		case c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\n':
			default:
				b.WriteByte(s[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// stripComments blanks out % line comments and /* */ block comments,
// keeping offsets and newlines so positions stay valid.
func stripComments(text []byte) []byte {
	out := make([]byte, len(text))
	copy(out, text)
	var quote byte
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' && i > 0 && out[i-1] == '0' && (i < 2 || !isAlnum(out[i-2])):
			// 0'c character code
			i++
		case c == '\'' || c == '"':
			quote = c
		case c == '%':
			for ; i < len(out) && out[i] != '\n'; i++ {
				out[i] = ' '
			}
		case c == '/' && i+1 < len(out) && out[i+1] == '*':
			for ; i < len(out); i++ {
				if out[i] == '*' && i+1 < len(out) && out[i+1] == '/' {
					out[i], out[i+1] = ' ', ' '
					i++
					break
				}
				if out[i] != '\n' {
					out[i] = ' '
				}
			}
		}
	}
	return out
}

func isAlnum(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
