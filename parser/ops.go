// Copyright © 2026 The Crisp authors

package parser

import "fmt"

type opType uint

const (
	xfx opType = iota
	xfy
	yfx
	fy
	fx
)

type opDef struct {
	prec int
	typ  opType
}

// The standard operator table, restricted to what rule files use.
var infixOps = map[string]opDef{
	":-":  {1200, xfx},
	"-->": {1200, xfx},
	";":   {1100, xfy},
	"|":   {1100, xfy},
	"->":  {1050, xfy},
	"*->": {1050, xfy},
	",":   {1000, xfy},
	"=":   {700, xfx},
	`\=`:  {700, xfx},
	"==":  {700, xfx},
	`\==`: {700, xfx},
	"@<":  {700, xfx},
	"@>":  {700, xfx},
	"@=<": {700, xfx},
	"@>=": {700, xfx},
	"=..": {700, xfx},
	"is":  {700, xfx},
	"=:=": {700, xfx},
	`=\=`: {700, xfx},
	"<":   {700, xfx},
	">":   {700, xfx},
	"=<":  {700, xfx},
	">=":  {700, xfx},
	":":   {200, xfy},
	"+":   {500, yfx},
	"-":   {500, yfx},
	`/\`:  {500, yfx},
	`\/`:  {500, yfx},
	"*":   {400, yfx},
	"/":   {400, yfx},
	"//":  {400, yfx},
	"mod": {400, yfx},
	"rem": {400, yfx},
	"<<":  {400, yfx},
	">>":  {400, yfx},
	"**":  {200, xfx},
	"^":   {200, xfy},
}

var prefixOps = map[string]opDef{
	":-":      {1200, fx},
	"?-":      {1200, fx},
	"dynamic": {1150, fx},
	`\+`:      {900, fy},
	"-":       {200, fy},
	"+":       {200, fy},
	`\`:       {200, fy},
}

type tokKind uint

const (
	tokPrimary tokKind = iota
	tokPrefix
	tokInfix
)

type tok struct {
	kind tokKind
	name string
	term *Term
	line int
}

// pratt resolves a flat sequence of operands and operators by precedence.
type pratt struct {
	toks []tok
	i    int
}

func resolve(toks []tok, max int) (*Term, error) {
	p := &pratt{toks: toks}
	t, _, err := p.parse(max)
	if err != nil {
		return nil, err
	}
	if p.i < len(p.toks) {
		return nil, fmt.Errorf("%d: operator priority clash at %s", p.toks[p.i].line, p.toks[p.i].name)
	}
	return t, nil
}

func (p *pratt) parse(max int) (*Term, int, error) {
	left, leftPrec, err := p.primary(max)
	if err != nil {
		return nil, 0, err
	}
	for p.i < len(p.toks) {
		t := p.toks[p.i]
		def, ok := infixOps[t.name]
		if t.kind != tokInfix || !ok || def.prec > max {
			break
		}
		la, ra := def.prec-1, def.prec-1
		switch def.typ {
		case xfy:
			ra = def.prec
		case yfx:
			la = def.prec
		}
		if leftPrec > la {
			break
		}
		p.i++
		right, _, err := p.parse(ra)
		if err != nil {
			return nil, 0, err
		}
		left = &Term{Kind: KindCompound, Name: t.name, Args: []*Term{left, right}, Line: left.Line}
		leftPrec = def.prec
	}
	return left, leftPrec, nil
}

func (p *pratt) primary(max int) (*Term, int, error) {
	if p.i >= len(p.toks) {
		return nil, 0, fmt.Errorf("unexpected end of clause")
	}
	t := p.toks[p.i]
	p.i++
	switch t.kind {
	case tokPrimary:
		return t.term, 0, nil
	case tokPrefix:
		def := prefixOps[t.name]
		argMax := def.prec
		if def.typ == fx {
			argMax--
		}
		if argMax > max {
			argMax = max
		}
		arg, _, err := p.parse(argMax)
		if err != nil {
			return nil, 0, err
		}
		if t.name == "-" && (arg.Kind == KindInt || arg.Kind == KindFloat) {
			return &Term{Kind: arg.Kind, Name: "-" + arg.Name, Line: t.line}, 0, nil
		}
		return &Term{Kind: KindCompound, Name: t.name, Args: []*Term{arg}, Line: t.line}, def.prec, nil
	}
	return nil, 0, fmt.Errorf("%d: unexpected operator %s", t.line, t.name)
}
