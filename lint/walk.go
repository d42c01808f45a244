// Copyright © 2026 The Crisp authors

package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/crisp-analysis/crisp/bridge"
	"github.com/crisp-analysis/crisp/logic"
	"github.com/crisp-analysis/crisp/parser"
	"github.com/crisp-analysis/crisp/predicates"
)

// Origin tells where a known procedure comes from.
type Origin int

const (
	OriginBuiltin Origin = iota
	OriginForeign
	OriginPrelude
	OriginFile
)

// Index maps procedure names to the arities they are known with.
type Index struct {
	arities  map[string]map[int]Origin
	registry *bridge.Registry
}

// NewIndex indexes the builtins, the foreign predicates of registry, the
// prelude and the procedures clauses define or declare.
func NewIndex(registry *bridge.Registry, clauses []*parser.Clause) (*Index, error) {
	if registry == nil {
		registry = predicates.Registry()
	}
	ix := &Index{arities: map[string]map[int]Origin{}, registry: registry}
	for _, b := range builtins {
		ix.add(b.name, b.arity, OriginBuiltin)
	}
	for _, p := range registry.Predicates() {
		ix.add(p.Name, p.Arity, OriginForeign)
	}
	prelude, err := parser.Parse("prelude.pl", []byte(logic.Prelude()))
	if err != nil {
		return nil, err
	}
	ix.addClauses(prelude, OriginPrelude)
	ix.addClauses(clauses, OriginFile)
	return ix, nil
}

func (ix *Index) add(name string, arity int, origin Origin) {
	m := ix.arities[name]
	if m == nil {
		m = map[int]Origin{}
		ix.arities[name] = m
	}
	if _, ok := m[arity]; !ok {
		m[arity] = origin
	}
}

func (ix *Index) addClauses(clauses []*parser.Clause, origin Origin) {
	for _, c := range clauses {
		if c.Head != nil {
			ix.add(c.Head.Name, len(c.Head.Args), origin)
			continue
		}
		for _, ind := range Declared(c) {
			ix.add(ind.Name, ind.Arity, origin)
		}
	}
}

// Has reports whether name/arity is known.
func (ix *Index) Has(name string, arity int) bool {
	_, ok := ix.arities[name][arity]
	return ok
}

// Arities returns the sorted arities name is known with.
func (ix *Index) Arities(name string) []int {
	var arities []int
	for a := range ix.arities[name] {
		arities = append(arities, a)
	}
	sort.Ints(arities)
	return arities
}

// Suggest returns known names close to name, best first.  Foreign
// predicate names are ranked by the registry.
func (ix *Index) Suggest(name string) []string {
	hints := ix.registry.Suggest(name)
	seen := map[string]bool{}
	for _, h := range hints {
		seen[h] = true
	}
	var local []string
	for known, m := range ix.arities {
		if seen[known] || known == name {
			continue
		}
		isLocal := false
		for _, origin := range m {
			if origin == OriginFile || origin == OriginPrelude {
				isLocal = true
			}
		}
		if !isLocal {
			continue
		}
		limit := len(known) / 3
		if limit < 1 {
			limit = 1
		}
		if levenshtein.Distance(strings.ToLower(name), strings.ToLower(known), nil) <= limit {
			local = append(local, known)
		}
	}
	sort.Strings(local)
	return append(local, hints...)
}

// Indicator is a name/arity pair.
type Indicator struct {
	Name  string
	Arity int
}

func (i Indicator) String() string { return fmt.Sprintf("%s/%d", i.Name, i.Arity) }

// Declared returns the procedures a dynamic, discontiguous or multifile
// directive declares.
func Declared(c *parser.Clause) []Indicator {
	if !c.Directive || c.Body == nil || len(c.Body.Args) != 1 {
		return nil
	}
	switch c.Body.Name {
	case "dynamic", "discontiguous", "multifile":
	default:
		return nil
	}
	var inds []Indicator
	var collect func(t *parser.Term)
	collect = func(t *parser.Term) {
		if t.Is(",", 2) {
			collect(t.Args[0])
			collect(t.Args[1])
			return
		}
		if elems, ok := t.List(); ok {
			for _, e := range elems {
				collect(e)
			}
			return
		}
		if t.Is("/", 2) && t.Args[0].Kind == parser.KindAtom {
			if n, ok := t.Args[1].Int(); ok {
				inds = append(inds, Indicator{t.Args[0].Name, int(n)})
			}
		}
	}
	collect(c.Body.Args[0])
	return inds
}

// WalkGoals calls fn for every goal a clause body or directive calls.
func WalkGoals(clauses []*parser.Clause, fn func(c *parser.Clause, goal *parser.Term)) {
	for _, c := range clauses {
		if c.Body == nil || len(Declared(c)) > 0 {
			continue
		}
		for _, g := range parser.Goals(c.Body) {
			fn(c, g)
		}
	}
}

// WalkTerms calls fn for t and every argument below it, depth-first.
func WalkTerms(t *parser.Term, fn func(*parser.Term)) {
	if t == nil {
		return
	}
	fn(t)
	for _, a := range t.Args {
		WalkTerms(a, fn)
	}
}

// lineOf returns the line of goal, falling back to the clause line.
func lineOf(c *parser.Clause, goal *parser.Term) int {
	if goal.Line > 0 {
		return goal.Line
	}
	return c.Line
}
