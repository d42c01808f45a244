// Copyright © 2026 The Crisp authors

package bridge

import (
	"sort"
	"strings"
	"sync"

	"github.com/agext/levenshtein"
	"github.com/ichiban/prolog/engine"
)

// Registry is the table of foreign predicates.  Adding a predicate under
// an indicator already present replaces it, so registration is idempotent.
type Registry struct {
	mu    sync.Mutex
	preds map[string]Predicate
}

// NewRegistry returns a registry holding preds.
func NewRegistry(preds ...Predicate) *Registry {
	r := &Registry{preds: map[string]Predicate{}}
	r.Add(preds...)
	return r
}

// Add registers preds.
func (r *Registry) Add(preds ...Predicate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range preds {
		r.preds[p.Indicator()] = p
	}
}

// Len returns the number of distinct predicates.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.preds)
}

// Lookup finds the predicate name/arity.
func (r *Registry) Lookup(name string, arity int) (Predicate, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.preds[Predicate{Name: name, Arity: arity}.Indicator()]
	return p, ok
}

// Predicates returns every predicate sorted by indicator.
func (r *Registry) Predicates() []Predicate {
	r.mu.Lock()
	defer r.mu.Unlock()
	preds := make([]Predicate, 0, len(r.preds))
	for _, p := range r.preds {
		preds = append(preds, p)
	}
	sort.Slice(preds, func(i, j int) bool { return preds[i].Indicator() < preds[j].Indicator() })
	return preds
}

// Install registers every predicate with vm, bound to src.
func (r *Registry) Install(vm *engine.VM, src Source) error {
	for _, p := range r.Predicates() {
		if err := p.install(vm, src); err != nil {
			return err
		}
	}
	return nil
}

// Suggest returns the registered names closest to name, best first, for
// "did you mean" hints on unknown procedures.  Names further than a third
// of their length away are not suggested.
func (r *Registry) Suggest(name string) []string {
	type candidate struct {
		name string
		dist int
	}
	seen := map[string]bool{}
	var cands []candidate
	lower := strings.ToLower(name)
	for _, p := range r.Predicates() {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		d := levenshtein.Distance(lower, strings.ToLower(p.Name), nil)
		limit := len(p.Name) / 3
		if limit < 1 {
			limit = 1
		}
		if d <= limit {
			cands = append(cands, candidate{p.Name, d})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].name < cands[j].name
	})
	names := make([]string, 0, len(cands))
	for _, c := range cands {
		names = append(names, c.name)
	}
	return names
}
