// Copyright © 2026 The Crisp authors

package session

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/crisp-analysis/crisp/cxxast"
)

// Mangler is a cxxast.Mangler with a bounded cache of the names it
// produced.  It satisfies ir.Namer.
type Mangler struct {
	m     *cxxast.Mangler
	cache *lru.Cache[cxxast.NamedDecl, string]
}

// NewMangler returns a mangler caching up to size names.
func NewMangler(size int) *Mangler {
	cache, err := lru.New[cxxast.NamedDecl, string](size)
	if err != nil {
		cache, _ = lru.New[cxxast.NamedDecl, string](DefaultMangleCacheSize)
	}
	return &Mangler{m: cxxast.NewMangler(), cache: cache}
}

// Mangle returns the symbol name of d.
func (m *Mangler) Mangle(d cxxast.NamedDecl) string {
	if name, ok := m.cache.Get(d); ok {
		return name
	}
	name := m.m.Mangle(d)
	m.cache.Add(d, name)
	return name
}

// ShouldMangle reports whether d has a mangled name distinct from its
// source name.
func (m *Mangler) ShouldMangle(d cxxast.NamedDecl) bool {
	return m.m.ShouldMangle(d)
}

// Cached returns the number of cached names.
func (m *Mangler) Cached() int {
	return m.cache.Len()
}
