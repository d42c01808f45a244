// Copyright © 2026 The Crisp authors

// Package predicates is the foreign predicate surface rules see.  Most
// predicates are declared one per line in clang.def and llvm.def and
// turned into registration tables by predgen; the ones that need the
// session, such as reporting and alias queries, are written by hand.
package predicates

//go:generate go run ../tools/predgen -o zz_generated_clang.go clang.def
//go:generate go run ../tools/predgen -o zz_generated_llvm.go llvm.def

import (
	"sync"

	"github.com/crisp-analysis/crisp/bridge"
)

var (
	registryOnce sync.Once
	registry     *bridge.Registry
)

// Registry returns the process-wide registry of every predicate.  It is
// built once; later calls return the same registry.
func Registry() *bridge.Registry {
	registryOnce.Do(func() {
		registry = bridge.NewRegistry()
		Register(registry)
	})
	return registry
}

// Register adds every predicate to r.  Registering twice leaves r
// unchanged.
func Register(r *bridge.Registry) {
	r.Add(clangPredicates...)
	r.Add(llvmPredicates...)
	r.Add(manualPredicates...)
}
