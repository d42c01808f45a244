// Copyright © 2026 The Crisp authors

// Package bridge marshals program model entities across the boundary to the
// Prolog engine.  Entities travel as integer handles interned per session;
// results are bound through a closed set of encoders; ranges are exposed as
// backtracking predicates whose iteration contexts are tracked by a
// choice-point ledger so that abandoned enumerations are released when the
// enclosing query finishes.
package bridge

import (
	"fmt"

	"github.com/ichiban/prolog/engine"
)

// Tables is the per-session state of the marshalling layer.
type Tables struct {
	Handles *HandleTable
	Ledger  *Ledger
	Cursors *Arena
}

// NewTables returns empty tables.
func NewTables() *Tables {
	return &Tables{
		Handles: NewHandleTable(),
		Ledger:  NewLedger(),
		Cursors: NewArena(),
	}
}

// Tables lets *Tables serve as its own Source.
func (t *Tables) Tables() *Tables { return t }

// Reset prunes every live iteration and forgets every handle.
func (t *Tables) Reset() {
	t.Ledger.PruneAll()
	t.Handles.Reset()
}

// Source supplies the tables of the live session to predicate
// implementations.
type Source interface {
	Tables() *Tables
}

// Predicate is one foreign predicate.  Build returns the engine procedure
// for a session: an engine.Predicate0 through engine.Predicate4 matching
// Arity.
type Predicate struct {
	Name             string
	Arity            int
	Nondeterministic bool
	// Kind names the table the predicate comes from, for example
	// "get_one" or "manual".
	Kind  string
	Build func(src Source) any
}

// Indicator returns the predicate indicator, for example "getName/2".
func (p Predicate) Indicator() string {
	return fmt.Sprintf("%s/%d", p.Name, p.Arity)
}

func (p Predicate) install(vm *engine.VM, src Source) error {
	name := engine.NewAtom(p.Name)
	switch fn := p.Build(src).(type) {
	case engine.Predicate0:
		vm.Register0(name, fn)
	case engine.Predicate1:
		vm.Register1(name, fn)
	case engine.Predicate2:
		vm.Register2(name, fn)
	case engine.Predicate3:
		vm.Register3(name, fn)
	case engine.Predicate4:
		vm.Register4(name, fn)
	default:
		return fmt.Errorf("%s: unsupported procedure type %T", p.Indicator(), fn)
	}
	return nil
}
