// Copyright © 2026 The Crisp authors

package profiler

import (
	"github.com/ichiban/prolog/engine"

	"github.com/crisp-analysis/crisp/bridge"
)

// Instrument returns a copy of r whose predicates start a span on a for
// every call.  The span ends at the first solution, or when the call
// returns without one.
func Instrument(r *bridge.Registry, a Annotator) *bridge.Registry {
	preds := r.Predicates()
	for i := range preds {
		preds[i] = instrument(preds[i], a)
	}
	return bridge.NewRegistry(preds...)
}

func instrument(p bridge.Predicate, a Annotator) bridge.Predicate {
	build := p.Build
	call := Call{Name: p.Indicator(), Kind: KindPredicate}
	p.Build = func(src bridge.Source) any {
		start := func(k engine.Cont) (engine.Cont, func()) {
			end := a.Start(call)
			done := false
			stop := func() {
				if !done {
					done = true
					end()
				}
			}
			return func(env *engine.Env) *engine.Promise {
				stop()
				return k(env)
			}, stop
		}
		switch fn := build(src).(type) {
		case engine.Predicate0:
			return engine.Predicate0(func(vm *engine.VM, k engine.Cont, env *engine.Env) *engine.Promise {
				k, stop := start(k)
				defer stop()
				return fn(vm, k, env)
			})
		case engine.Predicate1:
			return engine.Predicate1(func(vm *engine.VM, a1 engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
				k, stop := start(k)
				defer stop()
				return fn(vm, a1, k, env)
			})
		case engine.Predicate2:
			return engine.Predicate2(func(vm *engine.VM, a1, a2 engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
				k, stop := start(k)
				defer stop()
				return fn(vm, a1, a2, k, env)
			})
		case engine.Predicate3:
			return engine.Predicate3(func(vm *engine.VM, a1, a2, a3 engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
				k, stop := start(k)
				defer stop()
				return fn(vm, a1, a2, a3, k, env)
			})
		case engine.Predicate4:
			return engine.Predicate4(func(vm *engine.VM, a1, a2, a3, a4 engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
				k, stop := start(k)
				defer stop()
				return fn(vm, a1, a2, a3, a4, k, env)
			})
		default:
			return fn
		}
	}
	return p
}
