// Copyright © 2026 The Crisp authors

package bridge

import (
	"context"
	"fmt"

	"github.com/ichiban/prolog/engine"
)

// Control is the phase of a call into a non-deterministic predicate.
type Control uint

const (
	FirstCall Control = iota
	Redo
	Pruned
	controlMax
)

var controlNames = [...]string{
	FirstCall: "first_call",
	Redo:      "redo",
	Pruned:    "pruned",
}

var _ = [1]struct{}{}[len(controlNames)-int(controlMax)]

func (c Control) String() string {
	if c < controlMax {
		return controlNames[c]
	}
	return fmt.Sprintf("Control(%d)", uint(c))
}

// ContextKind says how an iteration context is stored.
type ContextKind uint

const (
	// Inline contexts fit in one machine word, such as an index.
	Inline ContextKind = iota
	// Boxed contexts live in a cursor slot.
	Boxed
)

// Context is the state an iteration resumes from.
type Context struct {
	Kind ContextKind
	Word int
	Slot Slot
}

// InlineContext returns an inline context holding word.
func InlineContext(word int) Context { return Context{Kind: Inline, Word: word} }

// BoxedContext returns a boxed context for slot.
func BoxedContext(slot Slot) Context { return Context{Kind: Boxed, Slot: slot} }

type stepKind uint

const (
	stepFail stepKind = iota
	stepSucceed
	stepRetry
)

// Step is the answer of an Iterator.
type Step struct {
	kind stepKind
	ctx  Context
	env  *engine.Env
}

// Fail ends the iteration without a solution.
func Fail() Step { return Step{kind: stepFail} }

// Succeed ends the iteration with its last solution.
func Succeed(env *engine.Env) Step { return Step{kind: stepSucceed, env: env} }

// Retry yields a solution and asks to be resumed from ctx.  A nil env
// yields no solution for this element; the iteration just moves on.
func Retry(ctx Context, env *engine.Env) Step { return Step{kind: stepRetry, ctx: ctx, env: env} }

// Iterator is the foreign side of a non-deterministic predicate.  On
// FirstCall ctx is the zero Context.  On Redo and Pruned it is the context
// of the last Retry; the answer to Pruned is ignored.  Env is always the
// environment of the original call.
type Iterator func(ctl Control, ctx Context, env *engine.Env) Step

// Nondeterministic drives it from the engine: every Retry becomes a
// choice point whose alternative delivers Redo.  Live choice points are
// tracked by the ledger so the ones the engine abandons are delivered
// Pruned when the enclosing query finishes.  A goal that drives a whole
// analysis, such as runTranslationUnitAnalysis/1, is one query, so a
// boxed cursor abandoned by a cut stays allocated until that goal ends.
func Nondeterministic(src Source, it Iterator, k engine.Cont, env *engine.Env) *engine.Promise {
	return follow(src.Tables().Ledger, it, it(FirstCall, Context{}, env), k, env)
}

func follow(l *Ledger, it Iterator, step Step, k engine.Cont, env *engine.Env) *engine.Promise {
	switch step.kind {
	case stepFail:
		return engine.Bool(false)
	case stepSucceed:
		if step.env == nil {
			return engine.Bool(false)
		}
		return k(step.env)
	}
	ctx := step.ctx
	id := l.Open(func() { it(Pruned, ctx, env) })
	return engine.Delay(
		func(context.Context) *engine.Promise {
			if step.env == nil {
				return engine.Bool(false)
			}
			return k(step.env)
		},
		func(context.Context) *engine.Promise {
			if !l.Take(id) {
				return engine.Bool(false)
			}
			return follow(l, it, it(Redo, ctx, env), k, env)
		},
	)
}

// Cursor yields the elements of a range one at a time.
type Cursor[E any] interface {
	Next() (E, bool)
}

// GetMany builds the backtracking name(+Arg, -Elem): Elem ranges over
// elems applied to the entity Arg names.  The iteration context is the
// next index; the container is re-read from Arg on every Redo.
func GetMany[A, E any](name string, elems func(A) []E, enc Encoder[E]) Predicate {
	return Predicate{
		Name:             name,
		Arity:            2,
		Nondeterministic: true,
		Kind:             "get_many",
		Build: func(src Source) any {
			return engine.Predicate2(func(_ *engine.VM, arg, res engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
				it := func(ctl Control, ctx Context, env *engine.Env) Step {
					if ctl == Pruned {
						return Fail()
					}
					a, ok := Retrieve[A](src, name, arg, env)
					if !ok {
						return Fail()
					}
					list := elems(a)
					i := ctx.Word
					if i >= len(list) {
						return Fail()
					}
					bound, ok := enc(src, res, list[i], env)
					if !ok {
						bound = nil
					}
					if i+1 == len(list) {
						return Succeed(bound)
					}
					return Retry(InlineContext(i+1), bound)
				}
				return Nondeterministic(src, it, k, env)
			})
		},
	}
}

// GetManyCursor builds the backtracking name(+Arg, -Elem) over a cursor
// opened on the entity Arg names.  The cursor lives in a slot that is
// released when the range is exhausted or the iteration is pruned.
func GetManyCursor[A, E any](name string, open func(A) Cursor[E], enc Encoder[E]) Predicate {
	return Predicate{
		Name:             name,
		Arity:            2,
		Nondeterministic: true,
		Kind:             "get_many",
		Build: func(src Source) any {
			return engine.Predicate2(func(_ *engine.VM, arg, res engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
				arena := src.Tables().Cursors
				it := func(ctl Control, ctx Context, env *engine.Env) Step {
					var cur Cursor[E]
					switch ctl {
					case FirstCall:
						a, ok := Retrieve[A](src, name, arg, env)
						if !ok {
							return Fail()
						}
						cur = open(a)
						ctx = BoxedContext(arena.Alloc(cur))
					case Redo:
						v, ok := arena.Get(ctx.Slot)
						if !ok {
							return Fail()
						}
						cur = v.(Cursor[E])
					case Pruned:
						arena.Release(ctx.Slot)
						return Fail()
					}
					e, ok := cur.Next()
					if !ok {
						arena.Release(ctx.Slot)
						return Fail()
					}
					bound, ok := enc(src, res, e, env)
					if !ok {
						bound = nil
					}
					return Retry(ctx, bound)
				}
				return Nondeterministic(src, it, k, env)
			})
		},
	}
}
