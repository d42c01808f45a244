// Copyright © 2026 The Crisp authors

package bridge

import (
	"github.com/golang/glog"
	"github.com/ichiban/prolog/engine"
)

var ordinals = [...]string{"first", "second", "third", "fourth"}

func ordinal(i int) string {
	if i < len(ordinals) {
		return ordinals[i]
	}
	return "some"
}

// Fault logs the instantiation fault of predicate name on argument i.
func Fault(name string, i int) {
	glog.Warningf("%s: instantiation fault on %s arg", name, ordinal(i))
}

// Retrieve decodes argument term t of predicate name as an entity of type
// T.  It fails when t is not bound to an integer handle of the session or
// when the handle names an entity of another kind.  Every failure logs an
// instantiation fault.
func Retrieve[T any](src Source, name string, t engine.Term, env *engine.Env) (T, bool) {
	return RetrieveArg[T](src, name, 0, t, env)
}

// RetrieveArg is Retrieve for the argument at position i.
func RetrieveArg[T any](src Source, name string, i int, t engine.Term, env *engine.Env) (T, bool) {
	var zero T
	h, ok := IntegerOf(t, env)
	if !ok {
		Fault(name, i)
		return zero, false
	}
	obj, ok := src.Tables().Handles.Lookup(Handle(h))
	if !ok {
		Fault(name, i)
		return zero, false
	}
	v, ok := obj.(T)
	if !ok {
		Fault(name, i)
		return zero, false
	}
	return v, true
}

// Encoder binds a Go result to an output term.  It reports false when the
// bind fails.
type Encoder[R any] func(src Source, t engine.Term, r R, env *engine.Env) (*engine.Env, bool)

// Pointer binds the handle of an entity or fails on nil.
func Pointer[R any]() Encoder[R] {
	return func(src Source, t engine.Term, r R, env *engine.Env) (*engine.Env, bool) {
		if isNil(r) {
			return env, false
		}
		return env.Unify(t, engine.Integer(src.Tables().Handles.Intern(r)))
	}
}

// Text binds an atom.
func Text() Encoder[string] {
	return func(_ Source, t engine.Term, r string, env *engine.Env) (*engine.Env, bool) {
		return env.Unify(t, engine.NewAtom(r))
	}
}

// Nullable is a value type with a null state, such as a qualified type
// reference.
type Nullable interface {
	comparable
	IsNull() bool
}

// SmartRef binds the handle of a value-typed entity.  The value itself is
// the identity; it fails on the null value.
func SmartRef[R Nullable]() Encoder[R] {
	return func(src Source, t engine.Term, r R, env *engine.Env) (*engine.Env, bool) {
		if r.IsNull() {
			return env, false
		}
		return env.Unify(t, engine.Integer(src.Tables().Handles.Intern(r)))
	}
}

// Enumeration is the underlying kind of enum results.
type Enumeration interface {
	~int | ~int8 | ~int16 | ~int32 | ~uint | ~uint8 | ~uint16 | ~uint32
}

// Enum binds the atom names[r].  An out of range value fails.
func Enum[R Enumeration](names []string) Encoder[R] {
	return func(_ Source, t engine.Term, r R, env *engine.Env) (*engine.Env, bool) {
		if int(r) < 0 || int(r) >= len(names) {
			return env, false
		}
		return env.Unify(t, engine.NewAtom(names[int(r)]))
	}
}

// Integral is the underlying kind of integer results.
type Integral interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32
}

// Integer binds an integer.
func Integer[R Integral]() Encoder[R] {
	return func(_ Source, t engine.Term, r R, env *engine.Env) (*engine.Env, bool) {
		return env.Unify(t, engine.Integer(int64(r)))
	}
}

// GetOne builds name(+Arg, -Result): Result is get applied to the entity
// Arg names.
func GetOne[A, R any](name string, get func(A) R, enc Encoder[R]) Predicate {
	return Predicate{
		Name:  name,
		Arity: 2,
		Kind:  "get_one",
		Build: func(src Source) any {
			return engine.Predicate2(func(_ *engine.VM, arg, res engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
				a, ok := Retrieve[A](src, name, arg, env)
				if !ok {
					return engine.Bool(false)
				}
				env, ok = enc(src, res, get(a), env)
				if !ok {
					return engine.Bool(false)
				}
				return k(env)
			})
		},
	}
}

// CheckProperty builds name(+Arg): it succeeds when check holds for the
// entity Arg names.
func CheckProperty[A any](name string, check func(A) bool) Predicate {
	return Predicate{
		Name:  name,
		Arity: 1,
		Kind:  "check_property",
		Build: func(src Source) any {
			return engine.Predicate1(func(_ *engine.VM, arg engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
				a, ok := Retrieve[A](src, name, arg, env)
				if !ok || !check(a) {
					return engine.Bool(false)
				}
				return k(env)
			})
		},
	}
}
