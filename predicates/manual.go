// Copyright © 2026 The Crisp authors

package predicates

import (
	"github.com/golang/glog"
	"github.com/ichiban/prolog/engine"

	"github.com/crisp-analysis/crisp/bridge"
	"github.com/crisp-analysis/crisp/cxxast"
	"github.com/crisp-analysis/crisp/ir"
	"github.com/crisp-analysis/crisp/report"
	"github.com/crisp-analysis/crisp/session"
)

// manual wraps a session-bound builder.  Manual predicates are only
// installed against a *session.Session.
func manual(name string, arity int, nondet bool, build func(s *session.Session) any) bridge.Predicate {
	return bridge.Predicate{
		Name:             name,
		Arity:            arity,
		Nondeterministic: nondet,
		Kind:             "manual",
		Build:            func(src bridge.Source) any { return build(src.(*session.Session)) },
	}
}

var manualPredicates = []bridge.Predicate{
	manual("getPresumedLoc", 4, false, getPresumedLoc),
	manual("mangleName", 2, false, mangleName("mangleName/2")),
	manual("llvmName", 2, false, mangleName("llvmName/2")),
	manual("isConstFunctionProtoType", 1, false, isConstFunctionProtoType),
	manual("report_violation", 2, false, reportViolation2),
	manual("report_violation", 3, false, reportViolation3),

	manual("containsArgument", 2, true, containsArgument),
	manual("getName", 2, false, getName),
	manual("getFunction", 3, false, getFunction),
	manual("isA_", 2, false, isA),
	manual("createLocation", 2, false, createLocation),
	manual("getLocationFromStoreUser", 2, false, locationFrom("getLocationFromStoreUser/2", ir.StoreLocation)),
	manual("getLocationFromLoadUser", 2, false, locationFrom("getLocationFromLoadUser/2", ir.LoadLocation)),
	manual("alias", 3, false, alias),
	manual("aliasLessThanNoAlias", 2, false, aliasLessThanNoAlias),
	manual("report_violation_llvm", 3, false, reportViolationLLVM),
}

// getPresumedLoc(+Entity, -File, -Line, -Col) binds the presumed position
// of a declaration or the start of a statement.
func getPresumedLoc(s *session.Session) any {
	const name = "getPresumedLoc/4"
	return engine.Predicate4(func(_ *engine.VM, ent, file, line, col engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
		obj, ok := bridge.Retrieve[any](s, name, ent, env)
		if !ok {
			return engine.Bool(false)
		}
		var loc cxxast.SourceLocation
		switch n := obj.(type) {
		case cxxast.Decl:
			loc = n.Location()
		case cxxast.Stmt:
			loc = n.BeginLoc()
		default:
			bridge.Fault(name, 0)
			return engine.Bool(false)
		}
		pos := report.Position(report.SourceManager(s), loc)
		if !pos.IsValid() {
			return engine.Bool(false)
		}
		env, ok = env.Unify(file, engine.NewAtom(pos.File))
		if !ok {
			return engine.Bool(false)
		}
		env, ok = env.Unify(line, engine.Integer(pos.Line))
		if !ok {
			return engine.Bool(false)
		}
		env, ok = env.Unify(col, engine.Integer(pos.Col))
		if !ok {
			return engine.Bool(false)
		}
		return k(env)
	})
}

func mangleName(name string) func(s *session.Session) any {
	return func(s *session.Session) any {
		return engine.Predicate2(func(_ *engine.VM, decl, res engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
			d, ok := bridge.Retrieve[cxxast.NamedDecl](s, name, decl, env)
			if !ok {
				return engine.Bool(false)
			}
			env, ok = env.Unify(res, engine.NewAtom(s.Mangler().Mangle(d)))
			if !ok {
				return engine.Bool(false)
			}
			return k(env)
		})
	}
}

// isConstFunctionProtoType(+Type) holds for the type of a const member
// function.  Sugar is looked through.
func isConstFunctionProtoType(s *session.Session) any {
	const name = "isConstFunctionProtoType/1"
	return engine.Predicate1(func(_ *engine.VM, typ engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
		obj, ok := bridge.Retrieve[any](s, name, typ, env)
		if !ok {
			return engine.Bool(false)
		}
		var t cxxast.Type
		switch v := obj.(type) {
		case cxxast.Type:
			t = v
		case cxxast.QualType:
			t = v.TypePtr()
		default:
			bridge.Fault(name, 0)
			return engine.Bool(false)
		}
		if t == nil {
			return engine.Bool(false)
		}
		fp, ok := t.CanonicalTypeUnqualified().TypePtr().(*cxxast.FunctionProtoType)
		if !ok || !fp.IsConst() {
			return engine.Bool(false)
		}
		return k(env)
	})
}

func ruleName(t engine.Term, env *engine.Env) string {
	if name, ok := bridge.AtomText(t, env); ok {
		return name
	}
	return bridge.TermString(t, env)
}

// report_violation(+Rule, +Requests) emits the requests.  It always
// succeeds; malformed requests are logged and dropped.
func reportViolation2(s *session.Session) any {
	return engine.Predicate2(func(_ *engine.VM, rule, reqs engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
		report.Violation(s, ruleName(rule, env), reqs, env)
		return k(env)
	})
}

// report_violation(+Rule, +Requests, +ToAux) emits to the aux stream when
// ToAux is true.  An aux stream that cannot be opened aborts the run.
func reportViolation3(s *session.Session) any {
	return engine.Predicate3(func(_ *engine.VM, rule, reqs, toAux engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
		if aux, _ := bridge.AtomText(toAux, env); aux == "true" {
			if err := s.UseAuxStream(); err != nil {
				glog.Errorf("report_violation/3: %v", err)
				s.Abort(err)
				return engine.Error(err)
			}
		}
		report.Violation(s, ruleName(rule, env), reqs, env)
		return k(env)
	})
}

// containsArgument(+Function, -Argument) enumerates the formal arguments
// of a function.
func containsArgument(s *session.Session) any {
	const name = "containsArgument/2"
	return engine.Predicate2(func(_ *engine.VM, fn, arg engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
		f, ok := bridge.Retrieve[*ir.Function](s, name, fn, env)
		if !ok {
			return engine.Bool(false)
		}
		args := f.Args()
		enc := bridge.Pointer[*ir.Argument]()
		it := func(ctl bridge.Control, ctx bridge.Context, env *engine.Env) bridge.Step {
			if ctl == bridge.Pruned || ctx.Word >= len(args) {
				return bridge.Fail()
			}
			bound, ok := enc(s, arg, args[ctx.Word], env)
			if !ok {
				bound = nil
			}
			if ctx.Word+1 == len(args) {
				return bridge.Succeed(bound)
			}
			return bridge.Retry(bridge.InlineContext(ctx.Word+1), bound)
		}
		return bridge.Nondeterministic(s, it, k, env)
	})
}

// getName(+Value, -Name) binds the IR name of a value, '' when unnamed.
func getName(s *session.Session) any {
	const name = "getName/2"
	return engine.Predicate2(func(_ *engine.VM, val, res engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
		v, ok := bridge.Retrieve[ir.Value](s, name, val, env)
		if !ok {
			return engine.Bool(false)
		}
		env, ok = env.Unify(res, engine.NewAtom(v.Name()))
		if !ok {
			return engine.Bool(false)
		}
		return k(env)
	})
}

// getFunction(+Module, +Name, -Function) looks a function up by its
// mangled name.
func getFunction(s *session.Session) any {
	const name = "getFunction/3"
	return engine.Predicate3(func(_ *engine.VM, mod, fname, res engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
		m, ok := bridge.Retrieve[*ir.Module](s, name, mod, env)
		if !ok {
			return engine.Bool(false)
		}
		n, ok := bridge.AtomText(fname, env)
		if !ok {
			bridge.Fault(name, 1)
			return engine.Bool(false)
		}
		env, ok = bridge.Pointer[*ir.Function]()(s, res, m.Function(n), env)
		if !ok {
			return engine.Bool(false)
		}
		return k(env)
	})
}

// isA_(+Value, -Sort) binds the class name of a value, for example
// 'StoreInst'.
func isA(s *session.Session) any {
	const name = "isA_/2"
	return engine.Predicate2(func(_ *engine.VM, val, sort engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
		v, ok := bridge.Retrieve[ir.Value](s, name, val, env)
		if !ok {
			return engine.Bool(false)
		}
		env, ok = env.Unify(sort, engine.NewAtom(v.Sort()))
		if !ok {
			return engine.Bool(false)
		}
		return k(env)
	})
}

func bindLocation(s *session.Session, t engine.Term, loc ir.Location, env *engine.Env) (*engine.Env, bool) {
	return bridge.Pointer[*ir.Location]()(s, t, s.NewLocation(loc), env)
}

// createLocation(+Pointer, -Location) makes the location accessed through
// a pointer value.
func createLocation(s *session.Session) any {
	const name = "createLocation/2"
	return engine.Predicate2(func(_ *engine.VM, ptr, res engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
		v, ok := bridge.Retrieve[ir.Value](s, name, ptr, env)
		if !ok {
			return engine.Bool(false)
		}
		env, ok = bindLocation(s, res, ir.LocationOf(v), env)
		if !ok {
			return engine.Bool(false)
		}
		return k(env)
	})
}

func locationFrom(name string, get func(*ir.Instruction) (ir.Location, bool)) func(s *session.Session) any {
	return func(s *session.Session) any {
		return engine.Predicate2(func(_ *engine.VM, inst, res engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
			i, ok := bridge.Retrieve[*ir.Instruction](s, name, inst, env)
			if !ok {
				return engine.Bool(false)
			}
			loc, ok := get(i)
			if !ok {
				return engine.Bool(false)
			}
			env, ok = bindLocation(s, res, loc, env)
			if !ok {
				return engine.Bool(false)
			}
			return k(env)
		})
	}
}

func locations(s *session.Session, name string, a, b engine.Term, env *engine.Env) (*ir.Location, *ir.Location, bool) {
	x, ok := bridge.RetrieveArg[*ir.Location](s, name, 0, a, env)
	if !ok {
		return nil, nil, false
	}
	y, ok := bridge.RetrieveArg[*ir.Location](s, name, 1, b, env)
	if !ok {
		return nil, nil, false
	}
	return x, y, true
}

// alias(+LocA, +LocB, -Code) binds the alias result code of two
// locations: 0 NoAlias, 1 MayAlias, 2 PartialAlias, 3 MustAlias.
func alias(s *session.Session) any {
	const name = "alias/3"
	aa := ir.NewAliasAnalysis()
	enc := bridge.Integer[ir.AliasResult]()
	return engine.Predicate3(func(_ *engine.VM, a, b, res engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
		x, y, ok := locations(s, name, a, b, env)
		if !ok {
			return engine.Bool(false)
		}
		env, ok = enc(s, res, aa.Alias(*x, *y), env)
		if !ok {
			return engine.Bool(false)
		}
		return k(env)
	})
}

// aliasLessThanNoAlias(+LocA, +LocB) holds when the locations may alias
// at all.
func aliasLessThanNoAlias(s *session.Session) any {
	const name = "aliasLessThanNoAlias/2"
	aa := ir.NewAliasAnalysis()
	return engine.Predicate2(func(_ *engine.VM, a, b engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
		x, y, ok := locations(s, name, a, b, env)
		if !ok || aa.Alias(*x, *y) == ir.NoAlias {
			return engine.Bool(false)
		}
		return k(env)
	})
}

// report_violation_llvm(+Rule, +Msg, +Culprits) reports a module finding
// at the first culprit with a known location.  It always succeeds.
func reportViolationLLVM(s *session.Session) any {
	return engine.Predicate3(func(_ *engine.VM, rule, msg, culprits engine.Term, k engine.Cont, env *engine.Env) *engine.Promise {
		text, ok := bridge.AtomText(msg, env)
		if !ok {
			text = bridge.TermString(msg, env)
		}
		report.ViolationLLVM(s, ruleName(rule, env), text, culprits, env)
		return k(env)
	})
}
