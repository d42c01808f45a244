// Copyright © 2026 The Crisp authors

package report

import (
	"github.com/golang/glog"
	"github.com/ichiban/prolog/engine"

	"github.com/crisp-analysis/crisp/bridge"
	"github.com/crisp-analysis/crisp/cxxast"
	"github.com/crisp-analysis/crisp/diagnostic"
	"github.com/crisp-analysis/crisp/ir"
	"github.com/crisp-analysis/crisp/session"
)

// ValueLocation returns the source location a value was lowered from.
// Arguments use their function's declaration.
func ValueLocation(v ir.Value) cxxast.SourceLocation {
	switch v := v.(type) {
	case *ir.Instruction:
		return v.Loc
	case *ir.Function:
		if v.Decl != nil {
			return v.Decl.Location()
		}
	case *ir.Argument:
		return ValueLocation(v.Parent())
	case *ir.Global:
		if v.Decl != nil {
			return v.Decl.Location()
		}
	}
	return cxxast.SourceLocation{}
}

func valueName(v ir.Value) string {
	if v.Name() != "" {
		return "'" + v.Name() + "'"
	}
	if i, ok := v.(*ir.Instruction); ok {
		return "'" + i.String() + "'"
	}
	return "'" + v.Sort() + "'"
}

// ViolationLLVM reports a module finding: a warning "<Rule>: <Msg>"
// anchored at the first culprit whose location is known, with %N
// replaced by the quoted name of culprit N.  It reports false when the
// culprits term is malformed; nothing is emitted then.
func ViolationLLVM(s *session.Session, rule, msg string, culprits engine.Term, env *engine.Env) bool {
	elems, ok := bridge.ListElems(culprits, env)
	if !ok {
		glog.Warningf("%s: culprits are not a list: %s", rule, bridge.TermString(culprits, env))
		return false
	}
	req := Request{Severity: diagnostic.SeverityWarning, Format: msg}
	for _, e := range elems {
		obj, err := lookup(s, e, env)
		if err != nil {
			glog.Warningf("%s: dropping diagnostic: %v", rule, err)
			return false
		}
		v, ok := obj.(ir.Value)
		if !ok {
			glog.Warningf("%s: dropping diagnostic: culprit is a %T", rule, obj)
			return false
		}
		req.Items = append(req.Items, valueName(v))
		if !req.Pos.IsValid() {
			req.Pos = Position(SourceManager(s), ValueLocation(v))
		}
	}
	Emit(s.Diagnostics(), rule, req)
	return true
}
