// Copyright © 2026 The Crisp authors

// Package report turns rule findings into diagnostics.  A rule describes a
// finding as a list of requests
//
//	warn(Format, Anchor, Items, Range)
//	note(Format, Anchor, Items, Range)
//
// where Anchor is 'Decl'(H) or 'Stmt'(H), Items is a list of
// 'NamedDecl'(H) and 'Type'(H) terms substituted for %0, %1, ... in
// Format, and Range is 'Decl'(H), 'Stmt'(H) or 'Null'.
package report

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
	"github.com/ichiban/prolog/engine"

	"github.com/crisp-analysis/crisp/bridge"
	"github.com/crisp-analysis/crisp/cxxast"
	"github.com/crisp-analysis/crisp/diagnostic"
	"github.com/crisp-analysis/crisp/session"
)

// Request is a parsed diagnostic request.
type Request struct {
	Severity diagnostic.Severity
	Format   string
	Pos      diagnostic.Position
	Items    []string
	Range    *diagnostic.Range
}

var errMalformed = errors.New("malformed request")

func malformed(format string, v ...any) error {
	return fmt.Errorf("%w: %s", errMalformed, fmt.Sprintf(format, v...))
}

// Position converts loc to the presumed position the user sees.
func Position(sm *cxxast.SourceManager, loc cxxast.SourceLocation) diagnostic.Position {
	if sm == nil || !loc.IsValid() {
		return diagnostic.Position{}
	}
	p := sm.PresumedLoc(loc)
	if !p.IsValid() {
		return diagnostic.Position{}
	}
	return diagnostic.Position{File: p.Filename, Line: p.Line, Col: p.Column}
}

// SourceManager returns the source manager locations of the session
// resolve against.
func SourceManager(s *session.Session) *cxxast.SourceManager {
	if ast := s.AST(); ast != nil {
		return ast.SourceManager
	}
	if m := s.Module(); m != nil {
		return m.Source
	}
	return nil
}

// Parse reads one request term.  Nothing is emitted; a malformed term is
// reported as an error.
func Parse(s *session.Session, t engine.Term, env *engine.Env) (Request, error) {
	var req Request
	kind, args, ok := bridge.Compound(t, env)
	if !ok {
		return req, malformed("not a compound term")
	}
	switch kind {
	case "warn":
		req.Severity = diagnostic.SeverityWarning
	case "note":
		req.Severity = diagnostic.SeverityNote
	default:
		return req, malformed("unknown kind %s", kind)
	}
	if len(args) != 4 {
		return req, malformed("%s/%d", kind, len(args))
	}
	if req.Format, ok = bridge.AtomText(args[0], env); !ok {
		return req, malformed("format is not an atom")
	}

	anchor, err := entity(s, args[1], env, "Decl", "Stmt")
	if err != nil {
		return req, err
	}
	sm := SourceManager(s)
	req.Pos = Position(sm, nodeRange(anchor).Begin)

	elems, ok := bridge.ListElems(args[2], env)
	if !ok {
		return req, malformed("items are not a list")
	}
	for _, e := range elems {
		item, err := itemName(s, e, env)
		if err != nil {
			return req, err
		}
		req.Items = append(req.Items, item)
	}

	if name, _, ok := bridge.Compound(args[3], env); ok && name == "Null" {
		return req, nil
	}
	n, err := entity(s, args[3], env, "Decl", "Stmt")
	if err != nil {
		return req, err
	}
	if rng := nodeRange(n); rng.IsValid() {
		req.Range = &diagnostic.Range{Begin: Position(sm, rng.Begin), End: Position(sm, rng.End)}
	}
	return req, nil
}

func nodeRange(n cxxast.Node) cxxast.SourceRange {
	if n == nil {
		return cxxast.SourceRange{}
	}
	return n.SourceRange()
}

// entity resolves Tag(H) for one of the given tags.
func entity(s *session.Session, t engine.Term, env *engine.Env, tags ...string) (cxxast.Node, error) {
	tag, args, ok := bridge.Compound(t, env)
	if !ok || len(args) != 1 {
		return nil, malformed("item %s", bridge.TermString(t, env))
	}
	obj, err := lookup(s, args[0], env)
	if err != nil {
		return nil, err
	}
	for _, want := range tags {
		if tag != want {
			continue
		}
		switch tag {
		case "Decl":
			if d, ok := obj.(cxxast.Decl); ok {
				return d, nil
			}
		case "Stmt":
			if st, ok := obj.(cxxast.Stmt); ok {
				return st, nil
			}
		}
		return nil, malformed("%s(%s) names a %T", tag, bridge.TermString(args[0], env), obj)
	}
	return nil, malformed("unexpected tag %s", tag)
}

func lookup(s *session.Session, t engine.Term, env *engine.Env) (any, error) {
	h, ok := bridge.IntegerOf(t, env)
	if !ok {
		return nil, malformed("handle %s is not an integer", bridge.TermString(t, env))
	}
	obj, ok := s.Tables().Handles.Lookup(bridge.Handle(h))
	if !ok {
		return nil, malformed("unknown handle %d", h)
	}
	return obj, nil
}

// itemName returns the quoted display name of a 'NamedDecl'(H) or
// 'Type'(H) item.
func itemName(s *session.Session, t engine.Term, env *engine.Env) (string, error) {
	tag, args, ok := bridge.Compound(t, env)
	if !ok || len(args) != 1 {
		return "", malformed("item %s", bridge.TermString(t, env))
	}
	obj, err := lookup(s, args[0], env)
	if err != nil {
		return "", err
	}
	switch tag {
	case "NamedDecl":
		if d, ok := obj.(cxxast.NamedDecl); ok {
			return "'" + d.Name() + "'", nil
		}
		return "", malformed("NamedDecl item names a %T", obj)
	case "Type":
		switch ty := obj.(type) {
		case cxxast.QualType:
			return "'" + ty.AsString() + "'", nil
		case cxxast.Type:
			return "'" + cxxast.QualType{T: ty}.AsString() + "'", nil
		}
		return "", malformed("Type item names a %T", obj)
	}
	return "", malformed("unexpected item tag %s", tag)
}

// Emit reports req under rule.  The diagnostic is emitted exactly once,
// when Emit returns.
func Emit(diags *diagnostic.Engine, rule string, req Request) {
	id := diags.CustomID(req.Severity, rule+": "+req.Format)
	b := diags.Report(req.Pos, id)
	defer b.Emit()
	for _, item := range req.Items {
		b.AddArg(item)
	}
	if req.Range != nil {
		b.AddRange(*req.Range)
	}
}

// Violation parses and emits every request of the list reqs.  Malformed
// requests are logged and dropped; the rest are still emitted.  It returns
// the number of diagnostics emitted.
func Violation(s *session.Session, rule string, reqs engine.Term, env *engine.Env) int {
	elems, ok := bridge.ListElems(reqs, env)
	if !ok {
		glog.Warningf("%s: diagnostics are not a list: %s", rule, bridge.TermString(reqs, env))
		return 0
	}
	n := 0
	for _, e := range elems {
		req, err := Parse(s, e, env)
		if err != nil {
			glog.Warningf("%s: dropping diagnostic %s: %v", rule, bridge.TermString(e, env), err)
			continue
		}
		Emit(s.Diagnostics(), rule, req)
		n++
	}
	return n
}
