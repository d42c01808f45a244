// Copyright © 2026 The Crisp authors

// Package logic wraps the embedded Prolog engine a run executes rules on.
// An Engine boots the interpreter with the prelude, installs the foreign
// predicates against a session, loads rule files and runs goals.  Every
// goal ends by pruning the iterations it left open.
package logic

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/ichiban/prolog"

	"github.com/crisp-analysis/crisp/bridge"
	"github.com/crisp-analysis/crisp/predicates"
	"github.com/crisp-analysis/crisp/session"
	"github.com/crisp-analysis/crisp/status"
)

//go:embed prelude.pl
var prelude string

// Prelude returns the text loaded into every engine before the rules.
func Prelude() string { return prelude }

// Engine is a Prolog interpreter bound to a session.
type Engine struct {
	p        *prolog.Interpreter
	s        *session.Session
	registry *bridge.Registry
	stdin    io.Reader
	stdout   io.Writer
	debug    bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry installs r instead of the predicates registry.
func WithRegistry(r *bridge.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithStdout sets the user_output stream of the engine.
func WithStdout(w io.Writer) Option {
	return func(e *Engine) { e.stdout = w }
}

// WithStdin sets the user_input stream of the engine.
func WithStdin(r io.Reader) Option {
	return func(e *Engine) { e.stdin = r }
}

// WithDebug passes debug to the init_msg/1 boot goal.
func WithDebug(debug bool) Option {
	return func(e *Engine) { e.debug = debug }
}

// New boots an engine over s.  A failure is a configuration error
// wrapping status.ErrEngineInit.
func New(s *session.Session, opts ...Option) (*Engine, error) {
	e := &Engine{
		s:        s,
		registry: predicates.Registry(),
		stdin:    strings.NewReader(""),
		stdout:   io.Discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.p = prolog.New(e.stdin, e.stdout)
	if err := e.registry.Install(&e.p.VM, s); err != nil {
		return nil, status.Configf("install predicates", status.ErrEngineInit, "%v", err)
	}
	if err := e.p.Exec(prelude); err != nil {
		return nil, status.Configf("load prelude", status.ErrEngineInit, "%v", err)
	}
	if err := e.p.QuerySolution(fmt.Sprintf("init_msg(%t).", e.debug)).Err(); err != nil {
		return nil, status.Configf("init_msg", status.ErrEngineInit, "%v", err)
	}
	glog.V(1).Infof("logic engine ready with %d foreign predicates", e.registry.Len())
	return e, nil
}

// Interpreter returns the underlying interpreter.
func (e *Engine) Interpreter() *prolog.Interpreter { return e.p }

func (e *Engine) Session() *session.Session { return e.s }

func (e *Engine) Registry() *bridge.Registry { return e.registry }

// Exec runs Prolog text: clauses are added and directives executed.
func (e *Engine) Exec(text string, args ...interface{}) error {
	return e.p.Exec(text, args...)
}

// LoadFile loads the rule file at path.  A missing file wraps
// status.ErrMissingRules and rules that do not parse wrap status.ErrParse.
func (e *Engine) LoadFile(path string) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return status.Configf("load rules", status.ErrMissingRules, "%v", err)
	}
	return e.LoadText(path, string(text))
}

// LoadText loads rules read from name.
func (e *Engine) LoadText(name, text string) error {
	if err := e.p.Exec(text); err != nil {
		if cerr := e.classify(err); status.IsConfig(cerr) {
			return cerr
		}
		return status.Configf("load rules", status.ErrParse, "%s: %v", name, err)
	}
	glog.V(1).Infof("loaded rules from %s", name)
	return nil
}

// Run proves goal once.  It returns nil when the goal succeeds, a
// *status.FailedError when it fails or raises an exception, and a
// configuration error when the goal calls an unknown procedure or a
// predicate aborted the session.
func (e *Engine) Run(goal string) error {
	err := e.p.QuerySolution(goal).Err()
	e.prune(goal)
	if fatal := e.s.Err(); fatal != nil {
		return fatal
	}
	if errors.Is(err, prolog.ErrNoSolutions) {
		return &status.FailedError{Goal: goal}
	}
	if err != nil {
		return e.classify(&status.FailedError{Goal: goal, Err: err})
	}
	return nil
}

func (e *Engine) prune(goal string) {
	if n := e.s.Tables().Ledger.PruneAll(); n > 0 {
		glog.V(2).Infof("%s: pruned %d open iterations", goal, n)
	}
}

var existenceError = regexp.MustCompile(`existence_error\(procedure,\s*'?([^'/]+)'?/(\d+)\)`)

// classify turns an existence error raised by the engine into a
// configuration error naming the unknown procedure.  Other errors are
// returned unchanged.
func (e *Engine) classify(err error) error {
	m := existenceError.FindStringSubmatch(err.Error())
	if m == nil {
		return err
	}
	arity, _ := strconv.Atoi(m[2])
	msg := fmt.Sprintf("%s/%d", m[1], arity)
	if hints := e.registry.Suggest(m[1]); len(hints) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", hints[0])
	}
	glog.Errorf("unknown procedure %s", msg)
	return status.Configf("run rules", status.ErrUnregisteredPredicate, "%s", msg)
}

// Binding is one variable of a console answer.
type Binding struct {
	Name  string
	Value string
}

// Solve enumerates the answers of query for the console, calling each with
// the bindings of every named variable in name order until each returns
// false.  Open iterations are pruned when the enumeration stops.
func (e *Engine) Solve(query string, each func([]Binding) bool) error {
	defer e.prune(query)
	sols, err := e.p.Query(query)
	if err != nil {
		return err
	}
	defer sols.Close()
	for sols.Next() {
		m := map[string]prolog.TermString{}
		if err := sols.Scan(m); err != nil {
			return err
		}
		bindings := make([]Binding, 0, len(m))
		for name, v := range m {
			if strings.HasPrefix(name, "_") {
				continue
			}
			bindings = append(bindings, Binding{Name: name, Value: string(v)})
		}
		sort.Slice(bindings, func(i, j int) bool { return bindings[i].Name < bindings[j].Name })
		if !each(bindings) {
			break
		}
	}
	return sols.Err()
}

// Close prunes what is left open.  The session is not ended.
func (e *Engine) Close() error {
	e.prune("close")
	return nil
}
