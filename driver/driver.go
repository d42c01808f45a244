// Copyright © 2026 The Crisp authors

// Package driver runs an analysis end to end.  A translation-unit run
// parses a source file, boots the logic engine over a session, loads the
// rules, asserts the facts and proves runTranslationUnitAnalysis(File).  A
// module run lowers the file to a module, imports the diagnostics the
// translation-unit run left in the .diags stream and proves
// run_module_analysis.  The session is ended on every exit path and the
// outcome is folded into a status code.
package driver

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"

	"github.com/crisp-analysis/crisp/bridge"
	"github.com/crisp-analysis/crisp/cxxast"
	"github.com/crisp-analysis/crisp/diagnostic"
	"github.com/crisp-analysis/crisp/facts"
	"github.com/crisp-analysis/crisp/frontend"
	"github.com/crisp-analysis/crisp/ir"
	"github.com/crisp-analysis/crisp/logic"
	"github.com/crisp-analysis/crisp/predicates"
	"github.com/crisp-analysis/crisp/profiler"
	"github.com/crisp-analysis/crisp/repl"
	"github.com/crisp-analysis/crisp/rules"
	"github.com/crisp-analysis/crisp/session"
	"github.com/crisp-analysis/crisp/status"
)

// Options are the user settings of a run.
type Options struct {
	// Debug makes the engine print its boot message.
	Debug bool
	// Interactive opens the console after the analysis goal.
	Interactive bool
	// RulesPath lists directories searched for rule files.
	RulesPath []string
	Color     diagnostic.ColorMode
}

// Driver runs analyses.  The zero value writes to os.Stderr and reads the
// console from os.Stdin.
type Driver struct {
	Options

	Stderr io.Writer
	Stdin  io.ReadCloser
	// Annotator traces the phases of a run.  When it is enabled every
	// foreign predicate call is traced too.
	Annotator profiler.Annotator
	// Consumer, when set, receives every diagnostic besides the renderer.
	Consumer diagnostic.Consumer
}

// New returns a driver with opts.
func New(opts Options) *Driver {
	return &Driver{Options: opts}
}

// Result is the outcome of a run.
type Result struct {
	Status   status.Code
	Warnings int
	Errors   int
	// Err is the error that decided Status, if any.
	Err error
}

// run is the state of one analysis.
type run struct {
	d     *Driver
	file  string
	diags *diagnostic.Engine
	sess  *session.Session
	eng   *logic.Engine
}

func (d *Driver) stderr() io.Writer {
	if d.Stderr != nil {
		return d.Stderr
	}
	return os.Stderr
}

func (d *Driver) annotator() profiler.Annotator {
	if d.Annotator != nil {
		return d.Annotator
	}
	return profiler.Nop
}

func (d *Driver) newRun(file string) *run {
	var c diagnostic.Consumer = diagnostic.NewRenderConsumer(&diagnostic.Renderer{Color: d.Color}, d.stderr())
	if d.Consumer != nil {
		c = diagnostic.Tee{c, d.Consumer}
	}
	return &run{d: d, file: file, diags: diagnostic.NewEngine(c)}
}

// phase starts the span of a driver phase.
func (r *run) phase(name string) func() {
	c := profiler.Call{Name: name, Kind: profiler.KindPhase, File: r.file}
	if r.sess != nil {
		c.Session = r.sess.ID.String()
	}
	return r.d.annotator().Start(c)
}

func (r *run) registry() *bridge.Registry {
	reg := predicates.Registry()
	if a := r.d.annotator(); a.IsEnabled() {
		reg = profiler.Instrument(reg, a)
	}
	return reg
}

func (r *run) boot(cfg session.Config, set *rules.Set) error {
	cfg.Diagnostics = r.diags
	r.sess = session.Begin(cfg)
	defer r.phase("boot")()
	e, err := logic.New(r.sess,
		logic.WithRegistry(r.registry()),
		logic.WithStdout(r.d.stderr()),
		logic.WithDebug(r.d.Debug))
	if err != nil {
		return err
	}
	r.eng = e
	if set == nil {
		return nil
	}
	return r.eng.LoadText(set.Name, set.Text)
}

// end tears the session down.  A failure to finish the aux stream is a
// configuration error unless the run already failed.
func (r *run) end(err error) error {
	if r.eng != nil {
		r.eng.Close() //nolint:errcheck // only prunes
	}
	if r.sess == nil {
		return err
	}
	if eerr := r.sess.End(); eerr != nil && err == nil {
		err = status.Configf("close aux stream", status.ErrAuxStream, "%v", eerr)
	}
	return err
}

// finish emits the generic failure diagnostic for a configuration error and
// folds the counts into a Result.
func (r *run) finish(err error) Result {
	res := Result{Status: status.FromError(err), Err: err}
	if res.Status == status.Config {
		glog.Errorf("%s: %v", r.file, err)
		id := r.diags.CustomID(diagnostic.SeverityError, "crisp: analysis tool failed: %0")
		r.diags.Report(diagnostic.Position{}, id).AddArg(err.Error()).Emit()
	} else if err != nil {
		glog.Warningf("%s: %v", r.file, err)
	}
	res.Warnings = r.diags.Count(diagnostic.SeverityWarning)
	res.Errors = r.diags.Count(diagnostic.SeverityError)
	if res.Status == status.OK && res.Errors > 0 {
		res.Status = status.Failure
	}
	if cerr := r.diags.Consumer().Finish(); cerr != nil {
		glog.Warningf("%s: writing diagnostics: %v", r.file, cerr)
	}
	if s := diagnostic.Summary(res.Warnings, res.Errors); s != "" {
		fmt.Fprintln(r.d.stderr(), s) //nolint:errcheck // best-effort console output
	}
	glog.V(1).Infof("%s: %s (%d warnings, %d errors)", r.file, res.Status, res.Warnings, res.Errors)
	return res
}

func (r *run) parse() (*cxxast.ASTContext, error) {
	defer r.phase("parse")()
	return frontend.ParseFile(r.file)
}

func (r *run) console() error {
	if !r.d.Interactive {
		return nil
	}
	return r.openConsole()
}

func (r *run) openConsole() error {
	defer r.phase("console")()
	var opts []repl.Option
	if r.d.Stdin != nil {
		opts = append(opts, repl.WithStdin(r.d.Stdin))
	}
	if w, ok := r.d.stderr().(io.WriteCloser); ok {
		opts = append(opts, repl.WithStderr(w))
	} else {
		opts = append(opts, repl.WithStderr(nopCloser{r.d.stderr()}))
	}
	return repl.Run(r.eng, repl.DefaultPrompt, opts...)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func (d *Driver) resolve(rulesArg string) (rules.Set, error) {
	set, err := rules.Resolve(rulesArg, d.RulesPath)
	if err != nil {
		return set, err
	}
	glog.V(1).Infof("rules from %s", set.Name)
	return set, nil
}

// RunTranslationUnit analyses the translation unit file with the rules
// named by rulesArg.
func (d *Driver) RunTranslationUnit(ctx context.Context, file, rulesArg string) Result {
	r := d.newRun(file)
	return r.finish(r.end(r.translationUnit(ctx, rulesArg)))
}

func (r *run) translationUnit(ctx context.Context, rulesArg string) error {
	set, err := r.d.resolve(rulesArg)
	if err != nil {
		return err
	}
	ast, err := r.parse()
	if err != nil {
		return err
	}
	if err := r.boot(session.Config{AST: ast}, &set); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	endAssert := r.phase("assert")
	n, err := facts.TranslationUnit(r.eng, r.sess)
	endAssert()
	if err != nil {
		return status.Configf("assert facts", status.ErrEngineInit, "%v", err)
	}
	glog.Infof("%s: %d facts asserted", r.file, n)

	endGoal := r.phase("goal")
	err = r.eng.Run(fmt.Sprintf("runTranslationUnitAnalysis(%s).", bridge.QuoteAtom(r.sess.MainFile())))
	endGoal()
	if status.IsConfig(err) {
		return err
	}
	if cerr := r.console(); cerr != nil {
		glog.Warningf("console: %v", cerr)
	}
	return err
}

// RunModule analyses the module lowered from file with the rules named by
// rulesArg.
func (d *Driver) RunModule(ctx context.Context, file, rulesArg string) Result {
	r := d.newRun(file)
	return r.finish(r.end(r.module(ctx, rulesArg)))
}

func (r *run) module(ctx context.Context, rulesArg string) error {
	set, err := r.d.resolve(rulesArg)
	if err != nil {
		return err
	}
	ast, err := r.parse()
	if err != nil {
		return err
	}
	endLower := r.phase("lower")
	m := ir.Lower(ast, nil)
	endLower()
	if err := r.boot(session.Config{Module: m}, &set); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	endAssert := r.phase("assert")
	n, err := facts.Diagnostics(r.eng, r.sess.AuxPath())
	if err == nil {
		var k int
		k, err = facts.Module(r.eng, r.sess)
		n += k
	}
	endAssert()
	if err != nil {
		return status.Configf("assert facts", status.ErrEngineInit, "%v", err)
	}
	glog.Infof("%s: %d facts asserted", r.file, n)

	file := bridge.QuoteAtom(r.sess.MainFile())
	endGoal := r.phase("goal")
	err = r.eng.Run(fmt.Sprintf("(current_predicate(readModuleFacts/1) -> readModuleFacts(%s) ; true), run_module_analysis.", file))
	endGoal()
	if status.IsConfig(err) {
		return err
	}
	if cerr := r.console(); cerr != nil {
		glog.Warningf("console: %v", cerr)
	}
	return err
}

// Console opens the console over the translation unit file without proving
// a goal.  rulesArg may be empty.
func (d *Driver) Console(ctx context.Context, file, rulesArg string) Result {
	r := d.newRun(file)
	return r.finish(r.end(r.consoleOnly(ctx, rulesArg)))
}

func (r *run) consoleOnly(ctx context.Context, rulesArg string) error {
	var set *rules.Set
	if rulesArg != "" {
		s, err := r.d.resolve(rulesArg)
		if err != nil {
			return err
		}
		set = &s
	}
	ast, err := r.parse()
	if err != nil {
		return err
	}
	if err := r.boot(session.Config{AST: ast}, set); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := facts.TranslationUnit(r.eng, r.sess); err != nil {
		return status.Configf("assert facts", status.ErrEngineInit, "%v", err)
	}
	return r.openConsole()
}
