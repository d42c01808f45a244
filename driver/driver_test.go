// Copyright © 2026 The Crisp authors

package driver

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/crisp-analysis/crisp/diagnostic"
	"github.com/crisp-analysis/crisp/profiler"
	"github.com/crisp-analysis/crisp/session"
	"github.com/crisp-analysis/crisp/status"
)

// syncBuffer is a bytes.Buffer safe for the console's concurrent writes.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

type fixture struct {
	d      *Driver
	stderr *syncBuffer
	diags  *diagnostic.Collector
}

func newFixture(opts Options) *fixture {
	f := &fixture{stderr: &syncBuffer{}, diags: &diagnostic.Collector{}}
	opts.Color = diagnostic.ColorNever
	f.d = New(opts)
	f.d.Stderr = f.stderr
	f.d.Consumer = f.diags
	return f
}

func (f *fixture) bySeverity(sev diagnostic.Severity) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	for _, d := range f.diags.Diagnostics() {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// copyTestdata copies name into a temporary directory, so runs writing a
// .diags stream next to the source leave testdata alone.
func copyTestdata(t *testing.T, name string) string {
	t.Helper()
	src, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, src, 0o644))
	return path
}

func TestRunTranslationUnitHICPP(t *testing.T) {
	f := newFixture(Options{})
	file := filepath.Join("..", "frontend", "testdata", "ctor_virtual.cpp")
	res := f.d.RunTranslationUnit(context.Background(), file, "SomeHICPPrules")
	require.NoError(t, res.Err)
	assert.Equal(t, status.OK, res.Status)
	assert.Equal(t, 3, res.Warnings)
	assert.Zero(t, res.Errors)

	warnings := f.bySeverity(diagnostic.SeverityWarning)
	require.Len(t, warnings, 3)
	var lines []int
	for _, w := range warnings {
		lines = append(lines, w.Pos.Line)
		assert.Equal(t, file, w.Pos.File)
		assert.True(t, strings.HasPrefix(w.Message, "HICPP 3.3.13: ctor/dtor 'B' calls (maybe indirectly) virtual method"), w.Message)
	}
	assert.Equal(t, []int{21, 22, 23}, lines)
	assert.Contains(t, warnings[0].Message, "'func'")
	assert.Contains(t, warnings[1].Message, "'func2'")
	assert.Contains(t, warnings[2].Message, "'func'")

	notes := f.bySeverity(diagnostic.SeverityNote)
	require.Len(t, notes, 4)
	var indirect bool
	for _, n := range notes {
		if n.Message == "HICPP 3.3.13: method 'non_virtual' calls method 'func' here" {
			indirect = true
			assert.Equal(t, 8, n.Pos.Line)
		}
	}
	assert.True(t, indirect, "the indirect call is explained by a note")

	out := f.stderr.String()
	assert.Contains(t, out, "ctor_virtual.cpp:21:3: warning: HICPP 3.3.13")
	assert.Contains(t, out, "3 warnings generated.")
	assert.Nil(t, session.Current(), "the session is ended")
}

func TestRunTranslationUnitMinimal(t *testing.T) {
	f := newFixture(Options{})
	res := f.d.RunTranslationUnit(context.Background(), "testdata/minimal.cpp", "SomeHICPPrules")
	assert.Equal(t, status.OK, res.Status)
	assert.Equal(t, 1, res.Warnings)
	warnings := f.bySeverity(diagnostic.SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, diagnostic.Position{File: "testdata/minimal.cpp", Line: 4, Col: 9}, warnings[0].Pos)
}

func TestRunTranslationUnitEmpty(t *testing.T) {
	f := newFixture(Options{})
	res := f.d.RunTranslationUnit(context.Background(), "testdata/empty.cpp", "SomeHICPPrules")
	assert.Equal(t, status.OK, res.Status)
	assert.Zero(t, res.Warnings)
	assert.Empty(t, f.diags.Diagnostics())
	assert.Empty(t, f.stderr.String())
}

func TestRunTranslationUnitDebug(t *testing.T) {
	f := newFixture(Options{Debug: true})
	res := f.d.RunTranslationUnit(context.Background(), "testdata/empty.cpp", "SomeHICPPrules")
	assert.Equal(t, status.OK, res.Status)
	assert.Contains(t, f.stderr.String(), "Crisp logic engine ready")
}

func TestRunTranslationUnitRulesPath(t *testing.T) {
	f := newFixture(Options{RulesPath: []string{"testdata"}})
	res := f.d.RunTranslationUnit(context.Background(), "testdata/minimal.cpp", "fails")
	assert.Equal(t, status.Failure, res.Status)
	var failed *status.FailedError
	require.ErrorAs(t, res.Err, &failed)
	assert.Equal(t, "runTranslationUnitAnalysis('testdata/minimal.cpp').", failed.Goal)
	assert.Empty(t, f.diags.Diagnostics(), "a failed goal is not a configuration error")
}

func TestConfigurationErrors(t *testing.T) {
	testCases := []struct {
		name  string
		file  string
		rules string
		err   error
	}{
		{"missing rules", "testdata/minimal.cpp", "testdata/nope.pl", status.ErrMissingRules},
		{"no rules", "testdata/minimal.cpp", "", status.ErrMissingRules},
		{"missing source", "testdata/nope.cpp", "SomeHICPPrules", status.ErrParse},
		{"unknown predicate", "testdata/minimal.cpp", "testdata/unknown.pl", status.ErrUnregisteredPredicate},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(Options{})
			res := f.d.RunTranslationUnit(context.Background(), tc.file, tc.rules)
			assert.Equal(t, status.Config, res.Status)
			assert.ErrorIs(t, res.Err, tc.err)
			assert.Equal(t, 1, res.Errors)

			errs := f.bySeverity(diagnostic.SeverityError)
			require.Len(t, errs, 1)
			assert.True(t, strings.HasPrefix(errs[0].Message, "crisp: analysis tool failed: "), errs[0].Message)
			assert.False(t, errs[0].Pos.IsValid())
			assert.Contains(t, f.stderr.String(), "error: crisp: analysis tool failed")
			assert.Nil(t, session.Current())
		})
	}
}

func TestUnknownPredicateHint(t *testing.T) {
	f := newFixture(Options{})
	res := f.d.RunTranslationUnit(context.Background(), "testdata/minimal.cpp", "testdata/unknown.pl")
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "NamedDecl::getNmae/2 (did you mean NamedDecl::getName?)")
}

func TestAuxStreamRoundTrip(t *testing.T) {
	src := copyTestdata(t, "minimal.cpp")

	f := newFixture(Options{})
	res := f.d.RunTranslationUnit(context.Background(), src, "testdata/aux.pl")
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Warnings)
	assert.Empty(t, f.diags.Diagnostics(), "aux findings bypass the normal consumer")

	text, err := os.ReadFile(src + ".diags")
	require.NoError(t, err)
	assert.Equal(t, src+":4:3: warning: AUX: constructor 'A'\n", string(text))

	f = newFixture(Options{})
	res = f.d.RunModule(context.Background(), src, "testdata/imports.pl")
	require.NoError(t, res.Err)
	assert.Equal(t, status.OK, res.Status)

	require.NoError(t, os.Remove(src+".diags"))
	f = newFixture(Options{})
	res = f.d.RunModule(context.Background(), src, "testdata/imports.pl")
	assert.Equal(t, status.Failure, res.Status, "nothing to import")
}

func TestRunModule(t *testing.T) {
	f := newFixture(Options{})
	res := f.d.RunModule(context.Background(), "testdata/store.cpp", "testdata/store.pl")
	require.NoError(t, res.Err)
	assert.Equal(t, status.OK, res.Status)
	warnings := f.bySeverity(diagnostic.SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "testdata/store.cpp", warnings[0].Pos.File)
	assert.Equal(t, 2, warnings[0].Pos.Line)
	assert.True(t, strings.HasPrefix(warnings[0].Message, "MEM: store '"), warnings[0].Message)
}

func TestRunModuleEntryGoalMissing(t *testing.T) {
	f := newFixture(Options{})
	res := f.d.RunModule(context.Background(), "testdata/store.cpp", "SomeHICPPrules")
	assert.Equal(t, status.Config, res.Status)
	assert.ErrorIs(t, res.Err, status.ErrUnregisteredPredicate)
	assert.Contains(t, res.Err.Error(), "run_module_analysis/0")
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := newFixture(Options{})
	res := f.d.RunTranslationUnit(ctx, "testdata/minimal.cpp", "SomeHICPPrules")
	assert.Equal(t, status.Failure, res.Status)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Nil(t, session.Current())
}

func TestInteractive(t *testing.T) {
	f := newFixture(Options{Interactive: true})
	f.d.Stdin = io.NopCloser(strings.NewReader("isA(_, 'CXXRecordDecl'), translationUnitMainFileName(F).\n"))
	res := f.d.RunTranslationUnit(context.Background(), "testdata/minimal.cpp", "SomeHICPPrules")
	assert.Equal(t, status.OK, res.Status)
	assert.Contains(t, f.stderr.String(), "F = 'testdata/minimal.cpp';")
}

func TestConsole(t *testing.T) {
	f := newFixture(Options{})
	f.d.Stdin = io.NopCloser(strings.NewReader("structor(C), 'NamedDecl::getName'(C, N).\n"))
	res := f.d.Console(context.Background(), "testdata/minimal.cpp", "SomeHICPPrules")
	assert.Equal(t, status.OK, res.Status)
	assert.Contains(t, f.stderr.String(), "N = 'A';")
	assert.Empty(t, f.diags.Diagnostics(), "no goal is proved")

	f = newFixture(Options{})
	f.d.Stdin = io.NopCloser(strings.NewReader("isA(_, 'CXXMethodDecl').\n"))
	res = f.d.Console(context.Background(), "testdata/minimal.cpp", "")
	assert.Equal(t, status.OK, res.Status)
	assert.Contains(t, f.stderr.String(), "true;")
}

func TestPhaseSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	t.Cleanup(func() {
		assert.NoError(t, tp.Shutdown(context.Background()))
	})
	otel.SetTracerProvider(tp)

	a := profiler.NewOpenTelemetryAnnotator(context.Background(), profiler.PhasesOnly())
	require.NoError(t, a.Enable())
	f := newFixture(Options{})
	f.d.Annotator = a
	res := f.d.RunTranslationUnit(context.Background(), "testdata/minimal.cpp", "SomeHICPPrules")
	require.NoError(t, res.Err)
	require.NoError(t, a.Complete())

	var names []string
	for _, s := range exporter.GetSpans() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"parse", "boot", "assert", "goal"}, names)
}
