// Copyright © 2026 The Crisp authors

package lint

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisp-analysis/crisp/rules"
)

// lintSource runs all default analyzers on the given source and returns diagnostics.
func lintSource(t *testing.T, source string) []Diagnostic {
	t.Helper()
	l := &Linter{Analyzers: DefaultAnalyzers()}
	diags, err := l.LintFile([]byte(source), "test.pl")
	require.NoError(t, err)
	return diags
}

// lintCheck runs a single analyzer on the given source.
func lintCheck(t *testing.T, analyzer *Analyzer, source string) []Diagnostic {
	t.Helper()
	l := &Linter{Analyzers: []*Analyzer{analyzer}}
	diags, err := l.LintFile([]byte(source), "test.pl")
	require.NoError(t, err)
	return diags
}

// assertHasDiag checks that at least one diagnostic contains the given substring.
func assertHasDiag(t *testing.T, diags []Diagnostic, substr string) {
	t.Helper()
	for _, d := range diags {
		if strings.Contains(d.Message, substr) {
			return
		}
	}
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.String())
	}
	t.Errorf("expected diagnostic containing %q, got: %v", substr, msgs)
}

// assertNoDiags checks that there are no diagnostics.
func assertNoDiags(t *testing.T, diags []Diagnostic) {
	t.Helper()
	if len(diags) > 0 {
		var msgs []string
		for _, d := range diags {
			msgs = append(msgs, d.String())
		}
		t.Errorf("expected no diagnostics, got: %v", msgs)
	}
}

func TestBuiltinRulesAreClean(t *testing.T) {
	for _, name := range rules.Names() {
		text, ok := rules.Builtin(name)
		require.True(t, ok)
		l := &Linter{Analyzers: DefaultAnalyzers()}
		diags, err := l.LintFile([]byte(text), name)
		require.NoError(t, err)
		assertNoDiags(t, diags)
	}
}

func TestUnknownPredicate(t *testing.T) {
	diags := lintCheck(t, AnalyzerUnknownPredicate, `
runTranslationUnitAnalysis(_) :-
    isA(D, 'CXXRecordDecl'),
    'NamedDecl::getNmae'(D, _),
    helper(D),
    no_such_thing.
helper(_).
`)
	require.Len(t, diags, 2)
	assert.Equal(t, "unknown procedure NamedDecl::getNmae/2", diags[0].Message)
	assert.Equal(t, 4, diags[0].Pos.Line)
	assert.Equal(t, []string{"did you mean NamedDecl::getName?"}, diags[0].Notes)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Equal(t, "unknown procedure no_such_thing/0", diags[1].Message)
	assert.Empty(t, diags[1].Notes)
}

func TestUnknownPredicateSuggestsLocal(t *testing.T) {
	diags := lintCheck(t, AnalyzerUnknownPredicate, `
runTranslationUnitAnalysis(F) :- check_record(F).
check_records(_).
`)
	require.Len(t, diags, 1)
	assert.Equal(t, []string{"did you mean check_records?"}, diags[0].Notes)
}

func TestDeclaredProcedures(t *testing.T) {
	diags := lintCheck(t, AnalyzerUnknownPredicate, `
:- dynamic seen/1, counted/2.
:- dynamic([visited/1]).
runTranslationUnitAnalysis(_) :-
    \+ seen(a), \+ counted(a, 1), \+ visited(b),
    clangDiagnostic(_, _, _, _, _), translationUnitMainFileName(_).
`)
	assertNoDiags(t, diags)
}

func TestArityMismatch(t *testing.T) {
	diags := lintCheck(t, AnalyzerArityMismatch, `
runTranslationUnitAnalysis(_) :-
    isA(D),
    'CXXMethodDecl::isVirtual'(D, yes),
    helper(D, D).
helper(_).
helper(_, _, _).
`)
	require.Len(t, diags, 3)
	assert.Equal(t, "isA called with 1 arguments; known as isA/2", diags[0].Message)
	assertHasDiag(t, diags, "'CXXMethodDecl::isVirtual' called with 2 arguments")
	assertHasDiag(t, diags, "known as helper/1, helper/3")
}

func TestEntryGoal(t *testing.T) {
	diags := lintCheck(t, AnalyzerEntryGoal, "helper(_).\n")
	require.Len(t, diags, 1)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "runTranslationUnitAnalysis/1")

	assertNoDiags(t, lintCheck(t, AnalyzerEntryGoal, "run_module_analysis.\n"))
}

func TestSingletonVariable(t *testing.T) {
	diags := lintCheck(t, AnalyzerSingletonVariable, `
runTranslationUnitAnalysis(File) :-
    isA(D, Sort),
    _Ignored = D.
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "singleton variables in clause of runTranslationUnitAnalysis/1: File, Sort", diags[0].Message)
	assert.Equal(t, 2, diags[0].Pos.Line)
}

func TestReportRequest(t *testing.T) {
	diags := lintCheck(t, AnalyzerReportRequest, `
runTranslationUnitAnalysis(_) :-
    isA(D, 'CXXMethodDecl'),
    report_violation("R", [oops(D)]),
    report_violation('R', [warn('%0 and %2', 'Decl'(D), ['NamedDecl'(D), 'Type'(D)], 'Null')]),
    report_violation('R', [note(here, D, [D], 'Expr'(D))]),
    report_violation('R', [warn(bad, 'Loc'(D), [name(D)], 'Null'(D))]).
`)
	assertHasDiag(t, diags, `rule name "R" is not an atom`)
	assertHasDiag(t, diags, "request oops(D) is not warn/4 or note/4")
	assertHasDiag(t, diags, "format '%0 and %2' has placeholder %2 but only 2 items")
	assertHasDiag(t, diags, "note range 'Expr'(D) is not")
	assertHasDiag(t, diags, "warn anchor 'Loc'(D) is not")
	assertHasDiag(t, diags, "warn item name(D) is not")
	assertHasDiag(t, diags, "warn range 'Null'(D) is not")
	assert.Len(t, diags, 7)
}

func TestNolint(t *testing.T) {
	diags := lintSource(t, `
runTranslationUnitAnalysis(_) :-
    foo(a),        % nolint
    bar(b).        % nolint:singleton-variable
helper(X).         % nolint:singleton-variable
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "unknown-predicate", diags[0].Analyzer)
	assert.Equal(t, 4, diags[0].Pos.Line)
}

func TestLintFileFixture(t *testing.T) {
	src, err := os.ReadFile("testdata/typos.pl")
	require.NoError(t, err)
	l := &Linter{Analyzers: DefaultAnalyzers()}
	diags, err := l.LintFile(src, "testdata/typos.pl")
	require.NoError(t, err)

	var got []string
	for _, d := range diags {
		got = append(got, d.Analyzer)
	}
	assert.Equal(t, []string{
		"singleton-variable",
		"unknown-predicate",
		"report-request",
		"arity-mismatch",
	}, got)
	assert.Equal(t, 3, diags[0].Pos.Line)
	assert.Equal(t, "testdata/typos.pl:7", diags[1].Pos.String())
}

func TestLintParseError(t *testing.T) {
	l := &Linter{Analyzers: DefaultAnalyzers()}
	_, err := l.LintFile([]byte("foo(.\n"), "bad.pl")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	diags := []Diagnostic{{
		Pos:      Position{File: "a.pl", Line: 3},
		Message:  "unknown procedure x/0",
		Analyzer: "unknown-predicate",
		Severity: SeverityError,
		Notes:    []string{"did you mean y?"},
	}}
	var buf bytes.Buffer
	FormatText(&buf, diags)
	assert.Equal(t, "a.pl:3: unknown procedure x/0 (unknown-predicate)\n  = note: did you mean y?\n", buf.String())

	buf.Reset()
	require.NoError(t, FormatJSON(&buf, diags))
	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "error", decoded[0]["severity"])

	b, err := json.Marshal(Diagnostic{})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"severity":"warning"`)
}

func TestAnalyzerDoc(t *testing.T) {
	assert.Equal(t, []string{"arity-mismatch", "entry-goal", "report-request", "singleton-variable", "unknown-predicate"}, AnalyzerNames())
	doc := AnalyzerDoc()
	for _, a := range DefaultAnalyzers() {
		assert.Contains(t, doc, a.Name)
	}
}
