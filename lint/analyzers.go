// Copyright © 2026 The Crisp authors

package lint

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/crisp-analysis/crisp/parser"
)

// AnalyzerUnknownPredicate reports goals calling a procedure no builtin,
// foreign predicate, prelude clause or clause of the file defines.
var AnalyzerUnknownPredicate = &Analyzer{
	Name:     "unknown-predicate",
	Doc:      "Report goals calling procedures that are not defined anywhere.\n\nThe engine raises an existence error when such a goal runs, which stops the analysis with a configuration error. Foreign predicate names are quoted atoms such as 'NamedDecl::getName'; a misspelled class or method name is the usual cause.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		WalkGoals(pass.Clauses, func(c *parser.Clause, goal *parser.Term) {
			if len(pass.Known.Arities(goal.Name)) > 0 {
				return
			}
			d := Diagnostic{
				Pos:     Position{File: pass.Filename, Line: lineOf(c, goal)},
				Message: fmt.Sprintf("unknown procedure %s", goal.Indicator()),
			}
			if hints := pass.Known.Suggest(goal.Name); len(hints) > 0 {
				d.Notes = append(d.Notes, fmt.Sprintf("did you mean %s?", hints[0]))
			}
			pass.Report(d)
		})
		return nil
	},
}

// AnalyzerArityMismatch reports goals calling a known name with an arity it
// is not defined with.
var AnalyzerArityMismatch = &Analyzer{
	Name:     "arity-mismatch",
	Doc:      "Report goals calling a known procedure with the wrong number of arguments.\n\nProcedures are identified by name and arity, so foo/2 and foo/3 are unrelated. Calling the wrong one raises an existence error at run time.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		WalkGoals(pass.Clauses, func(c *parser.Clause, goal *parser.Term) {
			arities := pass.Known.Arities(goal.Name)
			if len(arities) == 0 || pass.Known.Has(goal.Name, len(goal.Args)) {
				return
			}
			known := make([]string, len(arities))
			for i, a := range arities {
				known[i] = Indicator{goal.Name, a}.String()
			}
			pass.Reportf(lineOf(c, goal), "%s called with %d arguments; known as %s",
				parser.Atom(goal.Name), len(goal.Args), strings.Join(known, ", "))
		})
		return nil
	},
}

// Entry goals a run calls; a rule file must define one of them.
var entryGoals = []Indicator{
	{"runTranslationUnitAnalysis", 1},
	{"run_module_analysis", 0},
}

// AnalyzerEntryGoal warns when a rule file defines no entry goal.
var AnalyzerEntryGoal = &Analyzer{
	Name:     "entry-goal",
	Doc:      "Warn when a rule file defines neither runTranslationUnitAnalysis/1 nor run_module_analysis/0.\n\nA translation-unit run calls runTranslationUnitAnalysis(File) and a module run calls run_module_analysis. A file defining neither cannot be run on its own.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		for _, c := range pass.Clauses {
			if c.Head == nil {
				continue
			}
			for _, e := range entryGoals {
				if c.Head.Is(e.Name, e.Arity) {
					return nil
				}
			}
		}
		pass.Reportf(1, "no entry goal: define %s or %s", entryGoals[0], entryGoals[1])
		return nil
	},
}

// AnalyzerSingletonVariable warns about named variables that occur once in
// a clause.
var AnalyzerSingletonVariable = &Analyzer{
	Name:     "singleton-variable",
	Doc:      "Warn about named variables that occur only once in a clause.\n\nA singleton is usually a typo for another variable of the clause. Name it with a leading underscore when it is intentionally unused.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		for _, c := range pass.Clauses {
			counts := map[string]int{}
			var order []string
			count := func(t *parser.Term) {
				if t.Kind != parser.KindVar || strings.HasPrefix(t.Name, "_") {
					return
				}
				if counts[t.Name] == 0 {
					order = append(order, t.Name)
				}
				counts[t.Name]++
			}
			WalkTerms(c.Head, count)
			WalkTerms(c.Body, count)
			var singles []string
			for _, name := range order {
				if counts[name] == 1 {
					singles = append(singles, name)
				}
			}
			if len(singles) == 0 {
				continue
			}
			what := "directive"
			if c.Head != nil {
				what = "clause of " + c.Indicator()
			}
			pass.Reportf(c.Line, "singleton variables in %s: %s", what, strings.Join(singles, ", "))
		}
		return nil
	},
}

var placeholder = regexp.MustCompile(`%(\d+)`)

// AnalyzerReportRequest checks literal diagnostic requests: the
// warn/4 and note/4 terms a rule builds for report_violation.
var AnalyzerReportRequest = &Analyzer{
	Name:     "report-request",
	Doc:      "Check literal diagnostic requests passed to report_violation.\n\nA request is warn(Format, Anchor, Items, Range) or note(Format, Anchor, Items, Range). The anchor is 'Decl'(H) or 'Stmt'(H), items are 'NamedDecl'(H) or 'Type'(H), and the range is 'Decl'(H), 'Stmt'(H) or 'Null'. Every %N placeholder of the format must name an item. A malformed request is dropped at run time with only a log warning.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		WalkGoals(pass.Clauses, func(c *parser.Clause, goal *parser.Term) {
			if goal.Name != "report_violation" || (len(goal.Args) != 2 && len(goal.Args) != 3) {
				return
			}
			if rule := goal.Args[0]; rule.Kind != parser.KindVar && rule.Kind != parser.KindAtom {
				pass.Reportf(lineOf(c, goal), "rule name %s is not an atom", rule)
			}
			elems, ok := goal.Args[1].List()
			if !ok {
				return
			}
			for _, e := range elems {
				if e.Kind == parser.KindVar {
					continue
				}
				if !e.Is("warn", 4) && !e.Is("note", 4) {
					pass.Reportf(lineOf(c, e), "request %s is not warn/4 or note/4", e)
				}
			}
		})
		for _, c := range pass.Clauses {
			WalkTerms(c.Body, func(t *parser.Term) { checkRequest(pass, c, t) })
			WalkTerms(c.Head, func(t *parser.Term) { checkRequest(pass, c, t) })
		}
		return nil
	},
}

func checkRequest(pass *Pass, c *parser.Clause, t *parser.Term) {
	if !t.Is("warn", 4) && !t.Is("note", 4) {
		return
	}
	format, anchor, items, rng := t.Args[0], t.Args[1], t.Args[2], t.Args[3]
	if format.Kind != parser.KindAtom {
		return
	}
	line := lineOf(c, t)
	if !tagged(anchor, "Decl", "Stmt") {
		pass.Reportf(line, "%s anchor %s is not 'Decl'(H) or 'Stmt'(H)", t.Name, anchor)
	}
	if !tagged(rng, "Decl", "Stmt") && !(rng.Kind == parser.KindAtom && rng.Name == "Null") && !rng.Is("Null", 0) {
		pass.Reportf(line, "%s range %s is not 'Decl'(H), 'Stmt'(H) or 'Null'", t.Name, rng)
	}
	elems, ok := items.List()
	if !ok {
		return
	}
	for _, e := range elems {
		if !tagged(e, "NamedDecl", "Type") {
			pass.Reportf(line, "%s item %s is not 'NamedDecl'(H) or 'Type'(H)", t.Name, e)
		}
	}
	var missing []int
	for _, m := range placeholder.FindAllStringSubmatch(format.Name, -1) {
		n, _ := strconv.Atoi(m[1])
		if n >= len(elems) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		sort.Ints(missing)
		pass.Reportf(line, "format %s has placeholder %%%d but only %d items", parser.Atom(format.Name), missing[0], len(elems))
	}
}

// tagged reports whether t is Tag(X) for one of tags, or a variable.
func tagged(t *parser.Term, tags ...string) bool {
	if t.Kind == parser.KindVar {
		return true
	}
	for _, tag := range tags {
		if t.Is(tag, 1) {
			return true
		}
	}
	return false
}

// AnalyzerNames returns a sorted list of all default analyzer names.
func AnalyzerNames() []string {
	analyzers := DefaultAnalyzers()
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

const docWidth = 68

// AnalyzerDoc returns a formatted documentation string for all analyzers.
func AnalyzerDoc() string {
	var b strings.Builder
	for _, a := range DefaultAnalyzers() {
		fmt.Fprintf(&b, "  %s\n", a.Name)
		doc := wordwrap.String(strings.Join(strings.Fields(a.Doc), " "), docWidth)
		fmt.Fprintf(&b, "%s\n\n", indent.String(doc, 4))
	}
	return b.String()
}
