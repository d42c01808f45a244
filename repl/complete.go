// Copyright © 2026 The Crisp authors

package repl

import (
	"regexp"
	"sort"
	"strings"

	"github.com/crisp-analysis/crisp/logic"
)

// predicateCompleter implements readline.AutoCompleter over the names of
// the foreign predicates and the prelude.
type predicateCompleter struct {
	names []string
}

func (c *predicateCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to a delimiter).
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' || ch == '(' || ch == ',' || ch == '\n' || ch == '\'' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}
	var result [][]rune
	for _, name := range c.names {
		if strings.HasPrefix(name, prefix) {
			result = append(result, []rune(name[len(prefix):]))
		}
	}
	return result, len(prefix)
}

var preludeHead = regexp.MustCompile(`(?m)^([a-z][A-Za-z0-9_]*)[(.: ]`)

// completions returns the sorted, distinct predicate names known to e.
func completions(e *logic.Engine) []string {
	seen := map[string]bool{}
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, p := range e.Registry().Predicates() {
		add(p.Name)
	}
	for _, m := range preludeHead.FindAllStringSubmatch(logic.Prelude(), -1) {
		add(m[1])
	}
	for _, name := range []string{"isA", "translationUnitMainFileName", "llvmModuleFileName", "clangDiagnostic"} {
		add(name)
	}
	sort.Strings(names)
	return names
}
