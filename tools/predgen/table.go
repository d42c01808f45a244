// Copyright © 2026 The Crisp authors

package main

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/crisp-analysis/crisp/parser"
)

// record is one predicate row of a table.
type record struct {
	kind   string
	name   string
	arg    string
	res    string
	method string
	line   int
}

// predicate returns the Prolog name of the record: ARGTYPE::NAME.
func (r record) predicate() string { return r.arg + "::" + r.name }

var recordArity = map[string]int{
	"get_one":         4,
	"check_property":  3,
	"get_many":        4,
	"get_many_cursor": 4,
}

// table is a parsed .def file.
type table struct {
	source     string
	typesAlias string
	typesPath  string
	abstract   map[string]bool
	value      map[string]bool
	enum       map[string]bool
	records    []record
}

// readTable parses the records and directives of a .def file.
//
//	types(Alias, "import/path").
//	abstract(T). value(T). enum(T).
//	get_one(NAME, ARGTYPE, RESTYPE, GoMethod).
//	check_property(NAME, ARGTYPE, GoMethod).
//	get_many(NAME, ARGTYPE, ELEMTYPE, GoMethod).
//	get_many_cursor(NAME, ARGTYPE, ELEMTYPE, GoOpen).
//
// Names may be written as atoms or, when capitalized, as bare variables.
func readTable(source string, text []byte) (*table, error) {
	clauses, err := parser.Parse(source, text)
	if err != nil {
		return nil, err
	}
	t := &table{
		source:   source,
		abstract: map[string]bool{},
		value:    map[string]bool{},
		enum:     map[string]bool{},
	}
	seen := map[string]int{}
	for _, c := range clauses {
		if c.Directive || c.Body != nil {
			return nil, fmt.Errorf("%s:%d: rules are not allowed in a table", source, c.Line)
		}
		h := c.Head
		names := make([]string, len(h.Args))
		for i, a := range h.Args {
			name, ok := nameOf(a)
			if !ok {
				return nil, fmt.Errorf("%s:%d: %s: argument %d is not a name", source, c.Line, h.Indicator(), i+1)
			}
			names[i] = name
		}
		switch h.Name {
		case "types":
			if len(names) != 2 {
				return nil, fmt.Errorf("%s:%d: types/2 expected", source, c.Line)
			}
			t.typesAlias, t.typesPath = names[0], names[1]
			continue
		case "abstract", "value", "enum":
			if len(names) != 1 {
				return nil, fmt.Errorf("%s:%d: %s/1 expected", source, c.Line, h.Name)
			}
			map[string]map[string]bool{"abstract": t.abstract, "value": t.value, "enum": t.enum}[h.Name][names[0]] = true
			continue
		}
		arity, ok := recordArity[h.Name]
		if !ok {
			return nil, fmt.Errorf("%s:%d: unknown record %s", source, c.Line, h.Indicator())
		}
		if len(names) != arity {
			return nil, fmt.Errorf("%s:%d: %s/%d expected, found %s", source, c.Line, h.Name, arity, h.Indicator())
		}
		r := record{kind: h.Name, name: names[0], arg: names[1], method: names[len(names)-1], line: c.Line}
		if arity == 4 {
			r.res = names[2]
		}
		if prev, dup := seen[r.predicate()]; dup {
			return nil, fmt.Errorf("%s:%d: %s already defined on line %d", source, c.Line, r.predicate(), prev)
		}
		seen[r.predicate()] = c.Line
		t.records = append(t.records, r)
	}
	if t.typesAlias == "" {
		return nil, fmt.Errorf("%s: missing types/2 directive", source)
	}
	for _, r := range t.records {
		if r.res == "bool" {
			return nil, fmt.Errorf("%s:%d: %s: boolean results belong in check_property", source, r.line, r.predicate())
		}
	}
	return t, nil
}

func nameOf(t *parser.Term) (string, bool) {
	switch t.Kind {
	case parser.KindAtom, parser.KindVar, parser.KindString:
		return t.Name, t.Name != ""
	}
	return "", false
}

// goType spells a table type in Go.  Abstract, value and enum types are
// used as they are; every other entity is a pointer.
func (t *table) goType(name string) string {
	switch name {
	case "string", "int":
		return name
	}
	q := t.typesAlias + "." + name
	if t.abstract[name] || t.value[name] || t.enum[name] {
		return q
	}
	return "*" + q
}

// encoder returns the expression of the result encoder for name.
func (t *table) encoder(name string) string {
	switch {
	case name == "string":
		return "bridge.Text()"
	case name == "int":
		return "bridge.Integer[int]()"
	case t.enum[name]:
		return lowerFirst(name) + "Encoder"
	case t.value[name]:
		return fmt.Sprintf("bridge.SmartRef[%s]()", t.goType(name))
	}
	return fmt.Sprintf("bridge.Pointer[%s]()", t.goType(name))
}

// accessor returns the Go expression of the record's accessor: a method
// expression for an exported method, or a function of the output package.
func (t *table) accessor(r record) string {
	if !isExported(r.method) {
		return r.method
	}
	recv := t.goType(r.arg)
	if recv[0] == '*' {
		return "(" + recv + ")." + r.method
	}
	return recv + "." + r.method
}

func isExported(name string) bool {
	c, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(c)
}

func lowerFirst(name string) string {
	c, n := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(c)) + name[n:]
}
