// Copyright © 2026 The Crisp authors

package main

import (
	"bytes"
	"fmt"
	"go/format"
	"path/filepath"
)

const bridgePath = "github.com/crisp-analysis/crisp/bridge"

// generate writes the Go source of t as the variable varName of package
// pkg.
func (t *table) generate(pkg, varName string) ([]byte, error) {
	var b bytes.Buffer
	base := filepath.Base(t.source)
	fmt.Fprintf(&b, "// Copyright © 2026 The Crisp authors\n\n")
	fmt.Fprintf(&b, "// Code generated by predgen from %s. DO NOT EDIT.\n\n", base)
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	fmt.Fprintf(&b, "import (\n\t%q\n\t%q\n)\n\n", bridgePath, t.typesPath)
	fmt.Fprintf(&b, "// %s is the %s predicate table.\n", varName, base)
	fmt.Fprintf(&b, "var %s = []bridge.Predicate{\n", varName)
	group := ""
	for _, r := range t.records {
		if r.arg != group {
			if group != "" {
				b.WriteString("\n")
			}
			group = r.arg
			fmt.Fprintf(&b, "\t// %s\n", group)
		}
		fmt.Fprintf(&b, "\t%s,\n", t.entry(r))
	}
	b.WriteString("}\n")
	src, err := format.Source(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%s: generated code does not parse: %w", t.source, err)
	}
	return src, nil
}

func (t *table) entry(r record) string {
	arg := t.goType(r.arg)
	switch r.kind {
	case "check_property":
		return fmt.Sprintf("bridge.CheckProperty[%s](%q, %s)", arg, r.predicate(), t.accessor(r))
	case "get_many":
		return fmt.Sprintf("bridge.GetMany[%s, %s](%q, %s, %s)",
			arg, t.goType(r.res), r.predicate(), t.accessor(r), t.encoder(r.res))
	case "get_many_cursor":
		return fmt.Sprintf("bridge.GetManyCursor[%s, %s](%q, %s, %s)",
			arg, t.goType(r.res), r.predicate(), t.accessor(r), t.encoder(r.res))
	}
	return fmt.Sprintf("bridge.GetOne[%s, %s](%q, %s, %s)",
		arg, t.goType(r.res), r.predicate(), t.accessor(r), t.encoder(r.res))
}
