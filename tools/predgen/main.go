// Copyright © 2026 The Crisp authors

// Command predgen turns a predicate table (.def) into the Go registration
// table of the predicates package.
//
//	predgen -o zz_generated_clang.go clang.def
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
)

func main() {
	var (
		output  = pflag.StringP("output", "o", "", "output file (default zz_generated_<table>.go)")
		pkg     = pflag.String("package", "predicates", "package of the generated file")
		varName = pflag.String("var", "", "name of the table variable (default <table>Predicates)")
	)
	pflag.Parse()
	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: predgen [flags] TABLE.def")
		pflag.PrintDefaults()
		os.Exit(2)
	}
	if err := run(pflag.Arg(0), *output, *pkg, *varName); err != nil {
		fmt.Fprintln(os.Stderr, "predgen:", err)
		os.Exit(1)
	}
}

func run(input, output, pkg, varName string) error {
	text, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	t, err := readTable(input, text)
	if err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if varName == "" {
		varName = lowerFirst(base) + "Predicates"
	}
	if output == "" {
		output = filepath.Join(filepath.Dir(input), "zz_generated_"+base+".go")
	}
	src, err := t.generate(pkg, varName)
	if err != nil {
		return err
	}
	return os.WriteFile(output, src, 0o644)
}
