// Copyright © 2026 The Crisp authors

// Package rules holds the built-in rule sets and resolves the rule
// argument of a run to rule text.
package rules

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/golang/glog"

	"github.com/crisp-analysis/crisp/status"
)

//go:embed *.pl
var files embed.FS

var builtin = map[string]string{
	"SomeHICPPrules": "hicpp.pl",
}

// Names returns the names of the built-in rule sets.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns the text of the built-in rule set name.
func Builtin(name string) (string, bool) {
	file, ok := builtin[name]
	if !ok {
		return "", false
	}
	text, err := files.ReadFile(file)
	if err != nil {
		return "", false
	}
	return string(text), true
}

// Set is resolved rule text.
type Set struct {
	// Name is the file the rules were read from, or the name of a
	// built-in set.
	Name string
	Text string
}

// Resolve finds the rules named by arg.  arg is tried as a file path,
// then as the name of a built-in set, then as a file name (with or
// without the .pl extension) in each directory of searchPath.  A miss
// wraps status.ErrMissingRules.
func Resolve(arg string, searchPath []string) (Set, error) {
	if arg == "" {
		return Set{}, status.Configf("resolve rules", status.ErrMissingRules, "no rule file given")
	}
	if set, err := readFile(arg); err == nil {
		return set, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Set{}, status.Configf("resolve rules", status.ErrMissingRules, "%v", err)
	}
	if text, ok := Builtin(arg); ok {
		glog.V(1).Infof("using built-in rule set %s", arg)
		return Set{Name: arg, Text: text}, nil
	}
	if !filepath.IsAbs(arg) {
		for _, dir := range searchPath {
			for _, name := range []string{arg, arg + ".pl"} {
				set, err := readFile(filepath.Join(dir, name))
				if err == nil {
					return set, nil
				}
			}
		}
	}
	return Set{}, status.Configf("resolve rules", status.ErrMissingRules, "%q is neither a file nor a built-in rule set", arg)
}

func readFile(path string) (Set, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Set{}, err
	}
	if info.IsDir() {
		return Set{}, fs.ErrNotExist
	}
	text, err := os.ReadFile(path)
	if err != nil {
		return Set{}, err
	}
	return Set{Name: path, Text: string(text)}, nil
}
