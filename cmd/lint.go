// Copyright © 2026 The Crisp authors

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crisp-analysis/crisp/bridge"
	"github.com/crisp-analysis/crisp/lint"
	"github.com/crisp-analysis/crisp/status"
)

// cmdConfig holds what a command factory can be given.
type cmdConfig struct {
	registry *bridge.Registry
}

// Option configures a command built by a factory such as LintCommand.
type Option func(*cmdConfig)

// WithRegistry checks rule files against r instead of the foreign
// predicates crisp installs.
func WithRegistry(r *bridge.Registry) Option {
	return func(c *cmdConfig) { c.registry = r }
}

// resolveRegistry returns the registry to check against; nil selects the
// default.
func (c *cmdConfig) resolveRegistry() *bridge.Registry {
	return c.registry
}

var errProblems = errors.New("problems found")

// LintCommand returns the lint command.
func LintCommand(opts ...Option) *cobra.Command {
	var cfg cmdConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	var (
		jsonOut  bool
		checks   string
		listAll  bool
		excludes []string
	)
	cmd := &cobra.Command{
		Use:   "lint [flags] [files...]",
		Short: "Run static checks on rule files",
		Long: `Run static checks on Prolog rule files.

The linter reports likely mistakes in rule files before a run reaches them:
calls to procedures that neither the rules nor crisp define, calls with the
wrong number of arguments, malformed report_violation requests and the like.
Each check is an independent analyzer over the parsed clauses.

With no files, reads from stdin. Patterns ending in "/..." expand to every
.pl file below the directory.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable files)

To suppress a specific diagnostic, add a comment at the end of the line:
  check(X) :- helper(X).  % nolint:unknown-predicate

To suppress all checks on a line:
  check(X) :- helper(X).  % nolint

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc() + `
Examples:
  crisp lint rules.pl                          # Lint a single file
  crisp lint --json rules.pl                   # Output diagnostics as JSON
  crisp lint --checks=arity-mismatch rules.pl  # Run only specific checks
  crisp lint --list                            # List available checks
  crisp lint --exclude='vendor' ./...          # Exclude a directory
  cat rules.pl | crisp lint                    # Lint from stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			if listAll {
				for _, name := range lint.AnalyzerNames() {
					fmt.Fprintln(out, name)
				}
				return nil
			}
			analyzers, err := selectAnalyzers(checks)
			if err != nil {
				fmt.Fprintln(errOut, "crisp lint:", err)
				return exitWith(status.Config, err)
			}
			l := &lint.Linter{Analyzers: analyzers, Registry: cfg.resolveRegistry()}

			var diags []lint.Diagnostic
			if len(args) == 0 {
				src, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					err = fmt.Errorf("reading stdin: %w", err)
					fmt.Fprintln(errOut, err)
					return exitWith(status.Config, err)
				}
				if diags, err = l.LintFile(src, "<stdin>"); err != nil {
					fmt.Fprintln(errOut, err)
					return exitWith(status.Config, err)
				}
			} else {
				paths, err := expandArgs(args, excludes)
				if err != nil {
					fmt.Fprintln(errOut, err)
					return exitWith(status.Config, err)
				}
				for _, path := range paths {
					ds, err := lintFile(l, path)
					if err != nil {
						fmt.Fprintln(errOut, err)
						return exitWith(status.Config, err)
					}
					diags = append(diags, ds...)
				}
			}

			if len(diags) == 0 {
				return nil
			}
			if jsonOut {
				if err := lint.FormatJSON(out, diags); err != nil {
					fmt.Fprintln(errOut, err)
					return exitWith(status.Config, err)
				}
			} else {
				renderLintDiagnostics(errOut, diags)
			}
			return exitWith(status.Failure, errProblems)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false,
		"Output diagnostics as JSON.")
	cmd.Flags().StringVar(&checks, "checks", "",
		"Comma-separated list of checks to run (default: all).")
	cmd.Flags().BoolVar(&listAll, "list", false,
		"List available checks and exit.")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	return cmd
}

// selectAnalyzers returns the default analyzers named in the comma
// separated list checks, or all of them when checks is empty.
func selectAnalyzers(checks string) ([]*lint.Analyzer, error) {
	analyzers := lint.DefaultAnalyzers()
	if checks == "" {
		return analyzers, nil
	}
	selected := make(map[string]bool)
	for _, name := range strings.Split(checks, ",") {
		selected[strings.TrimSpace(name)] = true
	}
	var filtered []*lint.Analyzer
	for _, a := range analyzers {
		if selected[a.Name] {
			filtered = append(filtered, a)
			delete(selected, a.Name)
		}
	}
	for name := range selected {
		return nil, fmt.Errorf("unknown check: %s", name)
	}
	return filtered, nil
}

func lintFile(l *lint.Linter, path string) ([]lint.Diagnostic, error) {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l.LintFile(src, path)
}

func init() {
	rootCmd.AddCommand(LintCommand())
}
