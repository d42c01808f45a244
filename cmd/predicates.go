// Copyright © 2026 The Crisp authors

package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/crisp-analysis/crisp/bridge"
	"github.com/crisp-analysis/crisp/predicates"
)

const predicatesWidth = 76

// predicateEntry is the YAML form of a foreign predicate.
type predicateEntry struct {
	Name             string `yaml:"name"`
	Arity            int    `yaml:"arity"`
	Kind             string `yaml:"kind"`
	Nondeterministic bool   `yaml:"nondeterministic,omitempty"`
}

// PredicatesCommand returns the predicates command.
func PredicatesCommand(opts ...Option) *cobra.Command {
	var cfg cmdConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	var yamlOut bool
	cmd := &cobra.Command{
		Use:   "predicates [flags] [substring]",
		Short: "List the foreign predicates rules can call",
		Long: `List the foreign predicates installed in every logic engine, grouped by
the table they are generated from. Nondeterministic predicates, which
enumerate their answers on backtracking, are marked with "*". With a
substring argument only predicates whose name contains it are listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := cfg.resolveRegistry()
			if reg == nil {
				reg = predicates.Registry()
			}
			preds := reg.Predicates()
			if len(args) == 1 {
				preds = filterPredicates(preds, args[0])
			}
			if yamlOut {
				return writePredicatesYAML(cmd.OutOrStdout(), preds)
			}
			writePredicatesText(cmd.OutOrStdout(), preds)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yamlOut, "yaml", false, "Output the predicates as YAML.")
	return cmd
}

func filterPredicates(preds []bridge.Predicate, sub string) []bridge.Predicate {
	var out []bridge.Predicate
	for _, p := range preds {
		if strings.Contains(p.Name, sub) {
			out = append(out, p)
		}
	}
	return out
}

func writePredicatesYAML(w io.Writer, preds []bridge.Predicate) error {
	entries := make([]predicateEntry, len(preds))
	for i, p := range preds {
		entries[i] = predicateEntry{Name: p.Name, Arity: p.Arity, Kind: p.Kind, Nondeterministic: p.Nondeterministic}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return err
	}
	return enc.Close()
}

func writePredicatesText(w io.Writer, preds []bridge.Predicate) {
	byKind := map[string][]string{}
	for _, p := range preds {
		ind := p.Indicator()
		if p.Nondeterministic {
			ind += "*"
		}
		byKind[p.Kind] = append(byKind[p.Kind], ind)
	}
	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "%s (%d):\n", k, len(byKind[k]))
		body := wordwrap.String(strings.Join(byKind[k], " "), predicatesWidth)
		fmt.Fprintln(w, indent.String(body, 2))
	}
}

func init() {
	rootCmd.AddCommand(PredicatesCommand())
}
