// Copyright © 2026 The Crisp authors

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/crisp-analysis/crisp/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.cpp> <rules>",
	Short: "Check a translation unit against a rule file",
	Long: `Check a C++ translation unit against a rule file.

The rules argument is a path to a Prolog file, the name of a built-in rule
set (SomeHICPPrules) or a file name found in a --rules-path directory. The
rule file must define runTranslationUnitAnalysis/1; it is called with the
name of the main file once every fact has been asserted.

Findings are printed as compiler diagnostics. Findings a rule routes to the
auxiliary stream (report_violation/3 with true) are written to
<file.cpp>.diags, where a later "crisp module" run picks them up.

Examples:
  crisp check hicpp_3_3_13.cpp SomeHICPPrules
  crisp check --interactive file.cpp my_rules.pl
  crisp check --rules-path ./rules file.cpp naming`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bindInteractive(cmd)
		return runDriver(cmd.Context(), func(d *driver.Driver) driver.Result {
			return d.RunTranslationUnit(cmd.Context(), args[0], args[1])
		})
	},
}

var moduleCmd = &cobra.Command{
	Use:   "module [flags] <file.cpp> <rules>",
	Short: "Run module rules over the IR lowered from a file",
	Long: `Lower a C++ translation unit into a module and run module rules over it.

The rule file must define run_module_analysis/0. When it defines
readModuleFacts/1, that is called first with the module file name.
Diagnostics an earlier "crisp check" run wrote to <file.cpp>.diags are
asserted as clangDiagnostic(File, Line, Col, Severity, Message) facts.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bindInteractive(cmd)
		return runDriver(cmd.Context(), func(d *driver.Driver) driver.Result {
			return d.RunModule(cmd.Context(), args[0], args[1])
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{checkCmd, moduleCmd} {
		rootCmd.AddCommand(c)
		c.Flags().BoolP("interactive", "i", false,
			"Open the console after the analysis goal.")
	}
}

// bindInteractive binds the --interactive flag of the command being run.
func bindInteractive(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("interactive"); f != nil {
		_ = viper.BindPFlag("interactive", f)
	}
}
