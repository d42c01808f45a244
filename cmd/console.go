// Copyright © 2026 The Crisp authors

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/crisp-analysis/crisp/driver"
)

// consoleCmd represents the console command
var consoleCmd = &cobra.Command{
	Use:   "console [flags] <file.cpp> [rules]",
	Short: "Query the facts of a translation unit interactively",
	Long: `Start an interactive Prolog console over a translation unit.

The facts of the file are asserted and the rules, when given, are loaded,
but no goal is proved. Queries end with a period and may span lines. Line
editing and command history (~/.crisp_history) are supported via readline.
Use Ctrl-D to exit.

Example console session:
  ?- isA(C, 'CXXRecordDecl'), 'NamedDecl::getName'(C, N).
  C = 3, N = 'B';
  C = 17, N = 'D';
  ?- translationUnitMainFileName(F).
  F = 'file.cpp';`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rulesArg := ""
		if len(args) > 1 {
			rulesArg = args[1]
		}
		return runDriver(cmd.Context(), func(d *driver.Driver) driver.Result {
			return d.Console(cmd.Context(), args[0], rulesArg)
		})
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
