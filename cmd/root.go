// Copyright © 2026 The Crisp authors

package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/crisp-analysis/crisp/status"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "crisp",
	Short: "Crisp: C++ rule checking with Prolog",
	Long: `Crisp checks C++ sources against rules written in Prolog. It parses a
translation unit, asserts an isA/2 fact for every declaration and type, and
proves the entry goal of a rule file. Rules query the program through
foreign predicates named after the accessors of the program model, such as
'NamedDecl::getName'/2 or 'Stmt::descendant'/2, and report findings with
report_violation/2 as compiler diagnostics.

Getting started:
  crisp check file.cpp SomeHICPPrules   Check a file with the built-in HICPP rules
  crisp check file.cpp rules.pl         Check a file with your own rules
  crisp module file.cpp rules.pl        Run module rules over the lowered IR
  crisp console file.cpp                Query the facts of a file interactively
  crisp predicates                      List the foreign predicates
  crisp lint rules.pl                   Run static checks on a rule file

Configuration is read from $HOME/.crisp.yaml (or --config), from CRISP_*
environment variables and from a .env file in the working directory.

Exit codes:
  0  The analysis ran and reported no errors
  1  The analysis goal failed or reported errors
  2  Configuration error (missing rules, unknown predicate, unreadable input)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit code out of a command.
type exitError struct {
	code status.Code
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return e.code.String()
	}
	return e.err.Error()
}

func exitWith(code status.Code, err error) error {
	if code == status.OK {
		return nil
	}
	return &exitError{code: code, err: err}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	code := run(os.Args[1:])
	glog.Flush()
	os.Exit(int(code))
}

func run(args []string) status.Code {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	var exit *exitError
	switch {
	case err == nil:
		return status.OK
	case errors.As(err, &exit):
		return exit.code
	default:
		// Usage errors from cobra.
		fmt.Fprintln(os.Stderr, "crisp:", err)
		return status.Config
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.crisp.yaml)")
	rootCmd.PersistentFlags().String("color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	rootCmd.PersistentFlags().Bool("debug", false,
		"Print the engine boot message and verbose logs.")
	rootCmd.PersistentFlags().StringSlice("rules-path", nil,
		"Directories searched for rule files (may be repeated).")
	rootCmd.PersistentFlags().String("trace", "",
		`Trace the phases of a run: "otel" or "opencensus".`)
	for _, name := range []string{"color", "debug", "rules-path", "trace"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	// glog registers -v, -logtostderr and friends on the standard flag set.
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		// Search config in home directory with name ".crisp" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".crisp")
	}

	viper.SetEnvPrefix("crisp")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		glog.V(1).Infof("using config file %s", viper.ConfigFileUsed())
	}
	if viper.GetBool("debug") {
		_ = flag.Set("v", "2")
	}
}
