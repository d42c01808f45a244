// Copyright © 2026 The Crisp authors

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/viper"

	"github.com/crisp-analysis/crisp/diagnostic"
	"github.com/crisp-analysis/crisp/driver"
	"github.com/crisp-analysis/crisp/profiler"
	"github.com/crisp-analysis/crisp/status"
)

func colorMode() diagnostic.ColorMode {
	mode, ok := diagnostic.ParseColorMode(viper.GetString("color"))
	if !ok {
		glog.Warningf("unknown color mode %q, using auto", viper.GetString("color"))
	}
	return mode
}

// driverOptions collects the options of a run from flags, the config file
// and the environment.
func driverOptions() driver.Options {
	return driver.Options{
		Debug:       viper.GetBool("debug"),
		Interactive: viper.GetBool("interactive"),
		RulesPath:   viper.GetStringSlice("rules-path"),
		Color:       colorMode(),
	}
}

// newAnnotator returns the annotator selected by --trace.
func newAnnotator(ctx context.Context) (profiler.Annotator, error) {
	var a profiler.Annotator
	switch kind := viper.GetString("trace"); kind {
	case "":
		return profiler.Nop, nil
	case "otel", "opentelemetry":
		a = profiler.NewOpenTelemetryAnnotator(ctx)
	case "opencensus":
		a = profiler.NewOpenCensusAnnotator(ctx)
	default:
		return nil, fmt.Errorf("unknown trace annotator %q", kind)
	}
	if err := a.Enable(); err != nil {
		return nil, err
	}
	return a, nil
}

// newDriver returns a driver for a command run.
func newDriver(ctx context.Context) (*driver.Driver, error) {
	a, err := newAnnotator(ctx)
	if err != nil {
		return nil, err
	}
	d := driver.New(driverOptions())
	d.Stderr = os.Stderr
	d.Stdin = os.Stdin
	d.Annotator = a
	return d, nil
}

// runDriver runs fn on a new driver and turns the result into the exit
// code of the command.
func runDriver(ctx context.Context, fn func(d *driver.Driver) driver.Result) error {
	d, err := newDriver(ctx)
	if err != nil {
		return exitWith(status.Config, err)
	}
	res := fn(d)
	if err := d.Annotator.Complete(); err != nil {
		glog.Warningf("trace: %v", err)
	}
	return exitWith(res.Status, res.Err)
}
