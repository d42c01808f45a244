// Copyright © 2026 The Crisp authors

// Package status defines the error taxonomy of a Crisp run and the process
// exit codes derived from it.
package status

import (
	"errors"
	"fmt"
)

// Code is the integer status of a run.
type Code int

// Possible Code values.  They are the process exit codes of the crisp
// command.
const (
	OK      Code = 0
	Failure Code = 1
	Config  Code = 2
)

func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case Failure:
		return "failure"
	case Config:
		return "configuration error"
	}
	return fmt.Sprintf("status(%d)", int(c))
}

// Sentinel errors wrapped by ConfigError.
var (
	ErrMissingRules          = errors.New("rule file not found")
	ErrUnregisteredPredicate = errors.New("unregistered predicate")
	ErrEngineInit            = errors.New("logic engine initialization failed")
	ErrAuxStream             = errors.New("cannot open diagnostics stream")
	ErrParse                 = errors.New("cannot parse input")
)

// ConfigError is a fatal configuration failure: the run cannot produce
// meaningful findings.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Configf returns a ConfigError for op wrapping err.  When format is not
// empty the message is added to err with %w semantics preserved.
func Configf(op string, err error, format string, v ...interface{}) error {
	if format != "" {
		err = fmt.Errorf("%w: %s", err, fmt.Sprintf(format, v...))
	}
	return &ConfigError{Op: op, Err: err}
}

// IsConfig reports whether err is, or wraps, a ConfigError.
func IsConfig(err error) bool {
	var cerr *ConfigError
	return errors.As(err, &cerr)
}

// FromError maps an error to its status code.  A nil error is OK; a
// configuration error is Config; anything else is Failure.
func FromError(err error) Code {
	switch {
	case err == nil:
		return OK
	case IsConfig(err):
		return Config
	default:
		return Failure
	}
}

// FailedError reports that the analysis goal failed or raised an exception.
// It is not a configuration error.
type FailedError struct {
	Goal string
	Err  error
}

func (e *FailedError) Error() string {
	if e.Err == nil {
		return e.Goal + ": goal failed"
	}
	return e.Goal + ": " + e.Err.Error()
}

func (e *FailedError) Unwrap() error {
	return e.Err
}
