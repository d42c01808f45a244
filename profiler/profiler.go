// Copyright © 2026 The Crisp authors

// Package profiler annotates a run with trace spans: one per driver phase
// and, when the predicate registry is instrumented, one per foreign
// predicate call.  Annotators exist for OpenTelemetry and OpenCensus.
package profiler

import "fmt"

// Kinds of traced calls.
const (
	KindPhase     = "phase"
	KindPredicate = "predicate"
)

// Call describes a traced operation.
type Call struct {
	// Name labels the span, for example "parse" or "Stmt::descendant/2".
	Name string
	Kind string
	// File and Line locate the operation when known.
	File string
	Line int
	// Session is the id of the session the call runs in.
	Session string
}

// Annotator records spans for calls.
type Annotator interface {
	// Is the annotator enabled?
	IsEnabled() bool
	// Enable the annotator.
	Enable() error
	// End the profiling session.
	Complete() error
	// Start marks the start of c.  The returned func marks its end.
	Start(c Call) func()
}

// SkipFilter reports calls that get no span.
type SkipFilter func(c Call) bool

// Labeler returns the span name of a call.  An empty label keeps the
// call name.
type Labeler func(c Call) string

// profiler is the state shared by the annotators.
type profiler struct {
	enabled    bool
	skipFilter SkipFilter
	labeler    Labeler
}

type Option func(*profiler)

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithLabeler sets the labeler for tracing spans.
func WithLabeler(labeler Labeler) Option {
	return func(p *profiler) {
		p.labeler = labeler
	}
}

// PhasesOnly skips predicate calls.
func PhasesOnly() Option {
	return WithSkipFilter(func(c Call) bool { return c.Kind != KindPhase })
}

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(c Call) bool {
	return !p.enabled || p.skipFilter != nil && p.skipFilter(c)
}

func (p *profiler) label(c Call) string {
	if p.labeler != nil {
		if l := p.labeler(c); l != "" {
			return l
		}
	}
	return c.Name
}

// Nop is an annotator that records nothing.
var Nop Annotator = nopAnnotator{}

type nopAnnotator struct{}

func (nopAnnotator) IsEnabled() bool { return false }

func (nopAnnotator) Enable() error { return nil }

func (nopAnnotator) Complete() error { return nil }

func (nopAnnotator) Start(Call) func() { return func() {} }
