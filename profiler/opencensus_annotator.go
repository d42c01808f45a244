// Copyright © 2026 The Crisp authors

package profiler

import (
	"context"
	"errors"

	"go.opencensus.io/trace"
)

var _ Annotator = &ocAnnotator{}

type ocAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
	contexts       []context.Context
}

// NewOpenCensusAnnotator returns an annotator adding OpenCensus spans
// under parentContext.
func NewOpenCensusAnnotator(parentContext context.Context, opts ...Option) Annotator {
	p := &ocAnnotator{
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *ocAnnotator) Enable() error {
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return nil
}

func (p *ocAnnotator) Start(c Call) func() {
	if p.skipTrace(c) {
		return func() {}
	}
	p.contexts = append(p.contexts, p.currentContext)
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, p.label(c))
	span := p.currentSpan
	span.AddAttributes(
		trace.StringAttribute("kind", c.Kind),
		trace.StringAttribute("session", c.Session),
	)
	return func() {
		if c.File != "" {
			span.Annotate([]trace.Attribute{
				trace.StringAttribute("file", c.File),
				trace.Int64Attribute("line", int64(c.Line)),
			}, "source")
		}
		span.End()
		// And pop the current context back
		n := len(p.contexts) - 1
		p.currentContext = p.contexts[n]
		p.contexts = p.contexts[:n]
		p.currentSpan = trace.FromContext(p.currentContext)
	}
}
