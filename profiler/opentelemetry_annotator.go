// Copyright © 2026 The Crisp authors

package profiler

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

// ContextOpenTelemetryTracerKey looks up a parent tracer name from a
// context key.
const ContextOpenTelemetryTracerKey contextKey = "otelParentTracer"

const defaultTracerName = "crisp"

var _ Annotator = &otelAnnotator{}

type otelAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    trace.Span
}

// NewOpenTelemetryAnnotator returns an annotator adding spans under
// parentContext with the global tracer provider.
func NewOpenTelemetryAnnotator(parentContext context.Context, opts ...Option) Annotator {
	p := &otelAnnotator{
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *otelAnnotator) Enable() error {
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opentelemetry")
	}
	return p.profiler.Enable()
}

func (p *otelAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return nil
}

func contextTracer(ctx context.Context) trace.Tracer {
	tracerName, ok := ctx.Value(ContextOpenTelemetryTracerKey).(string)
	if !ok {
		tracerName = defaultTracerName
	}
	return otel.GetTracerProvider().Tracer(tracerName)
}

func (p *otelAnnotator) Start(c Call) func() {
	if p.skipTrace(c) {
		return func() {}
	}
	oldContext := p.currentContext
	p.currentContext, p.currentSpan = contextTracer(p.currentContext).Start(p.currentContext, p.label(c))
	p.addCodeAttributes(c)
	span := p.currentSpan
	return func() {
		span.End()
		// And pop the current context back
		p.currentContext = oldContext
		p.currentSpan = trace.SpanFromContext(p.currentContext)
	}
}

func (p *otelAnnotator) addCodeAttributes(c Call) {
	attrs := []attribute.KeyValue{
		semconv.CodeNamespace(c.Kind),
		semconv.CodeFunction(c.Name),
	}
	if c.File != "" {
		attrs = append(attrs,
			semconv.CodeFilepath(c.File),
			semconv.CodeLineNumber(c.Line),
		)
	}
	if c.Session != "" {
		attrs = append(attrs, attribute.String("crisp.session", c.Session))
	}
	p.currentSpan.SetAttributes(attrs...)
}
