// Copyright © 2026 The Crisp authors

package diagnostic

import (
	"strconv"
	"strings"
	"sync"
)

// ID identifies a registered diagnostic description.  The zero ID is
// invalid.
type ID uint

type description struct {
	severity Severity
	format   string
}

// Consumer receives emitted diagnostics.
type Consumer interface {
	HandleDiagnostic(d Diagnostic)
	// Finish flushes buffered output and releases resources.  It is called
	// once, when the consumer is retired.
	Finish() error
}

// Engine registers custom diagnostic ids and routes built diagnostics to the
// current consumer.  An Engine is safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	consumer Consumer
	ids      map[description]ID
	descs    []description
	counts   [SeverityNote + 1]int
}

// NewEngine returns an engine emitting to c.  A nil consumer discards
// diagnostics.
func NewEngine(c Consumer) *Engine {
	return &Engine{consumer: c, ids: map[description]ID{}}
}

// CustomID returns the id of the description with the given severity and
// format, registering it on first use.  Equal descriptions share an id.
func (e *Engine) CustomID(sev Severity, format string) ID {
	e.mu.Lock()
	defer e.mu.Unlock()
	key := description{sev, format}
	if id, ok := e.ids[key]; ok {
		return id
	}
	e.descs = append(e.descs, key)
	id := ID(len(e.descs))
	e.ids[key] = id
	return id
}

// Description returns the severity and format registered for id.
func (e *Engine) Description(id ID) (Severity, string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id == 0 || int(id) > len(e.descs) {
		return 0, "", false
	}
	d := e.descs[id-1]
	return d.severity, d.format, true
}

// Consumer returns the current consumer.
func (e *Engine) Consumer() Consumer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.consumer
}

// SetConsumer installs c and returns the consumer it replaces.  The
// replaced consumer is not finished.
func (e *Engine) SetConsumer(c Consumer) Consumer {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.consumer
	e.consumer = c
	return prev
}

// Count returns the number of emitted diagnostics of severity sev.
func (e *Engine) Count(sev Severity) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sev < 0 || int(sev) >= len(e.counts) {
		return 0
	}
	return e.counts[sev]
}

// Report starts a diagnostic with description id anchored at pos.  Nothing
// reaches the consumer until the builder is emitted.
func (e *Engine) Report(pos Position, id ID) *Builder {
	return &Builder{engine: e, id: id, pos: pos}
}

func (e *Engine) emit(b *Builder) {
	sev, format, ok := e.Description(b.id)
	if !ok {
		return
	}
	d := Diagnostic{
		ID:       b.id,
		Severity: sev,
		Message:  Format(format, b.args),
		Pos:      b.pos,
		Ranges:   b.ranges,
	}
	e.mu.Lock()
	e.counts[sev]++
	c := e.consumer
	e.mu.Unlock()
	if c != nil {
		c.HandleDiagnostic(d)
	}
}

// Builder accumulates the arguments and ranges of one diagnostic.  It is
// emitted at most once; callers defer Emit right after Report.
type Builder struct {
	engine  *Engine
	id      ID
	pos     Position
	args    []string
	ranges  []Range
	emitted bool
}

// AddArg appends the next %N argument.
func (b *Builder) AddArg(s string) *Builder {
	b.args = append(b.args, s)
	return b
}

// AddRange appends a highlighted range.
func (b *Builder) AddRange(r Range) *Builder {
	b.ranges = append(b.ranges, r)
	return b
}

// Emit hands the diagnostic to the engine.  Calls after the first are
// ignored.
func (b *Builder) Emit() {
	if b.emitted {
		return
	}
	b.emitted = true
	b.engine.emit(b)
}

// Emitted reports whether Emit has run.
func (b *Builder) Emitted() bool { return b.emitted }

// Format substitutes %0, %1, ... in format with args.  "%%" is a literal
// percent sign.  References to missing arguments are left as written.
func Format(format string, args []string) string {
	var sb strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 == len(format) {
			sb.WriteByte(c)
			continue
		}
		if format[i+1] == '%' {
			sb.WriteByte('%')
			i++
			continue
		}
		j := i + 1
		for j < len(format) && format[j] >= '0' && format[j] <= '9' {
			j++
		}
		n, err := strconv.Atoi(format[i+1 : j])
		if err != nil || n >= len(args) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteString(args[n])
		i = j - 1
	}
	return sb.String()
}
