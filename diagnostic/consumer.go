// Copyright © 2026 The Crisp authors

package diagnostic

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"sync"
)

// TextConsumer writes one "file:line:col: level: message" line per
// diagnostic.  It is the format of .diags files.
type TextConsumer struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
	err    error
}

// NewTextConsumer returns a consumer writing to w.
func NewTextConsumer(w io.Writer) *TextConsumer {
	return &TextConsumer{w: bufio.NewWriter(w)}
}

// CreateTextFile creates (or truncates) path and returns a consumer writing
// to it.  Finish closes the file.
func CreateTextFile(path string) (*TextConsumer, error) {
	f, err := os.Create(path) //nolint:gosec // path derives from the analysed file
	if err != nil {
		return nil, err
	}
	c := NewTextConsumer(f)
	c.closer = f
	return c, nil
}

func (c *TextConsumer) HandleDiagnostic(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return
	}
	_, c.err = c.w.WriteString(d.String() + "\n")
}

func (c *TextConsumer) Finish() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.w.Flush(); err != nil && c.err == nil {
		c.err = err
	}
	if c.closer != nil {
		if err := c.closer.Close(); err != nil && c.err == nil {
			c.err = err
		}
		c.closer = nil
	}
	return c.err
}

// RenderConsumer renders each diagnostic with a Renderer as it arrives.
type RenderConsumer struct {
	Renderer *Renderer
	W        io.Writer

	mu  sync.Mutex
	err error
}

// NewRenderConsumer returns a consumer rendering to w.
func NewRenderConsumer(r *Renderer, w io.Writer) *RenderConsumer {
	return &RenderConsumer{Renderer: r, W: w}
}

func (c *RenderConsumer) HandleDiagnostic(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return
	}
	c.err = c.Renderer.Render(c.W, d)
}

func (c *RenderConsumer) Finish() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Collector keeps every diagnostic in memory.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

func (c *Collector) HandleDiagnostic(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

func (c *Collector) Finish() error { return nil }

// Diagnostics returns a copy of the collected diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Diagnostic(nil), c.diags...)
}

// Tee forwards every diagnostic to several consumers.
type Tee []Consumer

func (t Tee) HandleDiagnostic(d Diagnostic) {
	for _, c := range t {
		c.HandleDiagnostic(d)
	}
}

func (t Tee) Finish() error {
	var first error
	for _, c := range t {
		if err := c.Finish(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

var textLineRegexp = regexp.MustCompile(`^(.*):(\d+):(\d+): (error|warning|note): (.*)$`)

// ParseText reads diagnostics written by a TextConsumer.  Lines that do not
// have the expected shape are skipped.
func ParseText(r io.Reader) ([]Diagnostic, error) {
	var out []Diagnostic
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := textLineRegexp.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		line, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		sev, _ := ParseSeverity(m[4])
		out = append(out, Diagnostic{
			Severity: sev,
			Message:  m[5],
			Pos:      Position{File: m[1], Line: line, Col: col},
		})
	}
	return out, scanner.Err()
}
