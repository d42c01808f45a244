// Copyright © 2026 The Crisp authors

package diagnostic

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomID(t *testing.T) {
	e := NewEngine(nil)
	a := e.CustomID(SeverityWarning, "R: %0 calls %1")
	b := e.CustomID(SeverityNote, "R: %0 calls %1")
	assert.NotZero(t, a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, e.CustomID(SeverityWarning, "R: %0 calls %1"))

	sev, format, ok := e.Description(b)
	require.True(t, ok)
	assert.Equal(t, SeverityNote, sev)
	assert.Equal(t, "R: %0 calls %1", format)
	_, _, ok = e.Description(0)
	assert.False(t, ok)
}

func TestBuilderEmitsOnce(t *testing.T) {
	c := &Collector{}
	e := NewEngine(c)
	id := e.CustomID(SeverityWarning, "Rule: ctor %0 calls %1")
	pos := Position{File: "a.cpp", Line: 3, Col: 5}
	func() {
		b := e.Report(pos, id)
		defer b.Emit()
		b.AddArg("'B'").AddArg("'func'")
		b.AddRange(Range{Begin: pos, End: Position{File: "a.cpp", Line: 3, Col: 9}})
		b.Emit()
		assert.True(t, b.Emitted())
	}()

	diags := c.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "Rule: ctor 'B' calls 'func'", diags[0].Message)
	assert.Equal(t, pos, diags[0].Pos)
	assert.Len(t, diags[0].Ranges, 1)
	assert.Equal(t, 1, e.Count(SeverityWarning))
	assert.Zero(t, e.Count(SeverityNote))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		format string
		args   []string
		want   string
	}{
		{"%0 calls %1", []string{"'B'", "'f'"}, "'B' calls 'f'"},
		{"%1 before %0", []string{"a", "b"}, "b before a"},
		{"missing %2", []string{"a"}, "missing %2"},
		{"100%% sure", nil, "100% sure"},
		{"trailing %", nil, "trailing %"},
		{"%10", []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "ten"}, "ten"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Format(tc.format, tc.args), tc.format)
	}
}

func TestSetConsumer(t *testing.T) {
	first, second := &Collector{}, &Collector{}
	e := NewEngine(first)
	id := e.CustomID(SeverityWarning, "m")
	prev := e.SetConsumer(second)
	assert.Same(t, first, prev)
	e.Report(Position{}, id).Emit()
	assert.Empty(t, first.Diagnostics())
	assert.Len(t, second.Diagnostics(), 1)
	assert.Same(t, second, e.SetConsumer(first))
	assert.Same(t, first, e.Consumer())
}

func TestTextRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.cpp.diags")
	c, err := CreateTextFile(path)
	require.NoError(t, err)
	e := NewEngine(c)
	e.Report(Position{File: "input.cpp", Line: 6, Col: 10}, e.CustomID(SeverityWarning, "R: %0")).AddArg("'B'").Emit()
	e.Report(Position{File: "input.cpp", Line: 4, Col: 16}, e.CustomID(SeverityNote, "declared here")).Emit()
	require.NoError(t, c.Finish())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "input.cpp:6:10: warning: R: 'B'\ninput.cpp:4:16: note: declared here\n", string(data))

	diags, err := ParseText(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, diags, 2)
	assert.Equal(t, Position{File: "input.cpp", Line: 6, Col: 10}, diags[0].Pos)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Equal(t, "R: 'B'", diags[0].Message)
	assert.Equal(t, SeverityNote, diags[1].Severity)
}

func TestParseTextSkipsNoise(t *testing.T) {
	diags, err := ParseText(strings.NewReader("garbage\n1 warning generated.\na.cpp:1:2: error: x: y\n"))
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "x: y", diags[0].Message)
}

func TestCreateTextFileFails(t *testing.T) {
	_, err := CreateTextFile(filepath.Join(t.TempDir(), "missing", "dir", "x.diags"))
	assert.Error(t, err)
}

func TestTee(t *testing.T) {
	a, b := &Collector{}, &Collector{}
	e := NewEngine(Tee{a, b})
	e.Report(Position{}, e.CustomID(SeverityWarning, "m")).Emit()
	assert.Len(t, a.Diagnostics(), 1)
	assert.Len(t, b.Diagnostics(), 1)
	assert.NoError(t, Tee{a, b}.Finish())
}

func TestRenderConsumer(t *testing.T) {
	var buf bytes.Buffer
	c := NewRenderConsumer(testRenderer(nil), &buf)
	e := NewEngine(c)
	e.Report(Position{}, e.CustomID(SeverityWarning, "m")).Emit()
	assert.NoError(t, c.Finish())
	assert.Equal(t, "warning: m\n", buf.String())
}

func TestSourceCache(t *testing.T) {
	reads := 0
	cache := NewSourceCache(1, func(name string) ([]byte, error) {
		reads++
		if name == "bad.cpp" {
			return nil, errors.New("unreadable")
		}
		return []byte(name), nil
	})
	for i := 0; i < 3; i++ {
		data, err := cache.Read("a.cpp")
		require.NoError(t, err)
		assert.Equal(t, "a.cpp", string(data))
	}
	assert.Equal(t, 1, reads)

	_, err := cache.Read("b.cpp")
	require.NoError(t, err)
	_, err = cache.Read("a.cpp")
	require.NoError(t, err)
	assert.Equal(t, 3, reads, "a.cpp was evicted by b.cpp")

	_, err = cache.Read("bad.cpp")
	assert.Error(t, err)

	cache.Add("mem.cpp", []byte("int x;"))
	data, err := cache.Read("mem.cpp")
	require.NoError(t, err)
	assert.Equal(t, "int x;", string(data))
}
