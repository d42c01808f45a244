// Copyright © 2026 The Crisp authors

package diagnostic

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRenderer returns a Renderer with colors disabled and a fake source reader.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			s, ok := sources[name]
			if !ok {
				return nil, errors.New("not found: " + name)
			}
			return []byte(s), nil
		},
	}
}

func TestRenderWarning(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.cpp": "class B {};\nB::B() { func(); }\n",
	})
	d := Diagnostic{
		Severity: SeverityWarning,
		Message:  "HICPP 3.3.13: ctor/dtor 'B' calls (maybe indirectly) virtual method 'func'",
		Pos:      Position{File: "test.cpp", Line: 2, Col: 10},
		Ranges: []Range{{
			Begin: Position{File: "test.cpp", Line: 2, Col: 10},
			End:   Position{File: "test.cpp", Line: 2, Col: 16},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "test.cpp:2:10: warning: HICPP 3.3.13: ctor/dtor 'B' calls (maybe indirectly) virtual method 'func'", lines[0])
	assert.Equal(t, "B::B() { func(); }", lines[1])
	assert.Equal(t, strings.Repeat(" ", 9)+"^~~~~~", lines[2])
	assert.Equal(t, "", lines[3])
}

func TestRenderNote(t *testing.T) {
	r := testRenderer(map[string]string{"test.cpp": "  virtual void func();\n"})
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Diagnostic{
		Severity: SeverityNote,
		Message:  "called virtual method 'func' declared here",
		Pos:      Position{File: "test.cpp", Line: 1, Col: 16},
	}))
	assert.Equal(t, "test.cpp:1:16: note: called virtual method 'func' declared here\n  virtual void func();\n"+strings.Repeat(" ", 15)+"^\n", buf.String())
}

func TestRenderWithoutSource(t *testing.T) {
	r := testRenderer(nil)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Diagnostic{
		Severity: SeverityError,
		Message:  "crisp: analysis tool failed: no rules",
	}))
	assert.Equal(t, "error: crisp: analysis tool failed: no rules\n", buf.String())

	buf.Reset()
	require.NoError(t, r.Render(&buf, Diagnostic{
		Severity: SeverityWarning,
		Message:  "m",
		Pos:      Position{File: "missing.cpp", Line: 3, Col: 1},
	}))
	assert.Equal(t, "missing.cpp:3:1: warning: m\n", buf.String())
}

func TestRenderTabs(t *testing.T) {
	r := testRenderer(map[string]string{"t.cpp": "\tf();\n"})
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Diagnostic{
		Severity: SeverityWarning,
		Message:  "m",
		Pos:      Position{File: "t.cpp", Line: 1, Col: 2},
	}))
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "    f();", lines[1])
	assert.Equal(t, "    ^", lines[2])
}

func TestRenderColor(t *testing.T) {
	r := testRenderer(nil)
	r.Color = ColorAlways
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Diagnostic{Severity: SeverityWarning, Message: "m"}))
	assert.Contains(t, buf.String(), "\033[1;35mwarning:")
}

func TestRenderAll(t *testing.T) {
	r := testRenderer(nil)
	var buf bytes.Buffer
	require.NoError(t, r.RenderAll(&buf, []Diagnostic{
		{Severity: SeverityWarning, Message: "one"},
		{Severity: SeverityNote, Message: "two"},
	}))
	assert.Equal(t, "warning: one\nnote: two\n", buf.String())
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "", Summary(0, 0))
	assert.Equal(t, "1 warning generated.", Summary(1, 0))
	assert.Equal(t, "3 warnings and 1 error generated.", Summary(3, 1))
}

func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]ColorMode{"": ColorAuto, "always": ColorAlways, "NEVER": ColorNever} {
		got, ok := ParseColorMode(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseColorMode("sometimes")
	assert.False(t, ok)
}
