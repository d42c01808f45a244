// Copyright © 2026 The Crisp authors

package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisp-analysis/crisp/facts"
	"github.com/crisp-analysis/crisp/frontend"
	"github.com/crisp-analysis/crisp/logic"
	"github.com/crisp-analysis/crisp/session"
)

const source = `class A {
public:
  virtual void f();
  int g() const;
};
`

func newEngine(t *testing.T) *logic.Engine {
	t.Helper()
	ctx, err := frontend.ParseSource("input.cpp", []byte(source))
	require.NoError(t, err)
	s := session.Begin(session.Config{AST: ctx})
	t.Cleanup(func() { s.End() })
	e, err := logic.New(s)
	require.NoError(t, err)
	_, err = facts.TranslationUnit(e, s)
	require.NoError(t, err)
	return e
}

func runReplWithString(t *testing.T, e *logic.Engine, input string) string {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	go func() {
		_ = Run(e, DefaultPrompt, WithStdin(inR), WithStderr(outW), WithHistoryFile(""))
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup

	return output.String()
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".crisp_history")

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "new history file should have mode 0600")
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".crisp_history")

	err := os.WriteFile(histFile, []byte("some history"), 0644)
	require.NoError(t, err)

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing history file should be restricted to 0600")

	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "some history", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	ensureHistoryFilePermissions("")
}

func TestRun(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Bindings",
			input:    "X = 1, Y = a.\n",
			expected: "X = 1, Y = a;\n",
		},
		{
			name:     "True",
			input:    "true.\n",
			expected: "true;\n",
		},
		{
			name:     "False",
			input:    "fail.\n",
			expected: "false.\n",
		},
		{
			name:     "Multiline",
			input:    "member(X,\n[b]).\n",
			expected: "X = b;\n",
		},
		{
			name:     "Facts",
			input:    "isA(M, 'CXXMethodDecl'), 'NamedDecl::getName'(M, N), 'CXXMethodDecl::isVirtual'(M).\n",
			expected: "N = f;\n",
		},
		{
			name:     "Error",
			input:    "throw(oops).\n",
			expected: "error: ",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := runReplWithString(t, newEngine(t), tc.input)
			require.Contains(t, got, tc.expected)
		})
	}
}

func TestRunLimitsAnswers(t *testing.T) {
	got := runReplWithString(t, newEngine(t), "between(1, 30, X).\n")
	assert.Contains(t, got, "X = 20;\n")
	assert.NotContains(t, got, "X = 21;")
	assert.Contains(t, got, "...\n")
}

func TestComplete(t *testing.T) {
	for _, line := range []string{"a.", "foo(X) ."} {
		assert.True(t, complete(line), line)
	}
	for _, line := range []string{"foo(X,", "X = '...'", "range(1..", ""} {
		assert.False(t, complete(line), line)
	}
}
