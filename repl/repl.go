// Copyright © 2026 The Crisp authors

// Package repl is the interactive console of a run: a readline loop that
// sends queries to the logic engine of a live session and prints their
// answers.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/golang/glog"

	"github.com/crisp-analysis/crisp/logic"
)

// DefaultPrompt is the prompt of the console.
const DefaultPrompt = "?- "

// MaxAnswers bounds the answers printed for one query.
const MaxAnswers = 20

type config struct {
	stdin       io.ReadCloser
	stderr      io.WriteCloser
	historyFile string
}

func newConfig(opts ...Option) *config {
	config := &config{historyFile: historyPath()}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the console.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output of the console.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistoryFile sets the history file.  An empty path keeps no history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
	}
}

// Run reads queries until end of input and answers them with e.  A query
// may span lines; it ends with a period.
func Run(e *logic.Engine, prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	var out io.Writer = os.Stderr
	if cfg.stderr != nil {
		out = cfg.stderr
	}
	ensureHistoryFilePermissions(cfg.historyFile)

	cont := strings.Repeat(" ", len(prompt)-2) + "| "
	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       cfg.historyFile,
		HistorySearchFold: true,
		AutoComplete:      &predicateCompleter{names: completions(e)},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	if err := e.Run("welcome_msg."); err != nil {
		glog.V(1).Infof("console: welcome_msg: %v", err)
	}
	var pending []string
	for {
		if len(pending) == 0 {
			rl.SetPrompt(prompt)
		} else {
			rl.SetPrompt(cont)
		}
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			pending = nil
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pending = append(pending, line)
		if !complete(line) {
			continue
		}
		query := strings.Join(pending, "\n")
		pending = nil
		answer(out, e, query)
	}
}

// complete reports whether line ends a query.
func complete(line string) bool {
	return strings.HasSuffix(line, ".") && !strings.HasSuffix(line, "..")
}

func answer(w io.Writer, e *logic.Engine, query string) {
	n := 0
	err := e.Solve(query, func(bindings []logic.Binding) bool {
		n++
		if n > MaxAnswers {
			fmt.Fprintln(w, "...") //nolint:errcheck // best-effort console output
			return false
		}
		fmt.Fprintln(w, formatAnswer(bindings)+";") //nolint:errcheck // best-effort console output
		return true
	})
	if err != nil {
		renderError(w, err)
		return
	}
	if n == 0 {
		fmt.Fprintln(w, "false.") //nolint:errcheck // best-effort console output
	}
}

func formatAnswer(bindings []logic.Binding) string {
	if len(bindings) == 0 {
		return "true"
	}
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = b.Name + " = " + b.Value
	}
	return strings.Join(parts, ", ")
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".crisp_history")
}

// ensureHistoryFilePermissions creates the history file with mode 0600,
// or restricts an existing one.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o600)
	if err != nil {
		glog.V(1).Infof("console: history file: %v", err)
		return
	}
	f.Close() //nolint:errcheck,gosec // only created
	if err := os.Chmod(path, 0o600); err != nil {
		glog.V(1).Infof("console: history file: %v", err)
	}
}
