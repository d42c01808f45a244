// Copyright © 2026 The Crisp authors

package diagnostic

import (
	"os"
	"strings"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // detect based on terminal and NO_COLOR
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

// ParseColorMode maps "auto", "always" and "never" to a mode.
func ParseColorMode(s string) (ColorMode, bool) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ColorAuto, true
	case "always", "true", "on":
		return ColorAlways, true
	case "never", "false", "off":
		return ColorNever, true
	}
	return ColorAuto, false
}

// palette holds the ANSI escape sequences for diagnostic output.  The
// choice of colors follows clang's.
type palette struct {
	bold        string
	boldRed     string
	boldMagenta string
	boldBlack   string
	boldGreen   string
	reset       string
}

var ansiPalette = palette{
	bold:        "\033[1m",
	boldRed:     "\033[1;31m",
	boldMagenta: "\033[1;35m",
	boldBlack:   "\033[1;30m",
	boldGreen:   "\033[1;32m",
	reset:       "\033[0m",
}

var noPalette = palette{}

// choosePalette selects the appropriate color palette based on the mode
// and the output file descriptor.
func choosePalette(mode ColorMode, w *os.File) palette {
	switch mode {
	case ColorAlways:
		return ansiPalette
	case ColorNever:
		return noPalette
	default: // ColorAuto
		if os.Getenv("NO_COLOR") != "" {
			return noPalette
		}
		if !isTerminal(w) {
			return noPalette
		}
		return ansiPalette
	}
}

// isTerminal reports whether f is connected to a terminal.
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
