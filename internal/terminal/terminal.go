// Package terminal detects what the attached terminal can do.
//
// The TUI needs both stdin and stdout on a terminal. Plain commands only care
// about stdout for colour and spinners.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// Info holds terminal capability information.
type Info struct {
	IsTTY      bool
	StdinIsTTY bool
	NoColor    bool
	Width      int
	Height     int
	ForceFlag  bool // Set when --no-color flag is used
}

// Detect returns terminal information for the current environment.
func Detect() *Info {
	stdoutFD := int(os.Stdout.Fd())
	isTTY := term.IsTerminal(stdoutFD)

	width, height := 80, 24

	if isTTY {
		if w, h, err := term.GetSize(stdoutFD); err == nil {
			width, height = w, h
		}
	}

	return &Info{
		IsTTY:      isTTY,
		StdinIsTTY: term.IsTerminal(int(os.Stdin.Fd())),
		NoColor:    noColorEnv(os.LookupEnv, os.Getenv),
		Width:      width,
		Height:     height,
	}
}

// noColorEnv honours NO_COLOR (https://no-color.org/) and TERM=dumb.
func noColorEnv(lookup func(string) (string, bool), get func(string) string) bool {
	if _, ok := lookup("NO_COLOR"); ok {
		return true
	}

	return get("TERM") == "dumb"
}

// ColorEnabled returns true if colored output should be used.
func (t *Info) ColorEnabled() bool {
	if t.ForceFlag {
		return false
	}

	return t.IsTTY && !t.NoColor
}

// InteractiveEnabled returns true if prompts can read answers.
func (t *Info) InteractiveEnabled() bool {
	return t.IsTTY && t.StdinIsTTY
}

// FullScreenEnabled reports whether the TUI host can take over the terminal.
func (t *Info) FullScreenEnabled() bool {
	return t.IsTTY && t.StdinIsTTY
}

// SpinnersEnabled returns true if spinners should be used.
func (t *Info) SpinnersEnabled() bool {
	return t.IsTTY && !t.NoColor
}
