package ui

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/drake/runehist/ui/style"
)

// UIMode specifies which UI implementation to use.
type UIMode int

const (
	// ModeTUI uses the full Bubble Tea TUI.
	ModeTUI UIMode = iota
	// ModeConsole uses the line-based console, also when input is piped.
	ModeConsole
)

func (m UIMode) String() string {
	if m == ModeConsole {
		return "console"
	}
	return "tui"
}

// DetectMode picks the console when asked to, or when stdin is not a
// terminal and the TUI could not read keys.
func DetectMode(forceConsole bool) UIMode {
	return modeFor(forceConsole, isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()))
}

func modeFor(forceConsole, stdinTTY bool) UIMode {
	if forceConsole || !stdinTTY {
		return ModeConsole
	}
	return ModeTUI
}

// New creates the UI for mode.
func New(mode UIMode, styles style.Styles) UI {
	if mode == ModeConsole {
		return NewConsoleUI()
	}
	return NewBubbleTeaUI(styles)
}
