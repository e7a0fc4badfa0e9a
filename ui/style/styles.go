package style

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/drake/runehist/object"
)

// Styles holds all the lipgloss styles for the REPL.
type Styles struct {
	// Input
	Prompt       lipgloss.Style
	Continuation lipgloss.Style
	Echo         lipgloss.Style

	// Streams
	Output      lipgloss.Style
	Error       lipgloss.Style
	Warning     lipgloss.Style
	Verbose     lipgloss.Style
	Debug       lipgloss.Style
	Information lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	StatusOK     lipgloss.Style
	StatusFailed lipgloss.Style

	Muted lipgloss.Style
}

func base() lipgloss.Style {
	return lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		Prompt: base().
			Foreground(lipgloss.Color("245")),
		Continuation: base().
			Foreground(lipgloss.Color("240")),
		Echo: base().
			Foreground(lipgloss.Color("71")), // Muted green

		Output: base(),
		Error: base().
			Foreground(lipgloss.Color("196")),
		Warning: base().
			Foreground(lipgloss.Color("220")),
		Verbose: base().
			Foreground(lipgloss.Color("243")), // Gray
		Debug: base().
			Foreground(lipgloss.Color("179")), // Muted yellow
		Information: base().
			Foreground(lipgloss.Color("252")),

		StatusBar: base().
			Foreground(lipgloss.Color("252")),
		StatusOK: base().
			Foreground(lipgloss.Color("71")),
		StatusFailed: base().
			Foreground(lipgloss.Color("196")),

		Muted: base().
			Foreground(lipgloss.Color("240")),
	}
}

// Plain returns styles that render text unchanged.
func Plain() Styles {
	s := base()
	return Styles{
		Prompt: s, Continuation: s, Echo: s,
		Output: s, Error: s, Warning: s, Verbose: s, Debug: s, Information: s,
		StatusBar: s, StatusOK: s, StatusFailed: s,
		Muted: s,
	}
}

// ForStream returns the style for objects written to stream.
func (s Styles) ForStream(stream object.Stream) lipgloss.Style {
	switch stream {
	case object.StreamError:
		return s.Error
	case object.StreamWarning:
		return s.Warning
	case object.StreamVerbose:
		return s.Verbose
	case object.StreamDebug:
		return s.Debug
	case object.StreamInformation:
		return s.Information
	}
	return s.Output
}
