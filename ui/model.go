package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/drake/runehist/ui/style"
)

// maxScrollback bounds the lines kept for the viewport.
const maxScrollback = 10000

// Model is the Bubble Tea model for the REPL: a scrollback viewport, a
// status bar and a single input line with history recall.
type Model struct {
	input    textinput.Model
	viewport viewport.Model
	styles   style.Styles

	lines  []string
	status string

	// Input recall
	history []string
	histPos int
	draft   string

	inputChan chan<- string
	ready     bool
}

// NewModel creates the model. Submitted lines are sent on inputChan.
func NewModel(inputChan chan<- string, styles style.Styles) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Focus()

	return Model{
		input:     ti,
		viewport:  viewport.New(80, 20),
		styles:    styles,
		inputChan: inputChan,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 1)
		m.input.Width = max(msg.Width-lipgloss.Width(m.input.Prompt)-1, 1)
		m.ready = true
		m.refresh()

	case PrintMsg:
		m.appendLines(string(msg))

	case PromptMsg:
		m.input.Prompt = m.styles.Prompt.Render(string(msg))

	case StatusTextMsg:
		m.status = string(msg)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			if m.input.Value() != "" {
				m.input.Reset()
				return m, nil
			}
			return m, tea.Quit
		case tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			m.submit()
			return m, nil
		case tea.KeyUp:
			m.recall(-1)
			return m, nil
		case tea.KeyDown:
			m.recall(1)
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.styles.StatusBar.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

// submit echoes the input line and hands it to the session.
func (m *Model) submit() {
	line := m.input.Value()
	m.appendLines(m.input.Prompt + m.styles.Echo.Render(line))
	if line != "" && (len(m.history) == 0 || m.history[len(m.history)-1] != line) {
		m.history = append(m.history, line)
	}
	m.histPos = len(m.history)
	m.draft = ""
	m.input.Reset()
	m.inputChan <- line
}

// recall moves through input history; dir is -1 for older, 1 for newer.
func (m *Model) recall(dir int) {
	if len(m.history) == 0 {
		return
	}
	if m.histPos == len(m.history) {
		m.draft = m.input.Value()
	}
	pos := m.histPos + dir
	if pos < 0 || pos > len(m.history) {
		return
	}
	m.histPos = pos
	if pos == len(m.history) {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(m.history[pos])
	}
	m.input.CursorEnd()
}

func (m *Model) appendLines(text string) {
	m.lines = append(m.lines, strings.Split(text, "\n")...)
	if len(m.lines) > maxScrollback {
		m.lines = m.lines[len(m.lines)-maxScrollback:]
	}
	m.refresh()
}

// refresh reloads the viewport, following the tail unless scrolled back.
func (m *Model) refresh() {
	follow := m.viewport.AtBottom()
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	if follow || !m.ready {
		m.viewport.GotoBottom()
	}
}
