package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/drake/runehist/ui/style"
)

// BubbleTeaUI implements UI using Bubble Tea.
// It bridges the channel-based session with Bubble Tea's
// model/update/view event loop.
type BubbleTeaUI struct {
	program   *tea.Program
	inputChan chan string
	styles    style.Styles

	// Synchronization for startup
	ready     chan struct{}
	readyOnce sync.Once

	// Shutdown coordination
	done     chan struct{}
	doneOnce sync.Once

	// Pending messages queued before program starts
	pendingMsgs  []tea.Msg
	pendingMsgMu sync.Mutex
}

// NewBubbleTeaUI creates a new Bubble Tea-based UI.
func NewBubbleTeaUI(styles style.Styles) *BubbleTeaUI {
	return &BubbleTeaUI{
		inputChan: make(chan string, 100),
		styles:    styles,
		ready:     make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// sendOrQueue sends a message to the program, or queues it if not ready yet.
func (b *BubbleTeaUI) sendOrQueue(msg tea.Msg) {
	b.pendingMsgMu.Lock()
	select {
	case <-b.ready:
		b.pendingMsgMu.Unlock()
		b.program.Send(msg)
	default:
		// Not ready yet, queue for later
		b.pendingMsgs = append(b.pendingMsgs, msg)
		b.pendingMsgMu.Unlock()
	}
}

// Print appends a line to the scrollback.
// Called from the session goroutine.
func (b *BubbleTeaUI) Print(text string) {
	b.sendOrQueue(PrintMsg(text))
}

// SetPrompt replaces the input prompt.
func (b *BubbleTeaUI) SetPrompt(text string) {
	b.sendOrQueue(PromptMsg(text))
}

// SetStatus sets the status bar text.
func (b *BubbleTeaUI) SetStatus(text string) {
	b.sendOrQueue(StatusTextMsg(text))
}

// Input returns channel for user input.
func (b *BubbleTeaUI) Input() <-chan string {
	return b.inputChan
}

// Run starts the TUI and blocks until exit.
func (b *BubbleTeaUI) Run() error {
	select {
	case <-b.done:
		return nil
	default:
	}
	model := NewModel(b.inputChan, b.styles)

	b.program = tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Flush messages queued before startup once the event loop runs.
	// Holding the lock keeps later messages behind the queued ones.
	go func() {
		b.pendingMsgMu.Lock()
		defer b.pendingMsgMu.Unlock()
		for _, msg := range b.pendingMsgs {
			b.program.Send(msg)
		}
		b.pendingMsgs = nil
		b.readyOnce.Do(func() {
			close(b.ready)
		})
	}()

	// Run blocks until quit
	_, err := b.program.Run()

	// Signal shutdown
	b.doneOnce.Do(func() {
		close(b.done)
	})

	return err
}

// Done returns a channel that closes when the UI exits.
func (b *BubbleTeaUI) Done() <-chan struct{} {
	return b.done
}

// Quit signals the TUI to exit.
func (b *BubbleTeaUI) Quit() {
	select {
	case <-b.ready:
		if b.program != nil {
			b.program.Quit()
		}
	default:
		// Not started yet, just close done
		b.doneOnce.Do(func() {
			close(b.done)
		})
	}
}
