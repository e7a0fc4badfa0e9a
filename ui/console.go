package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/drake/runehist/text"
)

// ConsoleUI implements a simple line-based UI over stdin/stdout. When
// stdout is not a terminal, prompts are suppressed and ANSI sequences are
// stripped so output can be piped.
type ConsoleUI struct {
	in        io.Reader
	out       io.Writer
	tty       bool
	inputChan chan string
	done      chan struct{}
	doneOnce  sync.Once

	mu            sync.Mutex
	prompt        string
	lastWasPrompt bool // Track if last output was a prompt (no newline)
}

// NewConsoleUI initializes a stdin/stdout based terminal interface.
func NewConsoleUI() *ConsoleUI {
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return NewConsoleUIWith(os.Stdin, os.Stdout, tty)
}

// NewConsoleUIWith creates a console UI over the given streams.
func NewConsoleUIWith(in io.Reader, out io.Writer, tty bool) *ConsoleUI {
	return &ConsoleUI{
		in:        in,
		out:       out,
		tty:       tty,
		inputChan: make(chan string, 2048),
		done:      make(chan struct{}),
	}
}

// Print outputs a line, clearing a pending prompt first.
func (c *ConsoleUI) Print(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.tty {
		fmt.Fprintln(c.out, text.StripANSI(line))
		return
	}
	if c.lastWasPrompt {
		// Clear the prompt line before printing new content
		fmt.Fprint(c.out, "\r\033[K")
	}
	fmt.Fprintln(c.out, line)
	fmt.Fprint(c.out, c.prompt)
	c.lastWasPrompt = c.prompt != ""
}

// SetPrompt shows a prompt without a trailing newline. Prompts are only
// drawn on a terminal.
func (c *ConsoleUI) SetPrompt(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.tty || (c.lastWasPrompt && prompt == c.prompt) {
		c.prompt = prompt
		return
	}
	if c.lastWasPrompt {
		fmt.Fprint(c.out, "\r\033[K")
	}
	c.prompt = prompt
	fmt.Fprint(c.out, prompt)
	c.lastWasPrompt = prompt != ""
}

// SetStatus is a no-op; the console has no status bar.
func (c *ConsoleUI) SetStatus(string) {}

// Input returns the channel for receiving user input
func (c *ConsoleUI) Input() <-chan string {
	return c.inputChan
}

// Run reads input lines until Quit. At EOF the input channel is closed
// and Run waits for the session to finish the remaining lines and quit.
func (c *ConsoleUI) Run() error {
	scanner := bufio.NewScanner(c.in)
	scanDone := make(chan error, 1)

	go func() {
		defer close(c.inputChan)
		for scanner.Scan() {
			c.mu.Lock()
			c.lastWasPrompt = false
			c.mu.Unlock()
			select {
			case <-c.done:
				scanDone <- nil
				return
			case c.inputChan <- scanner.Text():
			}
		}
		scanDone <- scanner.Err()
	}()

	select {
	case <-c.done:
		return nil
	case err := <-scanDone:
		if err != nil {
			return err
		}
		<-c.done
		return nil
	}
}

// Done returns a channel that closes when the UI is done
func (c *ConsoleUI) Done() <-chan struct{} {
	return c.done
}

// Quit requests the console UI to exit.
func (c *ConsoleUI) Quit() {
	c.doneOnce.Do(func() {
		close(c.done)
	})
}
