// Package render is the REPL's own output step: it formats emitted
// objects and hands styled lines to the UI.
package render

import (
	"errors"
	"strings"

	"github.com/drake/runehist/intercept"
	"github.com/drake/runehist/object"
	"github.com/drake/runehist/ui/style"
)

var _ intercept.Renderer = (*Console)(nil)

var ErrNotStarted = errors.New("renderer not started")

// Printer receives rendered lines.
type Printer interface {
	Print(text string)
}

// PrinterFunc adapts a function to Printer.
type PrinterFunc func(text string)

func (f PrinterFunc) Print(text string) { f(text) }

// Formatter turns an object into display text.
type Formatter func(*object.Object) string

// Console renders objects line by line, styled by stream. When an
// invocation is started with bufferInput set, lines are held until End.
type Console struct {
	out    Printer
	format Formatter
	styles style.Styles

	active    bool
	buffering bool
	pending   []string
	lines     int
}

// NewConsole creates a renderer printing to out.
func NewConsole(out Printer, format Formatter, styles style.Styles) *Console {
	if format == nil {
		format = (*object.Object).String
	}
	return &Console{out: out, format: format, styles: styles}
}

func (c *Console) Begin(bufferInput bool) error {
	c.active = true
	c.buffering = bufferInput
	c.pending = c.pending[:0]
	return nil
}

func (c *Console) ProcessOne(o *object.Object, stream object.Stream) error {
	if !c.active {
		return ErrNotStarted
	}
	st := c.styles.ForStream(stream)
	for _, line := range strings.Split(c.format(o), "\n") {
		c.emit(st.Render(line))
	}
	return nil
}

func (c *Console) End() error {
	if !c.active {
		return ErrNotStarted
	}
	for _, line := range c.pending {
		c.out.Print(line)
	}
	c.pending = c.pending[:0]
	c.active = false
	c.buffering = false
	return nil
}

// Lines returns how many lines have been rendered so far.
func (c *Console) Lines() int { return c.lines }

func (c *Console) emit(line string) {
	c.lines++
	if c.buffering {
		c.pending = append(c.pending, line)
		return
	}
	c.out.Print(line)
}
