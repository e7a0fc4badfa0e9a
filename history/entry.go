// Package history keeps finalized invocation records and the error
// watermark that prevents errors from being captured twice.
package history

import (
	"fmt"
	"slices"

	"github.com/drake/runehist/object"
)

// Fields is a plain snapshot of an entry's contents.
type Fields struct {
	ID          int64
	Output      []*object.Object
	OutputCount int
	Sources     []object.SourceLocation
	Errors      []*object.Object
	Succeeded   bool
}

// Entry is the sealed record of one invocation. It never changes after
// Seal returns it.
type Entry struct {
	f Fields
}

// Seal copies f into a new entry.
func Seal(f Fields) *Entry {
	return &Entry{f: f.clone()}
}

func (f Fields) clone() Fields {
	f.Output = slices.Clone(f.Output)
	f.Sources = slices.Clone(f.Sources)
	f.Errors = slices.Clone(f.Errors)
	return f
}

// HistoryID returns the invocation id. It marks entries as history records
// so they are never captured into another entry.
func (e *Entry) HistoryID() int64 { return e.f.ID }

// Output returns the buffered output objects in emission order.
func (e *Entry) Output() []*object.Object { return slices.Clone(e.f.Output) }

// OutputCount includes objects dropped for capacity and omitted history
// records.
func (e *Entry) OutputCount() int { return e.f.OutputCount }

// Sources returns the distinct call sites that produced output.
func (e *Entry) Sources() []object.SourceLocation { return slices.Clone(e.f.Sources) }

// Errors returns the errors newly raised by the invocation, oldest first.
func (e *Entry) Errors() []*object.Object { return slices.Clone(e.f.Errors) }

// Succeeded reports whether the invocation succeeded.
func (e *Entry) Succeeded() bool { return e.f.Succeeded }

// Fields returns a copy of the entry's contents.
func (e *Entry) Fields() Fields { return e.f.clone() }

func (e *Entry) String() string {
	status := "ok"
	if !e.f.Succeeded {
		status = "failed"
	}
	return fmt.Sprintf("#%d %s (%d output, %d errors)", e.f.ID, status, e.f.OutputCount, len(e.f.Errors))
}
