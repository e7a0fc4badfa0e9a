package lua

import (
	"github.com/drake/runehist/history"
	"github.com/drake/runehist/object"
)

// OutputService receives the objects a chunk writes while it runs.
type OutputService interface {
	Emit(o *object.Object)
}

// HistoryService exposes extended history and input history.
type HistoryService interface {
	Entry(id int64) (*history.Entry, bool)
	EntryIDs() []int64
	LastEntry() (*history.Entry, bool)
	Watermark() (uint64, bool)
	Inputs() []*history.Input
}

// SystemService handles app lifecycle.
type SystemService interface {
	Quit()
	SessionID() string
}
