package lua

import (
	"sync"

	"github.com/drake/runehist/history"
	"github.com/drake/runehist/object"
)

// MockHost implements Host for testing.
type MockHost struct {
	mu sync.Mutex

	// Captured calls
	Emitted    []*object.Object
	QuitCalled bool

	// Canned history
	Entries   map[int64]*history.Entry
	InputList []*history.Input
	Mark      uint64
	MarkSet   bool

	// OnEmit runs inside Emit, while the Lua caller is still on the stack.
	OnEmit func(o *object.Object)
}

func NewMockHost() *MockHost {
	return &MockHost{Entries: make(map[int64]*history.Entry)}
}

func (m *MockHost) Emit(o *object.Object) {
	m.mu.Lock()
	m.Emitted = append(m.Emitted, o)
	hook := m.OnEmit
	m.mu.Unlock()
	if hook != nil {
		hook(o)
	}
}

func (m *MockHost) Entry(id int64) (*history.Entry, bool) {
	e, ok := m.Entries[id]
	return e, ok
}

func (m *MockHost) EntryIDs() []int64 {
	var ids []int64
	for id := range m.Entries {
		ids = append(ids, id)
	}
	return ids
}

func (m *MockHost) LastEntry() (*history.Entry, bool) {
	var last *history.Entry
	for _, e := range m.Entries {
		if last == nil || e.HistoryID() > last.HistoryID() {
			last = e
		}
	}
	return last, last != nil
}

func (m *MockHost) Watermark() (uint64, bool) { return m.Mark, m.MarkSet }
func (m *MockHost) Inputs() []*history.Input  { return m.InputList }
func (m *MockHost) SessionID() string         { return "test-session" }

func (m *MockHost) Quit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QuitCalled = true
}
