package intercept

import (
	"errors"

	"github.com/drake/runehist/capture"
	"github.com/drake/runehist/object"
)

// renderEvent is one call seen by MockRenderer.
type renderEvent struct {
	Call   string
	Object *object.Object
	Stream object.Stream
	Buffer bool
}

// MockRenderer records calls for verification in tests.
type MockRenderer struct {
	Events []renderEvent
	EndErr error
}

func (m *MockRenderer) Begin(bufferInput bool) error {
	m.Events = append(m.Events, renderEvent{Call: "begin", Buffer: bufferInput})
	return nil
}

func (m *MockRenderer) ProcessOne(o *object.Object, stream object.Stream) error {
	m.Events = append(m.Events, renderEvent{Call: "process", Object: o, Stream: stream})
	return nil
}

func (m *MockRenderer) End() error {
	m.Events = append(m.Events, renderEvent{Call: "end"})
	return m.EndErr
}

func (m *MockRenderer) calls() []string {
	var out []string
	for _, e := range m.Events {
		out = append(out, e.Call)
	}
	return out
}

// MockStack returns Loc while Valid is set.
type MockStack struct {
	Loc   object.SourceLocation
	Valid bool
}

func (m *MockStack) Caller() (object.SourceLocation, bool) { return m.Loc, m.Valid }

// MockVars is a map-backed variable store that counts writes.
type MockVars struct {
	Values map[string]any
	Sets   int
}

func NewMockVars() *MockVars {
	return &MockVars{Values: make(map[string]any)}
}

func (m *MockVars) Get(name string) (any, bool) {
	v, ok := m.Values[name]
	return v, ok
}

func (m *MockVars) Set(name string, v any) {
	m.Sets++
	m.Values[name] = v
}

// MockErrorLog holds records oldest first.
type MockErrorLog struct {
	Records []*object.ErrorRecord
	ScanErr error
	next    uint64
}

func (m *MockErrorLog) Add(kind object.ErrorKind, origin int64) *object.ErrorRecord {
	m.next++
	rec := &object.ErrorRecord{Message: "failure", Kind: kind, OriginID: origin, Hash: m.next}
	m.Records = append(m.Records, rec)
	return rec
}

func (m *MockErrorLog) Scan(fn func(*object.ErrorRecord) bool) error {
	if m.ScanErr != nil {
		return m.ScanErr
	}
	for i := len(m.Records) - 1; i >= 0; i-- {
		if !fn(m.Records[i]) {
			return nil
		}
	}
	return nil
}

// MockSettings is a fixed configuration.
type MockSettings struct {
	capture.Static
	Var      string
	PerEntry int
}

func (m MockSettings) Variable() string      { return m.Var }
func (m MockSettings) MaxItemsPerEntry() int { return m.PerEntry }

var errRender = errors.New("renderer closed")
