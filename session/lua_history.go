package session

import "github.com/drake/runehist/history"

// Entry implements lua.HistoryService.
func (s *Session) Entry(id int64) (*history.Entry, bool) {
	return s.history.Get(id)
}

// EntryIDs implements lua.HistoryService.
func (s *Session) EntryIDs() []int64 {
	return s.history.IDs()
}

// LastEntry implements lua.HistoryService.
func (s *Session) LastEntry() (*history.Entry, bool) {
	return s.history.Last()
}

// Watermark implements lua.HistoryService.
func (s *Session) Watermark() (uint64, bool) {
	return s.history.Watermark()
}

// Inputs implements lua.HistoryService.
func (s *Session) Inputs() []*history.Input {
	return s.inputs.Get()
}
