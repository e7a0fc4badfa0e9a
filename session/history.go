package session

import "github.com/drake/runehist/history"

// HistoryManager manages input history. Each line keeps the invocation id
// it ran as, so it can be matched against extended history.
type HistoryManager struct {
	lines []*history.Input
	limit int
}

// NewHistoryManager creates a new history manager with the given limit.
func NewHistoryManager(limit int) *HistoryManager {
	return &HistoryManager{
		lines: make([]*history.Input, 0, limit),
		limit: limit,
	}
}

// Add records the line run as invocation id. Blank lines are skipped.
func (h *HistoryManager) Add(id int64, line string) {
	if line == "" {
		return
	}
	h.lines = append(h.lines, &history.Input{ID: id, Line: line})
	// Trim if over limit
	if len(h.lines) > h.limit {
		h.lines = h.lines[len(h.lines)-h.limit:]
	}
}

// Get returns a copy of the history, oldest first.
func (h *HistoryManager) Get() []*history.Input {
	result := make([]*history.Input, len(h.lines))
	copy(result, h.lines)
	return result
}

// Len returns the number of remembered lines.
func (h *HistoryManager) Len() int { return len(h.lines) }
