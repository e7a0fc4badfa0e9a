package session

import "runtime"

// Stats is a snapshot of session counters for the debug monitor.
type Stats struct {
	Inputs      int64
	Invocations int64
	Goroutines  int

	History HistoryStats
	Errors  ErrorLogStats
	Queue   QueueStats
}

// HistoryStats describes extended history.
type HistoryStats struct {
	Entries      int
	Watermark    uint64
	WatermarkSet bool
}

// ErrorLogStats describes the error log.
type ErrorLogStats struct {
	Records int
}

// QueueStats describes the session event queue.
type QueueStats struct {
	Depth   int
	Dropped int64
}

// Stats returns a snapshot. It is safe to call from any goroutine.
func (s *Session) Stats() Stats {
	mark, set := s.history.Watermark()
	return Stats{
		Inputs:      s.inputCount.Load(),
		Invocations: s.invocations.Load(),
		Goroutines:  runtime.NumGoroutine(),
		History: HistoryStats{
			Entries:      s.history.Len(),
			Watermark:    mark,
			WatermarkSet: set,
		},
		Errors: ErrorLogStats{
			Records: s.errlog.Len(),
		},
		Queue: QueueStats{
			Depth:   s.events.Depth(),
			Dropped: s.events.Dropped(),
		},
	}
}
