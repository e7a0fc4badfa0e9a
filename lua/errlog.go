package lua

import (
	"errors"
	"slices"
	"sync"

	"github.com/drake/runehist/object"
)

// DefaultErrorLogSize bounds the error log.
const DefaultErrorLogSize = 256

// ErrLogModified is returned when the log changes while it is scanned.
var ErrLogModified = errors.New("error log modified during scan")

// ErrorLog is the session's append-only error log. The oldest records
// are dropped once it is full.
type ErrorLog struct {
	mu      sync.Mutex
	records []*object.ErrorRecord
	limit   int
	next    uint64
	version uint64
}

// NewErrorLog creates a log holding at most limit records.
func NewErrorLog(limit int) *ErrorLog {
	if limit < 1 {
		limit = DefaultErrorLogSize
	}
	return &ErrorLog{limit: limit}
}

// Append adds a record and returns it. Every record gets a unique hash.
func (l *ErrorLog) Append(msg string, kind object.ErrorKind, origin int64) *object.ErrorRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.next++
	l.version++
	rec := &object.ErrorRecord{Message: msg, Kind: kind, OriginID: origin, Hash: l.next}
	l.records = append(l.records, rec)
	if len(l.records) > l.limit {
		l.records = slices.Delete(l.records, 0, len(l.records)-l.limit)
	}
	return rec
}

// Scan calls fn for each record, newest first, until fn returns false.
func (l *ErrorLog) Scan(fn func(*object.ErrorRecord) bool) error {
	l.mu.Lock()
	snapshot := slices.Clone(l.records)
	version := l.version
	l.mu.Unlock()

	for i := len(snapshot) - 1; i >= 0; i-- {
		more := fn(snapshot[i])
		if l.changedSince(version) {
			return ErrLogModified
		}
		if !more {
			break
		}
	}
	return nil
}

func (l *ErrorLog) changedSince(version uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.version != version
}

// Records returns the records, newest first.
func (l *ErrorLog) Records() []*object.ErrorRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := slices.Clone(l.records)
	slices.Reverse(out)
	return out
}

// Len returns the number of records.
func (l *ErrorLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
