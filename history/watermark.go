package history

import (
	"fmt"
	"slices"

	"github.com/drake/runehist/object"
)

// ErrorLog is the host's growing error log.
type ErrorLog interface {
	// Scan calls fn for each record, newest first, until fn returns false.
	// It fails if the log changes during the scan.
	Scan(fn func(*object.ErrorRecord) bool) error
}

// Watermark remembers the hash of the newest error already captured.
type Watermark struct {
	hash uint64
	set  bool
}

// Value returns the current hash and whether one was ever recorded.
func (w *Watermark) Value() (uint64, bool) { return w.hash, w.set }

func (w *Watermark) advance(hash uint64) {
	w.hash = hash
	w.set = true
}

// Harvest collects the errors logged since the watermark, skipping
// incomplete-parse and pipeline-stop records. The watermark moves to the
// newest collected record. The result is ordered oldest first.
//
// A scan failure is returned as is and leaves the watermark untouched.
func Harvest(log ErrorLog, wm *Watermark) ([]*object.ErrorRecord, error) {
	var collected []*object.ErrorRecord
	err := log.Scan(func(rec *object.ErrorRecord) bool {
		if wm.set && rec.Hash == wm.hash {
			return false
		}
		switch rec.Kind {
		case object.KindIncompleteParse, object.KindPipelineStop:
			return true
		}
		collected = append(collected, rec)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("scan error log: %w", err)
	}
	if len(collected) == 0 {
		return nil, nil
	}
	wm.advance(collected[0].Hash)
	slices.Reverse(collected)
	return collected, nil
}
