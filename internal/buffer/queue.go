package buffer

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// dropLogEvery throttles the drop warning while the consumer is stuck.
const dropLogEvery = 1000

// Queue is a channel pair backed by a growing slice, so senders on In
// rarely block. Once hardLimit items are waiting, the oldest is dropped.
// Close flushes everything still queued to Out and then closes it.
//
//	q := buffer.NewQueue[string](100, 50000, logger)
//	q.In() <- "hello"
//	msg := <-q.Out()
type Queue[T any] struct {
	in  chan T
	out chan T

	limit   int
	depth   atomic.Int64
	dropped atomic.Int64
	logger  *zap.Logger
}

// NewQueue starts the goroutine moving items from In to Out. It exits
// after Close once Out has been drained.
func NewQueue[T any](initialCap, hardLimit int, logger *zap.Logger) *Queue[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hardLimit < 1 {
		hardLimit = 1
	}
	q := &Queue[T]{
		in:     make(chan T, 10),
		out:    make(chan T, 10),
		limit:  hardLimit,
		logger: logger,
	}
	go q.run(initialCap)
	return q
}

func (q *Queue[T]) In() chan<- T  { return q.in }
func (q *Queue[T]) Out() <-chan T { return q.out }

// Close stops accepting items. Sending on In afterwards panics.
func (q *Queue[T]) Close() { close(q.in) }

// Depth is the number of items held between In and Out, not counting
// the channel buffers.
func (q *Queue[T]) Depth() int { return int(q.depth.Load()) }

// Dropped is the number of items discarded at the hard limit.
func (q *Queue[T]) Dropped() int64 { return q.dropped.Load() }

func (q *Queue[T]) run(initialCap int) {
	defer close(q.out)

	pending := make([]T, 0, initialCap)
	for {
		var next T
		var downstream chan T
		if len(pending) > 0 {
			next = pending[0]
			downstream = q.out
		}

		select {
		case v, ok := <-q.in:
			if !ok {
				for _, item := range pending {
					q.out <- item
					q.depth.Add(-1)
				}
				return
			}
			if len(pending) >= q.limit {
				pending = pending[1:]
				q.depth.Add(-1)
				q.drop()
			}
			pending = append(pending, v)
			q.depth.Add(1)

		case downstream <- next:
			pending = pending[1:]
			q.depth.Add(-1)
		}
	}
}

func (q *Queue[T]) drop() {
	n := q.dropped.Add(1)
	if n == 1 || n%dropLogEvery == 0 {
		q.logger.Warn("queue limit reached, dropping oldest item",
			zap.Int("limit", q.limit), zap.Int64("dropped", n))
	}
}
