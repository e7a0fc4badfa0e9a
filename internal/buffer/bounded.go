package buffer

// Bounded is an append-only slice that never grows past its limit.
// Items offered once the limit is reached are counted, not stored.
//
// Usage:
//
//	b := buffer.NewBounded[string](2)
//	b.Add("a"); b.Add("b"); b.Add("c")
//	b.Len()     // 2
//	b.Dropped() // 1
type Bounded[T any] struct {
	items   []T
	limit   int
	dropped int
}

// NewBounded creates a buffer holding at most limit items. A negative
// limit is treated as zero.
func NewBounded[T any](limit int) *Bounded[T] {
	if limit < 0 {
		limit = 0
	}
	return &Bounded[T]{limit: limit}
}

// Add appends v if there is room. It reports whether v was stored.
func (b *Bounded[T]) Add(v T) bool {
	if len(b.items) >= b.limit {
		b.dropped++
		return false
	}
	b.items = append(b.items, v)
	return true
}

// Prepend inserts v at the front, ignoring the limit. It is used for
// synthetic annotations that describe the buffer's own contents.
func (b *Bounded[T]) Prepend(v T) {
	b.items = append(b.items, v)
	copy(b.items[1:], b.items)
	b.items[0] = v
}

// Len returns the number of stored items.
func (b *Bounded[T]) Len() int { return len(b.items) }

// Dropped returns how many items were refused since the last Reset.
func (b *Bounded[T]) Dropped() int { return b.dropped }

// Limit returns the configured capacity.
func (b *Bounded[T]) Limit() int { return b.limit }

// Items returns a copy of the stored items in insertion order.
func (b *Bounded[T]) Items() []T {
	out := make([]T, len(b.items))
	copy(out, b.items)
	return out
}

// Reset empties the buffer and applies a new limit.
func (b *Bounded[T]) Reset(limit int) {
	if limit < 0 {
		limit = 0
	}
	clear(b.items)
	b.items = b.items[:0]
	b.limit = limit
	b.dropped = 0
}
