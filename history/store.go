package history

import (
	"errors"
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrEntryExists is returned when an entry with the same id is already stored.
var ErrEntryExists = errors.New("history entry already exists")

// Store is an append-only table of entries keyed by invocation id. When it
// is full, adding an entry evicts the one with the smallest id.
type Store struct {
	entries *lru.Cache[int64, *Entry]
	max     int
}

// NewStore creates a store retaining at most max entries.
func NewStore(max int) (*Store, error) {
	if max < 1 {
		return nil, fmt.Errorf("history store size must be positive, got %d", max)
	}
	entries, err := lru.New[int64, *Entry](max)
	if err != nil {
		return nil, fmt.Errorf("create history table: %w", err)
	}
	return &Store{entries: entries, max: max}, nil
}

// Add stores e. When the store is full the smallest id among the stored
// entries and e is evicted, which is e itself when its id was lowered
// below everything retained. It returns the evicted id, if any.
func (s *Store) Add(e *Entry) (evicted int64, ok bool, err error) {
	id := e.HistoryID()
	if s.entries.Contains(id) {
		return 0, false, fmt.Errorf("add entry %d: %w", id, ErrEntryExists)
	}
	if s.entries.Len() >= s.max {
		evicted = s.oldest()
		if id < evicted {
			return id, true, nil
		}
		s.entries.Remove(evicted)
		ok = true
	}
	s.entries.Add(id, e)
	return evicted, ok, nil
}

// Contains reports whether an entry with id is stored.
func (s *Store) Contains(id int64) bool { return s.entries.Contains(id) }

// Get returns the entry for id.
func (s *Store) Get(id int64) (*Entry, bool) {
	return s.entries.Peek(id)
}

// IDs returns every stored id in ascending order.
func (s *Store) IDs() []int64 {
	ids := s.entries.Keys()
	slices.Sort(ids)
	return ids
}

// Last returns the entry with the largest id.
func (s *Store) Last() (*Entry, bool) {
	ids := s.IDs()
	if len(ids) == 0 {
		return nil, false
	}
	return s.Get(ids[len(ids)-1])
}

// Len returns the number of stored entries.
func (s *Store) Len() int { return s.entries.Len() }

// Max returns the configured capacity.
func (s *Store) Max() int { return s.max }

// Resize changes the capacity, evicting the smallest ids when shrinking.
// It returns the number of evicted entries.
func (s *Store) Resize(max int) (int, error) {
	if max < 1 {
		return 0, fmt.Errorf("history store size must be positive, got %d", max)
	}
	evicted := 0
	for s.entries.Len() > max {
		s.entries.Remove(s.oldest())
		evicted++
	}
	s.entries.Resize(max)
	s.max = max
	return evicted, nil
}

// oldest returns the smallest stored id. Ids can arrive out of order when an
// invocation id is lowered, so insertion order is not enough.
func (s *Store) oldest() int64 {
	return slices.Min(s.entries.Keys())
}
