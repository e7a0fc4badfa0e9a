package history

import (
	"sync"

	"go.uber.org/zap"
)

// Manager owns the process-wide history state: the store, the watermark
// and whatever the caller mutates inside Do.
type Manager struct {
	mu     sync.Mutex
	store  *Store
	wm     Watermark
	logger *zap.Logger
}

// Tx is the state visible to one finalization.
type Tx struct {
	Store     *Store
	Watermark *Watermark
	Logger    *zap.Logger
}

// NewManager creates a manager whose store retains maxEntries entries.
func NewManager(maxEntries int, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	store, err := NewStore(maxEntries)
	if err != nil {
		return nil, err
	}
	return &Manager{store: store, logger: logger}, nil
}

// Do runs fn while holding the history lock. Finalizations therefore apply
// in a single order even when several pipelines share the manager.
func (m *Manager) Do(fn func(*Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&Tx{Store: m.store, Watermark: &m.wm, Logger: m.logger})
}

// Get returns the entry for id.
func (m *Manager) Get(id int64) (*Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Get(id)
}

// Last returns the newest entry.
func (m *Manager) Last() (*Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Last()
}

// IDs returns the stored ids in ascending order.
func (m *Manager) IDs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.IDs()
}

// Len returns the number of stored entries.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Len()
}

// Watermark returns the current watermark hash.
func (m *Manager) Watermark() (uint64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wm.Value()
}

// Resize changes the store capacity.
func (m *Manager) Resize(max int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if max == m.store.Max() {
		return nil
	}
	evicted, err := m.store.Resize(max)
	if err != nil {
		return err
	}
	m.logger.Info("history store resized", zap.Int("max", max), zap.Int("evicted", evicted))
	return nil
}
