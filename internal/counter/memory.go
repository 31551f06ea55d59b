package counter

import (
	"context"
	"sync"

	"github.com/rd-risk-mcp-server/internal/domain"
)

// MemoryStore counts in process memory. Totals reset on restart.
type MemoryStore struct {
	mu     sync.Mutex
	counts map[domain.Tier]int64
}

var _ domain.CounterStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory counter
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[domain.Tier]int64)}
}

// Increment adds one completed assessment for tier
func (m *MemoryStore) Increment(_ context.Context, tier domain.Tier) error {
	if err := validTier(tier); err != nil {
		return err
	}
	m.mu.Lock()
	m.counts[tier]++
	m.mu.Unlock()
	return nil
}

// Totals returns a snapshot of the counts
func (m *MemoryStore) Totals(_ context.Context) (*domain.CounterTotals, error) {
	totals := newTotals()
	m.mu.Lock()
	defer m.mu.Unlock()
	for tier, n := range m.counts {
		addTier(totals, string(tier), n)
	}
	return totals, nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}
