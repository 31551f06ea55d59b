// Package session keeps in-progress questionnaires in process memory. Nothing here is written to
// disk; sessions disappear on expiry, eviction or restart.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/rd-risk-mcp-server/internal/domain"
)

// Defaults used when the configuration leaves the bounds unset
const (
	DefaultMaxItems = 10000
	DefaultTTL      = 30 * time.Minute
)

// MemoryStore is a size-bounded, expiring session store. Sessions are copied on the way in and
// out so callers never share answer maps with the store.
type MemoryStore struct {
	cache *expirable.LRU[string, *domain.Session]
}

var _ domain.SessionStore = (*MemoryStore)(nil)

// NewMemoryStore creates a store holding at most maxItems sessions, each for at most ttl after
// its last write.
func NewMemoryStore(maxItems int, ttl time.Duration) *MemoryStore {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		cache: expirable.NewLRU[string, *domain.Session](maxItems, nil, ttl),
	}
}

// Get returns a copy of the session
func (m *MemoryStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s, ok := m.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return clone(s), nil
}

// Put stores a copy of the session, refreshing its expiry
func (m *MemoryStore) Put(_ context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session id is required")
	}
	m.cache.Add(session.ID, clone(session))
	return nil
}

// Delete drops the session. Deleting an unknown id is not an error.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.cache.Remove(id)
	return nil
}

// Len returns the number of live sessions
func (m *MemoryStore) Len() int {
	return m.cache.Len()
}

func clone(s *domain.Session) *domain.Session {
	c := *s
	c.Answers = s.Answers.Clone()
	return &c
}
