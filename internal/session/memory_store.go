package session

import (
	"context"
	"sync"

	"github.com/corops/cordash/internal/domain"
)

// MemoryStore keeps session records in process memory. Sessions do not
// survive a server restart; it is the default backend for development and
// the only one tests need.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]domain.Session),
	}
}

// LoadKey returns the stored session for id, or an empty session.
func (m *MemoryStore) LoadKey(_ context.Context, id string) (domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id], nil
}

// SaveKey stores the whole record under id in one step.
func (m *MemoryStore) SaveKey(_ context.Context, id string, s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = s
	return nil
}

// ClearKey removes the record for id. Clearing an absent record is a no-op.
func (m *MemoryStore) ClearKey(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
