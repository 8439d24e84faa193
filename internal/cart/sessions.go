package cart

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type managedStore struct {
	store    *Store
	lastSeen time.Time
}

// Manager owns one cart per session id and evicts carts that have been idle
// past the configured TTL.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*managedStore
	ttl    time.Duration
	now    func() time.Time
}

// NewManager constructs a session manager with the provided idle TTL.
func NewManager(ttl time.Duration) (*Manager, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("cart session ttl must be positive")
	}
	return &Manager{
		stores: make(map[string]*managedStore),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Get returns the cart for the session, creating an empty one on first use.
// Each access refreshes the session's idle clock.
func (m *Manager) Get(sessionID string) (*Store, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	managed, ok := m.stores[sessionID]
	if !ok {
		managed = &managedStore{store: NewStore()}
		m.stores[sessionID] = managed
	}
	managed.lastSeen = m.now()
	return managed.store, nil
}

// Destroy drops the session's cart. A missing session is a no-op.
func (m *Manager) Destroy(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, sessionID)
}

// PurgeIdle evicts every cart whose last access is older than the TTL and
// returns how many were removed.
func (m *Manager) PurgeIdle() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.ttl)
	purged := 0
	for id, managed := range m.stores {
		if managed.lastSeen.Before(cutoff) {
			delete(m.stores, id)
			purged++
		}
	}
	return purged
}

// Len returns the number of live cart sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
