package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
)

// MemorySessionStore is the in-process fallback session store used when
// Redis is unreachable. Sessions held here survive only as long as the
// process does.
type MemorySessionStore struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]*memoryItem
}

type memoryItem struct {
	session    *entities.TrainingSession
	expireTime time.Time
}

// NewMemorySessionStore creates an in-memory session store
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	store := &MemorySessionStore{
		ttl:   ttl,
		items: make(map[string]*memoryItem),
	}

	// Start cleanup goroutine to remove expired sessions
	go store.cleanupExpired()

	return store
}

// Save stores a copy of the session and refreshes its expiry
func (ms *MemorySessionStore) Save(_ context.Context, session *entities.TrainingSession) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items[session.SessionID] = &memoryItem{
		session:    cloneSession(session),
		expireTime: time.Now().Add(ms.ttl),
	}
	return nil
}

// Get retrieves a session by id, or entities.ErrSessionNotFound when the id
// is unknown or the entry has expired.
func (ms *MemorySessionStore) Get(_ context.Context, sessionID string) (*entities.TrainingSession, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	item, exists := ms.items[sessionID]
	if !exists {
		return nil, entities.ErrSessionNotFound
	}

	// Check if expired
	if time.Now().After(item.expireTime) {
		return nil, entities.ErrSessionNotFound
	}

	return cloneSession(item.session), nil
}

// Delete removes a session
func (ms *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.items, sessionID)
	return nil
}

// cloneSession copies the session so callers and the store never share
// mutable state. Action records are value structs, so copying the slice
// is enough.
func cloneSession(s *entities.TrainingSession) *entities.TrainingSession {
	clone := *s
	clone.Actions = append([]entities.ActionRecord(nil), s.Actions...)
	if s.EndTime != nil {
		end := *s.EndTime
		clone.EndTime = &end
	}
	if s.Ratings != nil {
		ratings := *s.Ratings
		clone.Ratings = &ratings
	}
	return &clone
}

// cleanupExpired periodically removes expired sessions
func (ms *MemorySessionStore) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ms.mu.Lock()
		now := time.Now()
		for key, item := range ms.items {
			if now.After(item.expireTime) {
				delete(ms.items, key)
			}
		}
		ms.mu.Unlock()
	}
}
