package repository

import (
	"context"
	"sync"
	"time"

	"github.com/commercegate/catalog-agent/pkg/domain/session"
)

// MemorySessionRepository is the single-process fallback used when redis is
// not configured.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
}

type memoryEntry struct {
	session   *session.Session
	expiresAt time.Time
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &MemorySessionRepository{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
	}
}

func (r *MemorySessionRepository) GetByID(_ context.Context, id string) (*session.Session, error) {
	r.mu.RLock()
	entry, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil, session.ErrSessionNotFound
	}
	if time.Now().After(entry.expiresAt) {
		r.mu.Lock()
		delete(r.sessions, id)
		r.mu.Unlock()
		return nil, session.ErrSessionNotFound
	}

	return entry.session, nil
}

func (r *MemorySessionRepository) Save(_ context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = memoryEntry{
		session:   s,
		expiresAt: time.Now().Add(r.ttl),
	}
	return nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}
