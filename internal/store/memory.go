package store

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reelcast/orchestrator/internal/domain"
)

const expiringSoonWindow = 5 * time.Minute

// MemoryStore is the in-memory SessionStore. Sessions do not survive a
// process restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	ttl      time.Duration

	// now is swapped out in tests.
	now func() time.Time
}

// NewMemoryStore creates a store whose sessions expire ttl after creation.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*domain.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

var _ SessionStore = (*MemoryStore)(nil)

func (m *MemoryStore) Create(session *domain.Session) bool {
	if session == nil || session.ID == "" {
		return false
	}
	now := m.now()
	session.CreatedAt = now
	session.ExpiresAt = now.Add(m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	log.Printf("INFO: session created: %s", session.ID)
	return true
}

func (m *MemoryStore) Get(sessionID string) *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return nil
	}
	if m.now().After(session.ExpiresAt) {
		delete(m.sessions, sessionID)
		log.Printf("INFO: session expired on read: %s", sessionID)
		return nil
	}
	// Readers get a snapshot; the stored struct is only ever touched under
	// the lock, through Update.
	out := *session
	return &out
}

func (m *MemoryStore) Update(sessionID string, mutate func(*domain.Session)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return false
	}
	now := m.now()
	if now.After(session.ExpiresAt) {
		delete(m.sessions, sessionID)
		return false
	}
	mutate(session)
	session.CreatedAt = now
	return true
}

func (m *MemoryStore) Delete(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return false
	}
	delete(m.sessions, sessionID)
	log.Printf("INFO: session deleted: %s", sessionID)
	return true
}

func (m *MemoryStore) Has(sessionID string) bool {
	return m.Get(sessionID) != nil
}

func (m *MemoryStore) Stats() domain.SessionStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	stats := domain.SessionStats{Total: len(m.sessions)}
	for _, session := range m.sessions {
		if now.Before(session.ExpiresAt) {
			stats.Active++
			if session.ExpiresAt.Sub(now) < expiringSoonWindow {
				stats.ExpiringSoon++
			}
		}
	}
	stats.Expired = stats.Total - stats.Active
	return stats
}

func (m *MemoryStore) ActiveSessions() []*domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var active []*domain.Session
	for _, session := range m.sessions {
		if now.Before(session.ExpiresAt) {
			out := *session
			active = append(active, &out)
		}
	}
	return active
}

func (m *MemoryStore) Clear() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := len(m.sessions)
	m.sessions = make(map[string]*domain.Session)
	if count > 0 {
		log.Printf("INFO: cleared %d sessions", count)
	}
	return count
}

// RunSweeper deletes expired entries on a fixed interval until ctx is
// cancelled. It guarantees bounded memory even when nothing reads the
// expired sessions.
func (m *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.SweepExpired(); n > 0 {
				log.Printf("INFO: swept %d expired sessions", n)
			}
		}
	}
}

// SweepExpired removes every session past its expiry and returns the count.
func (m *MemoryStore) SweepExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, session := range m.sessions {
		if now.After(session.ExpiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// NewSessionID builds an id from a prefix, a millisecond timestamp and a
// random suffix. The suffix carries 48 bits of entropy, so collisions are
// negligible.
func NewSessionID(prefix string) string {
	if prefix == "" {
		prefix = "VIDEO"
	}
	id := uuid.New()
	return fmt.Sprintf("%s-%d-%x", prefix, time.Now().UnixMilli(), id[:6])
}
