// Package store holds pending-approval sessions in memory with TTL expiry.
package store

import "github.com/reelcast/orchestrator/internal/domain"

// SessionStore is the single source of truth for pending approvals. All
// cross-pipeline shared state lives behind this interface.
type SessionStore interface {
	// Create inserts a session, stamping CreatedAt and ExpiresAt. It
	// returns false only on internal storage failure.
	Create(session *domain.Session) bool

	// Get returns a snapshot of the session, or nil if it is absent or
	// past its expiry. Expired entries are deleted on read. The returned
	// struct is the caller's own; later updates do not show through it.
	Get(sessionID string) *domain.Session

	// Update applies mutate to the stored session and refreshes CreatedAt.
	// It returns false if the session is absent or expired.
	Update(sessionID string, mutate func(*domain.Session)) bool

	// Delete removes the session, reporting whether it existed.
	Delete(sessionID string) bool

	// Has reports whether a live (non-expired) session exists.
	Has(sessionID string) bool

	// Stats scans all entries and aggregates counts. Active excludes
	// entries that have lazily expired but not yet been swept.
	Stats() domain.SessionStats

	// ActiveSessions returns snapshots of all live sessions.
	ActiveSessions() []*domain.Session

	// Clear removes every session and returns how many were removed.
	Clear() int
}
