package ports

import "FleetFuel/internal/core/domain"

// SessionStore keeps one conversation session per user.
type SessionStore interface {
	// Get returns a copy of the user's session, or a StateNone session.
	Get(userID int64) domain.Session
	// Save replaces the user's session. Saving StateNone clears it.
	Save(session domain.Session)
	Clear(userID int64)
}
