package session

import (
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"sync"

	"github.com/rs/zerolog"
)

// memoryStore keeps sessions in process memory. Nothing survives a restart.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]domain.Session
	log      zerolog.Logger
}

var _ ports.SessionStore = (*memoryStore)(nil)

// NewMemoryStore constructs an empty in-memory session store.
func NewMemoryStore(baseLogger *zerolog.Logger) ports.SessionStore {
	return &memoryStore{
		sessions: make(map[int64]domain.Session),
		log:      baseLogger.With().Str("component", "session_store").Logger(),
	}
}

// Get returns a copy so callers can mutate it freely before Save.
func (m *memoryStore) Get(userID int64) domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, ok := m.sessions[userID]; ok {
		return s
	}
	return domain.Session{UserID: userID, State: domain.StateNone}
}

func (m *memoryStore) Save(s domain.Session) {
	if s.State == domain.StateNone || s.State == "" {
		m.Clear(s.UserID)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.UserID] = s
	m.log.Debug().Int64("user_id", s.UserID).Str("state", string(s.State)).Msg("Session saved")
}

func (m *memoryStore) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
