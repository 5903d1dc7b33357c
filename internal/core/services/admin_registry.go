package services

import (
	"FleetFuel/internal/core/ports"
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// AdminRegistry caches the Telegram IDs of identity rows marked as admins.
// It is loaded once at startup and reloaded only through Refresh.
type AdminRegistry struct {
	users ports.UserRepository
	log   zerolog.Logger

	mu  sync.RWMutex
	ids map[int64]struct{}
}

func NewAdminRegistry(users ports.UserRepository, baseLogger *zerolog.Logger) *AdminRegistry {
	return &AdminRegistry{
		users: users,
		log:   baseLogger.With().Str("component", "admin_registry").Logger(),
		ids:   make(map[int64]struct{}),
	}
}

// Refresh rescans the identity store and replaces the cached set.
// On error the previous set is kept.
func (r *AdminRegistry) Refresh(ctx context.Context) (int, error) {
	users, err := r.users.List(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to load administrators")
		return 0, err
	}

	ids := make(map[int64]struct{})
	for _, u := range users {
		if u.IsAdmin() {
			ids[u.TelegramID] = struct{}{}
		}
	}

	r.mu.Lock()
	r.ids = ids
	r.mu.Unlock()

	r.log.Info().Int("admins", len(ids)).Msg("Administrator list loaded")
	return len(ids), nil
}

func (r *AdminRegistry) IsAdmin(telegramID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ids[telegramID]
	return ok
}

// IDs returns the cached administrator IDs in ascending order.
func (r *AdminRegistry) IDs() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.ids))
	for id := range r.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

var _ ports.AdminRegistry = (*AdminRegistry)(nil)
