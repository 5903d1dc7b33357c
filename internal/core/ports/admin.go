package ports

import (
	"FleetFuel/internal/core/domain"
	"context"
)

// AdminRegistry answers who may use administrator actions.
type AdminRegistry interface {
	IsAdmin(telegramID int64) bool
	IDs() []int64
	Refresh(ctx context.Context) (int, error)
}

// UserDirectory resolves a sender to their identity row; nil means unknown.
type UserDirectory interface {
	Lookup(ctx context.Context, telegramID int64) (*domain.User, error)
}
