package ports

import (
	"FleetFuel/internal/core/domain"
	"context"
	"time"
)

// UserRepository is the identity & approval store.
type UserRepository interface {
	// Create appends a new row.
	Create(ctx context.Context, user *domain.User) error

	// GetByTelegramID returns (nil, nil) when no row matches.
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)

	// List returns every row in store order.
	List(ctx context.Context) ([]*domain.User, error)

	// UpdateStatus and UpdateAvailability return domain.ErrNotFound when no row matches.
	UpdateStatus(ctx context.Context, telegramID int64, status domain.UserStatus) error
	UpdateAvailability(ctx context.Context, telegramID int64, availability domain.Availability) error
}

// VehicleRepository is the fleet status store.
type VehicleRepository interface {
	List(ctx context.Context) ([]domain.Vehicle, error)

	// Get returns (nil, nil) when no row matches.
	Get(ctx context.Context, vehicleID string) (*domain.Vehicle, error)

	// UpdateStock returns domain.ErrNotFound when no row matches.
	UpdateStock(ctx context.Context, vehicleID string, stock int, at time.Time) error
}

// ChangeLogRepository is the append-only change log.
type ChangeLogRepository interface {
	Append(ctx context.Context, record *domain.ChangeRecord) error

	// List returns records in append order.
	List(ctx context.Context) ([]domain.ChangeRecord, error)
}
