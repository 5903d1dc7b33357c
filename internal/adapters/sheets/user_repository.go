package sheets

import (
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Identity sheet columns: Phone, FullName, RegistrationDate, Status,
// TelegramID, Availability, Role.
const (
	colUserPhone = iota
	colUserName
	colUserRegistered
	colUserStatus
	colUserTelegramID
	colUserAvailability
	colUserRole
)

const (
	userRange        = "A:G"
	userStatusCol    = "D"
	userAvailableCol = "F"
)

type userRepository struct {
	api   ValuesAPI
	sheet string
	loc   *time.Location
	log   zerolog.Logger
}

var _ ports.UserRepository = (*userRepository)(nil) // Ensure compliance

// NewUserRepository creates the identity store on top of a sheet.
func NewUserRepository(api ValuesAPI, sheet string, loc *time.Location, baseLogger *zerolog.Logger) ports.UserRepository {
	return &userRepository{
		api:   api,
		sheet: sheet,
		loc:   loc,
		log:   baseLogger.With().Str("component", "user_repo").Logger(),
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	row := []interface{}{
		user.Phone,
		user.FullName,
		user.RegisteredAt.In(r.loc).Format(TimeLayout),
		string(user.Status),
		strconv.FormatInt(user.TelegramID, 10),
		string(user.Availability),
		string(user.Role),
	}

	if err := r.api.Append(ctx, a1(r.sheet, userRange), [][]interface{}{row}); err != nil {
		r.log.Error().Err(err).Int64("telegram_id", user.TelegramID).Msg("Failed to append user")
		return err
	}
	return nil
}

func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	user, _, err := r.find(ctx, telegramID)
	return user, err
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.api.Get(ctx, a1(r.sheet, userRange))
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to read users")
		return nil, err
	}

	var users []*domain.User
	for i, row := range rows {
		if i == 0 { // header
			continue
		}
		if user, ok := r.parseRow(row); ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *userRepository) UpdateStatus(ctx context.Context, telegramID int64, status domain.UserStatus) error {
	return r.updateCell(ctx, telegramID, userStatusCol, string(status))
}

func (r *userRepository) UpdateAvailability(ctx context.Context, telegramID int64, availability domain.Availability) error {
	return r.updateCell(ctx, telegramID, userAvailableCol, string(availability))
}

func (r *userRepository) updateCell(ctx context.Context, telegramID int64, col, value string) error {
	user, rowNumber, err := r.find(ctx, telegramID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %d: %w", telegramID, domain.ErrNotFound)
	}

	rng := a1(r.sheet, fmt.Sprintf("%s%d", col, rowNumber))
	if err := r.api.Update(ctx, rng, [][]interface{}{{value}}); err != nil {
		r.log.Error().Err(err).Int64("telegram_id", telegramID).Str("range", rng).Msg("Failed to update user cell")
		return err
	}
	return nil
}

// find scans the sheet and returns the first row with the id together with
// its 1-based sheet row number.
func (r *userRepository) find(ctx context.Context, telegramID int64) (*domain.User, int, error) {
	rows, err := r.api.Get(ctx, a1(r.sheet, userRange))
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to read users")
		return nil, 0, err
	}

	for i, row := range rows {
		if i == 0 {
			continue
		}
		user, ok := r.parseRow(row)
		if ok && user.TelegramID == telegramID {
			return user, i + 1, nil
		}
	}
	return nil, 0, nil
}

// parseRow skips rows whose Telegram ID is not a number.
func (r *userRepository) parseRow(row []interface{}) (*domain.User, bool) {
	id, err := strconv.ParseInt(cell(row, colUserTelegramID), 10, 64)
	if err != nil {
		return nil, false
	}

	user := &domain.User{
		TelegramID:   id,
		Phone:        cell(row, colUserPhone),
		FullName:     cell(row, colUserName),
		Status:       domain.UserStatus(cell(row, colUserStatus)),
		Availability: domain.Availability(cell(row, colUserAvailability)),
		Role:         domain.UserRole(cell(row, colUserRole)),
	}
	if ts, err := time.ParseInLocation(TimeLayout, cell(row, colUserRegistered), r.loc); err == nil {
		user.RegisteredAt = ts
	}
	return user, true
}
