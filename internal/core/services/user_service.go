package services

import (
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var phoneRegex = regexp.MustCompile(`^\+7\d{10}$`)

// ValidatePhone accepts only "+7" followed by ten digits.
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("phone %q: %w", phone, domain.ErrValidation)
	}
	return nil
}

// UserService runs the registration and approval workflow.
type UserService struct {
	users ports.UserRepository
	bus   ports.EventBus
	now   Clock
	loc   *time.Location
	log   zerolog.Logger
}

var _ ports.UserDirectory = (*UserService)(nil)

func NewUserService(
	users ports.UserRepository,
	bus ports.EventBus,
	now Clock,
	loc *time.Location,
	baseLogger *zerolog.Logger,
) *UserService {
	return &UserService{
		users: users,
		bus:   bus,
		now:   now,
		loc:   loc,
		log:   baseLogger.With().Str("component", "user_service").Logger(),
	}
}

// Lookup returns (nil, nil) for unknown users.
func (s *UserService) Lookup(ctx context.Context, telegramID int64) (*domain.User, error) {
	return s.users.GetByTelegramID(ctx, telegramID)
}

// Register appends a Pending row and announces it so administrators get an
// approval prompt.
func (s *UserService) Register(ctx context.Context, telegramID int64, phone, fullName string) (*domain.User, error) {
	log := s.log.With().Int64("telegram_id", telegramID).Logger()

	phone = strings.TrimSpace(phone)
	fullName = strings.TrimSpace(fullName)
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}
	if fullName == "" {
		return nil, fmt.Errorf("empty full name: %w", domain.ErrValidation)
	}

	existing, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, fmt.Errorf("user %d: %w", telegramID, domain.ErrAlreadyRegistered)
	}

	user := &domain.User{
		TelegramID:   telegramID,
		Phone:        phone,
		FullName:     fullName,
		RegisteredAt: s.now().In(s.loc),
		Status:       domain.StatusPending,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Info().Msg("User registered, awaiting approval")

	if err := s.bus.Publish(ctx, domain.TopicUserRegistered, user); err != nil {
		log.Error().Err(err).Msg("Failed to publish registration event")
	}
	return user, nil
}

// Approve marks the user Approved and Free. Repeating it simply overwrites.
func (s *UserService) Approve(ctx context.Context, telegramID int64) (*domain.User, error) {
	user, err := s.decide(ctx, telegramID, domain.StatusApproved)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateAvailability(ctx, telegramID, domain.AvailabilityFree); err != nil {
		return nil, err
	}
	user.Availability = domain.AvailabilityFree

	s.log.Info().Int64("telegram_id", telegramID).Msg("User approved")
	if err := s.bus.Publish(ctx, domain.TopicUserApproved, user); err != nil {
		s.log.Error().Err(err).Msg("Failed to publish 'user:approved' event")
	}
	return user, nil
}

// Reject marks the user Rejected. The row is kept.
func (s *UserService) Reject(ctx context.Context, telegramID int64) (*domain.User, error) {
	user, err := s.decide(ctx, telegramID, domain.StatusRejected)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("telegram_id", telegramID).Msg("User rejected")
	if err := s.bus.Publish(ctx, domain.TopicUserRejected, user); err != nil {
		s.log.Error().Err(err).Msg("Failed to publish 'user:rejected' event")
	}
	return user, nil
}

func (s *UserService) decide(ctx context.Context, telegramID int64, status domain.UserStatus) (*domain.User, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", telegramID, domain.ErrNotFound)
	}

	if err := s.users.UpdateStatus(ctx, telegramID, status); err != nil {
		return nil, err
	}
	user.Status = status
	return user, nil
}

// Recipients lists every named user, in store order, for the notify picker.
func (s *UserService) Recipients(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	var named []*domain.User
	for _, u := range users {
		if u.FullName != "" {
			named = append(named, u)
		}
	}
	return named, nil
}

// OnTrip lists users whose availability is OnTrip.
func (s *UserService) OnTrip(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	var onTrip []*domain.User
	for _, u := range users {
		if u.Availability == domain.AvailabilityOnTrip {
			onTrip = append(onTrip, u)
		}
	}
	return onTrip, nil
}
