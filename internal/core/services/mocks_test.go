package services

import (
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockUserRepository struct {
	mock.Mock
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepository) GetByTelegramID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}
func (m *MockUserRepository) UpdateStatus(ctx context.Context, id int64, status domain.UserStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockUserRepository) UpdateAvailability(ctx context.Context, id int64, availability domain.Availability) error {
	args := m.Called(ctx, id, availability)
	return args.Error(0)
}

type MockVehicleRepository struct {
	mock.Mock
}

var _ ports.VehicleRepository = (*MockVehicleRepository)(nil)

func (m *MockVehicleRepository) List(ctx context.Context) ([]domain.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepository) Get(ctx context.Context, id string) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepository) UpdateStock(ctx context.Context, id string, stock int, at time.Time) error {
	args := m.Called(ctx, id, stock, at)
	return args.Error(0)
}

type MockChangeLogRepository struct {
	mock.Mock
}

var _ ports.ChangeLogRepository = (*MockChangeLogRepository)(nil)

func (m *MockChangeLogRepository) Append(ctx context.Context, record *domain.ChangeRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *MockChangeLogRepository) List(ctx context.Context) ([]domain.ChangeRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChangeRecord), args.Error(1)
}

type MockEventBus struct {
	mock.Mock
}

var _ ports.EventBus = (*MockEventBus)(nil)

func (m *MockEventBus) Publish(ctx context.Context, topic string, data interface{}) error {
	args := m.Called(ctx, topic, data)
	return args.Error(0)
}
func (m *MockEventBus) Subscribe(topic string, handler ports.EventHandler) {
	m.Called(topic, handler)
}

type MockBotClient struct {
	mock.Mock
}

var _ ports.BotClientPort = (*MockBotClient)(nil)

func (m *MockBotClient) SendMessage(ctx context.Context, params ports.SendMessageParams) (int, error) {
	args := m.Called(ctx, params)
	return args.Int(0), args.Error(1)
}
func (m *MockBotClient) EditMessageText(ctx context.Context, params ports.EditMessageParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}
func (m *MockBotClient) AnswerCallbackQuery(ctx context.Context, params ports.AnswerCallbackParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}
func (m *MockBotClient) SetMenuCommands(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// fixedClock pins "now" to 2025-03-10 21:30:00 in Moscow.
func fixedClock(loc *time.Location) Clock {
	return func() time.Time {
		return time.Date(2025, 3, 10, 21, 30, 0, 0, loc)
	}
}
