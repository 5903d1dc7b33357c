package handlers

import (
	"FleetFuel/internal/adapters/session"
	"FleetFuel/internal/bot"
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"FleetFuel/internal/core/services"
	"context"
	"time"

	"github.com/rs/zerolog"
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

type MockAdminRegistry struct {
	mock.Mock
}

var _ ports.AdminRegistry = (*MockAdminRegistry)(nil)

func (m *MockAdminRegistry) IsAdmin(id int64) bool {
	args := m.Called(id)
	return args.Bool(0)
}
func (m *MockAdminRegistry) IDs() []int64 {
	args := m.Called()
	return args.Get(0).([]int64)
}
func (m *MockAdminRegistry) Refresh(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// --- Fixture ---

var testNow = time.Date(2025, 3, 10, 21, 30, 0, 0, time.UTC)

type fixture struct {
	users    *MockUserRepository
	vehicles *MockVehicleRepository
	changes  *MockChangeLogRepository
	bus      *MockEventBus
	client   *MockBotClient
	admins   *MockAdminRegistry
	sessions ports.SessionStore
	deps     bot.Dependencies
}

func newFixture() *fixture {
	nopLogger := zerolog.Nop()
	clock := func() time.Time { return testNow }

	f := &fixture{
		users:    new(MockUserRepository),
		vehicles: new(MockVehicleRepository),
		changes:  new(MockChangeLogRepository),
		bus:      new(MockEventBus),
		client:   new(MockBotClient),
		admins:   new(MockAdminRegistry),
		sessions: session.NewMemoryStore(&nopLogger),
	}
	f.deps = bot.Dependencies{
		Users:     services.NewUserService(f.users, f.bus, clock, time.UTC, &nopLogger),
		Fleet:     services.NewFleetService(f.users, f.vehicles, f.changes, 5, clock, time.UTC, &nopLogger),
		Messaging: services.NewMessagingService(f.users, f.client, &nopLogger),
		Admins:    f.admins,
		Sessions:  f.sessions,
		BotClient: f.client,
		Logger:    &nopLogger,
	}
	return f
}

// handle runs h with the user's current session, as the router would.
func (f *fixture) handle(h ports.ActionHandler, u *ports.BotUpdate) error {
	s := f.sessions.Get(u.UserID)
	return h.Handle(context.Background(), u, &s)
}

func textFrom(userID int64, text string) *ports.BotUpdate {
	return &ports.BotUpdate{MessageID: 10, ChatID: userID, UserID: userID, Text: text, Tag: ports.TextTag}
}

func commandFrom(userID int64, command string) *ports.BotUpdate {
	return &ports.BotUpdate{MessageID: 10, ChatID: userID, UserID: userID, Text: "/" + command, Command: command, Tag: command}
}

func callbackFrom(userID int64, tag, param string) *ports.BotUpdate {
	data := tag
	if param != "" {
		data += ":" + param
	}
	return &ports.BotUpdate{
		MessageID:       20,
		ChatID:          userID,
		UserID:          userID,
		CallbackQueryID: "cb",
		CallbackData:    &data,
		Tag:             tag,
		Param:           param,
	}
}

func sent(chatID int64, text string) interface{} {
	return mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == chatID && p.Text == text
	})
}

func edited(chatID int64, messageID int, text string) interface{} {
	return mock.MatchedBy(func(p ports.EditMessageParams) bool {
		return p.ChatID == chatID && p.MessageID == messageID && p.Text == text
	})
}
