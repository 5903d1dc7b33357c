package bot

import (
	"FleetFuel/internal/adapters/session"
	"FleetFuel/internal/bot/messages"
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

// MockBotClient is a mock for the BotClientPort
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

type MockUserDirectory struct {
	mock.Mock
}

var _ ports.UserDirectory = (*MockUserDirectory)(nil)

func (m *MockUserDirectory) Lookup(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockActionHandler is a mock "plugin"
type MockActionHandler struct {
	mock.Mock
	routes   []ports.Route
	admin    bool
	approved bool
}

func (m *MockActionHandler) Routes() []ports.Route {
	return m.routes
}
func (m *MockActionHandler) AdminOnly() bool {
	return m.admin
}
func (m *MockActionHandler) ApprovedOnly() bool {
	return m.approved
}
func (m *MockActionHandler) Handle(ctx context.Context, update *ports.BotUpdate, s *domain.Session) error {
	args := m.Called(ctx, update, s)
	return args.Error(0)
}

// --- Helpers ---

type routerFixture struct {
	router   *Router
	sessions ports.SessionStore
	admins   *MockAdminRegistry
	users    *MockUserDirectory
	client   *MockBotClient
}

func newRouterFixture() routerFixture {
	nopLogger := zerolog.Nop()
	f := routerFixture{
		sessions: session.NewMemoryStore(&nopLogger),
		admins:   new(MockAdminRegistry),
		users:    new(MockUserDirectory),
		client:   new(MockBotClient),
	}
	f.router = NewRouter(f.sessions, f.admins, f.users, f.client, &nopLogger)
	return f
}

func commandUpdate(userID int64, text string, length int) *tgbotapi.Update {
	return &tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 456,
			From:      &tgbotapi.User{ID: userID},
			Chat:      &tgbotapi.Chat{ID: userID},
			Text:      text,
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
		},
	}
}

func textUpdate(userID int64, text string) *tgbotapi.Update {
	return &tgbotapi.Update{
		UpdateID: 2,
		Message: &tgbotapi.Message{
			MessageID: 457,
			From:      &tgbotapi.User{ID: userID},
			Chat:      &tgbotapi.Chat{ID: userID},
			Text:      text,
		},
	}
}

func callbackUpdate(userID int64, data string) *tgbotapi.Update {
	return &tgbotapi.Update{
		UpdateID: 3,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb_1",
			From:    &tgbotapi.User{ID: userID},
			Message: &tgbotapi.Message{MessageID: 458, Chat: &tgbotapi.Chat{ID: userID}},
			Data:    data,
		},
	}
}

func withTag(tag, param string) interface{} {
	return mock.MatchedBy(func(u *ports.BotUpdate) bool {
		return u.Tag == tag && u.Param == param
	})
}

func inState(state domain.SessionState) interface{} {
	return mock.MatchedBy(func(s *domain.Session) bool { return s.State == state })
}

// --- Tests ---

func TestRouter_Command(t *testing.T) {
	ctx := context.Background()
	f := newRouterFixture()

	start := &MockActionHandler{routes: []ports.Route{{State: ports.AnyState, Tag: "start"}}}
	help := &MockActionHandler{routes: []ports.Route{{State: ports.AnyState, Tag: "help"}}}
	start.On("Handle", mock.Anything, withTag("start", ""), inState(domain.StateNone)).Return(nil).Once()
	f.router.Register(start)
	f.router.Register(help)

	f.router.HandleUpdate(ctx, commandUpdate(789, "/start", 6))

	start.AssertExpectations(t)
	help.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything, mock.Anything)
	f.client.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestRouter_CallbackSplitsParamAndAnswers(t *testing.T) {
	ctx := context.Background()
	f := newRouterFixture()

	info := &MockActionHandler{routes: []ports.Route{{State: ports.AnyState, Tag: "car_info"}}}
	info.On("Handle", mock.Anything, withTag("car_info", "А123ВС"), mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*ports.BotUpdate).Notice = "ok"
		}).
		Return(nil).Once()
	f.router.Register(info)
	f.client.On("AnswerCallbackQuery", mock.Anything, ports.AnswerCallbackParams{
		CallbackQueryID: "cb_1",
		Text:            "ok",
	}).Return(nil).Once()

	f.router.HandleUpdate(ctx, callbackUpdate(789, "car_info:А123ВС"))

	info.AssertExpectations(t)
	f.client.AssertExpectations(t)
}

func TestRouter_ExactStateWinsOverAnyState(t *testing.T) {
	ctx := context.Background()
	f := newRouterFixture()

	generic := &MockActionHandler{routes: []ports.Route{{State: ports.AnyState, Tag: ports.TextTag}}}
	stock := &MockActionHandler{routes: []ports.Route{{State: domain.StateEnteringStock, Tag: ports.TextTag}}}
	stock.On("Handle", mock.Anything, withTag(ports.TextTag, ""), inState(domain.StateEnteringStock)).Return(nil).Once()
	generic.On("Handle", mock.Anything, withTag(ports.TextTag, ""), inState(domain.StateNone)).Return(nil).Once()
	f.router.Register(generic)
	f.router.Register(stock)

	f.sessions.Save(domain.Session{UserID: 789, State: domain.StateEnteringStock, SelectedVehicle: "A1"})
	f.router.HandleUpdate(ctx, textUpdate(789, "40"))

	f.router.HandleUpdate(ctx, textUpdate(790, "hello"))

	stock.AssertExpectations(t)
	generic.AssertExpectations(t)
}

func TestRouter_UnknownCallbackAnswersNotFound(t *testing.T) {
	ctx := context.Background()
	f := newRouterFixture()

	f.client.On("AnswerCallbackQuery", mock.Anything, ports.AnswerCallbackParams{
		CallbackQueryID: "cb_1",
		Text:            messages.TextActionNotFound,
	}).Return(nil).Once()
	f.users.On("Lookup", mock.Anything, int64(789)).Return(&domain.User{TelegramID: 789, Status: domain.StatusApproved}, nil).Once()

	f.sessions.Save(domain.Session{UserID: 789, State: domain.StateEnteringStock})
	f.router.HandleUpdate(ctx, callbackUpdate(789, "no_such_action:1"))

	f.client.AssertExpectations(t)
	f.client.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	assert.Equal(t, domain.StateEnteringStock, f.sessions.Get(789).State)
}

func TestRouter_UnhandledTextGetsHint(t *testing.T) {
	ctx := context.Background()
	f := newRouterFixture()

	f.client.On("SendMessage", mock.Anything, ports.SendMessageParams{
		ChatID: 789,
		Text:   messages.TextUnknownInput,
	}).Return(0, nil).Once()
	f.users.On("Lookup", mock.Anything, int64(789)).Return(nil, nil).Once()

	f.router.HandleUpdate(ctx, textUpdate(789, "hello world"))

	f.client.AssertExpectations(t)
}

func rejectedUser(id int64) *domain.User {
	return &domain.User{TelegramID: id, FullName: "Иванов", Status: domain.StatusRejected}
}

func TestRouter_RejectedUserGetsNoReply(t *testing.T) {
	ctx := context.Background()
	f := newRouterFixture()

	report := &MockActionHandler{
		routes: []ports.Route{
			{State: ports.AnyState, Tag: "enter_physical_stock"},
			{State: ports.AnyState, Tag: "select_physical_car"},
			{State: domain.StateEnteringStock, Tag: ports.TextTag},
		},
		approved: true,
	}
	f.router.Register(report)

	f.admins.On("IsAdmin", int64(789)).Return(false)
	f.users.On("Lookup", mock.Anything, int64(789)).Return(rejectedUser(789), nil)
	// Only the spinner is stopped, without a notice
	f.client.On("AnswerCallbackQuery", mock.Anything, ports.AnswerCallbackParams{CallbackQueryID: "cb_1"}).Return(nil).Twice()

	f.router.HandleUpdate(ctx, textUpdate(789, "hello"))
	f.router.HandleUpdate(ctx, callbackUpdate(789, "enter_physical_stock"))
	f.router.HandleUpdate(ctx, callbackUpdate(789, "select_physical_car:A1"))

	// A flow left over from before the rejection is dead too
	f.sessions.Save(domain.Session{UserID: 789, State: domain.StateEnteringStock, SelectedVehicle: "A1"})
	f.router.HandleUpdate(ctx, textUpdate(789, "40"))

	report.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything, mock.Anything)
	f.client.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	f.client.AssertNotCalled(t, "EditMessageText", mock.Anything, mock.Anything)
	f.client.AssertExpectations(t)
}

func TestRouter_ApprovedOnlyGate(t *testing.T) {
	ctx := context.Background()
	f := newRouterFixture()

	list := &MockActionHandler{
		routes:   []ports.Route{{State: ports.AnyState, Tag: "view_cars"}},
		approved: true,
	}
	f.router.Register(list)
	f.admins.On("IsAdmin", mock.Anything).Return(false)

	// Pending: told to wait
	f.users.On("Lookup", mock.Anything, int64(10)).Return(&domain.User{TelegramID: 10, Status: domain.StatusPending}, nil).Once()
	f.client.On("AnswerCallbackQuery", mock.Anything, ports.AnswerCallbackParams{
		CallbackQueryID: "cb_1",
		Text:            messages.TextApprovalRequired,
	}).Return(nil).Once()
	f.router.HandleUpdate(ctx, callbackUpdate(10, "view_cars"))
	list.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything, mock.Anything)

	// Approved: handled
	f.users.On("Lookup", mock.Anything, int64(11)).Return(&domain.User{TelegramID: 11, Status: domain.StatusApproved}, nil).Once()
	f.client.On("AnswerCallbackQuery", mock.Anything, ports.AnswerCallbackParams{CallbackQueryID: "cb_1"}).Return(nil).Once()
	list.On("Handle", mock.Anything, withTag("view_cars", ""), mock.Anything).Return(nil).Once()
	f.router.HandleUpdate(ctx, callbackUpdate(11, "view_cars"))

	// Store failure: apology, no handler
	f.users.On("Lookup", mock.Anything, int64(12)).Return(nil, errors.New("sheets down")).Once()
	f.client.On("SendMessage", mock.Anything, ports.SendMessageParams{ChatID: 12, Text: messages.TextGenericError}).Return(0, nil).Once()
	f.client.On("AnswerCallbackQuery", mock.Anything, ports.AnswerCallbackParams{CallbackQueryID: "cb_1"}).Return(nil).Once()
	f.router.HandleUpdate(ctx, callbackUpdate(12, "view_cars"))

	list.AssertExpectations(t)
	f.users.AssertExpectations(t)
	f.client.AssertExpectations(t)
}

func TestRouter_AdminOnlyGate(t *testing.T) {
	ctx := context.Background()
	f := newRouterFixture()

	panel := &MockActionHandler{
		routes: []ports.Route{{State: ports.AnyState, Tag: "admin"}},
		admin:  true,
	}
	f.router.Register(panel)

	f.admins.On("IsAdmin", int64(789)).Return(false).Once()
	f.client.On("SendMessage", mock.Anything, ports.SendMessageParams{
		ChatID: 789,
		Text:   messages.TextNoAccess,
	}).Return(0, nil).Once()

	f.router.HandleUpdate(ctx, commandUpdate(789, "/admin", 6))
	panel.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything, mock.Anything)

	f.admins.On("IsAdmin", int64(1)).Return(true).Once()
	panel.On("Handle", mock.Anything, withTag("admin", ""), mock.Anything).Return(nil).Once()

	f.router.HandleUpdate(ctx, commandUpdate(1, "/admin", 6))

	panel.AssertExpectations(t)
	f.admins.AssertExpectations(t)
	f.client.AssertExpectations(t)
}

func TestRouter_HandlerErrorGetsApology(t *testing.T) {
	ctx := context.Background()
	f := newRouterFixture()

	broken := &MockActionHandler{routes: []ports.Route{{State: ports.AnyState, Tag: "view_cars"}}}
	broken.On("Handle", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("sheets down")).Once()
	f.router.Register(broken)

	f.client.On("SendMessage", mock.Anything, ports.SendMessageParams{
		ChatID: 789,
		Text:   messages.TextGenericError,
	}).Return(0, nil).Once()
	f.client.On("AnswerCallbackQuery", mock.Anything, mock.Anything).Return(nil).Once()

	f.router.HandleUpdate(ctx, callbackUpdate(789, "view_cars"))

	f.client.AssertExpectations(t)
}

func TestRouter_DuplicateRoutePanics(t *testing.T) {
	f := newRouterFixture()
	route := []ports.Route{{State: ports.AnyState, Tag: "start"}}

	f.router.Register(&MockActionHandler{routes: route})

	assert.Panics(t, func() {
		f.router.Register(&MockActionHandler{routes: route})
	})
}

func TestParseUpdate(t *testing.T) {
	t.Run("own contact", func(t *testing.T) {
		u, ok := parseUpdate(&tgbotapi.Update{Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: 5},
			Chat:      &tgbotapi.Chat{ID: 5},
			Contact:   &tgbotapi.Contact{PhoneNumber: "79001234567", UserID: 5},
		}})

		require.True(t, ok)
		assert.Equal(t, "79001234567", u.ContactPhone)
	})

	t.Run("someone else's contact", func(t *testing.T) {
		u, ok := parseUpdate(&tgbotapi.Update{Message: &tgbotapi.Message{
			From:    &tgbotapi.User{ID: 5},
			Chat:    &tgbotapi.Chat{ID: 5},
			Contact: &tgbotapi.Contact{PhoneNumber: "79001234567", UserID: 6},
		}})

		require.True(t, ok)
		assert.Empty(t, u.ContactPhone)
	})

	t.Run("inline callback without message", func(t *testing.T) {
		_, ok := parseUpdate(&tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "x",
			From: &tgbotapi.User{ID: 5},
			Data: "view_cars",
		}})

		assert.False(t, ok)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, ok := parseUpdate(&tgbotapi.Update{UpdateID: 9})
		assert.False(t, ok)
	})
}

func TestTagUpdate(t *testing.T) {
	data := "view_cars_page:3"
	u := &ports.BotUpdate{CallbackData: &data}
	tagUpdate(u)
	assert.Equal(t, "view_cars_page", u.Tag)
	assert.Equal(t, "3", u.Param)

	plain := "main_menu"
	u = &ports.BotUpdate{CallbackData: &plain}
	tagUpdate(u)
	assert.Equal(t, "main_menu", u.Tag)
	assert.Empty(t, u.Param)

	u = &ports.BotUpdate{Command: "cancel", Text: "/cancel"}
	tagUpdate(u)
	assert.Equal(t, "cancel", u.Tag)

	u = &ports.BotUpdate{Text: "+79001234567"}
	tagUpdate(u)
	assert.Equal(t, ports.TextTag, u.Tag)
}
