package handlers

import (
	"FleetFuel/internal/bot/messages"
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotificationHandler_RegisteredPromptsEveryAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	h := NewNotificationHandler(f.deps)

	user := &domain.User{TelegramID: 42, Phone: "+79001234567", FullName: "Иванов", RegisteredAt: testNow}
	f.admins.On("IDs").Return([]int64{1, 2, 3}).Once()

	approvalPrompt := func(adminID int64) interface{} {
		return mock.MatchedBy(func(p ports.SendMessageParams) bool {
			return p.ChatID == adminID &&
				p.Text == messages.ApprovalRequest(user) &&
				p.ReplyMarkup.Buttons[0][0].Data == "confirm_user:42" &&
				p.ReplyMarkup.Buttons[1][0].Data == "block_user:42"
		})
	}
	f.client.On("SendMessage", mock.Anything, approvalPrompt(1)).Return(1, nil).Once()
	f.client.On("SendMessage", mock.Anything, approvalPrompt(2)).Return(0, errors.New("chat not found")).Once()
	f.client.On("SendMessage", mock.Anything, approvalPrompt(3)).Return(1, nil).Once()

	err := h.HandleUserRegistered(ctx, ports.Event{Topic: domain.TopicUserRegistered, Data: user})

	require.NoError(t, err)
	f.client.AssertExpectations(t)
}

func TestNotificationHandler_Approved(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	h := NewNotificationHandler(f.deps)
	f.sessions.Save(domain.Session{UserID: 42, State: domain.StateAwaitingApproval})

	f.client.On("SendMessage", mock.Anything, sent(42, messages.TextApproved)).Return(1, nil).Once()

	err := h.HandleUserApproved(ctx, ports.Event{Data: &domain.User{TelegramID: 42}})

	require.NoError(t, err)
	assert.Equal(t, domain.StateMainMenu, f.sessions.Get(42).State)
}

func TestNotificationHandler_Rejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	h := NewNotificationHandler(f.deps)
	f.sessions.Save(domain.Session{UserID: 42, State: domain.StateAwaitingApproval})

	f.client.On("SendMessage", mock.Anything, sent(42, messages.TextRejected)).Return(1, nil).Once()

	err := h.HandleUserRejected(ctx, ports.Event{Data: &domain.User{TelegramID: 42}})

	require.NoError(t, err)
	assert.Equal(t, domain.StateNone, f.sessions.Get(42).State)
}

func TestNotificationHandler_IgnoresForeignPayload(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	h := NewNotificationHandler(f.deps)

	assert.NoError(t, h.HandleUserApproved(ctx, ports.Event{Data: "not a user"}))
	f.client.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestSubscribeNotifications(t *testing.T) {
	f := newFixture()

	f.bus.On("Subscribe", domain.TopicUserRegistered, mock.Anything).Once()
	f.bus.On("Subscribe", domain.TopicUserApproved, mock.Anything).Once()
	f.bus.On("Subscribe", domain.TopicUserRejected, mock.Anything).Once()

	SubscribeNotifications(f.deps, f.bus)

	f.bus.AssertExpectations(t)
}
