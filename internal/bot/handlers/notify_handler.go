package handlers

import (
	"FleetFuel/internal/bot"
	"FleetFuel/internal/bot/messages"
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"FleetFuel/internal/core/services"
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

func init() {
	bot.RegisterAction(NewNotifyHandler)
	bot.RegisterAction(NewComposeHandler)
}

// notifyHandler lets an administrator pick the recipient of a message.
type notifyHandler struct {
	screen
	users    *services.UserService
	sessions ports.SessionStore
}

func NewNotifyHandler(deps bot.Dependencies) ports.ActionHandler {
	return &notifyHandler{
		screen:   screen{bot: deps.BotClient},
		users:    deps.Users,
		sessions: deps.Sessions,
	}
}

func (h *notifyHandler) Routes() []ports.Route {
	return []ports.Route{
		{State: ports.AnyState, Tag: messages.CallbackAdminNotify},
		{State: ports.AnyState, Tag: messages.CallbackSelectUser},
	}
}

func (h *notifyHandler) AdminOnly() bool { return true }

func (h *notifyHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	if update.Tag == messages.CallbackSelectUser {
		return h.selectRecipient(ctx, update)
	}

	recipients, err := h.users.Recipients(ctx)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return h.edit(ctx, update, messages.TextNoRecipients, messages.BackToAdminMenuKeyboard())
	}

	h.sessions.Save(domain.Session{UserID: update.UserID, State: domain.StateAdminSelectingRecipient})
	return h.edit(ctx, update, messages.TextChooseRecipient, messages.RecipientKeyboard(recipients))
}

func (h *notifyHandler) selectRecipient(ctx context.Context, update *ports.BotUpdate) error {
	targetID, ok := parseTelegramID(update.Param)
	if !ok {
		update.Notice = messages.TextBadUserID
		return nil
	}

	user, err := h.users.Lookup(ctx, targetID)
	if err != nil {
		return err
	}
	if user == nil {
		h.sessions.Clear(update.UserID)
		return h.send(ctx, update.ChatID, messages.TextRecipientNotFound, messages.BackToAdminMenuKeyboard())
	}

	h.sessions.Save(domain.Session{
		UserID:       update.UserID,
		State:        domain.StateAdminComposingMessage,
		TargetUserID: user.TelegramID,
		TargetName:   user.FullName,
	})
	return h.send(ctx, update.ChatID, messages.ComposePrompt(user.FullName), nil)
}

// composeHandler delivers the administrator's next text to the chosen user.
type composeHandler struct {
	screen
	log       zerolog.Logger
	messaging *services.MessagingService
	sessions  ports.SessionStore
}

func NewComposeHandler(deps bot.Dependencies) ports.ActionHandler {
	return &composeHandler{
		screen:    screen{bot: deps.BotClient},
		log:       deps.Logger.With().Str("component", "compose_handler").Logger(),
		messaging: deps.Messaging,
		sessions:  deps.Sessions,
	}
}

func (h *composeHandler) Routes() []ports.Route {
	return []ports.Route{{State: domain.StateAdminComposingMessage, Tag: ports.TextTag}}
}

func (h *composeHandler) AdminOnly() bool { return true }

func (h *composeHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	if strings.TrimSpace(update.Text) == "" {
		return h.send(ctx, update.ChatID, messages.TextEmptyBroadcast, nil)
	}

	h.sessions.Clear(update.UserID)

	backToMenu := messages.Inline(messages.BackToMainMenuKeyboard())
	_, err := h.messaging.BroadcastTo(ctx, session.TargetUserID, update.Text, backToMenu)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return h.send(ctx, update.ChatID, messages.TextRecipientNotFound, messages.BackToAdminMenuKeyboard())
	case errors.Is(err, domain.ErrDelivery):
		h.log.Warn().Err(err).Int64("target_id", session.TargetUserID).Msg("Broadcast not delivered")
		return h.send(ctx, update.ChatID, messages.DeliveryFailed(err), messages.BackToAdminMenuKeyboard())
	case err != nil:
		return err
	}

	return h.send(ctx, update.ChatID, messages.MessageSent(session.TargetName), messages.BackToAdminMenuKeyboard())
}
