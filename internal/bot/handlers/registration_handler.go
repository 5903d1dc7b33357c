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
	bot.RegisterAction(NewRegistrationHandler)
}

// registrationHandler consumes the typed answers of the registration flow.
type registrationHandler struct {
	screen
	log      zerolog.Logger
	users    *services.UserService
	sessions ports.SessionStore
}

func NewRegistrationHandler(deps bot.Dependencies) ports.ActionHandler {
	return &registrationHandler{
		screen:   screen{bot: deps.BotClient},
		log:      deps.Logger.With().Str("component", "registration_handler").Logger(),
		users:    deps.Users,
		sessions: deps.Sessions,
	}
}

func (h *registrationHandler) Routes() []ports.Route {
	return []ports.Route{
		{State: domain.StateAwaitingPhone, Tag: ports.TextTag},
		{State: domain.StateAwaitingName, Tag: ports.TextTag},
		{State: domain.StateAwaitingApproval, Tag: ports.TextTag},
	}
}

func (h *registrationHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	switch session.State {
	case domain.StateAwaitingPhone:
		return h.handlePhone(ctx, update, session)
	case domain.StateAwaitingName:
		return h.handleName(ctx, update, session)
	default:
		return h.send(ctx, update.ChatID, messages.TextAlreadySubmitted, nil)
	}
}

func (h *registrationHandler) handlePhone(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	phone := strings.TrimSpace(update.Text)
	if update.ContactPhone != "" {
		phone = normalizeContactPhone(update.ContactPhone)
	}

	if err := services.ValidatePhone(phone); err != nil {
		h.log.Debug().Int64("user_id", update.UserID).Msg("Rejected phone number")
		return h.send(ctx, update.ChatID, messages.TextBadPhone, nil)
	}

	session.Phone = phone
	session.State = domain.StateAwaitingName
	h.sessions.Save(*session)

	msg := messages.NewBuilder(update.ChatID).
		WithText(messages.TextAskName).
		WithRemoveKeyboard().
		Build()
	_, err := h.bot.SendMessage(ctx, msg)
	return err
}

func (h *registrationHandler) handleName(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	_, err := h.users.Register(ctx, update.UserID, session.Phone, update.Text)
	switch {
	case errors.Is(err, domain.ErrValidation):
		return h.send(ctx, update.ChatID, messages.TextBadName, nil)
	case errors.Is(err, domain.ErrAlreadyRegistered):
		session.State = domain.StateAwaitingApproval
		h.sessions.Save(*session)
		return h.send(ctx, update.ChatID, messages.TextAlreadySubmitted, nil)
	case err != nil:
		return err
	}

	h.sessions.Save(domain.Session{UserID: update.UserID, State: domain.StateAwaitingApproval})
	return h.send(ctx, update.ChatID, messages.TextAwaitApproval, nil)
}

// normalizeContactPhone adds the '+' Telegram omits from shared contacts
// and maps the domestic 8 prefix to +7.
func normalizeContactPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	switch {
	case strings.HasPrefix(phone, "+"):
		return phone
	case len(phone) == 11 && strings.HasPrefix(phone, "8"):
		return "+7" + phone[1:]
	default:
		return "+" + phone
	}
}
