package handlers

import (
	"FleetFuel/internal/bot"
	"FleetFuel/internal/bot/messages"
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"FleetFuel/internal/core/services"
	"context"

	"github.com/rs/zerolog"
)

func init() {
	bot.RegisterAction(NewStartHandler)
	bot.RegisterAction(NewCancelHandler)
}

// startHandler is the plugin for the /start command.
type startHandler struct {
	screen
	log      zerolog.Logger
	users    *services.UserService
	sessions ports.SessionStore
}

// NewStartHandler creates a new handler for the /start command.
func NewStartHandler(deps bot.Dependencies) ports.ActionHandler {
	return &startHandler{
		screen:   screen{bot: deps.BotClient},
		log:      deps.Logger.With().Str("component", "start_handler").Logger(),
		users:    deps.Users,
		sessions: deps.Sessions,
	}
}

func (h *startHandler) Routes() []ports.Route {
	return []ports.Route{{State: ports.AnyState, Tag: messages.CommandStart}}
}

// Handle answers /start according to the caller's approval status.
func (h *startHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	log := h.log.With().Int64("user_id", update.UserID).Logger()

	user, err := h.users.Lookup(ctx, update.UserID)
	if err != nil {
		return err
	}

	if user == nil {
		log.Info().Msg("Unknown user, starting registration")
		h.sessions.Save(domain.Session{UserID: update.UserID, State: domain.StateAwaitingPhone})

		msg := messages.NewBuilder(update.ChatID).
			WithText(messages.TextWelcome).
			WithContactButton(messages.TextShareContact).
			Build()
		_, err := h.bot.SendMessage(ctx, msg)
		return err
	}

	log.Info().Str("status", string(user.Status)).Msg("Existing user")
	switch user.Status {
	case domain.StatusRejected:
		// Rejected users get no answer at all
		h.sessions.Clear(update.UserID)
		return nil
	case domain.StatusApproved:
		h.sessions.Save(domain.Session{UserID: update.UserID, State: domain.StateMainMenu})
		return h.send(ctx, update.ChatID, messages.TextMainMenu, messages.MainMenuKeyboard())
	default:
		h.sessions.Save(domain.Session{UserID: update.UserID, State: domain.StateAwaitingApproval})
		return h.send(ctx, update.ChatID, messages.TextAlreadySubmitted, nil)
	}
}

// cancelHandler drops whatever flow the user is in.
type cancelHandler struct {
	screen
	sessions ports.SessionStore
}

func NewCancelHandler(deps bot.Dependencies) ports.ActionHandler {
	return &cancelHandler{
		screen:   screen{bot: deps.BotClient},
		sessions: deps.Sessions,
	}
}

func (h *cancelHandler) Routes() []ports.Route {
	return []ports.Route{{State: ports.AnyState, Tag: messages.CommandCancel}}
}

func (h *cancelHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	h.sessions.Clear(update.UserID)
	msg := messages.NewBuilder(update.ChatID).
		WithText(messages.TextCancelled).
		WithRemoveKeyboard().
		Build()
	_, err := h.bot.SendMessage(ctx, msg)
	return err
}
