package handlers

import (
	"FleetFuel/internal/bot"
	"FleetFuel/internal/bot/messages"
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"context"

	"github.com/rs/zerolog"
)

func init() {
	bot.RegisterSubscriber(SubscribeNotifications)
}

// NotificationHandler listens for internal events (from the EventBus)
// and sends messages to users and administrators.
type NotificationHandler struct {
	screen
	log      zerolog.Logger
	admins   ports.AdminRegistry
	sessions ports.SessionStore
}

// NewNotificationHandler creates the listener. It is not a routed action;
// it only reacts to bus events.
func NewNotificationHandler(deps bot.Dependencies) *NotificationHandler {
	return &NotificationHandler{
		screen:   screen{bot: deps.BotClient},
		log:      deps.Logger.With().Str("component", "notification_handler").Logger(),
		admins:   deps.Admins,
		sessions: deps.Sessions,
	}
}

// SubscribeNotifications wires the listener to its topics.
func SubscribeNotifications(deps bot.Dependencies, bus ports.EventBus) {
	h := NewNotificationHandler(deps)
	bus.Subscribe(domain.TopicUserRegistered, h.HandleUserRegistered)
	bus.Subscribe(domain.TopicUserApproved, h.HandleUserApproved)
	bus.Subscribe(domain.TopicUserRejected, h.HandleUserRejected)
}

// HandleUserRegistered sends the approval prompt to every administrator.
// One failed administrator does not stop the others.
func (h *NotificationHandler) HandleUserRegistered(ctx context.Context, event ports.Event) error {
	user, ok := event.Data.(*domain.User)
	if !ok {
		h.log.Error().Msg("Received invalid data for 'user:registered' event")
		return nil // Don't retry
	}

	text := messages.ApprovalRequest(user)
	keyboard := messages.ApprovalKeyboard(user.TelegramID)

	admins := h.admins.IDs()
	if len(admins) == 0 {
		h.log.Warn().Int64("user_id", user.TelegramID).Msg("No administrators to approve registration")
	}
	for _, adminID := range admins {
		if err := h.send(ctx, adminID, text, keyboard); err != nil {
			h.log.Error().Err(err).Int64("admin_id", adminID).Msg("Failed to send approval prompt")
		}
	}
	return nil
}

// HandleUserApproved is an EventHandler for the "user:approved" topic.
func (h *NotificationHandler) HandleUserApproved(ctx context.Context, event ports.Event) error {
	user, ok := event.Data.(*domain.User)
	if !ok {
		h.log.Error().Msg("Received invalid data for 'user:approved' event")
		return nil // Don't retry
	}

	log := h.log.With().Int64("user_id", user.TelegramID).Logger()
	log.Info().Msg("Sending approval notification to user")

	h.sessions.Save(domain.Session{UserID: user.TelegramID, State: domain.StateMainMenu})
	if err := h.send(ctx, user.TelegramID, messages.TextApproved, messages.MainMenuKeyboard()); err != nil {
		log.Error().Err(err).Msg("Failed to send approval notification")
		return err
	}
	return nil
}

// HandleUserRejected is an EventHandler for the "user:rejected" topic.
func (h *NotificationHandler) HandleUserRejected(ctx context.Context, event ports.Event) error {
	user, ok := event.Data.(*domain.User)
	if !ok {
		h.log.Error().Msg("Received invalid data for 'user:rejected' event")
		return nil // Don't retry
	}

	log := h.log.With().Int64("user_id", user.TelegramID).Logger()
	log.Info().Msg("Sending rejection notification to user")

	h.sessions.Clear(user.TelegramID)
	if err := h.send(ctx, user.TelegramID, messages.TextRejected, nil); err != nil {
		log.Error().Err(err).Msg("Failed to send rejection notification")
		return err
	}
	return nil
}
