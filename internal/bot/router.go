package bot

import (
	"FleetFuel/internal/bot/messages"
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Router is the "Bot Facade." It holds all handlers and routes each
// incoming update by (session state, action tag).
type Router struct {
	log       zerolog.Logger
	sessions  ports.SessionStore
	admins    ports.AdminRegistry
	users     ports.UserDirectory
	botClient ports.BotClientPort
	routes    map[ports.Route]ports.ActionHandler
}

// NewRouter creates a new bot facade/router.
func NewRouter(
	sessions ports.SessionStore,
	admins ports.AdminRegistry,
	users ports.UserDirectory,
	botClient ports.BotClientPort,
	baseLogger *zerolog.Logger,
) *Router {
	return &Router{
		log:       baseLogger.With().Str("component", "bot_router").Logger(),
		sessions:  sessions,
		admins:    admins,
		users:     users,
		botClient: botClient,
		routes:    make(map[ports.Route]ports.ActionHandler),
	}
}

// Register adds a handler for every route it declares. Two handlers
// claiming the same route is a wiring bug.
func (r *Router) Register(handler ports.ActionHandler) {
	for _, route := range handler.Routes() {
		if _, taken := r.routes[route]; taken {
			panic(fmt.Sprintf("bot: duplicate route %s/%s", route.State, route.Tag))
		}
		r.routes[route] = handler
		r.log.Debug().Str("state", string(route.State)).Str("tag", route.Tag).Msg("Registered route")
	}
}

// lookup prefers the exact (state, tag) route over the (any state, tag) one.
func (r *Router) lookup(state domain.SessionState, tag string) (ports.ActionHandler, bool) {
	if h, ok := r.routes[ports.Route{State: state, Tag: tag}]; ok {
		return h, true
	}
	h, ok := r.routes[ports.Route{State: ports.AnyState, Tag: tag}]
	return h, ok
}

// HandleUpdate is the main entry point for a new update from Telegram.
func (r *Router) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	// 1. Convert to our generic BotUpdate
	botUpdate, isSupported := parseUpdate(update)
	if !isSupported {
		r.log.Debug().Int("update_id", update.UpdateID).Msg("Received unsupported update type")
		return
	}
	r.Dispatch(ctx, botUpdate)
}

// Dispatch routes an already parsed update.
func (r *Router) Dispatch(ctx context.Context, botUpdate *ports.BotUpdate) {
	// 2. Add logger context
	ctxLogger := r.log.With().
		Int64("user_id", botUpdate.UserID).
		Int64("chat_id", botUpdate.ChatID).
		Str("trace_id", uuid.NewString()).
		Logger()
	ctx = ctxLogger.WithContext(ctx)

	tagUpdate(botUpdate)
	session := r.sessions.Get(botUpdate.UserID)

	if botUpdate.IsCallback() {
		// Always stop the client spinner, whatever happens below.
		defer r.answerCallback(ctx, botUpdate, &ctxLogger)
	}

	// 3. Find the handler
	handler, ok := r.lookup(session.State, botUpdate.Tag)
	if !ok {
		if user, err := r.users.Lookup(ctx, botUpdate.UserID); err == nil && isRejected(user) {
			ctxLogger.Info().Str("tag", botUpdate.Tag).Msg("Ignoring rejected user")
			return
		}
		ctxLogger.Info().
			Str("state", string(session.State)).
			Str("tag", botUpdate.Tag).
			Msg("No handler for action")
		r.replyNotFound(ctx, botUpdate, &ctxLogger)
		return
	}

	// 4. Gate administrator actions
	if gated, ok := handler.(ports.AdminOnly); ok && gated.AdminOnly() && !r.admins.IsAdmin(botUpdate.UserID) {
		ctxLogger.Warn().Str("tag", botUpdate.Tag).Msg("Non-admin tried an administrator action")
		if botUpdate.IsCallback() {
			botUpdate.Notice = messages.TextNoAccess
		} else {
			r.reply(ctx, botUpdate.ChatID, messages.TextNoAccess, &ctxLogger)
		}
		return
	}

	// 5. Driver actions need an approved identity row; rejected users
	// get no answer at all
	if gated, ok := handler.(ports.ApprovedOnly); ok && gated.ApprovedOnly() && !r.admins.IsAdmin(botUpdate.UserID) {
		user, err := r.users.Lookup(ctx, botUpdate.UserID)
		if err != nil {
			ctxLogger.Error().Err(err).Msg("Failed to look up sender")
			r.reply(ctx, botUpdate.ChatID, messages.TextGenericError, &ctxLogger)
			return
		}
		if isRejected(user) {
			ctxLogger.Info().Str("tag", botUpdate.Tag).Msg("Ignoring rejected user")
			return
		}
		if user == nil || user.Status != domain.StatusApproved {
			ctxLogger.Info().Str("tag", botUpdate.Tag).Msg("Sender is not approved")
			if botUpdate.IsCallback() {
				botUpdate.Notice = messages.TextApprovalRequired
			} else {
				r.reply(ctx, botUpdate.ChatID, messages.TextApprovalRequired, &ctxLogger)
			}
			return
		}
	}

	// 6. Run it
	ctxLogger.Info().
		Str("state", string(session.State)).
		Str("tag", botUpdate.Tag).
		Msg("Routing action")
	if err := handler.Handle(ctx, botUpdate, &session); err != nil {
		ctxLogger.Error().Err(err).Str("tag", botUpdate.Tag).Msg("Action handler failed")
		r.reply(ctx, botUpdate.ChatID, messages.TextGenericError, &ctxLogger)
	}
}

func isRejected(u *domain.User) bool {
	return u != nil && u.Status == domain.StatusRejected
}

func (r *Router) replyNotFound(ctx context.Context, u *ports.BotUpdate, log *zerolog.Logger) {
	if u.IsCallback() {
		u.Notice = messages.TextActionNotFound
		return
	}
	r.reply(ctx, u.ChatID, messages.TextUnknownInput, log)
}

func (r *Router) reply(ctx context.Context, chatID int64, text string, log *zerolog.Logger) {
	msg := messages.NewBuilder(chatID).WithText(text).Build()
	if _, err := r.botClient.SendMessage(ctx, msg); err != nil {
		log.Error().Err(err).Msg("Failed to send reply")
	}
}

func (r *Router) answerCallback(ctx context.Context, u *ports.BotUpdate, log *zerolog.Logger) {
	err := r.botClient.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
		CallbackQueryID: u.CallbackQueryID,
		Text:            u.Notice,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to answer callback query")
	}
}

// tagUpdate derives the action tag: the command, the callback name before
// ':' (the rest is the param), or TextTag for anything typed.
func tagUpdate(u *ports.BotUpdate) {
	switch {
	case u.IsCallback():
		u.Tag, u.Param, _ = strings.Cut(*u.CallbackData, ":")
	case u.Command != "":
		u.Tag = u.Command
	default:
		u.Tag = ports.TextTag
	}
}

// parseUpdate converts a tgbotapi.Update into our internal, simplified struct.
func parseUpdate(update *tgbotapi.Update) (*ports.BotUpdate, bool) {
	if update.CallbackQuery != nil {
		cb := update.CallbackQuery
		if cb.Message == nil || cb.From == nil {
			// Inline-mode callbacks carry no chat
			return nil, false
		}
		data := cb.Data
		return &ports.BotUpdate{
			MessageID:       cb.Message.MessageID,
			ChatID:          cb.Message.Chat.ID,
			UserID:          cb.From.ID,
			CallbackQueryID: cb.ID,
			CallbackData:    &data,
		}, true
	}

	if update.Message != nil && update.Message.From != nil {
		msg := update.Message
		botUpdate := &ports.BotUpdate{
			MessageID: msg.MessageID,
			ChatID:    msg.Chat.ID,
			UserID:    msg.From.ID,
			Text:      msg.Text,
			Command:   msg.Command(),
		}
		// Only the sender's own contact counts as a phone number
		if msg.Contact != nil && msg.Contact.UserID == msg.From.ID {
			botUpdate.ContactPhone = msg.Contact.PhoneNumber
		}
		return botUpdate, true
	}

	return nil, false // Unsupported update
}
