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
	bot.RegisterAction(NewAdminPanelHandler)
	bot.RegisterAction(NewDailySummaryHandler)
	bot.RegisterAction(NewRefreshAdminsHandler)
}

// adminPanelHandler opens the administrator panel by command or button.
type adminPanelHandler struct {
	screen
	sessions ports.SessionStore
}

func NewAdminPanelHandler(deps bot.Dependencies) ports.ActionHandler {
	return &adminPanelHandler{
		screen:   screen{bot: deps.BotClient},
		sessions: deps.Sessions,
	}
}

func (h *adminPanelHandler) Routes() []ports.Route {
	return []ports.Route{
		{State: ports.AnyState, Tag: messages.CommandAdmin},
		{State: ports.AnyState, Tag: messages.CallbackAdminMenu},
	}
}

func (h *adminPanelHandler) AdminOnly() bool { return true }

func (h *adminPanelHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	h.sessions.Clear(update.UserID)
	if update.IsCallback() {
		return h.edit(ctx, update, messages.TextAdminPanel, messages.AdminMenuKeyboard())
	}
	return h.send(ctx, update.ChatID, messages.TextAdminPanel, messages.AdminMenuKeyboard())
}

// dailySummaryHandler shows today's last report per vehicle.
type dailySummaryHandler struct {
	screen
	fleet *services.FleetService
}

func NewDailySummaryHandler(deps bot.Dependencies) ports.ActionHandler {
	return &dailySummaryHandler{
		screen: screen{bot: deps.BotClient},
		fleet:  deps.Fleet,
	}
}

func (h *dailySummaryHandler) Routes() []ports.Route {
	return []ports.Route{{State: ports.AnyState, Tag: messages.CallbackGetInfo}}
}

func (h *dailySummaryHandler) AdminOnly() bool { return true }

func (h *dailySummaryHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	today := h.fleet.Today()
	lines, err := h.fleet.DailySummary(ctx, today)
	if err != nil {
		return err
	}

	text := messages.DailySummary(today.Format(domain.DateLayout), lines)
	return h.edit(ctx, update, text, messages.BackToAdminMenuKeyboard())
}

// refreshAdminsHandler reloads the administrator registry from the sheet.
type refreshAdminsHandler struct {
	screen
	log    zerolog.Logger
	admins ports.AdminRegistry
}

func NewRefreshAdminsHandler(deps bot.Dependencies) ports.ActionHandler {
	return &refreshAdminsHandler{
		screen: screen{bot: deps.BotClient},
		log:    deps.Logger.With().Str("component", "refresh_admins_handler").Logger(),
		admins: deps.Admins,
	}
}

func (h *refreshAdminsHandler) Routes() []ports.Route {
	return []ports.Route{{State: ports.AnyState, Tag: messages.CommandRefreshAdmins}}
}

func (h *refreshAdminsHandler) AdminOnly() bool { return true }

func (h *refreshAdminsHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	n, err := h.admins.Refresh(ctx)
	if err != nil {
		h.log.Error().Err(err).Int64("admin_id", update.UserID).Msg("Administrator refresh failed")
		return h.send(ctx, update.ChatID, messages.TextAdminsRefreshFailed, nil)
	}
	return h.send(ctx, update.ChatID, messages.AdminsRefreshed(n), nil)
}
