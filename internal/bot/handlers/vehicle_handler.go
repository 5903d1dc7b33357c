package handlers

import (
	"FleetFuel/internal/bot"
	"FleetFuel/internal/bot/messages"
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"FleetFuel/internal/core/services"
	"context"
	"errors"

	"github.com/rs/zerolog"
)

func init() {
	bot.RegisterAction(NewMainMenuHandler)
	bot.RegisterAction(NewVehicleListHandler)
	bot.RegisterAction(NewVehicleInfoHandler)
}

// mainMenuHandler returns to the home screen, abandoning any flow.
type mainMenuHandler struct {
	screen
	sessions ports.SessionStore
}

func NewMainMenuHandler(deps bot.Dependencies) ports.ActionHandler {
	return &mainMenuHandler{
		screen:   screen{bot: deps.BotClient},
		sessions: deps.Sessions,
	}
}

func (h *mainMenuHandler) Routes() []ports.Route {
	return []ports.Route{{State: ports.AnyState, Tag: messages.CallbackMainMenu}}
}

func (h *mainMenuHandler) ApprovedOnly() bool { return true }

func (h *mainMenuHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	h.sessions.Save(domain.Session{UserID: update.UserID, State: domain.StateMainMenu})
	return h.edit(ctx, update, messages.TextMainMenu, messages.MainMenuKeyboard())
}

// vehicleListHandler pages through the fleet for viewing.
type vehicleListHandler struct {
	screen
	log   zerolog.Logger
	fleet *services.FleetService
}

func NewVehicleListHandler(deps bot.Dependencies) ports.ActionHandler {
	return &vehicleListHandler{
		screen: screen{bot: deps.BotClient},
		log:    deps.Logger.With().Str("component", "vehicle_list_handler").Logger(),
		fleet:  deps.Fleet,
	}
}

func (h *vehicleListHandler) Routes() []ports.Route {
	return []ports.Route{
		{State: ports.AnyState, Tag: messages.CallbackViewCars},
		{State: ports.AnyState, Tag: messages.CallbackViewCarsPage},
	}
}

func (h *vehicleListHandler) ApprovedOnly() bool { return true }

func (h *vehicleListHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	n, ok := parsePage(update.Param)
	if !ok {
		update.Notice = messages.TextActionNotFound
		return nil
	}

	page, err := h.fleet.ListVehicles(ctx, n)
	if err != nil {
		return err
	}
	if page.Total == 0 {
		return h.edit(ctx, update, messages.TextFleetEmpty, messages.BackToMainMenuKeyboard())
	}

	h.log.Debug().Int("page", n).Int("pages", page.Total).Msg("Showing vehicles")
	return h.edit(ctx, update, messages.TextVehicleList, messages.ViewCarsPager.Build(page))
}

// vehicleInfoHandler shows one vehicle's last known stock. Viewing does
// not start a trip; reporting is a separate button.
type vehicleInfoHandler struct {
	screen
	fleet *services.FleetService
}

func NewVehicleInfoHandler(deps bot.Dependencies) ports.ActionHandler {
	return &vehicleInfoHandler{
		screen: screen{bot: deps.BotClient},
		fleet:  deps.Fleet,
	}
}

func (h *vehicleInfoHandler) Routes() []ports.Route {
	return []ports.Route{{State: ports.AnyState, Tag: messages.CallbackCarInfo}}
}

func (h *vehicleInfoHandler) ApprovedOnly() bool { return true }

func (h *vehicleInfoHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	v, err := h.fleet.GetVehicle(ctx, update.Param)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
		update.Notice = messages.TextVehicleNotFound
		return nil
	}
	if err != nil {
		return err
	}

	return h.edit(ctx, update, messages.VehicleInfo(v), messages.VehicleInfoKeyboard(v.ID))
}
