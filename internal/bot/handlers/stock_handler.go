package handlers

import (
	"FleetFuel/internal/bot"
	"FleetFuel/internal/bot/messages"
	"FleetFuel/internal/core/domain"
	"FleetFuel/internal/core/ports"
	"FleetFuel/internal/core/services"
	"context"
	"errors"
)

func init() {
	bot.RegisterAction(NewStockVehicleHandler)
	bot.RegisterAction(NewStockSelectHandler)
	bot.RegisterAction(NewStockInputHandler)
}

// stockVehicleHandler lists vehicles a driver can report stock for.
type stockVehicleHandler struct {
	screen
	fleet    *services.FleetService
	sessions ports.SessionStore
}

func NewStockVehicleHandler(deps bot.Dependencies) ports.ActionHandler {
	return &stockVehicleHandler{
		screen:   screen{bot: deps.BotClient},
		fleet:    deps.Fleet,
		sessions: deps.Sessions,
	}
}

func (h *stockVehicleHandler) Routes() []ports.Route {
	return []ports.Route{
		{State: ports.AnyState, Tag: messages.CallbackEnterStock},
		{State: ports.AnyState, Tag: messages.CallbackEnterStockPage},
	}
}

func (h *stockVehicleHandler) ApprovedOnly() bool { return true }

func (h *stockVehicleHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
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
		return h.send(ctx, update.ChatID, messages.TextFleetEmpty, messages.BackToMainMenuKeyboard())
	}

	h.sessions.Save(domain.Session{UserID: update.UserID, State: domain.StateSelectingVehicleForReport})

	keyboard := messages.StockPager.Build(page)
	if update.Tag == messages.CallbackEnterStock {
		// The menu stays; the list arrives as a new message
		return h.send(ctx, update.ChatID, messages.TextChooseStockVehicle, keyboard)
	}
	return h.edit(ctx, update, messages.TextChooseStockVehicle, keyboard)
}

// stockSelectHandler starts a trip on the chosen vehicle.
type stockSelectHandler struct {
	screen
	fleet    *services.FleetService
	sessions ports.SessionStore
}

func NewStockSelectHandler(deps bot.Dependencies) ports.ActionHandler {
	return &stockSelectHandler{
		screen:   screen{bot: deps.BotClient},
		fleet:    deps.Fleet,
		sessions: deps.Sessions,
	}
}

func (h *stockSelectHandler) Routes() []ports.Route {
	return []ports.Route{{State: ports.AnyState, Tag: messages.CallbackSelectStockCar}}
}

func (h *stockSelectHandler) ApprovedOnly() bool { return true }

func (h *stockSelectHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	v, err := h.fleet.SelectVehicle(ctx, update.UserID, update.Param)
	switch {
	case errors.Is(err, domain.ErrNotFound) && v != nil:
		h.sessions.Clear(update.UserID)
		return h.send(ctx, update.ChatID, messages.TextUserDataMissing, nil)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrValidation):
		update.Notice = messages.TextVehicleNotFound
		return nil
	case err != nil:
		return err
	}

	h.sessions.Save(domain.Session{
		UserID:          update.UserID,
		State:           domain.StateEnteringStock,
		SelectedVehicle: v.ID,
	})
	return h.send(ctx, update.ChatID, messages.StockPrompt(v.ID), nil)
}

// stockInputHandler takes the typed liters and closes the trip.
type stockInputHandler struct {
	screen
	fleet    *services.FleetService
	sessions ports.SessionStore
}

func NewStockInputHandler(deps bot.Dependencies) ports.ActionHandler {
	return &stockInputHandler{
		screen:   screen{bot: deps.BotClient},
		fleet:    deps.Fleet,
		sessions: deps.Sessions,
	}
}

func (h *stockInputHandler) Routes() []ports.Route {
	return []ports.Route{{State: domain.StateEnteringStock, Tag: ports.TextTag}}
}

func (h *stockInputHandler) ApprovedOnly() bool { return true }

func (h *stockInputHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	record, err := h.fleet.SubmitStock(ctx, update.UserID, session.SelectedVehicle, update.Text)
	switch {
	case errors.Is(err, services.ErrStockTooLarge):
		return h.send(ctx, update.ChatID, messages.StockTooLarge(services.MaxStock), nil)
	case errors.Is(err, domain.ErrValidation):
		return h.send(ctx, update.ChatID, messages.TextBadStock, nil)
	case errors.Is(err, domain.ErrNotFound):
		h.sessions.Clear(update.UserID)
		return h.send(ctx, update.ChatID, messages.TextUserDataMissing, nil)
	case err != nil:
		return err
	}

	h.sessions.Clear(update.UserID)
	return h.send(ctx, update.ChatID, messages.StockSaved(record), [][]ports.Button{
		{{Text: "🏠 Главное меню", Data: messages.CallbackMainMenu}},
	})
}
