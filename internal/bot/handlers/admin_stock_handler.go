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
	bot.RegisterAction(NewAdminStockHandler)
	bot.RegisterAction(NewAdminStockInputHandler)
}

// adminStockHandler walks an administrator to the vehicle whose stock
// they want to overwrite. The list and the prompt reuse one message.
type adminStockHandler struct {
	screen
	fleet    *services.FleetService
	sessions ports.SessionStore
}

func NewAdminStockHandler(deps bot.Dependencies) ports.ActionHandler {
	return &adminStockHandler{
		screen:   screen{bot: deps.BotClient},
		fleet:    deps.Fleet,
		sessions: deps.Sessions,
	}
}

func (h *adminStockHandler) Routes() []ports.Route {
	return []ports.Route{
		{State: ports.AnyState, Tag: messages.CallbackAdminUpdateStock},
		{State: ports.AnyState, Tag: messages.CallbackAdminUpdateStockPage},
		{State: ports.AnyState, Tag: messages.CallbackAdminSelectCar},
	}
}

func (h *adminStockHandler) AdminOnly() bool { return true }

func (h *adminStockHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	if update.Tag == messages.CallbackAdminSelectCar {
		return h.selectVehicle(ctx, update)
	}

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
		return h.edit(ctx, update, messages.TextFleetEmpty, messages.BackToAdminMenuKeyboard())
	}

	h.sessions.Save(domain.Session{
		UserID:    update.UserID,
		State:     domain.StateAdminSelectingVehicle,
		MessageID: update.MessageID,
	})
	return h.edit(ctx, update, messages.TextAdminChooseVehicle, messages.AdminStockPager.Build(page))
}

func (h *adminStockHandler) selectVehicle(ctx context.Context, update *ports.BotUpdate) error {
	v, err := h.fleet.GetVehicle(ctx, update.Param)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
		update.Notice = messages.TextAdminVehicleNotFound
		return nil
	}
	if err != nil {
		return err
	}

	h.sessions.Save(domain.Session{
		UserID:          update.UserID,
		State:           domain.StateAdminEnteringStock,
		SelectedVehicle: v.ID,
		MessageID:       update.MessageID,
	})
	return h.edit(ctx, update, messages.AdminStockPrompt(v.ID), messages.BackToAdminMenuKeyboard())
}

// adminStockInputHandler applies the typed value.
type adminStockInputHandler struct {
	screen
	fleet    *services.FleetService
	sessions ports.SessionStore
}

func NewAdminStockInputHandler(deps bot.Dependencies) ports.ActionHandler {
	return &adminStockInputHandler{
		screen:   screen{bot: deps.BotClient},
		fleet:    deps.Fleet,
		sessions: deps.Sessions,
	}
}

func (h *adminStockInputHandler) Routes() []ports.Route {
	return []ports.Route{{State: domain.StateAdminEnteringStock, Tag: ports.TextTag}}
}

func (h *adminStockInputHandler) AdminOnly() bool { return true }

func (h *adminStockInputHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	v, err := h.fleet.AdminSetStock(ctx, session.SelectedVehicle, update.Text)
	switch {
	case errors.Is(err, services.ErrStockTooLarge):
		return h.send(ctx, update.ChatID, messages.StockTooLarge(services.MaxStock), nil)
	case errors.Is(err, domain.ErrValidation):
		return h.send(ctx, update.ChatID, messages.TextAdminBadStock, nil)
	case errors.Is(err, domain.ErrNotFound):
		h.sessions.Clear(update.UserID)
		return h.send(ctx, update.ChatID, messages.TextAdminVehicleNotFound, messages.BackToAdminMenuKeyboard())
	case err != nil:
		return err
	}

	h.sessions.Clear(update.UserID)
	return h.send(ctx, update.ChatID, messages.AdminStockUpdated(v), messages.BackToAdminMenuKeyboard())
}
