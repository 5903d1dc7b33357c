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
	bot.RegisterAction(NewApprovalHandler)
}

// approvalHandler handles the confirm/reject buttons of an approval prompt.
// The applicant is notified by the event listeners, not here.
type approvalHandler struct {
	screen
	log   zerolog.Logger
	users *services.UserService
}

func NewApprovalHandler(deps bot.Dependencies) ports.ActionHandler {
	return &approvalHandler{
		screen: screen{bot: deps.BotClient},
		log:    deps.Logger.With().Str("component", "approval_handler").Logger(),
		users:  deps.Users,
	}
}

func (h *approvalHandler) Routes() []ports.Route {
	return []ports.Route{
		{State: ports.AnyState, Tag: messages.CallbackConfirmUser},
		{State: ports.AnyState, Tag: messages.CallbackBlockUser},
	}
}

func (h *approvalHandler) AdminOnly() bool { return true }

func (h *approvalHandler) Handle(ctx context.Context, update *ports.BotUpdate, session *domain.Session) error {
	targetID, ok := parseTelegramID(update.Param)
	if !ok {
		update.Notice = messages.TextBadUserID
		return nil
	}

	log := h.log.With().
		Int64("admin_id", update.UserID).
		Int64("target_id", targetID).
		Str("action", update.Tag).
		Logger()

	var (
		err    error
		result string
	)
	if update.Tag == messages.CallbackConfirmUser {
		_, err = h.users.Approve(ctx, targetID)
		result = messages.UserApproved(targetID)
	} else {
		_, err = h.users.Reject(ctx, targetID)
		result = messages.UserRejected(targetID)
	}

	if errors.Is(err, domain.ErrNotFound) {
		log.Warn().Msg("Approval target not found")
		update.Notice = messages.TextUserMissing
		return h.edit(ctx, update, messages.UserNotFound(targetID), nil)
	}
	if err != nil {
		return err
	}

	update.Notice = result
	return h.edit(ctx, update, result, messages.BackToAdminMenuKeyboard())
}
