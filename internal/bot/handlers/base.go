package handlers

import (
	"FleetFuel/internal/bot/messages"
	"FleetFuel/internal/core/ports"
	"context"
	"strconv"
)

// screen sends and edits the bot's own messages.
type screen struct {
	bot ports.BotClientPort
}

// send posts a new message; buttons may be nil.
func (s screen) send(ctx context.Context, chatID int64, text string, buttons [][]ports.Button) error {
	b := messages.NewBuilder(chatID).WithText(text)
	if buttons != nil {
		b.WithInlineButtons(buttons)
	}
	_, err := s.bot.SendMessage(ctx, b.Build())
	return err
}

// edit replaces the message the pressed button belongs to.
func (s screen) edit(ctx context.Context, u *ports.BotUpdate, text string, buttons [][]ports.Button) error {
	b := messages.NewBuilder(u.ChatID).WithText(text)
	if buttons != nil {
		b.WithInlineButtons(buttons)
	}
	return s.bot.EditMessageText(ctx, b.BuildEdit(u.MessageID))
}

// parseTelegramID reads the numeric user ID carried in a callback param.
func parseTelegramID(param string) (int64, bool) {
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parsePage reads a 1-based page number; a missing param is page 1.
func parsePage(param string) (int, bool) {
	if param == "" {
		return 1, true
	}
	n, err := strconv.Atoi(param)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
