package telegram

import (
	"FleetFuel/internal/bot/messages"
	"FleetFuel/internal/core/ports"
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// tgClient implements the BotClientPort.
type tgClient struct {
	api *tgbotapi.BotAPI
	log zerolog.Logger
}

// NewClient creates a new Telegram client adapter.
func NewClient(api *tgbotapi.BotAPI, baseLogger *zerolog.Logger) ports.BotClientPort {
	log := baseLogger.With().Str("component", "tg_client").Logger()
	return &tgClient{api: api, log: log}
}

// SendMessage translates our params into a tgbotapi message and returns
// the ID of the sent message.
func (c *tgClient) SendMessage(ctx context.Context, params ports.SendMessageParams) (int, error) {
	msg := tgbotapi.NewMessage(params.ChatID, params.Text)
	msg.ParseMode = params.ParseMode

	// Handle keyboard removal first
	if params.RemoveKeyboard {
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	} else if params.ReplyMarkup != nil {
		if params.ReplyMarkup.IsInline {
			msg.ReplyMarkup = buildInlineKeyboard(params.ReplyMarkup.Buttons)
		} else {
			msg.ReplyMarkup = buildReplyKeyboard(params.ReplyMarkup.Buttons)
		}
	}

	sent, err := c.api.Send(msg)
	if err != nil {
		c.log.Error().Err(err).Int64("chat_id", params.ChatID).Msg("Failed to send message")
		return 0, err
	}
	return sent.MessageID, nil
}

// buildInlineKeyboard is a helper to create the inline keyboard.
func buildInlineKeyboard(buttons [][]ports.Button) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, buttonRow := range buttons {
		var row []tgbotapi.InlineKeyboardButton
		for _, btn := range buttonRow {
			if btn.URL != "" {
				row = append(row, tgbotapi.NewInlineKeyboardButtonURL(btn.Text, btn.URL))
			} else {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
			}
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildReplyKeyboard is a helper to create the reply (non-inline) keyboard.
func buildReplyKeyboard(buttons [][]ports.Button) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for _, buttonRow := range buttons {
		var row []tgbotapi.KeyboardButton
		for _, btn := range buttonRow {
			if btn.RequestContact {
				row = append(row, tgbotapi.NewKeyboardButtonContact(btn.Text))
			} else {
				row = append(row, tgbotapi.NewKeyboardButton(btn.Text))
			}
		}
		rows = append(rows, row)
	}

	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.ResizeKeyboard = true
	markup.OneTimeKeyboard = true // Keyboard hides after one use
	return markup
}

// menuCommands is the list shown in the client's "/" menu.
func menuCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "/" + messages.CommandStart, Description: "Запустить бота"},
		{Command: "/" + messages.CommandCancel, Description: "Отменить текущее действие"},
		{Command: "/" + messages.CommandAdmin, Description: "Админ-панель"},
		{Command: "/" + messages.CommandRefreshAdmins, Description: "Обновить список админов"},
	}
}

// SetMenuCommands sets the bot's /menu commands.
func (c *tgClient) SetMenuCommands(ctx context.Context) error {
	config := tgbotapi.NewSetMyCommands(menuCommands()...)
	if _, err := c.api.Request(config); err != nil {
		c.log.Error().Err(err).Msg("Failed to set menu commands")
		return err
	}
	return nil
}

// EditMessageText edits an existing message (usually for inline keyboards).
// Re-rendering an unchanged screen is not an error.
func (c *tgClient) EditMessageText(ctx context.Context, params ports.EditMessageParams) error {
	msg := tgbotapi.NewEditMessageText(
		params.ChatID,
		params.MessageID,
		params.Text,
	)
	msg.ParseMode = params.ParseMode

	// Add new inline keyboard if one is provided
	if params.ReplyMarkup != nil && params.ReplyMarkup.IsInline {
		inlineMarkup := buildInlineKeyboard(params.ReplyMarkup.Buttons)
		msg.ReplyMarkup = &inlineMarkup
	}

	if _, err := c.api.Send(msg); err != nil {
		if isNotModified(err) {
			c.log.Debug().Int("message_id", params.MessageID).Msg("Message already up to date")
			return nil
		}
		c.log.Error().Err(err).
			Int64("chat_id", params.ChatID).
			Int("message_id", params.MessageID).
			Msg("Failed to edit message text")
		return err
	}
	return nil
}

func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}

// AnswerCallbackQuery sends a response to a callback query (stops the spinner)
func (c *tgClient) AnswerCallbackQuery(ctx context.Context, params ports.AnswerCallbackParams) error {
	callbackConfig := tgbotapi.NewCallback(params.CallbackQueryID, params.Text)
	callbackConfig.ShowAlert = params.ShowAlert

	if _, err := c.api.Request(callbackConfig); err != nil {
		c.log.Error().Err(err).
			Str("callback_query_id", params.CallbackQueryID).
			Msg("Failed to answer callback query")
		return err
	}
	return nil
}
