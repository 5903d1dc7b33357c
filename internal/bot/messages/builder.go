package messages

import "FleetFuel/internal/core/ports"

// Builder helps construct SendMessageParams and EditMessageParams.
// Messages are plain text unless a parse mode is set.
type Builder struct {
	params ports.SendMessageParams
}

// NewBuilder creates a new message builder.
func NewBuilder(chatID int64) *Builder {
	return &Builder{
		params: ports.SendMessageParams{ChatID: chatID},
	}
}

// WithText sets the message text.
func (b *Builder) WithText(text string) *Builder {
	b.params.Text = text
	return b
}

// WithParseMode overrides the default parse mode.
func (b *Builder) WithParseMode(mode string) *Builder {
	b.params.ParseMode = mode
	return b
}

// WithRemoveKeyboard adds a flag to remove the reply keyboard.
func (b *Builder) WithRemoveKeyboard() *Builder {
	b.params.RemoveKeyboard = true
	b.params.ReplyMarkup = nil // Ensure no other markup is set
	return b
}

// WithContactButton adds a "Share Contact" reply keyboard.
func (b *Builder) WithContactButton(text string) *Builder {
	b.params.RemoveKeyboard = false
	b.params.ReplyMarkup = &ports.ReplyMarkup{
		IsInline: false,
		Buttons: [][]ports.Button{
			{
				{Text: text, RequestContact: true},
			},
		},
	}
	return b
}

// WithInlineButtons adds a set of inline buttons.
func (b *Builder) WithInlineButtons(buttons [][]ports.Button) *Builder {
	b.params.RemoveKeyboard = false
	b.params.ReplyMarkup = Inline(buttons)
	return b
}

// Build returns the final SendMessageParams struct.
func (b *Builder) Build() ports.SendMessageParams {
	return b.params
}

// BuildEdit turns the same text and inline keyboard into an edit of messageID.
// Reply keyboards cannot be attached to edits and are dropped.
func (b *Builder) BuildEdit(messageID int) ports.EditMessageParams {
	edit := ports.EditMessageParams{
		ChatID:    b.params.ChatID,
		MessageID: messageID,
		Text:      b.params.Text,
		ParseMode: b.params.ParseMode,
	}
	if b.params.ReplyMarkup != nil && b.params.ReplyMarkup.IsInline {
		edit.ReplyMarkup = b.params.ReplyMarkup
	}
	return edit
}

// Inline wraps rows of buttons into an inline markup.
func Inline(buttons [][]ports.Button) *ports.ReplyMarkup {
	return &ports.ReplyMarkup{IsInline: true, Buttons: buttons}
}
