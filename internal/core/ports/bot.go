package ports

import (
	"FleetFuel/internal/core/domain"
	"context"
)

// --- Bot Message Structures ---

// Button represents a single button in a keyboard.
type Button struct {
	Text           string
	Data           string // For callbacks
	URL            string // For URL buttons
	RequestContact bool   // For reply keyboard contact sharing
}

// ReplyMarkup represents any kind of keyboard markup.
type ReplyMarkup struct {
	Buttons  [][]Button
	IsInline bool // Differentiates between Inline and Reply keyboards
}

// SendMessageParams holds all possible options for sending a message.
type SendMessageParams struct {
	ChatID         int64
	Text           string
	ParseMode      string // e.g., "MarkdownV2" or "HTML"
	ReplyMarkup    *ReplyMarkup
	RemoveKeyboard bool
}

// EditMessageParams replaces the text (and inline keyboard) of a sent message.
type EditMessageParams struct {
	ChatID      int64
	MessageID   int
	Text        string
	ParseMode   string
	ReplyMarkup *ReplyMarkup
}

// AnswerCallbackParams stops the client-side spinner of a button press.
type AnswerCallbackParams struct {
	CallbackQueryID string
	Text            string
	ShowAlert       bool
}

// --- Bot Client Port (Outbound) ---

// BotClientPort defines the interface for *sending* messages.
type BotClientPort interface {
	SendMessage(ctx context.Context, params SendMessageParams) (int, error)
	EditMessageText(ctx context.Context, params EditMessageParams) error
	AnswerCallbackQuery(ctx context.Context, params AnswerCallbackParams) error
	SetMenuCommands(ctx context.Context) error
}

// --- Bot Handler Port (Inbound) ---

// BotUpdate is the platform-neutral form of one inbound action.
type BotUpdate struct {
	MessageID       int
	ChatID          int64
	UserID          int64
	Text            string
	Command         string
	CallbackQueryID string
	CallbackData    *string
	ContactPhone    string // set when the user shared their own contact

	// Tag and Param are filled by the router: Tag is the command, the
	// callback name before ':' or TextTag; Param is whatever follows ':'.
	Tag   string
	Param string

	// Notice is an optional toast handlers leave for the callback answer.
	Notice string
}

// IsCallback reports whether the update came from an inline button.
func (u *BotUpdate) IsCallback() bool {
	return u.CallbackData != nil
}

// TextTag is the action tag of a plain text message.
const TextTag = "#text"

// AnyState matches every session state in a Route.
const AnyState domain.SessionState = "*"

// Route is the (state, tag) pattern a handler answers to.
type Route struct {
	State domain.SessionState
	Tag   string
}

// ActionHandler processes one inbound action. The session is never nil;
// a user without an active flow gets a session in StateNone.
type ActionHandler interface {
	Routes() []Route
	Handle(ctx context.Context, update *BotUpdate, session *domain.Session) error
}

// AdminOnly is implemented by handlers restricted to administrators.
type AdminOnly interface {
	AdminOnly() bool
}

// ApprovedOnly is implemented by handlers open to approved users only.
type ApprovedOnly interface {
	ApprovedOnly() bool
}
