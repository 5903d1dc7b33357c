package domain

import "errors"

var (
	// ErrValidation marks malformed user input. The sender may retry.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound marks a reference to a row that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDelivery marks a message that could not reach its recipient.
	ErrDelivery = errors.New("delivery failed")
	// ErrAlreadyRegistered is returned when a Telegram ID already has an identity row.
	ErrAlreadyRegistered = errors.New("already registered")
)
