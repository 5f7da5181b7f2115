package session

import "errors"

var (
	// ErrInvalidInput is returned when message content is empty after trimming.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownParticipant is returned when an operation names a user id
	// that is not in the participant registry.
	ErrUnknownParticipant = errors.New("unknown participant")

	// ErrInvalidName is returned by ValidateDisplayName.
	ErrInvalidName = errors.New("invalid display name")
)
