package types

import "errors"

// Sentinel errors shared across engine packages. Callers match them with
// errors.Is after unwrapping.
var (
	// ErrCharacterNotFound is returned for an unknown character id.
	ErrCharacterNotFound = errors.New("character not found")
	// ErrInvalidInput is returned when a public operation rejects
	// malformed input without side effects.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConfigUnavailable is returned when static game config cannot be
	// loaded. Consumers degrade instead of failing the conversation.
	ErrConfigUnavailable = errors.New("config unavailable")
)
