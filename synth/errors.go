package synth

import "errors"

var (
	// ErrModelRequired is returned when a language model is not provided.
	ErrModelRequired = errors.New("language model required")

	// ErrInvalidPolicy is returned when a confidence policy cannot be applied.
	ErrInvalidPolicy = errors.New("invalid confidence policy")
)
