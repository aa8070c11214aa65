package agent

import "errors"

var (
	// ErrRouterRequired is returned when a router is not provided.
	ErrRouterRequired = errors.New("router required")

	// ErrRegistryRequired is returned when a tool registry is not provided.
	ErrRegistryRequired = errors.New("tool registry required")

	// ErrSynthesizerRequired is returned when a synthesizer is not provided.
	ErrSynthesizerRequired = errors.New("synthesizer required")
)
