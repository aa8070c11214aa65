package router

import "errors"

var (
	// ErrModelRequired is returned when a language model is not provided.
	ErrModelRequired = errors.New("language model required")

	// ErrCatalogRequired is returned when a catalog is not provided.
	ErrCatalogRequired = errors.New("tool catalog required")

	// ErrInvalidDescriptor is returned for tool descriptors that cannot be cataloged.
	ErrInvalidDescriptor = errors.New("invalid tool descriptor")
)
