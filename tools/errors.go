package tools

import "errors"

var (
	// ErrToolNotRegistered is returned when no tool serves a capability.
	ErrToolNotRegistered = errors.New("no tool registered for capability")

	// ErrRetrieverRequired is returned when a retriever is not provided.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrJobBoardRequired is returned when a job board is not provided.
	ErrJobBoardRequired = errors.New("job board required")

	// ErrServiceCatalogRequired is returned when a services catalog is not provided.
	ErrServiceCatalogRequired = errors.New("service catalog required")

	// ErrPathRequired is returned when a data file path is empty.
	ErrPathRequired = errors.New("data file path required")
)
