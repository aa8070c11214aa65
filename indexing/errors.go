package indexing

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrRepositoryRequired is returned when a corpus repository is not provided.
	ErrRepositoryRequired = errors.New("corpus repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmbeddingCountMismatch is returned when the embedder returns the
	// wrong number of vectors for a batch.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")
)
