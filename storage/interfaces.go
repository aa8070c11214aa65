package storage

import (
	"context"

	"github.com/poiesic/switchboard/core"
)

// CorpusReader is the read side of the corpus used on the query path.
// Implementations must be thread-safe and support concurrent access.
type CorpusReader interface {
	// ScanAll returns every stored chunk in insertion order.
	// The returned slice is a snapshot owned by the caller.
	// Chunks whose embedding cannot be parsed are returned with a nil Embedding.
	ScanAll(ctx context.Context) ([]*core.Chunk, error)

	// LexicalMatch returns chunks whose title, content or keywords contain
	// pattern, case-insensitively, in insertion order.
	LexicalMatch(ctx context.Context, pattern string) ([]*core.Chunk, error)
}

// CorpusRepository provides operations for managing corpus chunks.
type CorpusRepository interface {
	CorpusReader

	// AddChunks validates and stores new chunks, assigning IDs.
	// Returns ErrDuplicateKey if a chunk with the same title is already stored.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// UpdateChunks replaces existing chunks by ID.
	// Returns ErrNotFound if any chunk doesn't exist.
	UpdateChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// FindByTitle retrieves the chunk stored under an exact title.
	// Returns ErrNotFound if no chunk has that title.
	FindByTitle(ctx context.Context, title string) (*core.Chunk, error)

	// Enrich replaces the summary and keywords of the chunk with the given title.
	// Returns ErrNotFound if no chunk has that title.
	Enrich(ctx context.Context, title, summary string, keywords []string) (*core.Chunk, error)

	// DeleteChunks removes chunks by ID.
	// Returns ErrNotFound if any chunk doesn't exist.
	DeleteChunks(ctx context.Context, ids ...core.ID) error

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the repository.
	Close() error
}
