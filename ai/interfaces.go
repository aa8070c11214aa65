package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The dimension of the returned vector is fixed per deployment and must
	// match the embeddings stored alongside corpus chunks.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// LanguageModel produces free-text completions.
// Implementations must be thread-safe for concurrent use.
type LanguageModel interface {
	// Complete sends a system instruction and a user message at the given
	// sampling temperature and returns the model's single text response.
	// Network, timeout and quota failures are returned as errors.
	Complete(ctx context.Context, system, user string, temperature float64) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and LanguageModel instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// LanguageModel returns the completion service used for routing and synthesis.
	// The returned LanguageModel is safe for concurrent use.
	LanguageModel() LanguageModel

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
