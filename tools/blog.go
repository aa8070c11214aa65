package tools

import (
	"context"

	"github.com/poiesic/switchboard/core"
	"github.com/poiesic/switchboard/retrieval"
)

// Defaults for BlogReferences.
const (
	DefaultTopK      = 3
	MsgNoBlogResults = "No relevant results found"
)

// BlogReferences searches the article corpus.
type BlogReferences struct {
	retriever    *retrieval.Retriever
	topK         int
	emptyMessage string
}

// BlogOption configures BlogReferences.
type BlogOption func(*BlogReferences)

// WithTopK sets the maximum number of references returned.
// Non-positive values keep DefaultTopK.
func WithTopK(k int) BlogOption {
	return func(b *BlogReferences) {
		if k > 0 {
			b.topK = k
		}
	}
}

// WithEmptyMessage sets the notice returned when nothing matches.
func WithEmptyMessage(msg string) BlogOption {
	return func(b *BlogReferences) {
		if msg != "" {
			b.emptyMessage = msg
		}
	}
}

// NewBlogReferences creates the article search tool.
func NewBlogReferences(retriever *retrieval.Retriever, opts ...BlogOption) (*BlogReferences, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	b := &BlogReferences{
		retriever:    retriever,
		topK:         DefaultTopK,
		emptyMessage: MsgNoBlogResults,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Invoke returns []core.Reference, or a single core.Notice when nothing
// matches. An error means the corpus could not be read.
func (b *BlogReferences) Invoke(ctx context.Context, query string) (any, error) {
	result, err := b.retriever.Retrieve(ctx, retrieval.Query{Text: query, TopK: b.topK})
	if err != nil {
		return nil, err
	}
	if result.Empty() {
		return []core.Notice{{Message: b.emptyMessage}}, nil
	}
	return result.References(), nil
}
