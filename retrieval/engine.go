package retrieval

import (
	"context"
	"log/slog"
	"sort"

	"github.com/poiesic/switchboard/ai"
	"github.com/poiesic/switchboard/core"
	"github.com/poiesic/switchboard/storage"
)

// Engine ranks chunks by cosine similarity to an embedded query.
// Every call takes one full snapshot of the corpus; there is no index.
type Engine struct {
	corpus    storage.CorpusReader
	embedder  ai.Embedder
	dimension int
	logger    *slog.Logger
}

// NewEngine creates a vector ranking engine.
func NewEngine(corpus storage.CorpusReader, embedder ai.Embedder, opts ...Option) (*Engine, error) {
	if corpus == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := defaultSettings()
	if err := s.apply(opts); err != nil {
		return nil, err
	}

	return &Engine{
		corpus:    corpus,
		embedder:  embedder,
		dimension: s.dimension,
		logger:    s.logger.With("component", "vector-engine"),
	}, nil
}

// Rank returns up to topK chunks ordered by descending similarity to query.
//
// A failed query embedding or an empty corpus yields an empty result and a
// nil error. Only a failure to read the corpus is returned as an error.
func (e *Engine) Rank(ctx context.Context, query string, topK int) ([]core.ScoredChunk, error) {
	if topK <= 0 {
		return []core.ScoredChunk{}, nil
	}

	vector, err := e.embedder.EmbedText(ctx, query)
	if err != nil {
		e.logger.Warn("query embedding failed", "query", query, "err", err)
		return []core.ScoredChunk{}, nil
	}

	chunks, err := e.corpus.ScanAll(ctx)
	if err != nil {
		e.logger.Error("error reading corpus", "err", err)
		return nil, err
	}

	results := e.rank(vector, chunks, topK)
	e.logger.Debug("ranked corpus", "chunks", len(chunks), "hits", len(results))
	return results, nil
}

func (e *Engine) rank(vector []float32, chunks []*core.Chunk, topK int) []core.ScoredChunk {
	return RankSnapshot(vector, chunks, topK, e.dimension)
}

// RankSnapshot scores chunks against vector and returns the best topK.
// Chunks without a usable embedding are excluded. Ties keep snapshot order.
// A positive dimension also excludes embeddings of any other length.
func RankSnapshot(vector []float32, chunks []*core.Chunk, topK, dimension int) []core.ScoredChunk {
	results := make([]core.ScoredChunk, 0)
	if topK <= 0 || (dimension > 0 && len(vector) != dimension) {
		return results
	}
	qn := squaredNorm(vector)
	if qn == 0 {
		return results
	}

	for _, chunk := range chunks {
		if chunk == nil || !chunk.HasEmbedding(dimension) || len(chunk.Embedding) != len(vector) {
			continue
		}
		score, ok := cosineFrom(dot(vector, chunk.Embedding), qn, squaredNorm(chunk.Embedding))
		if !ok {
			continue
		}
		results = append(results, core.ScoredChunk{Chunk: chunk, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
