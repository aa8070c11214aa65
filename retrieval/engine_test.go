package retrieval

import (
	"context"
	"testing"

	"github.com/poiesic/switchboard/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	corpus := &stubCorpus{}
	embedder := fixedEmbedder([]float32{1, 0})

	t.Run("valid configuration", func(t *testing.T) {
		engine, err := NewEngine(corpus, embedder)
		require.NoError(t, err)
		assert.NotNil(t, engine)
	})

	t.Run("nil corpus", func(t *testing.T) {
		_, err := NewEngine(nil, embedder)
		assert.Equal(t, ErrStoreRequired, err)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewEngine(corpus, nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})

	t.Run("negative dimension", func(t *testing.T) {
		_, err := NewEngine(corpus, embedder, WithDimension(-1))
		assert.ErrorIs(t, err, ErrInvalidOption)
	})
}

func TestEngine_RankOrdering(t *testing.T) {
	corpus := &stubCorpus{chunks: []*core.Chunk{
		chunk(1, "orthogonal", "c", 0, 1),
		chunk(2, "close", "b", 0.9, 0.1),
		chunk(3, "exact", "a", 1, 0),
		chunk(4, "opposite", "d", -1, 0),
	}}
	engine, err := NewEngine(corpus, fixedEmbedder([]float32{1, 0}))
	require.NoError(t, err)

	hits, err := engine.Rank(context.Background(), "query", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"exact", "close", "orthogonal", "opposite"}, hitTitles(hits))

	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
	}
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	assert.InDelta(t, -1.0, hits[3].Score, 1e-9)
}

func TestEngine_RankLength(t *testing.T) {
	corpus := &stubCorpus{chunks: []*core.Chunk{
		chunk(1, "a", "a", 1, 0),
		chunk(2, "missing", "no embedding"),
		chunk(3, "b", "b", 0.5, 0.5),
		chunk(4, "wrong dimension", "x", 1, 0, 0),
		chunk(5, "c", "c", 0, 1),
		chunk(6, "zero norm", "z", 0, 0),
		chunk(7, "d", "d", -0.2, 0.8),
	}}
	engine, err := NewEngine(corpus, fixedEmbedder([]float32{1, 0}))
	require.NoError(t, err)

	valid := 4
	for topK := -1; topK <= 6; topK++ {
		hits, err := engine.Rank(context.Background(), "query", topK)
		require.NoError(t, err)
		assert.Len(t, hits, max(0, min(topK, valid)), "topK=%d", topK)
		for _, h := range hits {
			assert.NotContains(t, []string{"missing", "wrong dimension", "zero norm"}, h.Chunk.Title)
		}
	}
}

func TestEngine_RankStableOnTies(t *testing.T) {
	corpus := &stubCorpus{chunks: []*core.Chunk{
		chunk(1, "first", "1", 1, 0),
		chunk(2, "lower", "2", 0, 1),
		chunk(3, "second", "3", 2, 0),
		chunk(4, "third", "4", 3, 0),
	}}
	engine, err := NewEngine(corpus, fixedEmbedder([]float32{1, 0}))
	require.NoError(t, err)

	for range 5 {
		hits, err := engine.Rank(context.Background(), "query", 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second", "third"}, hitTitles(hits))
	}
}

func TestEngine_RankDegradesToEmpty(t *testing.T) {
	t.Run("embedding failure", func(t *testing.T) {
		corpus := &stubCorpus{chunks: []*core.Chunk{chunk(1, "a", "a", 1, 0)}}
		engine, err := NewEngine(corpus, failingEmbedder())
		require.NoError(t, err)

		hits, err := engine.Rank(context.Background(), "query", 5)
		require.NoError(t, err)
		assert.Empty(t, hits)
		assert.Equal(t, 0, corpus.scanCalls)
	})

	t.Run("empty corpus", func(t *testing.T) {
		engine, err := NewEngine(&stubCorpus{}, fixedEmbedder([]float32{1, 0}))
		require.NoError(t, err)

		hits, err := engine.Rank(context.Background(), "query", 5)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("zero query vector", func(t *testing.T) {
		corpus := &stubCorpus{chunks: []*core.Chunk{chunk(1, "a", "a", 1, 0)}}
		engine, err := NewEngine(corpus, fixedEmbedder([]float32{0, 0}))
		require.NoError(t, err)

		hits, err := engine.Rank(context.Background(), "query", 5)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("query dimension differs from configured", func(t *testing.T) {
		corpus := &stubCorpus{chunks: []*core.Chunk{chunk(1, "a", "a", 1, 0)}}
		engine, err := NewEngine(corpus, fixedEmbedder([]float32{1, 0}), WithDimension(3))
		require.NoError(t, err)

		hits, err := engine.Rank(context.Background(), "query", 5)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}

func TestEngine_RankStoreFailure(t *testing.T) {
	corpus := &stubCorpus{scanErr: errCorpusDown}
	engine, err := NewEngine(corpus, fixedEmbedder([]float32{1, 0}))
	require.NoError(t, err)

	_, err = engine.Rank(context.Background(), "query", 5)
	assert.ErrorIs(t, err, errCorpusDown)
}

func TestRankSnapshot(t *testing.T) {
	chunks := []*core.Chunk{
		chunk(1, "a", "a", 0.2, 0.8),
		nil,
		chunk(2, "b", "b", 0.8, 0.2),
	}

	hits := RankSnapshot([]float32{1, 0}, chunks, 5, 0)
	assert.Equal(t, []string{"b", "a"}, hitTitles(hits))

	hits = RankSnapshot([]float32{1, 0}, chunks, 5, 3)
	assert.Empty(t, hits)
}
