package retrieval

import (
	"context"
	"errors"

	"github.com/poiesic/switchboard/ai/mock"
	"github.com/poiesic/switchboard/core"
)

var errCorpusDown = errors.New("corpus unreachable")

// stubCorpus is an in-memory storage.CorpusReader that counts calls.
type stubCorpus struct {
	chunks     []*core.Chunk
	scanErr    error
	matchErr   error
	scanCalls  int
	matchCalls int
}

func (s *stubCorpus) ScanAll(_ context.Context) ([]*core.Chunk, error) {
	s.scanCalls++
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	return append([]*core.Chunk(nil), s.chunks...), nil
}

func (s *stubCorpus) LexicalMatch(_ context.Context, pattern string) ([]*core.Chunk, error) {
	s.matchCalls++
	if s.matchErr != nil {
		return nil, s.matchErr
	}
	var out []*core.Chunk
	for _, c := range s.chunks {
		if c.MatchesText(pattern) {
			out = append(out, c)
		}
	}
	return out, nil
}

// fixedEmbedder returns a mock embedder that always yields vector.
func fixedEmbedder(vector []float32) *mock.MockEmbedder {
	e := mock.NewMockEmbedder()
	e.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return vector, nil
	}
	return e
}

// failingEmbedder returns a mock embedder whose calls always fail.
func failingEmbedder() *mock.MockEmbedder {
	e := mock.NewMockEmbedder()
	e.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	}
	return e
}

func chunk(id core.ID, title, content string, embedding ...float32) *core.Chunk {
	c := &core.Chunk{ID: id, Title: title, Content: content}
	if len(embedding) > 0 {
		c.Embedding = embedding
	}
	return c
}

func titles(chunks []*core.Chunk) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, c.Title)
	}
	return out
}

func hitTitles(hits []core.ScoredChunk) []string {
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Chunk.Title)
	}
	return out
}
