package retrieval

import (
	"context"
	"log/slog"
	"sort"
	"unicode/utf8"

	"github.com/poiesic/switchboard/core"
	"github.com/poiesic/switchboard/storage"
)

// LexicalSearch matches the raw query text against chunk titles, content
// and keywords. It is the degrade path used when vector ranking is empty.
type LexicalSearch struct {
	corpus storage.CorpusReader
	logger *slog.Logger
}

// NewLexicalSearch creates a lexical fallback search.
func NewLexicalSearch(corpus storage.CorpusReader, opts ...Option) (*LexicalSearch, error) {
	if corpus == nil {
		return nil, ErrStoreRequired
	}
	s := defaultSettings()
	if err := s.apply(opts); err != nil {
		return nil, err
	}
	return &LexicalSearch{
		corpus: corpus,
		logger: s.logger.With("component", "lexical-search"),
	}, nil
}

// Search returns up to topK references for chunks containing query.
// Returns nil when nothing matches.
func (l *LexicalSearch) Search(ctx context.Context, query string, topK int) ([]core.Reference, error) {
	chunks, err := l.Candidates(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	return references(chunks), nil
}

// Candidates returns up to topK matching chunks, longest content first.
// Chunks of equal length keep corpus order. A topK of 0 returns every match.
func (l *LexicalSearch) Candidates(ctx context.Context, query string, topK int) ([]*core.Chunk, error) {
	if topK < 0 {
		return nil, nil
	}
	matches, err := l.corpus.LexicalMatch(ctx, query)
	if err != nil {
		l.logger.Error("error matching corpus", "query", query, "err", err)
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return utf8.RuneCountInString(matches[i].Content) > utf8.RuneCountInString(matches[j].Content)
	})
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func references(chunks []*core.Chunk) []core.Reference {
	if len(chunks) == 0 {
		return nil
	}
	refs := make([]core.Reference, 0, len(chunks))
	for _, c := range chunks {
		refs = append(refs, c.Reference())
	}
	return refs
}
