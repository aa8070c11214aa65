package indexing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/switchboard/core"
	"github.com/poiesic/switchboard/storage"
)

// Article is one record of an article export.
type Article struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary"`
	Keywords  []string  `json:"keywords"`
	SourceURL string    `json:"source_url"`
	URL       string    `json:"url"`
	Date      string    `json:"date"`
	Embedding []float32 `json:"embedding"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", "02.01.2006", "January 2, 2006"}

// Chunk converts the article, assigning keywords from vocab when the
// article carries none.
func (a Article) Chunk(vocab *Vocabulary) *core.Chunk {
	c := &core.Chunk{
		Title:     strings.TrimSpace(a.Title),
		Content:   a.Content,
		Summary:   a.Summary,
		Keywords:  core.NormalizeKeywords(a.Keywords),
		SourceURL: a.SourceURL,
		Embedding: a.Embedding,
	}
	if c.SourceURL == "" {
		c.SourceURL = a.URL
	}
	if len(c.Keywords) == 0 && vocab != nil {
		c.Keywords = vocab.Extract(c.Title + "\n" + c.Content)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(a.Date)); err == nil {
			c.Date = t
			break
		}
	}
	return c
}

// LoadReport summarizes a load.
type LoadReport struct {
	Inserted int
	Enriched int
	Skipped  int
}

// Loader inserts articles into a corpus.
type Loader struct {
	repo   storage.CorpusRepository
	vocab  *Vocabulary
	logger *slog.Logger
}

// NewLoader creates a loader. vocab may be nil to leave articles without
// keywords untouched.
func NewLoader(repo storage.CorpusRepository, vocab *Vocabulary) (*Loader, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	return &Loader{
		repo:   repo,
		vocab:  vocab,
		logger: slog.Default().With("component", "loader"),
	}, nil
}

// LoadFile reads a JSON array of articles from path.
func (l *Loader) LoadFile(ctx context.Context, path string) (LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadReport{}, fmt.Errorf("opening articles: %w", err)
	}
	defer f.Close()
	return l.Load(ctx, f)
}

// Load reads a JSON array of articles. New titles are inserted; titles
// already stored have only their summary and keywords replaced. Invalid
// articles are logged and skipped.
func (l *Loader) Load(ctx context.Context, r io.Reader) (LoadReport, error) {
	var report LoadReport
	var articles []Article
	if err := json.NewDecoder(r).Decode(&articles); err != nil {
		return report, fmt.Errorf("parsing articles: %w", err)
	}

	for _, a := range articles {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		chunk := a.Chunk(l.vocab)
		if err := core.ValidateChunk(chunk); err != nil {
			l.logger.Warn("skipping invalid article", "title", a.Title, "err", err)
			report.Skipped++
			continue
		}

		_, err := l.repo.FindByTitle(ctx, chunk.Title)
		switch {
		case err == nil:
			if _, err := l.repo.Enrich(ctx, chunk.Title, chunk.Summary, chunk.Keywords); err != nil {
				return report, fmt.Errorf("enriching %q: %w", chunk.Title, err)
			}
			l.logger.Debug("updated summary and keywords", "title", chunk.Title)
			report.Enriched++
		case errors.Is(err, storage.ErrNotFound):
			if _, err := l.repo.AddChunks(ctx, chunk); err != nil {
				return report, fmt.Errorf("inserting %q: %w", chunk.Title, err)
			}
			l.logger.Debug("inserted article", "title", chunk.Title)
			report.Inserted++
		default:
			return report, err
		}
	}
	return report, nil
}
