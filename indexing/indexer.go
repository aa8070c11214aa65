package indexing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/switchboard/ai"
	"github.com/poiesic/switchboard/core"
	"github.com/poiesic/switchboard/storage"
)

// Config holds configuration for an embedding backfill.
type Config struct {
	// BatchSize is the number of chunks embedded per request
	BatchSize int

	// Dimension is the expected embedding length; 0 accepts any length
	Dimension int

	// PoolSize is the number of concurrent batches
	PoolSize int

	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int

	// Retry bounds retries of failed embedding requests
	Retry RetryPolicy

	// Force re-embeds every chunk, not only stale ones
	Force bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:      32,
		PoolSize:       max(1, runtime.NumCPU()/2),
		ReportInterval: 32,
		Retry:          RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second},
	}
}

// Report summarizes a backfill run.
type Report struct {
	Total    int // chunks in the corpus
	Stale    int // chunks needing an embedding
	Embedded int // chunks successfully embedded and stored
	Failed   int // chunks in batches that failed
	Elapsed  time.Duration
}

// Indexer embeds corpus chunks.
type Indexer struct {
	repo     storage.CorpusRepository
	embedder ai.Embedder
	config   Config
	progress io.Writer
	logger   *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// WithProgress sets where progress lines are written.
// Default discards them.
func WithProgress(w io.Writer) Option {
	return func(ix *Indexer) error {
		ix.progress = w
		return nil
	}
}

// WithConfig replaces the default configuration. Zero fields keep defaults.
func WithConfig(config Config) Option {
	return func(ix *Indexer) error {
		d := DefaultConfig()
		if config.BatchSize <= 0 {
			config.BatchSize = d.BatchSize
		}
		if config.PoolSize <= 0 {
			config.PoolSize = d.PoolSize
		}
		if config.ReportInterval <= 0 {
			config.ReportInterval = d.ReportInterval
		}
		if config.Retry.MaxAttempts <= 0 {
			config.Retry = d.Retry
		}
		if config.Dimension < 0 {
			return fmt.Errorf("invalid dimension %d", config.Dimension)
		}
		ix.config = config
		return nil
	}
}

// NewIndexer creates an embedding backfill over repo.
func NewIndexer(repo storage.CorpusRepository, embedder ai.Embedder, opts ...Option) (*Indexer, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	ix := &Indexer{
		repo:     repo,
		embedder: embedder,
		config:   DefaultConfig(),
		progress: io.Discard,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}
	ix.logger = ix.logger.With("component", "indexer")

	return ix, nil
}

// Stale reports whether chunk needs a new embedding.
func (ix *Indexer) Stale(chunk *core.Chunk) bool {
	return ix.config.Force || !chunk.HasEmbedding(ix.config.Dimension)
}

// Run embeds every stale chunk. Batches that fail after retries are
// counted and reported together in the returned error; the others are kept.
func (ix *Indexer) Run(ctx context.Context) (Report, error) {
	var report Report
	start := time.Now()

	chunks, err := ix.repo.ScanAll(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to read corpus: %w", err)
	}
	report.Total = len(chunks)

	stale := make([]*core.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if ix.Stale(c) {
			stale = append(stale, c)
		}
	}
	report.Stale = len(stale)
	if len(stale) == 0 {
		ix.logger.Info("corpus is fully embedded", "chunks", report.Total)
		report.Elapsed = time.Since(start)
		return report, nil
	}

	pool, err := ants.NewPool(ix.config.PoolSize)
	if err != nil {
		return report, err
	}
	defer pool.Release()

	fmt.Fprintf(ix.progress, "Embedding %d of %d chunks (batch size: %d)\n",
		len(stale), len(chunks), ix.config.BatchSize)
	tracker := NewProgressTracker(ix.progress, len(stale), ix.config.ReportInterval)
	tracker.Start()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		errs     []error
		embedded int
	)
	for _, batch := range batches(stale, ix.config.BatchSize) {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			err := ix.embedBatch(ctx, batch)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				ix.logger.Error("batch failed", "size", len(batch), "err", err)
				errs = append(errs, err)
				report.Failed += len(batch)
				return
			}
			embedded += len(batch)
			tracker.Add(len(batch))
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, submitErr)
			report.Failed += len(batch)
			mu.Unlock()
		}
	}
	wg.Wait()
	tracker.Finish()

	report.Embedded = embedded
	report.Elapsed = time.Since(start)
	ix.logger.Info("indexing complete",
		"embedded", report.Embedded,
		"failed", report.Failed,
		"elapsed", report.Elapsed)

	return report, errors.Join(errs...)
}

// embedBatch embeds one batch with retry and stores the vectors.
func (ix *Indexer) embedBatch(ctx context.Context, batch []*core.Chunk) error {
	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.Body()
	}

	var vectors [][]float32
	err := Retry(ctx, ix.config.Retry, func(ctx context.Context) error {
		var err error
		vectors, err = ix.embedder.EmbedTexts(ctx, texts)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", ix.config.Retry.MaxAttempts, err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(batch), len(vectors))
	}

	updated := make([]*core.Chunk, len(batch))
	for i, c := range batch {
		if ix.config.Dimension > 0 && len(vectors[i]) != ix.config.Dimension {
			return fmt.Errorf("embedding for %q has %d values, want %d", c.Title, len(vectors[i]), ix.config.Dimension)
		}
		copied := *c
		copied.Embedding = vectors[i]
		updated[i] = &copied
	}

	if _, err := ix.repo.UpdateChunks(ctx, updated...); err != nil {
		return fmt.Errorf("failed to update chunks: %w", err)
	}
	return nil
}

func batches(chunks []*core.Chunk, size int) [][]*core.Chunk {
	var out [][]*core.Chunk
	for start := 0; start < len(chunks); start += size {
		out = append(out, chunks[start:min(start+size, len(chunks))])
	}
	return out
}
