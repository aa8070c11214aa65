package badger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/switchboard/core"
	"github.com/poiesic/switchboard/storage"
)

// CorpusRepository implements storage.CorpusRepository for BadgerDB.
type CorpusRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
	logger  *slog.Logger
}

var _ storage.CorpusRepository = (*CorpusRepository)(nil)

// NewCorpusRepository creates a new CorpusRepository.
func NewCorpusRepository(backend *Backend) (*CorpusRepository, error) {
	idSeq, err := backend.GetSequence(chunkIDSeq)
	if err != nil {
		return nil, err
	}

	return &CorpusRepository{
		backend: backend,
		idSeq:   idSeq,
		logger:  backend.logger.With("repository", "corpus"),
	}, nil
}

// Close releases the ID sequence.
func (r *CorpusRepository) Close() error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return r.idSeq.Release()
}

// ScanAll returns every chunk in insertion order.
func (r *CorpusRepository) ScanAll(ctx context.Context) ([]*core.Chunk, error) {
	return r.collect(ctx, func(*core.Chunk) bool { return true })
}

// LexicalMatch returns chunks matching pattern in title, content or keywords.
func (r *CorpusRepository) LexicalMatch(ctx context.Context, pattern string) ([]*core.Chunk, error) {
	return r.collect(ctx, func(c *core.Chunk) bool { return c.MatchesText(pattern) })
}

// collect scans all chunks, keeping those accepted by keep.
// Damaged embeddings are logged and cleared; unreadable records are logged and skipped.
func (r *CorpusRepository) collect(ctx context.Context, keep func(*core.Chunk) bool) ([]*core.Chunk, error) {
	chunks := make([]*core.Chunk, 0)
	err := r.backend.IteratePrefix(ctx, []byte(chunkPrefix), func(key, val []byte) error {
		chunk, err := storage.UnmarshalChunk(val)
		switch {
		case errors.Is(err, storage.ErrMalformedEmbedding):
			r.logger.Warn("skipping malformed embedding", "id", chunk.ID, "title", chunk.Title, "err", err)
		case err != nil:
			r.logger.Error("skipping unreadable chunk record", "key", key, "err", err)
			return nil
		}
		if keep(chunk) {
			chunks = append(chunks, chunk)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// AddChunks validates and stores new chunks with sequence-generated IDs.
func (r *CorpusRepository) AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return nil, err
		}
	}

	// Chunks are written as copies so a rolled back batch leaves the
	// caller's chunks without IDs
	stored := make([]core.Chunk, len(chunks))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for i, chunk := range chunks {
			titleKey := makeChunkTitleKey(chunk.Title)
			if _, err := tx.Get(titleKey); err == nil {
				return storage.ErrDuplicateKey
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			id, err := r.nextID()
			if err != nil {
				return err
			}
			stored[i] = *chunk
			stored[i].ID = id
			stored[i].Keywords = core.NormalizeKeywords(chunk.Keywords)

			if err := r.writeChunk(tx, &stored[i]); err != nil {
				return err
			}
			if err := tx.Set(titleKey, encodeID(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	for i, chunk := range chunks {
		chunk.ID = stored[i].ID
		chunk.Keywords = stored[i].Keywords
	}
	return chunks, nil
}

// UpdateChunks replaces existing chunks, keeping the title index current.
func (r *CorpusRepository) UpdateChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			old, err := r.readChunk(tx, chunk.ID)
			if err != nil {
				return err
			}

			if old.Title != chunk.Title {
				if err := tx.Delete(makeChunkTitleKey(old.Title)); err != nil {
					return err
				}
				if err := tx.Set(makeChunkTitleKey(chunk.Title), encodeID(chunk.ID)); err != nil {
					return err
				}
			}

			if err := r.writeChunk(tx, chunk); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return chunks, nil
}

// GetChunk retrieves a single chunk by ID.
func (r *CorpusRepository) GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error) {
	var chunk *core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		chunk, err = r.readChunk(tx, id)
		return err
	}, false)
	return chunk, err
}

// FindByTitle retrieves the chunk stored under title.
func (r *CorpusRepository) FindByTitle(ctx context.Context, title string) (*core.Chunk, error) {
	var chunk *core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		chunk, err = r.readByTitle(tx, title)
		return err
	}, false)
	return chunk, err
}

// Enrich replaces the summary and keywords of the chunk stored under title.
func (r *CorpusRepository) Enrich(ctx context.Context, title, summary string, keywords []string) (*core.Chunk, error) {
	var chunk *core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		chunk, err = r.readByTitle(tx, title)
		if err != nil {
			return err
		}
		chunk.Summary = summary
		chunk.Keywords = core.NormalizeKeywords(keywords)
		if err := r.writeChunk(tx, chunk); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return chunk, nil
}

// DeleteChunks removes chunks and their title index entries.
func (r *CorpusRepository) DeleteChunks(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			chunk, err := r.readChunk(tx, id)
			if err != nil {
				return err
			}
			if err := tx.Delete(makeChunkKey(id)); err != nil {
				return err
			}
			if err := tx.Delete(makeChunkTitleKey(chunk.Title)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Count returns the number of stored chunks.
func (r *CorpusRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.IteratePrefix(ctx, []byte(chunkPrefix), func(_, _ []byte) error {
		count++
		return nil
	})
	return count, err
}

func (r *CorpusRepository) nextID() (core.ID, error) {
	next, err := r.idSeq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if next == 0 {
		if next, err = r.idSeq.Next(); err != nil {
			return 0, err
		}
	}
	return core.ID(next), nil
}

func (r *CorpusRepository) writeChunk(tx *badger.Txn, chunk *core.Chunk) error {
	value, err := storage.MarshalChunk(chunk)
	if err != nil {
		return err
	}
	return tx.Set(makeChunkKey(chunk.ID), value)
}

// readChunk loads a chunk by ID, tolerating a damaged embedding.
func (r *CorpusRepository) readChunk(tx *badger.Txn, id core.ID) (*core.Chunk, error) {
	item, err := tx.Get(makeChunkKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	var chunk *core.Chunk
	err = item.Value(func(val []byte) error {
		var err error
		chunk, err = storage.UnmarshalChunk(val)
		if errors.Is(err, storage.ErrMalformedEmbedding) {
			r.logger.Warn("chunk has malformed embedding", "id", id, "err", err)
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return chunk, nil
}

func (r *CorpusRepository) readByTitle(tx *badger.Txn, title string) (*core.Chunk, error) {
	item, err := tx.Get(makeChunkTitleKey(title))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	var id core.ID
	if err := item.Value(func(val []byte) error {
		id = decodeID(val)
		return nil
	}); err != nil {
		return nil, err
	}
	return r.readChunk(tx, id)
}
