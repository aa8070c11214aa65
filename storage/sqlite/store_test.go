package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/switchboard/core"
	"github.com/poiesic/switchboard/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "index", "articles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_AddAndScan(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	date := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	added, err := store.AddChunks(ctx,
		&core.Chunk{Title: "One", Content: "first", Summary: "s1", Keywords: []string{"Branding", "web"}, SourceURL: "https://example.com/1", Date: date, Embedding: []float32{1, 0}},
		&core.Chunk{Title: "Two", Content: "second"},
	)
	require.NoError(t, err)
	assert.NotZero(t, added[0].ID)
	assert.Greater(t, added[1].ID, added[0].ID)

	chunks, err := store.ScanAll(ctx)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	first := chunks[0]
	assert.Equal(t, "One", first.Title)
	assert.Equal(t, "s1", first.Summary)
	assert.Equal(t, []string{"branding", "web"}, first.Keywords)
	assert.Equal(t, "https://example.com/1", first.SourceURL)
	assert.True(t, date.Equal(first.Date))
	assert.Equal(t, []float32{1, 0}, first.Embedding)

	assert.Nil(t, chunks[1].Embedding)
	assert.Nil(t, chunks[1].Keywords)
}

func TestStore_DuplicateTitle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddChunks(ctx, &core.Chunk{Title: "Same", Content: "a"})
	require.NoError(t, err)

	fresh := &core.Chunk{Title: "Fresh", Content: "c", Keywords: []string{"Mixed"}}
	_, err = store.AddChunks(ctx, fresh, &core.Chunk{Title: "Same", Content: "b"})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	assert.Zero(t, fresh.ID, "rolled back chunks get no ID")
	assert.Equal(t, []string{"Mixed"}, fresh.Keywords)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_MalformedEmbedding(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.db.Exec(`INSERT INTO blog_articles (title, content, embedding) VALUES ('Broken', 'body', '[0.1, nope')`)
	require.NoError(t, err)

	chunks, err := store.ScanAll(ctx)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Broken", chunks[0].Title)
	assert.Nil(t, chunks[0].Embedding)
}

func TestStore_LexicalMatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddChunks(ctx,
		&core.Chunk{Title: "Podcast Studio", Content: "audio"},
		&core.Chunk{Title: "Other", Content: "A PODCAST story"},
		&core.Chunk{Title: "Tagged", Content: "print", Keywords: []string{"podcast"}},
		&core.Chunk{Title: "Discount", Content: "100% off"},
		&core.Chunk{Title: "Nothing", Content: "unrelated"},
		&core.Chunk{Title: "Über uns", Content: "Wir sind ein Team", Keywords: []string{"Ökologie"}},
	)
	require.NoError(t, err)

	t.Run("case insensitive across fields", func(t *testing.T) {
		matches, err := store.LexicalMatch(ctx, "podcast")
		require.NoError(t, err)
		require.Len(t, matches, 3)
		assert.Equal(t, "Podcast Studio", matches[0].Title)
		assert.Equal(t, "Other", matches[1].Title)
		assert.Equal(t, "Tagged", matches[2].Title)
	})

	t.Run("case folding beyond ASCII", func(t *testing.T) {
		for _, q := range []string{"über", "ÜBER UNS", "ÖKO", "TEAM"} {
			matches, err := store.LexicalMatch(ctx, q)
			require.NoError(t, err)
			require.Len(t, matches, 1, q)
			assert.Equal(t, "Über uns", matches[0].Title)
		}
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		matches, err := store.LexicalMatch(ctx, "100%")
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "Discount", matches[0].Title)

		matches, err = store.LexicalMatch(ctx, "_")
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestStore_UpdateEnrichDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	added, err := store.AddChunks(ctx, &core.Chunk{Title: "Article", Content: "body", Summary: "old"})
	require.NoError(t, err)
	id := added[0].ID

	t.Run("update embedding", func(t *testing.T) {
		chunk, err := store.GetChunk(ctx, id)
		require.NoError(t, err)
		chunk.Embedding = []float32{0.25, 0.75}
		_, err = store.UpdateChunks(ctx, chunk)
		require.NoError(t, err)

		got, err := store.GetChunk(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []float32{0.25, 0.75}, got.Embedding)
	})

	t.Run("update missing", func(t *testing.T) {
		_, err := store.UpdateChunks(ctx, &core.Chunk{ID: 999, Title: "x", Content: "y"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("enrich", func(t *testing.T) {
		chunk, err := store.Enrich(ctx, "Article", "new", []string{"Client", "client"})
		require.NoError(t, err)
		assert.Equal(t, "new", chunk.Summary)
		assert.Equal(t, []string{"client"}, chunk.Keywords)
		assert.Equal(t, []float32{0.25, 0.75}, chunk.Embedding)

		_, err = store.Enrich(ctx, "Missing", "s", nil)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.DeleteChunks(ctx, id))
		_, err := store.GetChunk(ctx, id)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteChunks(ctx, id), storage.ErrNotFound)
	})
}
