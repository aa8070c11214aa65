package retrieval

import (
	"context"
	"testing"

	"github.com/poiesic/switchboard/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexicalSearch(t *testing.T) {
	corpus := &stubCorpus{chunks: []*core.Chunk{
		chunk(1, "Short podcast", "tiny"),
		chunk(2, "Long", "a much longer story about a PODCAST studio"),
		chunk(3, "Same length A", "podcast 12"),
		chunk(4, "Unrelated", "nothing to see here at all, really"),
		chunk(5, "Same length B", "podcast 34"),
		{ID: 6, Title: "Tagged", Content: "brochure", Keywords: []string{"podcast"}},
	}}
	search, err := NewLexicalSearch(corpus)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("ranked by content length with stable ties", func(t *testing.T) {
		chunks, err := search.Candidates(ctx, "Podcast", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Long", "Same length A", "Same length B", "Tagged", "Short podcast"}, titles(chunks))
	})

	t.Run("limited to topK", func(t *testing.T) {
		refs, err := search.Search(ctx, "podcast", 2)
		require.NoError(t, err)
		require.Len(t, refs, 2)
		assert.Equal(t, "Long", refs[0].Title)
		assert.Equal(t, "Same length A", refs[1].Title)
	})

	t.Run("no match", func(t *testing.T) {
		refs, err := search.Search(ctx, "blockchain", 5)
		require.NoError(t, err)
		assert.Nil(t, refs)
	})

	t.Run("store failure", func(t *testing.T) {
		failing, err := NewLexicalSearch(&stubCorpus{matchErr: errCorpusDown})
		require.NoError(t, err)
		_, err = failing.Search(ctx, "podcast", 5)
		assert.ErrorIs(t, err, errCorpusDown)
	})

	t.Run("nil corpus", func(t *testing.T) {
		_, err := NewLexicalSearch(nil)
		assert.Equal(t, ErrStoreRequired, err)
	})
}

func TestLexicalSearch_LengthCountsCharacters(t *testing.T) {
	// 16 characters in 25 bytes against 22 characters in 22 bytes
	corpus := &stubCorpus{chunks: []*core.Chunk{
		chunk(1, "Umlauts", "Studio äöüäöüäöü"),
		chunk(2, "Plain", "Studio in Berlin, 2024"),
	}}
	search, err := NewLexicalSearch(corpus)
	require.NoError(t, err)

	chunks, err := search.Candidates(context.Background(), "studio", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Plain", "Umlauts"}, titles(chunks))
}
