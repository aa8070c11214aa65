package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "https://example.com/a|Title"},
		{name: "empty string", content: ""},
		{name: "long content", content: "This is a much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, IDFromContent(tt.content), IDFromContent(tt.content))
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	assert.NotEqual(t, IDFromContent("content1"), IDFromContent("content2"))
}

func TestChunk_Body(t *testing.T) {
	assert.Equal(t, "content", (&Chunk{Content: "content", Summary: "summary"}).Body())
	assert.Equal(t, "summary", (&Chunk{Summary: "summary"}).Body())
}

func TestChunk_HasEmbedding(t *testing.T) {
	chunk := &Chunk{Embedding: []float32{1, 2, 3}}

	assert.True(t, chunk.HasEmbedding(0))
	assert.True(t, chunk.HasEmbedding(3))
	assert.False(t, chunk.HasEmbedding(4))
	assert.False(t, (&Chunk{}).HasEmbedding(0))
}

func TestChunk_MatchesText(t *testing.T) {
	chunk := &Chunk{
		Title:    "Rebranding a Bakery",
		Content:  "We helped a local bakery find its voice.",
		Keywords: []string{"case study", "branding"},
	}

	tests := []struct {
		name    string
		pattern string
		want    bool
	}{
		{name: "title match ignores case", pattern: "rebranding", want: true},
		{name: "content match", pattern: "LOCAL BAKERY", want: true},
		{name: "keyword match", pattern: "case stud", want: true},
		{name: "no match", pattern: "podcast", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chunk.MatchesText(tt.pattern))
		})
	}
}

func TestChunk_Reference(t *testing.T) {
	chunk := &Chunk{Title: "T", Summary: "S", SourceURL: "https://example.com", Content: "C"}
	assert.Equal(t, Reference{Title: "T", Summary: "S", SourceURL: "https://example.com"}, chunk.Reference())
}
