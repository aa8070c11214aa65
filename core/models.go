package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored chunks.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Chunk is a unit of ingested text with its metadata and precomputed embedding.
// Chunks are immutable once stored except for summary and keyword re-enrichment.
type Chunk struct {
	ID        ID
	Title     string
	SourceURL string
	Summary   string
	Content   string
	Keywords  []string
	Date      time.Time
	Embedding []float32 // nil when missing or unparseable
}

// Body returns the text used for near-duplicate fingerprints.
// Falls back to the summary when the chunk has no content.
func (c *Chunk) Body() string {
	if c.Content != "" {
		return c.Content
	}
	return c.Summary
}

// HasEmbedding reports whether the chunk carries an embedding of the given dimension.
// A dimension of 0 accepts any non-empty embedding.
func (c *Chunk) HasEmbedding(dim int) bool {
	if len(c.Embedding) == 0 {
		return false
	}
	return dim == 0 || len(c.Embedding) == dim
}

// MatchesText reports whether pattern occurs, case-insensitively, in the
// title, content or any keyword.
func (c *Chunk) MatchesText(pattern string) bool {
	p := strings.ToLower(pattern)
	if strings.Contains(strings.ToLower(c.Title), p) ||
		strings.Contains(strings.ToLower(c.Content), p) {
		return true
	}
	for _, kw := range c.Keywords {
		if strings.Contains(strings.ToLower(kw), p) {
			return true
		}
	}
	return false
}

// Reference converts the chunk into the record handed to answer synthesis.
func (c *Chunk) Reference() Reference {
	return Reference{
		Title:     c.Title,
		Summary:   c.Summary,
		SourceURL: c.SourceURL,
	}
}

// ScoredChunk is a chunk ranked against a query embedding.
type ScoredChunk struct {
	Chunk *Chunk
	Score float64 // cosine similarity in [-1, 1]
}

// Reference is a retrieval result as exposed to the language model.
type Reference struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	SourceURL string `json:"source_url"`
}

// Notice is a single-message record emitted in place of results.
type Notice struct {
	Message string `json:"message"`
}

// ErrorNotice is a single-message record describing a degraded tool.
type ErrorNotice struct {
	Error string `json:"error"`
}
