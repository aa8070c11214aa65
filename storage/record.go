// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/switchboard/core"
)

// chunkRecord is the persisted form of a chunk.
// The embedding is kept as JSON text so a damaged vector never hides the
// rest of the record.
type chunkRecord struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	SourceURL string    `json:"source_url"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Keywords  []string  `json:"keywords,omitempty"`
	Date      time.Time `json:"date,omitzero"`
	Embedding string    `json:"embedding,omitempty"`
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) ([]byte, error) {
	embedding, err := EncodeEmbedding(chunk.Embedding)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(chunkRecord{
		ID:        uint64(chunk.ID),
		Title:     chunk.Title,
		SourceURL: chunk.SourceURL,
		Summary:   chunk.Summary,
		Content:   chunk.Content,
		Keywords:  chunk.Keywords,
		Date:      chunk.Date,
		Embedding: embedding,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalChunk deserializes a Chunk from bytes.
//
// When only the embedding is damaged the chunk is still returned, with a nil
// Embedding, together with an error wrapping ErrMalformedEmbedding.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	var rec chunkRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	chunk := &core.Chunk{
		ID:        core.ID(rec.ID),
		Title:     rec.Title,
		SourceURL: rec.SourceURL,
		Summary:   rec.Summary,
		Content:   rec.Content,
		Keywords:  rec.Keywords,
		Date:      rec.Date,
	}
	embedding, err := DecodeEmbedding(rec.Embedding)
	if err != nil {
		return chunk, err
	}
	chunk.Embedding = embedding
	return chunk, nil
}

// EncodeEmbedding renders an embedding as a JSON array. A nil or empty
// embedding encodes to the empty string.
func EncodeEmbedding(embedding []float32) (string, error) {
	if len(embedding) == 0 {
		return "", nil
	}
	data, err := json.Marshal(embedding)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return string(data), nil
}

// DecodeEmbedding parses a JSON array of numbers.
// Empty text and JSON null decode to a nil embedding without error.
func DecodeEmbedding(text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "null" {
		return nil, nil
	}
	var embedding []float32
	if err := json.Unmarshal([]byte(text), &embedding); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEmbedding, err)
	}
	return embedding, nil
}
