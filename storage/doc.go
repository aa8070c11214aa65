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


// Package storage provides the corpus storage abstraction for Switchboard.
//
// The query path only needs CorpusReader: a full snapshot scan for vector
// ranking and a substring match for the lexical fallback. CorpusRepository
// adds the write operations used by corpus loading and embedding backfill.
//
// # Implementations
//
//   - storage/badger: embedded key-value store, the default backend
//   - storage/sqlite: a blog_articles table with the embedding held as JSON text
//
// Both persist the embedding as a JSON array of floats. A record whose
// embedding does not parse is still readable; its Embedding is nil, which
// keeps it out of vector ranking while leaving it available to lexical search.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/corpus", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	corpus, err := badger.NewCorpusRepository(backend)
//	chunks, err := corpus.ScanAll(ctx)
//
// Use in tests with in-memory storage:
//
//	corpus, backend, err := badger.NewMemoryCorpus()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support.
package storage
