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


// Package indexing loads articles into the corpus and backfills their embeddings.
//
// Indexing is the only writer of the corpus. Loader inserts new
// articles and re-enriches existing ones; Indexer embeds every chunk whose
// embedding is missing or has the wrong dimension, in batches on a worker
// pool with retry and progress reporting.
package indexing
