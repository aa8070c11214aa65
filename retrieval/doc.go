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


// Package retrieval ranks corpus chunks against a query.
//
// Retrieval runs in stages:
//   - Vector ranking by cosine similarity over a full corpus snapshot
//   - Lexical substring matching, only when vector ranking finds nothing
//   - Near-duplicate collapsing on a fixed-length body prefix
//
// The Retriever type combines the stages. Engine, LexicalSearch and Dedupe
// can also be used on their own.
package retrieval
