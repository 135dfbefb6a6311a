// Copyright 2025 Kadir Pekel
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

// Package rerank implements the Reranker stage: reorder retrieved
// chunks by relevance and truncate to k, exposing a score per chunk.
package rerank

import (
	"context"

	"github.com/websearchqa/ragqa/ragdoc"
)

// DefaultK is the number of chunks Rerank returns.
const DefaultK = 5

// Result pairs a reranked chunk with its relevance score.
type Result struct {
	Chunk ragdoc.SemanticChunk
	Score float32
}

// Reranker produces a descending-by-score ordering over its input
// chunks, truncated to k.
type Reranker interface {
	Rerank(ctx context.Context, query string, chunks []ragdoc.SemanticChunk, k int) []Result
}
