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

package retrieval

import (
	"context"
	"log/slog"

	"github.com/websearchqa/ragqa/embedder"
	"github.com/websearchqa/ragqa/ragdoc"
	"github.com/websearchqa/ragqa/vectorindex"
)

// DefaultK is the default number of chunks Retrieve returns.
const DefaultK = 20

// Retriever runs hybrid (dense + BM25) search against a vector index
// and fuses the two ranked lists with Reciprocal Rank Fusion.
type Retriever struct {
	index    *vectorindex.Index
	embedder embedder.Embedder
}

// NewRetriever creates a Retriever over the given index and embedder.
func NewRetriever(index *vectorindex.Index, emb embedder.Embedder) *Retriever {
	return &Retriever{index: index, embedder: emb}
}

// Retrieve implements the Hybrid Retriever contract: embed the query
// (falling back to a zero-vector on embedding failure), search the
// index densely, score it lexically with BM25, fuse both ranked
// lists, and return the top-k chunks by fused score.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) []ragdoc.SemanticChunk {
	if k <= 0 {
		k = DefaultK
	}

	chunks := r.index.Chunks()
	byID := make(map[string]ragdoc.SemanticChunk, len(chunks))
	for _, c := range chunks {
		byID[c.ChunkID] = c
	}

	denseRanked := r.denseRank(ctx, query, chunks)
	sparseRanked := r.sparseRank(query, chunks)

	fused := FuseRanked(denseRanked, sparseRanked)

	results := make([]ragdoc.SemanticChunk, 0, k)
	for _, f := range fused {
		if len(results) >= k {
			break
		}
		if c, ok := byID[f.ID]; ok {
			results = append(results, c)
		}
	}
	return results
}

func (r *Retriever) denseRank(ctx context.Context, query string, chunks []ragdoc.SemanticChunk) []RankedID {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		slog.Warn("query embedding failed, dense retrieval degraded to zero-vector", "error", err)
		vec = embedder.ZeroVector(r.index.Dimension())
	}

	matches := r.index.Search(vec, len(chunks))
	ranked := make([]RankedID, len(matches))
	for i, m := range matches {
		ranked[i] = RankedID{ID: m.Chunk.ChunkID}
	}
	return ranked
}

func (r *Retriever) sparseRank(query string, chunks []ragdoc.SemanticChunk) []RankedID {
	ids := make([]string, len(chunks))
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ChunkID
		texts[i] = c.Content
	}

	bm25 := NewBM25Index(ids, texts)
	scores := bm25.Score(query)

	ranked := make([]RankedID, len(scores))
	for i, s := range scores {
		ranked[i] = RankedID{ID: s.ID}
	}
	return ranked
}
