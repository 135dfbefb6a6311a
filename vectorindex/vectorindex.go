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

// Package vectorindex implements the in-memory Vector Index: a flat
// L2 index over chunks of a single run, positionally aligned with its
// chunk list.
//
// Hand-rolled rather than backed by a corpus vector library: the
// corpus's approximate-nearest-neighbor options (e.g. coder/hnsw, used
// elsewhere in this pack) build graph indexes that do not expose exact
// flat L2 distance or the index-id-resolves-to-chunks[i] positional
// invariant this module's retrieval stage depends on, and flat L2 over
// a few thousand chunks does not need approximation.
package vectorindex

import (
	"math"
	"sort"
	"sync"

	"github.com/websearchqa/ragqa/ragdoc"
)

// Match is one result from Search: a chunk and its L2 distance (lower
// is better; this is a rank, not a similarity).
type Match struct {
	Chunk ragdoc.SemanticChunk
	Score float32
}

// Index is a flat L2 vector index over a single run's chunks.
type Index struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float32
	chunks    []ragdoc.SemanticChunk
}

// New creates an empty Index fixed at the given vector dimension.
func New(dimension int) *Index {
	return &Index{dimension: dimension}
}

// Dimension returns the index's fixed vector dimension.
func (idx *Index) Dimension() int { return idx.dimension }

// Len returns the number of chunks currently held.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.chunks)
}

// Add appends chunks whose embedding is set and matches the index
// dimension; others are silently skipped.
func (idx *Index) Add(chunks []ragdoc.SemanticChunk) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, c := range chunks {
		if !c.HasEmbedding() || len(c.Embedding) != idx.dimension {
			continue
		}
		idx.vectors = append(idx.vectors, c.Embedding)
		idx.chunks = append(idx.chunks, c)
	}
}

// Search returns the k nearest chunks to vec by L2 distance, ascending
// (lowest distance first).
func (idx *Index) Search(vec []float32, k int) []Match {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if k <= 0 || len(idx.chunks) == 0 {
		return nil
	}

	matches := make([]Match, len(idx.chunks))
	for i, v := range idx.vectors {
		matches[i] = Match{Chunk: idx.chunks[i], Score: l2Distance(vec, v)}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score < matches[j].Score })
	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k]
}

// Chunks returns the index's positionally-aligned chunk list: chunk i
// here is the chunk whose vector is at vectors[i].
func (idx *Index) Chunks() []ragdoc.SemanticChunk {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]ragdoc.SemanticChunk, len(idx.chunks))
	copy(out, idx.chunks)
	return out
}

// Clear resets both the vector array and the parallel chunk list.
func (idx *Index) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.vectors = nil
	idx.chunks = nil
}

func l2Distance(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}
