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

package chunk

import (
	"context"

	"github.com/websearchqa/ragqa/ragdoc"
)

// SimpleChunker implements the plain sliding-window strategy.
type SimpleChunker struct {
	ChunkSize int
	Overlap   int
}

// NewSimpleChunker creates a SimpleChunker. A non-positive chunkSize
// falls back to DefaultChunkSize, and an overlap outside [0, chunkSize)
// falls back to DefaultOverlap; an overlap of zero is kept.
func NewSimpleChunker(chunkSize, overlap int) *SimpleChunker {
	return &SimpleChunker{ChunkSize: chunkSize, Overlap: overlap}
}

// Chunk implements Chunker.
func (c *SimpleChunker) Chunk(_ context.Context, doc ragdoc.WebDocumentContent, query string) []ragdoc.SemanticChunk {
	windows := slidingWindow(doc.URL, doc.Content, c.ChunkSize, c.Overlap)

	chunks := make([]ragdoc.SemanticChunk, 0, len(windows))
	for i, w := range windows {
		chunks = append(chunks, newChunk(w, doc.URL, w.text, query, i, doc.DocumentID, "", false))
	}
	return chunks
}

var _ Chunker = (*SimpleChunker)(nil)
