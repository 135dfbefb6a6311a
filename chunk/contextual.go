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
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/websearchqa/ragqa/model"
	"github.com/websearchqa/ragqa/ragdoc"
)

// DefaultMaxConcurrentChunks bounds simultaneous per-document chunking
// across the pipeline.
const DefaultMaxConcurrentChunks = 2

const contextPrompt = `<document>
%s
</document>

Here is a chunk we want to situate within the whole document above:
<chunk>
%s
</chunk>

Give a short, succinct context (1-2 sentences) to situate this chunk within the overall document, for the purpose of improving search retrieval of the chunk. Answer only with the succinct context and nothing else.`

// ContextualChunker implements Anthropic-style contextual retrieval:
// the sliding-window partition, plus a per-chunk LLM-generated
// situating context prepended to the indexed content.
//
// Each ContextualChunker owns a semaphore that bounds how many
// documents it chunks concurrently, since contextual chunking issues
// one LLM call per chunk and can otherwise saturate the endpoint
// across documents running in the same pipeline stage.
type ContextualChunker struct {
	llm       model.LLM
	ChunkSize int
	Overlap   int
	docSem    *semaphore.Weighted
}

// NewContextualChunker creates a ContextualChunker. maxConcurrentChunks
// bounds the number of documents chunked concurrently; zero falls back
// to DefaultMaxConcurrentChunks.
func NewContextualChunker(llm model.LLM, chunkSize, overlap, maxConcurrentChunks int) *ContextualChunker {
	if maxConcurrentChunks <= 0 {
		maxConcurrentChunks = DefaultMaxConcurrentChunks
	}
	return &ContextualChunker{
		llm:       llm,
		ChunkSize: chunkSize,
		Overlap:   overlap,
		docSem:    semaphore.NewWeighted(int64(maxConcurrentChunks)),
	}
}

// Chunk implements Chunker. Per-chunk LLM context calls within this
// document run in parallel, each call itself embedding the full
// document text.
func (c *ContextualChunker) Chunk(ctx context.Context, doc ragdoc.WebDocumentContent, query string) []ragdoc.SemanticChunk {
	if err := c.docSem.Acquire(ctx, 1); err != nil {
		slog.Warn("contextual chunking could not acquire document slot, skipping document", "url", doc.URL, "error", err)
		return nil
	}
	defer c.docSem.Release(1)

	windows := slidingWindow(doc.URL, doc.Content, c.ChunkSize, c.Overlap)
	chunks := make([]ragdoc.SemanticChunk, len(windows))

	g, gctx := errgroup.WithContext(ctx)
	for i, w := range windows {
		i, w := i, w
		g.Go(func() error {
			chunks[i] = c.contextualize(gctx, w, doc, query, i)
			return nil
		})
	}
	_ = g.Wait()

	return chunks
}

// contextualize calls the LLM for one window's situating context. On
// LLM failure it falls back to the raw passage text and sets
// contextual_retrieval=false on the resulting chunk's metadata.
func (c *ContextualChunker) contextualize(ctx context.Context, w window, doc ragdoc.WebDocumentContent, query string, position int) ragdoc.SemanticChunk {
	prompt := fmt.Sprintf(contextPrompt, doc.Content, w.text)

	situating, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("contextual chunk LLM call failed, falling back to raw passage", "url", doc.URL, "offset", w.offset, "error", err)
		return newChunk(w, doc.URL, w.text, query, position, doc.DocumentID, w.text, false)
	}

	content := situating + "\n\n" + w.text
	return newChunk(w, doc.URL, content, query, position, doc.DocumentID, w.text, true)
}

var _ Chunker = (*ContextualChunker)(nil)
