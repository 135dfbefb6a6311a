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

// Package ragdoc holds the shared vocabulary every pipeline stage
// depends on: the query, the documents it discovers, the chunks it
// indexes, and the response it produces. Centralizing these types
// keeps stage packages (search, crawler, chunk, embedder, retrieval,
// rerank, answer, session) talking the same language instead of each
// redefining the boundary types it touches.
package ragdoc

import "time"

// SearchQuery is one user question plus its expansions.
type SearchQuery struct {
	OriginalQuery    string    `json:"original_query"`
	ProcessedQueries []string  `json:"processed_queries"`
	Language         string    `json:"language"`
	Timestamp        time.Time `json:"timestamp"`
}

// WebDocument is a search-result reference: a URL plus metadata, no body.
type WebDocument struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Snippet     string `json:"snippet,omitempty"`
	SearchQuery string `json:"search_query"`
}

// WebDocumentContent is a fetched page body.
type WebDocumentContent struct {
	URL          string            `json:"url"`
	Content      string            `json:"content"`
	CrawlTime    time.Time         `json:"crawl_datetime"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	DocumentID   string            `json:"document_id"`
}

// MaxContentLength is the hard cap on crawled markdown length.
const MaxContentLength = 50_000

// ChunkMetadata is the fixed set of attributes the retrieval and
// chunking stages actually consume, modeled as a concrete struct
// rather than a free-form map.
type ChunkMetadata struct {
	Position            int       `json:"position"`
	Query               string    `json:"query"`
	ParentDocumentID    string    `json:"parent_document_id"`
	UpdatedAt           time.Time `json:"updated_at"`
	OriginalContent     string    `json:"original_content,omitempty"`
	ContextualRetrieval bool      `json:"contextual_retrieval,omitempty"`
}

// SemanticChunk is the atomic unit of retrieval.
type SemanticChunk struct {
	ChunkID   string        `json:"chunk_id"`
	Content   string        `json:"content"`
	SourceURL string        `json:"source_url"`
	Embedding []float32     `json:"embedding,omitempty"`
	Metadata  ChunkMetadata `json:"metadata"`
	CreatedAt time.Time     `json:"created_at"`
}

// HasEmbedding reports whether the chunk carries a non-empty embedding.
func (c *SemanticChunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// ScratchPad is the retrieval result set handed to the Answerer.
type ScratchPad struct {
	Query    string
	Chunks   []SemanticChunk
	Scores   []float32
	Metadata map[string]any
}

// QAResponse is the terminal artifact of a pipeline run.
type QAResponse struct {
	Query          string   `json:"query"`
	Answer         string   `json:"answer"`
	Sources        []string `json:"sources"`
	Confidence     float32  `json:"confidence"`
	ProcessingTime float64  `json:"processing_time"`
}
