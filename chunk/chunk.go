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

// Package chunk implements the Chunker stage: splitting a document
// into overlapping passages, optionally augmented with per-chunk
// LLM-generated situating context (Anthropic-style contextual
// retrieval).
package chunk

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/websearchqa/ragqa/ragdoc"
)

// Size and overlap defaults for the sliding window.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
	MinChunkLength   = 50
)

// Chunker splits one crawled document into semantic chunks.
type Chunker interface {
	Chunk(ctx context.Context, doc ragdoc.WebDocumentContent, query string) []ragdoc.SemanticChunk
}

// window is one raw, un-embedded passage produced by the sliding-window
// pass, shared by both chunking strategies.
type window struct {
	offset  int
	text    string
	chunkID string
}

// slidingWindow partitions content into overlapping windows of size
// chunkSize starting every (chunkSize - overlap) characters, discarding
// any whose trimmed length is below MinChunkLength. Offsets and sizes
// are counted in runes, not bytes: content such as Korean text (the
// default query language, and a case the BM25 tokenizer handles
// explicitly) is multi-byte UTF-8, and byte-offset slicing would
// routinely cut a window boundary mid-rune.
func slidingWindow(url, content string, chunkSize, overlap int) []window {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultOverlap
	}
	stride := chunkSize - overlap

	runes := []rune(content)
	var windows []window
	for offset := 0; offset < len(runes); offset += stride {
		end := offset + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		raw := string(runes[offset:end])
		if len([]rune(strings.TrimSpace(raw))) < MinChunkLength {
			if end == len(runes) {
				break
			}
			continue
		}
		windows = append(windows, window{
			offset:  offset,
			text:    raw,
			chunkID: chunkID(url, offset, raw),
		})
		if end == len(runes) {
			break
		}
	}
	return windows
}

// chunkID computes MD5(url + "_" + offset + "_" + first-50-chars) over
// the raw passage. Computing it over the raw text (not the
// contextualized content) means identical passages retrieved by
// different strategies share an ID. The prefix is taken by rune, not
// byte, for the same multi-byte-content reason as slidingWindow.
func chunkID(url string, offset int, raw string) string {
	prefixRunes := []rune(raw)
	if len(prefixRunes) > 50 {
		prefixRunes = prefixRunes[:50]
	}
	h := md5.Sum([]byte(fmt.Sprintf("%s_%d_%s", url, offset, string(prefixRunes))))
	return hex.EncodeToString(h[:])
}

func newChunk(w window, sourceURL, content, query string, position int, parentDocID string, originalContent string, contextual bool) ragdoc.SemanticChunk {
	return ragdoc.SemanticChunk{
		ChunkID:   w.chunkID,
		Content:   content,
		SourceURL: sourceURL,
		Metadata: ragdoc.ChunkMetadata{
			Position:            position,
			Query:               query,
			ParentDocumentID:    parentDocID,
			UpdatedAt:           time.Now(),
			OriginalContent:     originalContent,
			ContextualRetrieval: contextual,
		},
		CreatedAt: time.Now(),
	}
}
