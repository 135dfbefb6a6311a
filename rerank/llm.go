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

package rerank

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/websearchqa/ragqa/model"
	"github.com/websearchqa/ragqa/ragdoc"
)

// LLMReranker asks an LLM to score each chunk's relevance to the
// query, on a JSON-array ranking prompt. Scores come from the LLM's
// own declared relevance, normalized to [0,1], rather than a
// position-based synthetic scoring.
type LLMReranker struct {
	llm model.LLM
}

// NewLLMReranker creates an LLMReranker.
func NewLLMReranker(llm model.LLM) *LLMReranker {
	return &LLMReranker{llm: llm}
}

type ranking struct {
	Index     int `json:"index"`
	Relevance int `json:"relevance"`
}

// Rerank implements Reranker. On any LLM or parse failure it falls
// back to a JaccardReranker pass rather than failing the stage.
func (r *LLMReranker) Rerank(ctx context.Context, query string, chunks []ragdoc.SemanticChunk, k int) []Result {
	if k <= 0 {
		k = DefaultK
	}
	if len(chunks) == 0 {
		return nil
	}

	prompt := buildRerankPrompt(query, chunks)
	response, err := r.llm.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("reranking LLM call failed, falling back to lexical overlap", "error", err)
		return (&JaccardReranker{}).Rerank(ctx, query, chunks, k)
	}

	rankings, err := parseRankings(response, len(chunks))
	if err != nil {
		slog.Warn("failed to parse reranking response, falling back to lexical overlap", "error", err)
		return (&JaccardReranker{}).Rerank(ctx, query, chunks, k)
	}

	results := make([]Result, 0, len(rankings))
	for _, rk := range rankings {
		if rk.Index < 0 || rk.Index >= len(chunks) {
			continue
		}
		results = append(results, Result{
			Chunk: chunks[rk.Index],
			Score: normalizeRelevance(rk.Relevance),
		})
	}
	if len(results) > k {
		results = results[:k]
	}
	return results
}

func buildRerankPrompt(query string, chunks []ragdoc.SemanticChunk) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Given the query: %q\n\nRank the following passages by relevance to the query. For each, give a relevance score from 1-10 (10 = most relevant).\n\nPassages:\n", query)
	for i, c := range chunks {
		content := c.Content
		if len(content) > 500 {
			content = content[:500] + "..."
		}
		fmt.Fprintf(&sb, "\n[%d] %s\n", i, content)
	}
	sb.WriteString("\n\nRespond with only a JSON array, ordered most to least relevant:\n[{\"index\": 0, \"relevance\": 9}, ...]")
	return sb.String()
}

func parseRankings(response string, numChunks int) ([]ranking, error) {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start == -1 || end == -1 || start >= end {
		return nil, fmt.Errorf("no JSON array found in reranking response")
	}

	var rankings []ranking
	if err := json.Unmarshal([]byte(response[start:end+1]), &rankings); err != nil {
		return nil, fmt.Errorf("failed to parse rankings JSON: %w", err)
	}

	seen := make(map[int]bool)
	valid := make([]ranking, 0, len(rankings))
	for _, rk := range rankings {
		if rk.Index >= 0 && rk.Index < numChunks && !seen[rk.Index] {
			seen[rk.Index] = true
			valid = append(valid, rk)
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no valid rankings parsed")
	}

	sort.Slice(valid, func(i, j int) bool { return valid[i].Relevance > valid[j].Relevance })
	return valid, nil
}

// normalizeRelevance maps a 1-10 LLM relevance score to [0,1].
func normalizeRelevance(relevance int) float32 {
	if relevance < 1 {
		relevance = 1
	}
	if relevance > 10 {
		relevance = 10
	}
	return float32(relevance) / 10.0
}

var _ Reranker = (*LLMReranker)(nil)
