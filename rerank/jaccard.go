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
	"sort"

	"github.com/websearchqa/ragqa/ragdoc"
	"github.com/websearchqa/ragqa/retrieval"
)

// JaccardReranker is the default fallback scorer: token overlap
// between query and chunk content, bounded in [0,1].
type JaccardReranker struct{}

// Rerank implements Reranker.
func (JaccardReranker) Rerank(_ context.Context, query string, chunks []ragdoc.SemanticChunk, k int) []Result {
	if k <= 0 {
		k = DefaultK
	}
	if len(chunks) == 0 {
		return nil
	}

	queryTokens := tokenSet(query)
	results := make([]Result, len(chunks))
	for i, c := range chunks {
		results[i] = Result{Chunk: c, Score: jaccardOverlap(queryTokens, tokenSet(c.Content))}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > k {
		results = results[:k]
	}
	return results
}

func tokenSet(text string) map[string]struct{} {
	tokens := retrieval.Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// jaccardOverlap returns |query ∩ content| / |query|, bounded [0,1].
// This is query-overlap, not a true Jaccard index (which would divide
// by the union).
func jaccardOverlap(query, content map[string]struct{}) float32 {
	if len(query) == 0 {
		return 0
	}
	var overlap int
	for t := range query {
		if _, ok := content[t]; ok {
			overlap++
		}
	}
	score := float32(overlap) / float32(len(query))
	if score > 1 {
		score = 1
	}
	return score
}

var _ Reranker = JaccardReranker{}
