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

// Package retrieval implements the Hybrid Retriever stage: dense
// vector search plus a hand-rolled BM25 lexical search, fused by
// Reciprocal Rank Fusion.
//
// BM25 and RRF are hand-rolled rather than taken from a corpus search
// library: nothing in the retrieval pack exposes exactly this wire
// contract (unclamped IDF, a fixed k1/b, RRF over two ranked lists
// unioned by a caller-defined chunk_id) as a reusable component, and
// the whole computation is a few dozen lines over an in-memory slice.
package retrieval

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// BM25 parameters.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
	// MinTokenLength is the shortest token the tokenizer keeps.
	MinTokenLength = 2
)

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9가-힣]+`)

// Tokenize extracts runs of letters/digits (including Hangul),
// lower-cases them, and drops tokens shorter than MinTokenLength.
func Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(text, -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(t)
		if len([]rune(t)) >= MinTokenLength {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// bm25Document is one document's precomputed token frequency table for
// BM25 scoring.
type bm25Document struct {
	id        string
	termFreq  map[string]int
	docLength int
}

// BM25Index scores documents against a query using Okapi BM25 with
// k1=1.2, b=0.75 and an unclamped IDF: a term in most of the corpus
// can legitimately score negative.
type BM25Index struct {
	docs    []bm25Document
	avgLen  float64
	df      map[string]int
	n       int
}

// NewBM25Index builds a BM25Index over documents, where ids[i] is the
// identifier for texts[i].
func NewBM25Index(ids []string, texts []string) *BM25Index {
	idx := &BM25Index{df: make(map[string]int)}
	var totalLen int

	for i, text := range texts {
		tokens := Tokenize(text)
		freq := make(map[string]int, len(tokens))
		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			freq[tok]++
			if !seen[tok] {
				idx.df[tok]++
				seen[tok] = true
			}
		}
		idx.docs = append(idx.docs, bm25Document{id: ids[i], termFreq: freq, docLength: len(tokens)})
		totalLen += len(tokens)
	}

	idx.n = len(idx.docs)
	if idx.n > 0 {
		idx.avgLen = float64(totalLen) / float64(idx.n)
	}
	return idx
}

// BM25Score is one document's score for a query, with Score > 0 only
// (documents scoring <= 0 are discarded).
type BM25Score struct {
	ID    string
	Score float64
}

// Score ranks all documents against the query, returning only those
// with a positive score, sorted descending.
func (idx *BM25Index) Score(query string) []BM25Score {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 || idx.n == 0 {
		return nil
	}

	var scores []BM25Score
	for _, doc := range idx.docs {
		var s float64
		for _, term := range queryTokens {
			tf, ok := doc.termFreq[term]
			if !ok {
				continue
			}
			df := idx.df[term]
			idf := idfLog(idx.n, df)
			numerator := float64(tf) * (bm25K1 + 1)
			denominator := float64(tf) + bm25K1*(1-bm25B+bm25B*float64(doc.docLength)/idx.avgLen)
			s += idf * numerator / denominator
		}
		if s > 0 {
			scores = append(scores, BM25Score{ID: doc.id, Score: s})
		}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	return scores
}

// idfLog computes log((N-df+0.5)/(df+0.5)), intentionally unclamped:
// a term appearing in more than half the corpus yields a negative IDF.
func idfLog(n, df int) float64 {
	return math.Log((float64(n) - float64(df) + 0.5) / (float64(df) + 0.5))
}
