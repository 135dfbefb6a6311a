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

// Package pipeline wires the seven stages (expand, search, crawl,
// chunk, embed, retrieve+rerank, answer) plus the session store into
// one strictly-sequential run.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/websearchqa/ragqa/answer"
	"github.com/websearchqa/ragqa/chunk"
	"github.com/websearchqa/ragqa/crawler"
	"github.com/websearchqa/ragqa/embedder"
	"github.com/websearchqa/ragqa/expander"
	"github.com/websearchqa/ragqa/metrics"
	"github.com/websearchqa/ragqa/ragdoc"
	"github.com/websearchqa/ragqa/rerank"
	"github.com/websearchqa/ragqa/retrieval"
	"github.com/websearchqa/ragqa/search"
	"github.com/websearchqa/ragqa/session"
	"github.com/websearchqa/ragqa/vectorindex"
)

// DefaultMaxProcessingTime is the whole-pipeline deadline.
const DefaultMaxProcessingTime = 10 * time.Second

// DefaultSearchResultsPerQuery is how many results each expanded query
// asks the searcher for.
const DefaultSearchResultsPerQuery = 7

// DefaultRetrieveK is how many chunks the retriever hands the reranker.
const DefaultRetrieveK = 20

// DefaultRerankK is how many chunks the reranker hands the answerer.
const DefaultRerankK = 5

// System is one assembled pipeline instance: one run's worth of
// collaborators, reusable across many ProcessQuery calls for the same
// index (callers that want per-query isolation construct a fresh
// vectorindex.Index per System).
type System struct {
	expander  expander.Expander
	searcher  search.Searcher
	crawler   *crawler.Crawler
	chunker   chunk.Chunker
	embedder  embedder.Embedder
	index     *vectorindex.Index
	reranker  rerank.Reranker
	answerer  *answer.Answerer
	sessions  session.Store
	metrics   *metrics.Metrics

	maxProcessingTime     time.Duration
	searchResultsPerQuery int
	retrieveK             int
	rerankK               int
}

// Result is ProcessQuery's terminal, always-present output. Success
// carries the answer; failure carries a reason string but never a Go
// error, since ProcessQuery never panics and never returns a raw
// error to its caller.
type Result struct {
	Success  bool             `json:"success"`
	Response ragdoc.QAResponse `json:"response,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// ProcessQuery runs the full pipeline for one user query within a
// session, under a whole-pipeline deadline. A deadline exceeded at any
// stage returns {success:false, error:"timeout"} with no response and
// skips the session save; chunks already added to the in-memory index
// before the deadline stay there.
func (s *System) ProcessQuery(ctx context.Context, sessionID, userQuery string) Result {
	s.metrics.IncQueries()
	startedAt := time.Now()

	deadline := s.maxProcessingTime
	if deadline <= 0 {
		deadline = DefaultMaxProcessingTime
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	resp, err := s.run(ctx, sessionID, userQuery, startedAt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.metrics.IncTimeouts()
			return Result{Success: false, Error: "timeout"}
		}
		return Result{Success: false, Error: err.Error()}
	}
	return Result{Success: true, Response: resp}
}

func (s *System) run(ctx context.Context, sessionID, userQuery string, startedAt time.Time) (ragdoc.QAResponse, error) {
	prior := timeStage(s.metrics, metrics.StageSession, func() []ragdoc.SemanticChunk {
		return s.sessions.Load(ctx, sessionID)
	})
	if len(prior) > 0 {
		s.metrics.IncSessionResume()
		s.index.Add(prior)
	}

	searchQuery := timeStage(s.metrics, metrics.StageExpand, func() ragdoc.SearchQuery {
		return s.expander.Expand(ctx, userQuery)
	})
	if err := ctx.Err(); err != nil {
		return ragdoc.QAResponse{}, err
	}

	webDocs, err := s.searchStage(ctx, searchQuery.ProcessedQueries)
	if err != nil {
		return ragdoc.QAResponse{}, err
	}
	if err := ctx.Err(); err != nil {
		return ragdoc.QAResponse{}, err
	}

	urls := dedupeURLs(webDocs)
	contents := timeStage(s.metrics, metrics.StageCrawl, func() []ragdoc.WebDocumentContent {
		return s.crawler.CrawlAll(ctx, urls)
	})
	if err := ctx.Err(); err != nil {
		return ragdoc.QAResponse{}, err
	}

	chunks, err := s.chunkStage(ctx, contents, userQuery)
	if err != nil {
		return ragdoc.QAResponse{}, err
	}
	if err := ctx.Err(); err != nil {
		return ragdoc.QAResponse{}, err
	}

	embedded := s.embedStage(ctx, chunks)
	s.index.Add(embedded)
	s.metrics.AddChunksIndexed(len(embedded))
	if err := ctx.Err(); err != nil {
		return ragdoc.QAResponse{}, err
	}

	retriever := retrieval.NewRetriever(s.index, s.embedder)
	retrieved := timeStage(s.metrics, metrics.StageRetrieve, func() []ragdoc.SemanticChunk {
		return retriever.Retrieve(ctx, userQuery, s.retrieveK)
	})
	if err := ctx.Err(); err != nil {
		return ragdoc.QAResponse{}, err
	}

	reranked := timeStage(s.metrics, metrics.StageRerank, func() []rerank.Result {
		return s.reranker.Rerank(ctx, userQuery, retrieved, s.rerankK)
	})
	if err := ctx.Err(); err != nil {
		return ragdoc.QAResponse{}, err
	}

	pad := scratchPad(userQuery, reranked)
	resp := timeStage(s.metrics, metrics.StageAnswer, func() ragdoc.QAResponse {
		return s.answerer.Answer(ctx, pad, startedAt)
	})
	if err := ctx.Err(); err != nil {
		return ragdoc.QAResponse{}, err
	}

	timeStage(s.metrics, metrics.StageSession, func() struct{} {
		s.sessions.Save(ctx, sessionID, s.index.Chunks())
		return struct{}{}
	})

	return resp, nil
}

func (s *System) searchStage(ctx context.Context, queries []string) ([]ragdoc.WebDocument, error) {
	start := time.Now()
	docs, err := search.SearchAll(ctx, s.searcher, queries, s.searchResultsPerQuery)
	s.metrics.ObserveStage(metrics.StageSearch, time.Since(start).Seconds(), err != nil)
	if err != nil {
		slog.Warn("web search stage failed entirely", "error", err)
	}
	return docs, nil
}

func (s *System) chunkStage(ctx context.Context, docs []ragdoc.WebDocumentContent, query string) ([]ragdoc.SemanticChunk, error) {
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	all := make([][]ragdoc.SemanticChunk, len(docs))
	for i, d := range docs {
		i, d := i, d
		g.Go(func() error {
			all[i] = s.chunker.Chunk(gctx, d, query)
			return nil
		})
	}
	_ = g.Wait()

	var out []ragdoc.SemanticChunk
	for _, cs := range all {
		out = append(out, cs...)
	}
	s.metrics.ObserveStage(metrics.StageChunk, time.Since(start).Seconds(), false)
	return out, nil
}

// embedStage embeds chunks sequentially, one call per chunk. A chunk
// whose embedding fails still gets indexed, under a zero-vector
// substitute: it stays reachable by BM25 over the same index and will
// simply score poorly in dense retrieval, rather than vanishing from
// the index entirely.
func (s *System) embedStage(ctx context.Context, chunks []ragdoc.SemanticChunk) []ragdoc.SemanticChunk {
	start := time.Now()
	out := make([]ragdoc.SemanticChunk, 0, len(chunks))
	var failures int
	for _, c := range chunks {
		vec, err := s.embedder.Embed(ctx, c.Content)
		if err != nil {
			slog.Warn("embedding failed, indexing with zero-vector", "chunk_id", c.ChunkID, "error", err)
			failures++
			vec = embedder.ZeroVector(s.embedder.Dimension())
		}
		c.Embedding = vec
		out = append(out, c)
	}
	s.metrics.ObserveStage(metrics.StageEmbed, time.Since(start).Seconds(), failures > 0)
	return out
}

// timeStage runs fn, recording its wall-clock duration against stage.
// A free function rather than a method since Go methods cannot carry
// their own type parameters.
func timeStage[T any](m *metrics.Metrics, stage string, fn func() T) T {
	start := time.Now()
	result := fn()
	m.ObserveStage(stage, time.Since(start).Seconds(), false)
	return result
}

func dedupeURLs(docs []ragdoc.WebDocument) []string {
	seen := make(map[string]struct{}, len(docs))
	urls := make([]string, 0, len(docs))
	for _, d := range docs {
		if _, ok := seen[d.URL]; ok {
			continue
		}
		seen[d.URL] = struct{}{}
		urls = append(urls, d.URL)
	}
	return urls
}

func scratchPad(query string, results []rerank.Result) ragdoc.ScratchPad {
	chunks := make([]ragdoc.SemanticChunk, len(results))
	scores := make([]float32, len(results))
	for i, r := range results {
		chunks[i] = r.Chunk
		scores[i] = r.Score
	}
	return ragdoc.ScratchPad{Query: query, Chunks: chunks, Scores: scores}
}
