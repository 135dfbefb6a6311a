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

package pipeline

import (
	"fmt"
	"time"

	"github.com/websearchqa/ragqa/answer"
	"github.com/websearchqa/ragqa/chunk"
	"github.com/websearchqa/ragqa/config"
	"github.com/websearchqa/ragqa/crawler"
	"github.com/websearchqa/ragqa/embedder"
	"github.com/websearchqa/ragqa/expander"
	"github.com/websearchqa/ragqa/metrics"
	"github.com/websearchqa/ragqa/model"
	"github.com/websearchqa/ragqa/rerank"
	"github.com/websearchqa/ragqa/search"
	"github.com/websearchqa/ragqa/session"
	"github.com/websearchqa/ragqa/vectorindex"
)

// Builder assembles a System from a Config, choosing concrete
// implementations per provider selectors rather than exposing every
// collaborator's constructor directly to callers.
type Builder struct {
	cfg config.Config
}

// NewBuilder creates a Builder over cfg, applying defaults and
// validating it up front.
func NewBuilder(cfg config.Config) (*Builder, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Builder{cfg: cfg}, nil
}

// Build assembles a ready-to-use System.
func (b *Builder) Build() (*System, error) {
	cfg := b.cfg

	llm, err := b.buildLLM(cfg)
	if err != nil {
		return nil, fmt.Errorf("pipeline: building LLM client: %w", err)
	}

	emb, err := b.buildEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("pipeline: building embedder: %w", err)
	}

	searcher, err := b.buildSearcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("pipeline: building searcher: %w", err)
	}

	store, err := b.buildSessionStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("pipeline: building session store: %w", err)
	}

	chunker := b.buildChunker(cfg, llm)

	var reranker rerank.Reranker
	if cfg.RerankEnabled {
		reranker = rerank.NewLLMReranker(llm)
	} else {
		reranker = rerank.JaccardReranker{}
	}

	return &System{
		expander: expander.NewLLMExpander(llm, expander.DefaultLanguage),
		searcher: searcher,
		crawler:  crawler.NewCrawler(crawler.NewHTTPFetcher(2, crawler.FetchTimeout)),
		chunker:  chunker,
		embedder: emb,
		index:    vectorindex.New(cfg.VectorDimension),
		reranker: reranker,
		answerer: answer.NewAnswerer(llm),
		sessions: store,
		metrics:  metrics.New(),

		maxProcessingTime:     cfg.MaxProcessingTime,
		searchResultsPerQuery: DefaultSearchResultsPerQuery,
		retrieveK:             DefaultRetrieveK,
		rerankK:               DefaultRerankK,
	}, nil
}

func (b *Builder) buildLLM(cfg config.Config) (model.LLM, error) {
	if cfg.LLMProvider == "openai-sdk" {
		return model.NewOpenAISDKClient(model.OpenAISDKConfig{
			BaseURL: cfg.VLLMBaseURL,
			Model:   cfg.LLMModel,
		})
	}
	return model.NewOpenAICompatClient(model.OpenAICompatConfig{
		BaseURL: cfg.VLLMBaseURL,
		Model:   cfg.LLMModel,
	})
}

func (b *Builder) buildEmbedder(cfg config.Config) (embedder.Embedder, error) {
	var (
		inner embedder.Embedder
		err   error
	)
	switch cfg.EmbedderProvider {
	case "openai":
		inner, err = embedder.NewOpenAIEmbedder(embedder.OpenAIConfig{
			Model:     cfg.EmbeddingModel,
			Dimension: cfg.VectorDimension,
		})
	case "cohere":
		inner, err = embedder.NewCohereEmbedder(embedder.CohereConfig{
			Model:     cfg.EmbeddingModel,
			Dimension: cfg.VectorDimension,
		})
	default:
		inner, err = embedder.NewOllamaEmbedder(embedder.OllamaConfig{
			Model:     cfg.EmbeddingModel,
			Dimension: cfg.VectorDimension,
		})
	}
	if err != nil {
		return nil, err
	}
	return embedder.NewCachingEmbedder(inner, embedder.DefaultCacheSize), nil
}

func (b *Builder) buildSearcher(cfg config.Config) (search.Searcher, error) {
	if cfg.SearchProvider == "google" {
		return search.NewGoogleSearcher(cfg.GoogleAPIKey, cfg.GoogleCX, 15*time.Second), nil
	}
	return search.NewTavilySearcher(cfg.TavilyAPIKey, 15*time.Second), nil
}

func (b *Builder) buildChunker(cfg config.Config, llm model.LLM) chunk.Chunker {
	if cfg.ChunkingStrategy == "simple" {
		return chunk.NewSimpleChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	}
	return chunk.NewContextualChunker(llm, cfg.ChunkSize, cfg.ChunkOverlap, cfg.MaxConcurrentChunks)
}

func (b *Builder) buildSessionStore(cfg config.Config) (session.Store, error) {
	return session.NewQdrantStore(session.QdrantConfig{
		Host:      cfg.QdrantHost,
		Port:      cfg.QdrantPort,
		Dimension: cfg.VectorDimension,
	})
}
