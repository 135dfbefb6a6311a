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

// Package config loads and validates the recognized configuration
// keys for the pipeline, following a SetDefaults-then-Validate
// pattern.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every recognized configuration key.
type Config struct {
	// LLM
	LLMProvider string // "vllm" (hand-rolled HTTP) or "openai-sdk"
	LLMModel    string
	VLLMBaseURL string

	// Embeddings
	EmbedderProvider string // "openai", "ollama", "cohere"; Config carries no embedder API key, so building "openai" or "cohere" returns an error
	EmbeddingModel   string
	VectorDimension  int

	// Web search
	SearchProvider string // "tavily" or "google"
	TavilyAPIKey   string
	GoogleAPIKey   string
	GoogleCX       string

	// Chunking
	ChunkSize           int
	ChunkOverlap        int
	ChunkingStrategy    string // "simple" or "contextual"
	MaxConcurrentChunks int

	// Pipeline
	MaxProcessingTime time.Duration
	RerankEnabled     bool

	// Session store
	QdrantHost string
	QdrantPort int

	// Ambient
	LogLevel string
}

// SetDefaults fills in unset fields with spec-mandated defaults.
func (c *Config) SetDefaults() {
	if c.LLMProvider == "" {
		c.LLMProvider = "vllm"
	}
	if c.LLMModel == "" {
		c.LLMModel = "Qwen/Qwen3-4B-Instruct-2507-FP8"
	}
	if c.VLLMBaseURL == "" {
		c.VLLMBaseURL = "http://localhost:8000/v1"
	}
	if c.EmbedderProvider == "" {
		c.EmbedderProvider = "ollama"
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = "bge-large:335m"
	}
	if c.VectorDimension == 0 {
		c.VectorDimension = 1024
	}
	if c.SearchProvider == "" {
		c.SearchProvider = "tavily"
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = 1000
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = 200
	}
	if c.ChunkingStrategy == "" {
		c.ChunkingStrategy = "contextual"
	}
	if c.MaxConcurrentChunks == 0 {
		c.MaxConcurrentChunks = envInt("MAX_CONCURRENT_CHUNKS", 2)
	}
	if c.MaxProcessingTime == 0 {
		c.MaxProcessingTime = 10 * time.Second
	}
	if c.QdrantHost == "" {
		c.QdrantHost = envOr("QDRANT_HOST", "localhost")
	}
	if c.QdrantPort == 0 {
		c.QdrantPort = envInt("QDRANT_PORT", 6333)
	}
	if c.LogLevel == "" {
		c.LogLevel = envOr("LOG_LEVEL", "info")
	}
	if c.TavilyAPIKey == "" {
		c.TavilyAPIKey = os.Getenv("TAVILY_API_KEY")
	}
}

// Validate fails fast on programmer error (spec §7, taxonomy item 4):
// invalid config must raise at construction, not at query time.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("config: chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("config: chunk_overlap (%d) must be in [0, chunk_size) (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	if c.ChunkingStrategy != "simple" && c.ChunkingStrategy != "contextual" {
		return fmt.Errorf("config: unsupported chunking_strategy %q (want simple or contextual)", c.ChunkingStrategy)
	}
	if c.VectorDimension <= 0 {
		return fmt.Errorf("config: vector_dimension must be positive, got %d", c.VectorDimension)
	}
	if c.SearchProvider != "tavily" && c.SearchProvider != "google" {
		return fmt.Errorf("config: unsupported search_provider %q (want tavily or google)", c.SearchProvider)
	}
	if c.SearchProvider == "tavily" && c.TavilyAPIKey == "" {
		return fmt.Errorf("config: tavily_api_key is required when search_provider is tavily")
	}
	if c.SearchProvider == "google" && (c.GoogleAPIKey == "" || c.GoogleCX == "") {
		return fmt.Errorf("config: google_api_key and google_cx are required when search_provider is google")
	}
	if c.MaxProcessingTime <= 0 {
		return fmt.Errorf("config: max_processing_time must be positive, got %s", c.MaxProcessingTime)
	}
	if c.MaxConcurrentChunks <= 0 {
		return fmt.Errorf("config: max_concurrent_chunks must be positive, got %d", c.MaxConcurrentChunks)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
