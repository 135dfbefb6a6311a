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

package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// ollamaEmbedMu serializes Ollama embedding requests: Ollama's llama
// runner can crash under concurrent embedding calls.
var ollamaEmbedMu sync.Mutex

// OllamaEmbedder implements Embedder using Ollama's embeddings API.
type OllamaEmbedder struct {
	client    *http.Client
	baseURL   string
	model     string
	dimension int
}

// OllamaConfig configures the Ollama embedder.
type OllamaConfig struct {
	BaseURL   string
	Model     string
	Dimension int
	Timeout   time.Duration
}

type ollamaEmbedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// NewOllamaEmbedder creates an Ollama-backed embedder.
func NewOllamaEmbedder(cfg OllamaConfig) (*OllamaEmbedder, error) {
	model := cfg.Model
	if model == "" {
		model = "nomic-embed-text"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	dimension := cfg.Dimension
	if dimension == 0 {
		switch model {
		case "bge-large-en-v1.5":
			dimension = 1024
		case "all-minilm:l6-v2", "bge-small-en-v1.5":
			dimension = 384
		default:
			dimension = 768
		}
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &OllamaEmbedder{
		client:    &http.Client{Timeout: timeout},
		baseURL:   baseURL,
		model:     model,
		dimension: dimension,
	}, nil
}

// Embed implements Embedder.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	ollamaEmbedMu.Lock()
	defer ollamaEmbedMu.Unlock()

	reqBody, err := json.Marshal(ollamaEmbedRequest{Model: e.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/api/embed", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("embedding request to Ollama failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Ollama embeddings returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode Ollama embedding response: %w", err)
	}
	if len(parsed.Embeddings) == 0 {
		return nil, fmt.Errorf("received empty embedding from Ollama")
	}
	return parsed.Embeddings[0], nil
}

// Dimension implements Embedder.
func (e *OllamaEmbedder) Dimension() int { return e.dimension }

// Close implements Embedder.
func (e *OllamaEmbedder) Close() error { return nil }

var _ Embedder = (*OllamaEmbedder)(nil)
