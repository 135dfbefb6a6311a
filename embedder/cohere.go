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
	"time"
)

// CohereEmbedder implements Embedder using Cohere's v2 embeddings API.
//
// Narrowed to a single-text Embed call.
// See: https://docs.cohere.com/reference/embed
type CohereEmbedder struct {
	client    *http.Client
	apiKey    string
	baseURL   string
	model     string
	dimension int
	inputType string
	truncate  string
}

// CohereConfig configures the Cohere embedder.
type CohereConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	Dimension int
	InputType string
	Truncate  string
	Timeout   time.Duration
}

type cohereEmbedRequest struct {
	Texts          []string `json:"texts,omitempty"`
	Model          string   `json:"model"`
	InputType      string   `json:"input_type"`
	Truncate       string   `json:"truncate,omitempty"`
	EmbeddingTypes []string `json:"embedding_types,omitempty"`
}

type cohereEmbedResponse struct {
	Embeddings struct {
		Float [][]float32 `json:"float"`
	} `json:"embeddings"`
}

// NewCohereEmbedder creates a Cohere-backed embedder.
func NewCohereEmbedder(cfg CohereConfig) (*CohereEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required for Cohere embedder")
	}
	model := cfg.Model
	if model == "" {
		model = "embed-english-v3.0"
	}
	dimension := cfg.Dimension
	if dimension == 0 {
		switch model {
		case "embed-english-light-v3.0", "embed-multilingual-light-v3.0":
			dimension = 384
		case "embed-v4.0":
			dimension = 1536
		default:
			dimension = 1024
		}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.cohere.com"
	}
	inputType := cfg.InputType
	if inputType == "" {
		inputType = "search_document"
	}
	truncate := cfg.Truncate
	if truncate == "" {
		truncate = "END"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &CohereEmbedder{
		client:    &http.Client{Timeout: timeout},
		apiKey:    cfg.APIKey,
		baseURL:   baseURL,
		model:     model,
		dimension: dimension,
		inputType: inputType,
		truncate:  truncate,
	}, nil
}

// Embed implements Embedder.
func (e *CohereEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody, err := json.Marshal(cohereEmbedRequest{
		Texts:          []string{text},
		Model:          e.model,
		InputType:      e.inputType,
		Truncate:       e.truncate,
		EmbeddingTypes: []string{"float"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/v2/embed", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("embedding request to Cohere failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Cohere embeddings returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed cohereEmbedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode Cohere embedding response: %w", err)
	}
	if len(parsed.Embeddings.Float) == 0 {
		return nil, fmt.Errorf("received empty embedding from Cohere")
	}
	return parsed.Embeddings.Float[0], nil
}

// Dimension implements Embedder.
func (e *CohereEmbedder) Dimension() int { return e.dimension }

// Close implements Embedder.
func (e *CohereEmbedder) Close() error { return nil }

var _ Embedder = (*CohereEmbedder)(nil)
