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

// Package search implements the Web Searcher stage: one HTTP call per
// expanded query, returning an ordered list of candidate documents.
//
// Each provider is a hand-rolled JSON API client: pooled *http.Client,
// JSON request/response structs, sane constructor defaults.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/websearchqa/ragqa/ragdoc"
)

// DefaultMaxResults is the per-query result cap absent configuration.
const DefaultMaxResults = 7

// Searcher issues one search call and returns an ordered list of
// candidate documents, length at most maxResults.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]ragdoc.WebDocument, error)
}

// TavilySearcher implements Searcher against the Tavily search API.
type TavilySearcher struct {
	client *http.Client
	apiKey string
}

// NewTavilySearcher creates a TavilySearcher. apiKey is required.
func NewTavilySearcher(apiKey string, timeout time.Duration) *TavilySearcher {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &TavilySearcher{
		client: &http.Client{Timeout: timeout},
		apiKey: apiKey,
	}
}

type tavilyRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeImages     bool   `json:"include_images"`
	IncludeRawContent bool   `json:"include_raw_content"`
	MaxResults        int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		URL     string `json:"url"`
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search implements Searcher against POST https://api.tavily.com/search.
func (s *TavilySearcher) Search(ctx context.Context, query string, maxResults int) ([]ragdoc.WebDocument, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	reqBody, err := json.Marshal(tavilyRequest{
		APIKey:            s.apiKey,
		Query:             query,
		SearchDepth:       "basic",
		IncludeAnswer:     false,
		IncludeImages:     false,
		IncludeRawContent: false,
		MaxResults:        maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tavily request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", "https://api.tavily.com/search", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create tavily request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tavily response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily search returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed tavilyResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode tavily response: %w", err)
	}

	docs := make([]ragdoc.WebDocument, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		docs = append(docs, ragdoc.WebDocument{
			URL:         r.URL,
			Title:       r.Title,
			Snippet:     r.Content,
			SearchQuery: query,
		})
	}
	return docs, nil
}

var _ Searcher = (*TavilySearcher)(nil)
