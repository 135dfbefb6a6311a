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

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/websearchqa/ragqa/ragdoc"
)

// GoogleSearcher implements Searcher against the Google Programmable
// Search Engine (Custom Search JSON API), a second real provider
// alongside Tavily; the pipeline selects between them via
// configuration.
type GoogleSearcher struct {
	client *http.Client
	apiKey string
	cx     string
}

// NewGoogleSearcher creates a GoogleSearcher. apiKey is the API key;
// cx is the programmable search engine ID.
func NewGoogleSearcher(apiKey, cx string, timeout time.Duration) *GoogleSearcher {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &GoogleSearcher{
		client: &http.Client{Timeout: timeout},
		apiKey: apiKey,
		cx:     cx,
	}
}

type googleSearchResponse struct {
	Items []struct {
		Link    string `json:"link"`
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search implements Searcher against
// GET https://www.googleapis.com/customsearch/v1. Google caps num at
// 10 per call, so a larger maxResults is clamped to 10; the default
// of DefaultMaxResults (7) fits under that cap.
func (s *GoogleSearcher) Search(ctx context.Context, query string, maxResults int) ([]ragdoc.WebDocument, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > 10 {
		maxResults = 10
	}

	params := url.Values{}
	params.Set("key", s.apiKey)
	params.Set("cx", s.cx)
	params.Set("q", query)
	params.Set("num", fmt.Sprintf("%d", maxResults))

	endpoint := "https://www.googleapis.com/customsearch/v1?" + params.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create google search request: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("google search request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read google search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google search returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed googleSearchResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode google search response: %w", err)
	}

	docs := make([]ragdoc.WebDocument, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		docs = append(docs, ragdoc.WebDocument{
			URL:         item.Link,
			Title:       item.Title,
			Snippet:     item.Snippet,
			SearchQuery: query,
		})
	}
	return docs, nil
}

var _ Searcher = (*GoogleSearcher)(nil)
