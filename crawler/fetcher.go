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

// Package crawler implements the Crawler stage: fetch a page body,
// strip boilerplate, and convert the remainder to markdown.
package crawler

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// userAgents is the fixed pool a PageFetcher rotates through
// uniformly, standing in for a headless browser's User-Agent rotation.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

// PageFetcher is the external collaborator boundary: URL in, raw HTML
// out. A headless browser is the production choice; the interface is
// satisfied here by a plain HTTP client, since this module's tests
// exercise Crawler against a fake, not a real browser.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher is a reference PageFetcher implementation: a rate-limited
// HTTP client with rotating User-Agents. It does not render JavaScript
// and cannot honor "networkidle" in the browser sense; it approximates
// that with a fixed per-request timeout instead.
type HTTPFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent func() string
}

// NewHTTPFetcher creates an HTTPFetcher. requestsPerSecond bounds the
// outbound request rate across all URLs; timeout bounds a single fetch.
func NewHTTPFetcher(requestsPerSecond float64, timeout time.Duration) *HTTPFetcher {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		userAgent: func() string {
			return userAgents[rand.Intn(len(userAgents))]
		},
	}
}

// Fetch implements PageFetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent())

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}

var _ PageFetcher = (*HTTPFetcher)(nil)
