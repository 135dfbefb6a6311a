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

package crawler

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/sync/errgroup"

	"github.com/websearchqa/ragqa/ragdoc"
)

// MaxURLs is the input cap enforced before fan-out.
const MaxURLs = 10

// FetchTimeout bounds a single URL's fetch-and-convert, standing in
// for a headless browser's "networkidle, max 10s" wait.
const FetchTimeout = 10 * time.Second

// Crawler fetches pages and converts them to markdown WebDocumentContent.
type Crawler struct {
	fetcher PageFetcher
	rng     *rand.Rand
}

// NewCrawler creates a Crawler backed by the given PageFetcher.
func NewCrawler(fetcher PageFetcher) *Crawler {
	return &Crawler{
		fetcher: fetcher,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CrawlAll fetches the first MaxURLs entries of urls in parallel,
// returning only the documents that succeeded. It does not deduplicate
// urls; the pipeline passes an already-deduplicated list. It never returns an error: a
// wholly empty result is a degraded-quality outcome, not a failure.
func (c *Crawler) CrawlAll(ctx context.Context, urls []string) []ragdoc.WebDocumentContent {
	if len(urls) > MaxURLs {
		urls = urls[:MaxURLs]
	}

	docs := make([]*ragdoc.WebDocumentContent, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			doc, err := c.crawlOne(gctx, url)
			if err != nil {
				slog.Warn("crawl failed, skipping", "url", url, "error", err)
				return nil
			}
			docs[i] = doc
			return nil
		})
	}
	_ = g.Wait()

	out := make([]ragdoc.WebDocumentContent, 0, len(urls))
	for _, d := range docs {
		if d != nil {
			out = append(out, *d)
		}
	}
	return out
}

// crawlOne fetches one URL and converts it to a WebDocumentContent, or
// returns an error (timeout, parse failure, network failure) that the
// caller treats as a skip.
func (c *Crawler) crawlOne(ctx context.Context, url string) (*ragdoc.WebDocumentContent, error) {
	c.politenessSleep(ctx)

	fetchCtx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	html, err := c.fetcher.Fetch(fetchCtx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	markdown, err := sanitizeAndConvert(html)
	if err != nil {
		return nil, fmt.Errorf("markdown conversion failed: %w", err)
	}
	if runes := []rune(markdown); len(runes) > ragdoc.MaxContentLength {
		markdown = string(runes[:ragdoc.MaxContentLength])
	}

	now := time.Now()
	doc := &ragdoc.WebDocumentContent{
		URL:        url,
		Content:    markdown,
		CrawlTime:  now,
		Metadata:   map[string]string{},
		DocumentID: documentID(url, now),
	}
	return doc, nil
}

// politenessSleep waits a random 0.5-2.0s before a fetch, or returns
// early if ctx is cancelled first.
func (c *Crawler) politenessSleep(ctx context.Context) {
	delay := 500*time.Millisecond + time.Duration(c.rng.Float64()*1500)*time.Millisecond
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}

// sanitizeAndConvert strips script/style/nav/footer elements and
// unwraps links/images to their text, then converts the remaining body
// to markdown via html-to-markdown/v2.
func sanitizeAndConvert(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, nav, footer").Remove()
	doc.Find("img").Remove()
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		sel.ReplaceWithHtml(sel.Text())
	})

	cleaned, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize cleaned HTML: %w", err)
	}

	markdown, err := htmltomarkdown.ConvertString(cleaned)
	if err != nil {
		return "", fmt.Errorf("failed to convert to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}

// documentID derives a stable identifier from the URL and crawl time,
// used to link chunks back to their parent document.
func documentID(url string, crawlTime time.Time) string {
	h := md5.Sum([]byte(url + "_" + crawlTime.Format(time.RFC3339Nano)))
	return hex.EncodeToString(h[:])
}
