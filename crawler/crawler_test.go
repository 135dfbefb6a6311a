package crawler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	html map[string]string
	fail map[string]bool
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.fail[url] {
		return "", errors.New("connection refused")
	}
	return f.html[url], nil
}

func TestCrawlAll_StripsBoilerplateAndConvertsToMarkdown(t *testing.T) {
	fetcher := &fakeFetcher{html: map[string]string{
		"https://a.example": `<html><body><nav>menu</nav><script>evil()</script><h1>Title</h1><p>Hello <a href="x">world</a></p><footer>bye</footer></body></html>`,
	}}
	c := NewCrawler(fetcher)

	docs := c.CrawlAll(context.Background(), []string{"https://a.example"})

	require.Len(t, docs, 1)
	assert.NotContains(t, docs[0].Content, "menu")
	assert.NotContains(t, docs[0].Content, "evil()")
	assert.NotContains(t, docs[0].Content, "bye")
	assert.Contains(t, docs[0].Content, "Title")
	assert.Contains(t, docs[0].Content, "world")
	assert.NotEmpty(t, docs[0].DocumentID)
}

func TestCrawlAll_SkipsFailedFetches(t *testing.T) {
	fetcher := &fakeFetcher{
		html: map[string]string{"https://ok.example": "<html><body><p>fine</p></body></html>"},
		fail: map[string]bool{"https://bad.example": true},
	}
	c := NewCrawler(fetcher)

	docs := c.CrawlAll(context.Background(), []string{"https://bad.example", "https://ok.example"})

	require.Len(t, docs, 1)
	assert.Equal(t, "https://ok.example", docs[0].URL)
}

func TestCrawlAll_TruncatesToMaxURLs(t *testing.T) {
	fetcher := &fakeFetcher{html: map[string]string{}}
	urls := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		urls = append(urls, strings.Repeat("x", i+1)+".example")
	}
	c := NewCrawler(fetcher)

	docs := c.CrawlAll(context.Background(), urls)

	assert.LessOrEqual(t, len(docs), MaxURLs)
}
