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
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds a CachingEmbedder absent configuration.
//
// Grounded on the Aman-CERP-amanmcp internal/embed/cached.go
// CachedEmbedder, whose wrap-an-Embedder shape this package follows;
// the cache key here is the SHA-256 of the text alone.
const DefaultCacheSize = 1000

// CachingEmbedder wraps an Embedder with an LRU cache keyed on text,
// avoiding redundant embedding calls for repeated chunk/query text
// (a chunk produced by two overlapping expansions, or the same query
// re-embedded during dense retrieval).
type CachingEmbedder struct {
	inner Embedder
	cache *lru.Cache[string, []float32]
}

// NewCachingEmbedder wraps inner with an LRU cache of the given size.
// A non-positive size falls back to DefaultCacheSize.
func NewCachingEmbedder(inner Embedder, size int) *CachingEmbedder {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[string, []float32](size)
	return &CachingEmbedder{inner: inner, cache: cache}
}

func (c *CachingEmbedder) cacheKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// Embed implements Embedder, serving from cache when possible.
func (c *CachingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.cacheKey(text)
	if vec, ok := c.cache.Get(key); ok {
		return vec, nil
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, vec)
	return vec, nil
}

// Dimension implements Embedder.
func (c *CachingEmbedder) Dimension() int { return c.inner.Dimension() }

// Close implements Embedder.
func (c *CachingEmbedder) Close() error { return c.inner.Close() }

var _ Embedder = (*CachingEmbedder)(nil)
