package embedder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls int
	vec   []float32
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return c.vec, nil
}
func (c *countingEmbedder) Dimension() int { return len(c.vec) }
func (c *countingEmbedder) Close() error   { return nil }

func TestCachingEmbedder_CachesRepeatedText(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{0.1, 0.2, 0.3}}
	c := NewCachingEmbedder(inner, 10)

	v1, err := c.Embed(context.Background(), "hello world")
	require.NoError(t, err)
	v2, err := c.Embed(context.Background(), "hello world")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, inner.calls)
}

func TestCachingEmbedder_DistinctTextMisses(t *testing.T) {
	inner := &countingEmbedder{vec: []float32{0.1, 0.2, 0.3}}
	c := NewCachingEmbedder(inner, 10)

	_, _ = c.Embed(context.Background(), "a")
	_, _ = c.Embed(context.Background(), "b")

	assert.Equal(t, 2, inner.calls)
}

func TestZeroVector_HasCorrectLength(t *testing.T) {
	v := ZeroVector(1024)
	assert.Len(t, v, 1024)
	for _, x := range v {
		assert.Equal(t, float32(0), x)
	}
}
