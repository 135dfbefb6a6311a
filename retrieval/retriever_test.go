package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/websearchqa/ragqa/ragdoc"
	"github.com/websearchqa/ragqa/vectorindex"
)

type fakeEmbedder struct {
	vectors map[string][]float32
	dim     int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return make([]float32, f.dim), nil
}
func (f *fakeEmbedder) Dimension() int { return f.dim }
func (f *fakeEmbedder) Close() error   { return nil }

func TestRetriever_CombinesDenseAndSparseSignal(t *testing.T) {
	idx := vectorindex.New(2)
	idx.Add([]ragdoc.SemanticChunk{
		{ChunkID: "golang", Content: "golang concurrency patterns explained", Embedding: []float32{1, 0}},
		{ChunkID: "unrelated", Content: "a recipe for banana bread", Embedding: []float32{0, 1}},
	})

	emb := &fakeEmbedder{dim: 2, vectors: map[string][]float32{"golang concurrency": {1, 0}}}
	r := NewRetriever(idx, emb)

	results := r.Retrieve(context.Background(), "golang concurrency", 5)

	require.NotEmpty(t, results)
	assert.Equal(t, "golang", results[0].ChunkID)
}

func TestRetriever_TruncatesToK(t *testing.T) {
	idx := vectorindex.New(1)
	idx.Add([]ragdoc.SemanticChunk{
		{ChunkID: "a", Content: "apple banana cherry", Embedding: []float32{1}},
		{ChunkID: "b", Content: "apple banana", Embedding: []float32{1}},
		{ChunkID: "c", Content: "apple", Embedding: []float32{1}},
	})

	emb := &fakeEmbedder{dim: 1}
	r := NewRetriever(idx, emb)

	results := r.Retrieve(context.Background(), "apple banana cherry", 2)

	assert.Len(t, results, 2)
}
