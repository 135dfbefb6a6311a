package rerank

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/websearchqa/ragqa/ragdoc"
)

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}
func (f *fakeLLM) Name() string { return "fake" }
func (f *fakeLLM) Close() error { return nil }

func chunks() []ragdoc.SemanticChunk {
	return []ragdoc.SemanticChunk{
		{ChunkID: "a", Content: "apple banana cherry"},
		{ChunkID: "b", Content: "completely unrelated text"},
	}
}

func TestJaccardReranker_OrdersByOverlap(t *testing.T) {
	results := (JaccardReranker{}).Rerank(context.Background(), "apple banana", chunks(), 5)

	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Chunk.ChunkID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Equal(t, "b", results[1].Chunk.ChunkID)
	assert.Equal(t, float32(0), results[1].Score)
}

func TestLLMReranker_ParsesJSONRankings(t *testing.T) {
	llm := &fakeLLM{response: `[{"index": 1, "relevance": 9}, {"index": 0, "relevance": 2}]`}
	r := NewLLMReranker(llm)

	results := r.Rerank(context.Background(), "q", chunks(), 5)

	require.Len(t, results, 2)
	assert.Equal(t, "b", results[0].Chunk.ChunkID)
	assert.InDelta(t, 0.9, results[0].Score, 1e-6)
}

func TestLLMReranker_FallsBackOnError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("provider unavailable")}
	r := NewLLMReranker(llm)

	results := r.Rerank(context.Background(), "apple banana", chunks(), 5)

	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Chunk.ChunkID)
}

func TestLLMReranker_FallsBackOnUnparseableResponse(t *testing.T) {
	llm := &fakeLLM{response: "I refuse to answer."}
	r := NewLLMReranker(llm)

	results := r.Rerank(context.Background(), "apple banana", chunks(), 5)

	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Chunk.ChunkID)
}
