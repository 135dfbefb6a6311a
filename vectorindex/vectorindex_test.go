package vectorindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/websearchqa/ragqa/ragdoc"
)

func chunkWith(id string, vec []float32) ragdoc.SemanticChunk {
	return ragdoc.SemanticChunk{ChunkID: id, Embedding: vec}
}

func TestIndex_AddSkipsWrongDimension(t *testing.T) {
	idx := New(3)
	idx.Add([]ragdoc.SemanticChunk{
		chunkWith("a", []float32{1, 2, 3}),
		chunkWith("b", []float32{1, 2}),
		chunkWith("c", nil),
	})

	assert.Equal(t, 1, idx.Len())
}

func TestIndex_SearchReturnsAscendingByDistance(t *testing.T) {
	idx := New(2)
	idx.Add([]ragdoc.SemanticChunk{
		chunkWith("far", []float32{10, 10}),
		chunkWith("near", []float32{0, 1}),
		chunkWith("exact", []float32{0, 0}),
	})

	matches := idx.Search([]float32{0, 0}, 2)

	require.Len(t, matches, 2)
	assert.Equal(t, "exact", matches[0].Chunk.ChunkID)
	assert.Equal(t, float32(0), matches[0].Score)
	assert.Equal(t, "near", matches[1].Chunk.ChunkID)
}

func TestIndex_ChunksPositionallyAligned(t *testing.T) {
	idx := New(1)
	idx.Add([]ragdoc.SemanticChunk{
		chunkWith("first", []float32{1}),
		chunkWith("second", []float32{2}),
	})

	chunks := idx.Chunks()
	require.Len(t, chunks, 2)
	assert.Equal(t, "first", chunks[0].ChunkID)
	assert.Equal(t, "second", chunks[1].ChunkID)
}

func TestIndex_Clear(t *testing.T) {
	idx := New(1)
	idx.Add([]ragdoc.SemanticChunk{chunkWith("a", []float32{1})})
	require.Equal(t, 1, idx.Len())

	idx.Clear()

	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Search([]float32{0}, 5))
}
