package chunk

import (
	"context"
	"errors"
	"strings"
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

func TestChunkID_StableForIdenticalInputs(t *testing.T) {
	a := chunkID("https://x.example", 0, "hello world this is a passage of text")
	b := chunkID("https://x.example", 0, "hello world this is a passage of text")
	assert.Equal(t, a, b)
}

func TestChunkID_DiffersOnOffsetOrURL(t *testing.T) {
	base := chunkID("https://x.example", 0, "some passage text")
	diffOffset := chunkID("https://x.example", 800, "some passage text")
	diffURL := chunkID("https://y.example", 0, "some passage text")
	assert.NotEqual(t, base, diffOffset)
	assert.NotEqual(t, base, diffURL)
}

func TestSimpleChunker_WindowCountAndDiscard(t *testing.T) {
	content := strings.Repeat("a", 2000)
	doc := ragdoc.WebDocumentContent{URL: "https://x.example", Content: content, DocumentID: "doc1"}

	c := NewSimpleChunker(1000, 200)
	chunks := c.Chunk(context.Background(), doc, "q")

	// offsets: 0, 800, 1600 -> lengths 1000, 1000, 400 (all >= 50, none discarded)
	require.Len(t, chunks, 3)
	assert.Equal(t, 0, chunks[0].Metadata.Position)
	assert.False(t, chunks[0].Metadata.ContextualRetrieval)
}

func TestSimpleChunker_DiscardsShortTrailingChunk(t *testing.T) {
	// chunkSize=100, overlap=10 -> stride=90. Offset 90's window would be
	// only 30 chars (< MinChunkLength) and must be discarded.
	content := strings.Repeat("a", 120)
	doc := ragdoc.WebDocumentContent{URL: "https://x.example", Content: content, DocumentID: "doc1"}

	c := NewSimpleChunker(100, 10)
	chunks := c.Chunk(context.Background(), doc, "q")

	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Metadata.Position)
}

func TestContextualChunker_PrependsContextOnSuccess(t *testing.T) {
	llm := &fakeLLM{response: "This chunk discusses the introduction."}
	c := NewContextualChunker(llm, 1000, 200, 2)
	doc := ragdoc.WebDocumentContent{
		URL:        "https://x.example",
		Content:    strings.Repeat("b", 200),
		DocumentID: "doc1",
	}

	chunks := c.Chunk(context.Background(), doc, "q")

	require.Len(t, chunks, 1)
	assert.True(t, strings.HasPrefix(chunks[0].Content, "This chunk discusses the introduction.\n\n"))
	assert.True(t, chunks[0].Metadata.ContextualRetrieval)
	assert.NotEmpty(t, chunks[0].Metadata.OriginalContent)
}

func TestContextualChunker_FallsBackOnLLMFailure(t *testing.T) {
	llm := &fakeLLM{err: errors.New("rate limited")}
	c := NewContextualChunker(llm, 1000, 200, 2)
	doc := ragdoc.WebDocumentContent{
		URL:        "https://x.example",
		Content:    strings.Repeat("c", 200),
		DocumentID: "doc1",
	}

	chunks := c.Chunk(context.Background(), doc, "q")

	require.Len(t, chunks, 1)
	assert.False(t, chunks[0].Metadata.ContextualRetrieval)
	assert.Equal(t, strings.Repeat("c", 200), chunks[0].Content)
}

func TestContextualChunker_ChunkIDSharedWithSimpleChunker(t *testing.T) {
	content := strings.Repeat("d", 200)
	doc := ragdoc.WebDocumentContent{URL: "https://x.example", Content: content, DocumentID: "doc1"}

	simple := NewSimpleChunker(1000, 200).Chunk(context.Background(), doc, "q")
	contextual := NewContextualChunker(&fakeLLM{response: "ctx"}, 1000, 200, 2).Chunk(context.Background(), doc, "q")

	require.Len(t, simple, 1)
	require.Len(t, contextual, 1)
	assert.Equal(t, simple[0].ChunkID, contextual[0].ChunkID)
}
