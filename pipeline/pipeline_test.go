package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/websearchqa/ragqa/answer"
	"github.com/websearchqa/ragqa/crawler"
	"github.com/websearchqa/ragqa/metrics"
	"github.com/websearchqa/ragqa/ragdoc"
	"github.com/websearchqa/ragqa/rerank"
	"github.com/websearchqa/ragqa/vectorindex"
)

type fakeExpander struct{ queries []string }

func (f fakeExpander) Expand(_ context.Context, userQuery string) ragdoc.SearchQuery {
	return ragdoc.SearchQuery{OriginalQuery: userQuery, ProcessedQueries: f.queries}
}

type fakeSearcher struct{ docs []ragdoc.WebDocument }

func (f fakeSearcher) Search(_ context.Context, _ string, _ int) ([]ragdoc.WebDocument, error) {
	return f.docs, nil
}

type fakeFetcher struct{ html map[string]string }

func (f fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	html, ok := f.html[url]
	if !ok {
		return "", errors.New("not found")
	}
	return html, nil
}

type fakeChunker struct{}

func (fakeChunker) Chunk(_ context.Context, doc ragdoc.WebDocumentContent, query string) []ragdoc.SemanticChunk {
	return []ragdoc.SemanticChunk{{
		ChunkID:   doc.URL + "_0",
		Content:   doc.Content,
		SourceURL: doc.URL,
		Metadata:  ragdoc.ChunkMetadata{Query: query},
	}}
}

type fakeEmbedder struct{ dim int }

func (f fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, f.dim)
	if len(text) > 0 {
		vec[0] = float32(len(text))
	}
	return vec, nil
}
func (f fakeEmbedder) Dimension() int { return f.dim }
func (f fakeEmbedder) Close() error   { return nil }

type failingEmbedder struct{ dim int }

func (f failingEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return nil, errors.New("embedding service unavailable")
}
func (f failingEmbedder) Dimension() int { return f.dim }
func (f failingEmbedder) Close() error   { return nil }

type slowEmbedder struct{ dim int }

func (s slowEmbedder) Embed(ctx context.Context, _ string) ([]float32, error) {
	select {
	case <-time.After(200 * time.Millisecond):
		return make([]float32, s.dim), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
func (s slowEmbedder) Dimension() int { return s.dim }
func (s slowEmbedder) Close() error   { return nil }

type fakeStore struct {
	loaded []ragdoc.SemanticChunk
	saved  []ragdoc.SemanticChunk
}

func (f *fakeStore) Load(_ context.Context, _ string) []ragdoc.SemanticChunk { return f.loaded }
func (f *fakeStore) Save(_ context.Context, _ string, chunks []ragdoc.SemanticChunk) {
	f.saved = chunks
}

type fakeLLM struct{ response string }

func (f fakeLLM) Complete(_ context.Context, _ string) (string, error) { return f.response, nil }
func (f fakeLLM) Name() string                                        { return "fake" }
func (f fakeLLM) Close() error                                        { return nil }

func newTestSystem(t *testing.T, store *fakeStore, emb interface {
	Embed(context.Context, string) ([]float32, error)
	Dimension() int
	Close() error
}) *System {
	t.Helper()
	return &System{
		expander: fakeExpander{queries: []string{"q1"}},
		searcher: fakeSearcher{docs: []ragdoc.WebDocument{{URL: "https://a.example", SearchQuery: "q1"}}},
		crawler:  crawler.NewCrawler(fakeFetcher{html: map[string]string{"https://a.example": "<p>Go is a language.</p>"}}),
		chunker:  fakeChunker{},
		embedder: emb,
		index:    vectorindex.New(4),
		reranker: rerank.JaccardReranker{},
		answerer: answer.NewAnswerer(fakeLLM{response: "Go is a programming language."}),
		sessions: store,
		metrics:  metrics.New(),

		maxProcessingTime:     DefaultMaxProcessingTime,
		searchResultsPerQuery: DefaultSearchResultsPerQuery,
		retrieveK:             DefaultRetrieveK,
		rerankK:               DefaultRerankK,
	}
}

func TestProcessQuery_TimesOutUnderSlowCollaborator(t *testing.T) {
	store := &fakeStore{}
	sys := newTestSystem(t, store, slowEmbedder{dim: 4})
	sys.maxProcessingTime = 20 * time.Millisecond

	result := sys.ProcessQuery(context.Background(), "sess-1", "what is go")

	require.False(t, result.Success)
	assert.Equal(t, "timeout", result.Error)
}

func TestProcessQuery_HappyPathProducesAnswer(t *testing.T) {
	store := &fakeStore{}
	sys := newTestSystem(t, store, fakeEmbedder{dim: 4})

	result := sys.ProcessQuery(context.Background(), "sess-1", "what is go")

	require.True(t, result.Success)
	assert.Equal(t, "Go is a programming language.", result.Response.Answer)
	assert.NotEmpty(t, result.Response.Sources)
}

func TestEmbedStage_IndexesZeroVectorOnEmbedFailure(t *testing.T) {
	store := &fakeStore{}
	sys := newTestSystem(t, store, failingEmbedder{dim: 4})

	chunks := []ragdoc.SemanticChunk{{ChunkID: "c1", Content: "some content"}}
	out := sys.embedStage(context.Background(), chunks)

	require.Len(t, out, 1)
	assert.Equal(t, []float32{0, 0, 0, 0}, out[0].Embedding)
}

func TestProcessQuery_ResumesAndRewritesPriorSessionChunks(t *testing.T) {
	store := &fakeStore{
		loaded: []ragdoc.SemanticChunk{{
			ChunkID:   "prior_0",
			Content:   "previously indexed content",
			SourceURL: "https://prior.example",
			Embedding: []float32{1, 0, 0, 0},
		}},
	}
	sys := newTestSystem(t, store, fakeEmbedder{dim: 4})

	result := sys.ProcessQuery(context.Background(), "sess-2", "what is go")

	require.True(t, result.Success)
	// The chunk loaded at session start is re-saved along with the
	// newly indexed chunk: save writes back the whole index, not just
	// what changed this run.
	savedIDs := make([]string, len(store.saved))
	for i, c := range store.saved {
		savedIDs[i] = c.ChunkID
	}
	assert.Contains(t, savedIDs, "prior_0")
}

func TestDedupeURLs_PreservesFirstOccurrenceOrder(t *testing.T) {
	docs := []ragdoc.WebDocument{
		{URL: "https://a.example"},
		{URL: "https://b.example"},
		{URL: "https://a.example"},
	}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, dedupeURLs(docs))
}

func TestScratchPad_CarriesScoresInOrder(t *testing.T) {
	results := []rerank.Result{
		{Chunk: ragdoc.SemanticChunk{ChunkID: "a"}, Score: 0.9},
		{Chunk: ragdoc.SemanticChunk{ChunkID: "b"}, Score: 0.4},
	}
	pad := scratchPad("q", results)
	require.Len(t, pad.Chunks, 2)
	assert.Equal(t, []float32{0.9, 0.4}, pad.Scores)
}
