package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize_DropsShortTokens(t *testing.T) {
	assert.Equal(t, []string{"cd"}, Tokenize("a b cd"))
}

func TestTokenize_LowercasesAndKeepsHangul(t *testing.T) {
	tokens := Tokenize("Hello 세계 World123")
	assert.Equal(t, []string{"hello", "세계", "world123"}, tokens)
}

func TestBM25Index_ScoresOnlyDocumentsContainingTerm(t *testing.T) {
	idx := NewBM25Index(
		[]string{"doc1", "doc2", "doc3"},
		[]string{"the quick brown fox", "an entirely unrelated passage", "another unrelated passage here"},
	)

	scores := idx.Score("quick fox")

	assert.Len(t, scores, 1)
	assert.Equal(t, "doc1", scores[0].ID)
	assert.Greater(t, scores[0].Score, 0.0)
}

func TestBM25Index_EmptyQueryProducesNoScores(t *testing.T) {
	idx := NewBM25Index([]string{"doc1"}, []string{"some content"})
	assert.Empty(t, idx.Score("a"))
}
