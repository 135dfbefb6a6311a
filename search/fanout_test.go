package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/websearchqa/ragqa/ragdoc"
)

type fakeSearcher struct {
	byQuery map[string][]ragdoc.WebDocument
	fail    map[string]bool
}

func (f *fakeSearcher) Search(ctx context.Context, query string, maxResults int) ([]ragdoc.WebDocument, error) {
	if f.fail[query] {
		return nil, errors.New("provider error")
	}
	return f.byQuery[query], nil
}

func TestSearchAll_ConcatenatesInQueryOrder(t *testing.T) {
	searcher := &fakeSearcher{
		byQuery: map[string][]ragdoc.WebDocument{
			"q1": {{URL: "https://a.example"}, {URL: "https://b.example"}},
			"q2": {{URL: "https://c.example"}},
		},
	}

	docs, err := SearchAll(context.Background(), searcher, []string{"q1", "q2"}, 7)

	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "https://a.example", docs[0].URL)
	assert.Equal(t, "https://b.example", docs[1].URL)
	assert.Equal(t, "https://c.example", docs[2].URL)
}

func TestSearchAll_SkipsFailedQueries(t *testing.T) {
	searcher := &fakeSearcher{
		byQuery: map[string][]ragdoc.WebDocument{
			"q2": {{URL: "https://c.example"}},
		},
		fail: map[string]bool{"q1": true},
	}

	docs, err := SearchAll(context.Background(), searcher, []string{"q1", "q2"}, 7)

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "https://c.example", docs[0].URL)
}

func TestSearchAll_FailsOnlyWhenAllQueriesFail(t *testing.T) {
	searcher := &fakeSearcher{fail: map[string]bool{"q1": true, "q2": true}}

	_, err := SearchAll(context.Background(), searcher, []string{"q1", "q2"}, 7)

	assert.Error(t, err)
}
