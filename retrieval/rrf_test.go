package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuseRanked_Rank0SingleList(t *testing.T) {
	fused := FuseRanked([]RankedID{{ID: "a"}, {ID: "b"}})

	require.Len(t, fused, 2)
	assert.Equal(t, "a", fused[0].ID)
	assert.InDelta(t, 1.0/61.0, fused[0].Score, 1e-9)
	assert.InDelta(t, 1.0/62.0, fused[1].Score, 1e-9)
}

func TestFuseRanked_Rank0BothLists(t *testing.T) {
	dense := []RankedID{{ID: "a"}, {ID: "b"}}
	sparse := []RankedID{{ID: "a"}, {ID: "c"}}

	fused := FuseRanked(dense, sparse)

	byID := make(map[string]float64)
	for _, f := range fused {
		byID[f.ID] = f.Score
	}

	assert.InDelta(t, 1.0/61.0+1.0/61.0, byID["a"], 1e-9)
	assert.InDelta(t, 1.0/62.0, byID["b"], 1e-9)
	assert.InDelta(t, 1.0/62.0, byID["c"], 1e-9)
	assert.Equal(t, "a", fused[0].ID)
}

func TestFuseRanked_UnionsByIDDeterministically(t *testing.T) {
	dense := []RankedID{{ID: "x"}, {ID: "y"}, {ID: "x"}}
	fused := FuseRanked(dense)

	// "x" appears twice in the same list; both contributions are
	// summed rather than the later occurrence overwriting the first.
	byID := make(map[string]float64)
	for _, f := range fused {
		byID[f.ID] = f.Score
	}
	assert.InDelta(t, 1.0/61.0+1.0/63.0, byID["x"], 1e-9)
}
