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

package retrieval

import "sort"

// RRFConstant is the Reciprocal Rank Fusion constant C.
const RRFConstant = 60

// RankedID is one ranked-list entry by identifier, used as input to
// FuseRanked; an entry's position in its list is its rank.
type RankedID struct {
	ID string
}

// FuseRanked computes Reciprocal Rank Fusion over any number of ranked
// lists, unioning by ID and summing each list's contribution
// 1/(C + rank + 1), ranks 0-indexed. IDs are unioned deterministically
// by identifier; a document is never silently overwritten by a later
// list the way a map keyed only by the last occurrence would.
func FuseRanked(lists ...[]RankedID) []FusedScore {
	contrib := make(map[string]float64)
	order := make([]string, 0)
	seen := make(map[string]bool)

	for _, list := range lists {
		for rank, entry := range list {
			if !seen[entry.ID] {
				seen[entry.ID] = true
				order = append(order, entry.ID)
			}
			contrib[entry.ID] += 1.0 / float64(RRFConstant+rank+1)
		}
	}

	scores := make([]FusedScore, 0, len(order))
	for _, id := range order {
		scores = append(scores, FusedScore{ID: id, Score: contrib[id]})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	return scores
}

// FusedScore is one document's summed RRF contribution across lists.
type FusedScore struct {
	ID    string
	Score float64
}
