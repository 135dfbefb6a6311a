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

package search

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/websearchqa/ragqa/ragdoc"
)

// SearchAll issues one Search call per query in parallel, preserving
// provider order within each query's results and concatenating in
// query order. Per-query failures are logged and skipped rather than
// returned through the group, since a single failing expansion must
// not cancel its siblings; the stage only fails if every query failed.
func SearchAll(ctx context.Context, searcher Searcher, queries []string, maxResults int) ([]ragdoc.WebDocument, error) {
	results := make([][]ragdoc.WebDocument, len(queries))
	errs := make([]error, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			docs, err := searcher.Search(gctx, q, maxResults)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = docs
			return nil
		})
	}
	_ = g.Wait()

	var anySucceeded bool
	var out []ragdoc.WebDocument
	for i, q := range queries {
		if errs[i] != nil {
			slog.Warn("search failed for query, skipping", "query", q, "error", errs[i])
			continue
		}
		anySucceeded = true
		out = append(out, results[i]...)
	}

	if !anySucceeded && len(queries) > 0 {
		return nil, errNoSearchSucceeded
	}
	return out, nil
}

var errNoSearchSucceeded = searchError("all search queries failed")

type searchError string

func (e searchError) Error() string { return string(e) }
