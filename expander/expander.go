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

// Package expander turns one user question into a small set of
// diversified search queries.
//
// The LLM is prompted for a numbered list ("1. ...", "2. ...",
// "3. ...") and the response is parsed by matching lines beginning
// with "<digit>.", rather than asking for and hand-parsing a JSON
// array. On LLM error the original query is used as the sole
// candidate rather than failing the pipeline.
package expander

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/websearchqa/ragqa/model"
	"github.com/websearchqa/ragqa/ragdoc"
)

// DefaultLanguage is used when no language is supplied to Expand.
const DefaultLanguage = "ko"

// Expander expands a single user query into a SearchQuery carrying
// 1-3 processed query variations.
type Expander interface {
	Expand(ctx context.Context, userQuery string) ragdoc.SearchQuery
}

// LLMExpander prompts an LLM for a numbered list of reformulations.
type LLMExpander struct {
	llm      model.LLM
	language string
}

// NewLLMExpander creates an LLMExpander. An empty language defaults to
// DefaultLanguage.
func NewLLMExpander(llm model.LLM, language string) *LLMExpander {
	if language == "" {
		language = DefaultLanguage
	}
	return &LLMExpander{llm: llm, language: language}
}

const expandPrompt = `Generate 3 diversified reformulations of the following search query. Each should use different wording or focus on a different aspect, while staying suitable for document retrieval.

Original query: %s

Return a numbered list, one reformulation per line, formatted exactly as:
1. <query>
2. <query>
3. <query>`

// Expand never returns an error: any LLM failure or unparseable
// response degrades to a SearchQuery whose sole processed query is the
// original input, per this stage's "never fail the pipeline" contract.
func (e *LLMExpander) Expand(ctx context.Context, userQuery string) ragdoc.SearchQuery {
	sq := ragdoc.SearchQuery{
		OriginalQuery: userQuery,
		Language:      e.language,
		Timestamp:     time.Now(),
	}

	response, err := e.llm.Complete(ctx, fmt.Sprintf(expandPrompt, userQuery))
	if err != nil {
		slog.Warn("query expansion LLM call failed, falling back to original query", "error", err)
		sq.ProcessedQueries = []string{userQuery}
		return sq
	}

	queries := parseNumberedList(response)
	if len(queries) == 0 {
		slog.Warn("query expansion produced no parseable reformulations, falling back to original query")
		queries = []string{userQuery}
	}
	if len(queries) > 3 {
		queries = queries[:3]
	}

	sq.ProcessedQueries = queries
	return sq
}

// parseNumberedList parses lines of the form "<digit>. <text>",
// returning the trailing text in order, case preserved.
func parseNumberedList(response string) []string {
	var queries []string
	scanner := bufio.NewScanner(strings.NewReader(response))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		dot := strings.Index(line, ".")
		if dot <= 0 {
			continue
		}
		if _, err := strconv.Atoi(line[:dot]); err != nil {
			continue
		}
		text := strings.TrimSpace(line[dot+1:])
		if text != "" {
			queries = append(queries, text)
		}
	}
	return queries
}

var _ Expander = (*LLMExpander)(nil)
