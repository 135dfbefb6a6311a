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

// Package answer implements the Answerer stage: assemble a context
// prompt from the scratchpad's chunks and produce the final answer.
package answer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/websearchqa/ragqa/model"
	"github.com/websearchqa/ragqa/ragdoc"
)

// Answerer produces the terminal QAResponse from a query and its
// scratchpad of retrieved-and-reranked chunks.
type Answerer struct {
	llm model.LLM
}

// NewAnswerer creates an Answerer.
func NewAnswerer(llm model.LLM) *Answerer {
	return &Answerer{llm: llm}
}

const answerPromptTemplate = `Answer the question using only the information in the context below. If the context does not contain the answer, say so.

Context:
%s

Question: %s`

// Answer implements the Answerer contract. It never returns a Go
// error: an LLM failure yields a QAResponse with Confidence 0 and an
// explanatory Answer, since the pipeline's ProcessQuery must always
// produce a result.
func (a *Answerer) Answer(ctx context.Context, pad ragdoc.ScratchPad, startedAt time.Time) ragdoc.QAResponse {
	contextBlock := buildContext(pad.Chunks)
	prompt := fmt.Sprintf(answerPromptTemplate, contextBlock, pad.Query)

	text, err := a.llm.Complete(ctx, prompt)

	resp := ragdoc.QAResponse{
		Query:          pad.Query,
		Sources:        sources(pad.Chunks),
		ProcessingTime: time.Since(startedAt).Seconds(),
	}
	if err != nil {
		resp.Answer = fmt.Sprintf("unable to produce an answer: %v", err)
		resp.Confidence = 0
		return resp
	}

	resp.Answer = text
	resp.Confidence = confidenceFromScores(pad.Scores)
	return resp
}

// buildContext joins, for each chunk in scratchpad order,
// "[Source: <url>]\n<content>", separated by blank lines.
func buildContext(chunks []ragdoc.SemanticChunk) string {
	blocks := make([]string, 0, len(chunks))
	for _, c := range chunks {
		blocks = append(blocks, fmt.Sprintf("[Source: %s]\n%s", c.SourceURL, c.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// sources returns the scratchpad URLs in order, without deduplication:
// repeated URLs are evidence of rank.
func sources(chunks []ragdoc.SemanticChunk) []string {
	urls := make([]string, len(chunks))
	for i, c := range chunks {
		urls[i] = c.SourceURL
	}
	return urls
}

// confidenceFromScores uses the top reranked score as the response's
// confidence, bounded to [0,1].
func confidenceFromScores(scores []float32) float32 {
	if len(scores) == 0 {
		return 0
	}
	top := scores[0]
	if top < 0 {
		return 0
	}
	if top > 1 {
		return 1
	}
	return top
}
