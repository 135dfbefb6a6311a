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

// Package model defines the LLM interface consumed by the query
// expander, contextual chunker, reranker, and answerer.
//
// This interface carries a single capability: prompt in, text out,
// against an OpenAI-compatible chat/completions endpoint. Two
// implementations satisfy it: a hand-rolled HTTP client
// (OpenAICompatClient) and an SDK-backed client (OpenAISDKClient) for
// operators who already depend on github.com/openai/openai-go.
package model

import "context"

// LLM is the interface for chat-completion language models.
type LLM interface {
	// Complete sends a single user-role prompt and returns the
	// model's text response.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name returns the model identifier, for logging.
	Name() string

	// Close releases any resources held by the client.
	Close() error
}
