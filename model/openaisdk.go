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

package model

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/websearchqa/ragqa/retryutil"
)

// OpenAISDKClient is an alternate LLM implementation backed by the
// official github.com/openai/openai-go/v3 SDK, for operators who
// already standardize on it rather than this module's hand-rolled
// OpenAICompatClient.
//
// Construction pattern grounded on the Tangerg-lynx openai extension
// (ai/extensions/models/openai/api.go): options are assembled and
// passed to openai.NewClient, and the returned value is stored by
// pointer.
type OpenAISDKClient struct {
	client  *openai.Client
	model   string
	retryer *retryutil.Retryer
}

// OpenAISDKConfig configures OpenAISDKClient.
type OpenAISDKConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewOpenAISDKClient creates an SDK-backed chat-completion client.
// BaseURL, when set, points the SDK at a self-hosted OpenAI-compatible
// endpoint (vLLM, Ollama) instead of api.openai.com.
func NewOpenAISDKClient(cfg OpenAISDKConfig) (*OpenAISDKClient, error) {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	opts := make([]option.RequestOption, 0, 2)
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)
	return &OpenAISDKClient{
		client:  &client,
		model:   model,
		retryer: retryutil.New(retryutil.DefaultConfig()),
	}, nil
}

// Complete implements LLM.
func (c *OpenAISDKClient) Complete(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(1024),
	}

	var text string
	err := c.retryer.Do(ctx, func() error {
		resp, err := c.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return fmt.Errorf("chat completion request failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("chat response contained no choices")
		}
		text = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// Name implements LLM.
func (c *OpenAISDKClient) Name() string {
	return c.model
}

// Close implements LLM.
func (c *OpenAISDKClient) Close() error {
	return nil
}

var _ LLM = (*OpenAISDKClient)(nil)
