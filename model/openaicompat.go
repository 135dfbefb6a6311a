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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/websearchqa/ragqa/retryutil"
)

// OpenAICompatClient is a hand-rolled client for an OpenAI-compatible
// chat/completions endpoint (vLLM, Ollama, or OpenAI itself).
//
// Speaks the chat/completions wire format directly: POST
// {base}/chat/completions with
// {model, messages, stream:false, temperature:0.1, max_tokens:1024}.
type OpenAICompatClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
	model   string
	retryer *retryutil.Retryer
}

// OpenAICompatConfig configures OpenAICompatClient.
type OpenAICompatConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewOpenAICompatClient creates a chat-completion client.
func NewOpenAICompatClient(cfg OpenAICompatConfig) (*OpenAICompatClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required for OpenAI-compatible client")
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &OpenAICompatClient{
		client:  &http.Client{Timeout: timeout},
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   model,
		retryer: retryutil.New(retryutil.DefaultConfig()),
	}, nil
}

// Complete implements LLM.
func (c *OpenAICompatClient) Complete(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Stream:      false,
		Temperature: 0.1,
		MaxTokens:   1024,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	var text string
	err = c.retryer.Do(ctx, func() error {
		httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.client.Do(httpReq)
		if err != nil {
			return fmt.Errorf("failed to send chat request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read chat response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("chat completions returned status %d: %s", resp.StatusCode, string(respBody))
		}

		var parsed chatResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return fmt.Errorf("failed to decode chat response: %w", err)
		}
		if len(parsed.Choices) == 0 {
			return fmt.Errorf("chat response contained no choices")
		}
		text = parsed.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// Name implements LLM.
func (c *OpenAICompatClient) Name() string {
	return c.model
}

// Close implements LLM.
func (c *OpenAICompatClient) Close() error {
	return nil
}

var _ LLM = (*OpenAICompatClient)(nil)
