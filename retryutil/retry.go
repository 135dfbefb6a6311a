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

// Package retryutil backs outbound calls to external collaborators
// with exponential backoff and jitter. In this module the LLM clients
// in package model use it; the search and crawler packages do not.
package retryutil

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"
)

// Config configures retry behavior.
type Config struct {
	MaxRetries      int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	JitterFactor    float64
	RetryableErrors []string
}

// DefaultConfig returns sensible defaults for outbound HTTP calls.
func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		BaseDelay:    time.Second,
		MaxDelay:     30 * time.Second,
		JitterFactor: 0.1,
		RetryableErrors: []string{
			"connection refused",
			"connection reset",
			"timeout",
			"rate limit",
			"429",
			"500",
			"502",
			"503",
			"504",
			"temporarily unavailable",
			"too many requests",
		},
	}
}

// Retryer executes operations with exponential backoff and jitter.
type Retryer struct {
	cfg Config
}

// New creates a Retryer with the given config, filling unset fields
// with DefaultConfig's values.
func New(cfg Config) *Retryer {
	d := DefaultConfig()
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = d.MaxRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = d.BaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = d.MaxDelay
	}
	if cfg.JitterFactor <= 0 {
		cfg.JitterFactor = d.JitterFactor
	}
	if len(cfg.RetryableErrors) == 0 {
		cfg.RetryableErrors = d.RetryableErrors
	}
	return &Retryer{cfg: cfg}
}

// Do executes fn, retrying on retryable errors until MaxRetries is
// exhausted or ctx is cancelled.
func (r *Retryer) Do(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !r.isRetryable(err) || attempt >= r.cfg.MaxRetries {
			return err
		}

		delay := r.calculateDelay(attempt)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

func (r *Retryer) isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, pattern := range r.cfg.RetryableErrors {
		if strings.Contains(errStr, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

func (r *Retryer) calculateDelay(attempt int) time.Duration {
	delay := time.Duration(math.Pow(2, float64(attempt))) * r.cfg.BaseDelay
	jitter := time.Duration(rand.Float64() * float64(delay) * r.cfg.JitterFactor)
	if rand.Float64() < 0.5 {
		delay -= jitter
	} else {
		delay += jitter
	}
	if delay > r.cfg.MaxDelay {
		delay = r.cfg.MaxDelay
	}
	return delay
}
