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

// Package metrics exposes Prometheus instrumentation for the pipeline,
// one counter/histogram pair per stage, plus pipeline-level counters
// for queries, timeouts, indexed chunks, and session resumes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stage names used as the "stage" label value across every metric.
const (
	StageExpand   = "expand"
	StageSearch   = "search"
	StageCrawl    = "crawl"
	StageChunk    = "chunk"
	StageEmbed    = "embed"
	StageRetrieve = "retrieve"
	StageRerank   = "rerank"
	StageAnswer   = "answer"
	StageSession  = "session"
	StagePipeline = "pipeline"
)

// Metrics holds the registry and instrument handles.
type Metrics struct {
	registry *prometheus.Registry

	stageCalls    *prometheus.CounterVec
	stageErrors   *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec

	queriesTotal    prometheus.Counter
	queryTimeouts   prometheus.Counter
	chunksIndexed   prometheus.Counter
	sessionHitTotal prometheus.Counter
}

// New creates a Metrics instance with its own registry, registering
// every instrument up front.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.stageCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ragqa",
		Name:      "stage_calls_total",
		Help:      "Total number of pipeline stage invocations.",
	}, []string{"stage"})

	m.stageErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ragqa",
		Name:      "stage_errors_total",
		Help:      "Total number of pipeline stage invocations that degraded or failed.",
	}, []string{"stage"})

	m.stageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ragqa",
		Name:      "stage_duration_seconds",
		Help:      "Pipeline stage duration in seconds.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
	}, []string{"stage"})

	m.queriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ragqa",
		Name:      "queries_total",
		Help:      "Total number of ProcessQuery invocations.",
	})

	m.queryTimeouts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ragqa",
		Name:      "query_timeouts_total",
		Help:      "Total number of ProcessQuery invocations that hit the processing deadline.",
	})

	m.chunksIndexed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ragqa",
		Name:      "chunks_indexed_total",
		Help:      "Total number of chunks added to the vector index.",
	})

	m.sessionHitTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ragqa",
		Name:      "session_resume_total",
		Help:      "Total number of queries that resumed a non-empty prior session.",
	})

	m.registry.MustRegister(
		m.stageCalls, m.stageErrors, m.stageDuration,
		m.queriesTotal, m.queryTimeouts, m.chunksIndexed, m.sessionHitTotal,
	)
	return m
}

// ObserveStage records one stage invocation: a call, its duration, and
// whether it degraded (err != nil, or a caller-judged soft failure).
func (m *Metrics) ObserveStage(stage string, seconds float64, failed bool) {
	if m == nil {
		return
	}
	m.stageCalls.WithLabelValues(stage).Inc()
	m.stageDuration.WithLabelValues(stage).Observe(seconds)
	if failed {
		m.stageErrors.WithLabelValues(stage).Inc()
	}
}

// IncQueries records one ProcessQuery call.
func (m *Metrics) IncQueries() {
	if m == nil {
		return
	}
	m.queriesTotal.Inc()
}

// IncTimeouts records one ProcessQuery call that hit its deadline.
func (m *Metrics) IncTimeouts() {
	if m == nil {
		return
	}
	m.queryTimeouts.Inc()
}

// AddChunksIndexed records n chunks added to the vector index.
func (m *Metrics) AddChunksIndexed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.chunksIndexed.Add(float64(n))
}

// IncSessionResume records a query that resumed a non-empty session.
func (m *Metrics) IncSessionResume() {
	if m == nil {
		return
	}
	m.sessionHitTotal.Inc()
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
