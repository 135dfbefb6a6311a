// Package ragqa is a web-search question-answering pipeline: expand a
// user query, search the web, crawl the results, chunk and embed the
// text, retrieve and rerank the best chunks, and answer from them.
//
// # Quick Start
//
// Install the CLI:
//
//	go install github.com/websearchqa/ragqa/cmd/webqa@latest
//
// Ask a one-shot question:
//
//	webqa ask --session default "what is the capital of France"
//
// Or serve the pipeline over HTTP, with a /ask endpoint (the
// Prometheus metrics are not served over HTTP):
//
//	webqa serve --addr :8080
//
// The CLI reads TAVILY_API_KEY, MAX_CONCURRENT_CHUNKS, LOG_LEVEL,
// QDRANT_HOST and QDRANT_PORT from the environment, optionally loaded
// from a .env file with --config. Every other setting, including which
// LLM, embedder, and web search provider to use, takes its default
// from config.Config.SetDefaults; a Go program can set any
// config.Config field directly.
//
// # Using as a Go Library
//
// Build a System directly:
//
//	import (
//	    "github.com/websearchqa/ragqa/config"
//	    "github.com/websearchqa/ragqa/pipeline"
//	)
//
//	var cfg config.Config
//	builder, err := pipeline.NewBuilder(cfg)
//	sys, err := builder.Build()
//	result := sys.ProcessQuery(ctx, sessionID, "what is the capital of France")
//
// # Architecture
//
// pipeline.System composes one package per stage: expander, search,
// crawler, chunk, embedder plus vectorindex, retrieval plus rerank,
// and answer. Package session persists a user's indexed chunks across
// calls, keyed by session ID, in Qdrant. Package metrics exposes the
// Prometheus counters and histograms each stage records against.
package ragqa
