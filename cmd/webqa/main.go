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

// Command webqa is the CLI for the web-search question-answering
// pipeline.
//
// Usage:
//
//	webqa ask --session default "what is the capital of France"
//	webqa serve --addr :8080
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/alecthomas/kong"

	"github.com/websearchqa/ragqa/config"
	"github.com/websearchqa/ragqa/obs"
	"github.com/websearchqa/ragqa/pipeline"
)

// CLI defines the command-line interface.
type CLI struct {
	Ask   AskCmd   `cmd:"" help:"Answer a single question."`
	Serve ServeCmd `cmd:"" help:"Serve the pipeline over HTTP."`

	Config   string `short:"c" help:"Path to a .env file to load before environment variables." type:"path"`
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"info"`
}

// AskCmd answers one question from the command line.
type AskCmd struct {
	Session string `help:"Session ID to resume/persist." default:"default"`
	Query   string `arg:"" help:"The question to answer."`
}

func (c *AskCmd) Run(cli *CLI) error {
	sys, err := buildSystem(cli)
	if err != nil {
		return err
	}

	result := sys.ProcessQuery(context.Background(), c.Session, c.Query)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// ServeCmd exposes the pipeline over a tiny HTTP API with a single
// /ask endpoint; no /metrics endpoint is registered.
type ServeCmd struct {
	Addr string `help:"Listen address." default:":8080"`
}

func (c *ServeCmd) Run(cli *CLI) error {
	sys, err := buildSystem(cli)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ask", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Session string `json:"session_id"`
			Query   string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Session == "" {
			req.Session = "default"
		}
		result := sys.ProcessQuery(r.Context(), req.Session, req.Query)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	})

	fmt.Fprintf(os.Stderr, "listening on %s\n", c.Addr)
	return http.ListenAndServe(c.Addr, mux)
}

func buildSystem(cli *CLI) (*pipeline.System, error) {
	config.LoadDotEnv(cli.Config)
	obs.Init(cli.LogLevel)

	var cfg config.Config
	cfg.LogLevel = cli.LogLevel

	builder, err := pipeline.NewBuilder(cfg)
	if err != nil {
		return nil, fmt.Errorf("webqa: %w", err)
	}
	return builder.Build()
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("webqa"),
		kong.Description("Web-search question-answering pipeline."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}
