package answer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/websearchqa/ragqa/ragdoc"
)

type fakeLLM struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}
func (f *fakeLLM) Name() string { return "fake" }
func (f *fakeLLM) Close() error { return nil }

func TestAnswerer_AssemblesContextAndSources(t *testing.T) {
	llm := &fakeLLM{response: "Go was designed at Google."}
	a := NewAnswerer(llm)

	pad := ragdoc.ScratchPad{
		Query: "who made go",
		Chunks: []ragdoc.SemanticChunk{
			{SourceURL: "https://a.example", Content: "Go is a language."},
			{SourceURL: "https://a.example", Content: "It was made at Google."},
		},
		Scores: []float32{0.9, 0.5},
	}

	resp := a.Answer(context.Background(), pad, time.Now())

	assert.Equal(t, "Go was designed at Google.", resp.Answer)
	assert.Equal(t, []string{"https://a.example", "https://a.example"}, resp.Sources)
	assert.InDelta(t, 0.9, resp.Confidence, 1e-6)
	assert.GreaterOrEqual(t, resp.ProcessingTime, 0.0)
	assert.True(t, strings.Contains(llm.lastPrompt, "[Source: https://a.example]"))
}

func TestAnswerer_NeverReturnsErrorOnLLMFailure(t *testing.T) {
	llm := &fakeLLM{err: errors.New("timeout")}
	a := NewAnswerer(llm)

	pad := ragdoc.ScratchPad{Query: "q"}
	resp := a.Answer(context.Background(), pad, time.Now())

	require.NotEmpty(t, resp.Answer)
	assert.Equal(t, float32(0), resp.Confidence)
}
