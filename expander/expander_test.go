package expander

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}
func (f *fakeLLM) Name() string { return "fake" }
func (f *fakeLLM) Close() error { return nil }

func TestLLMExpander_ParsesNumberedList(t *testing.T) {
	llm := &fakeLLM{response: "1. first reformulation\n2. second reformulation\n3. third reformulation\n"}
	e := NewLLMExpander(llm, "")

	sq := e.Expand(context.Background(), "original question")

	require.Len(t, sq.ProcessedQueries, 3)
	assert.Equal(t, "first reformulation", sq.ProcessedQueries[0])
	assert.Equal(t, "second reformulation", sq.ProcessedQueries[1])
	assert.Equal(t, "third reformulation", sq.ProcessedQueries[2])
	assert.Equal(t, "original question", sq.OriginalQuery)
	assert.Equal(t, DefaultLanguage, sq.Language)
}

func TestLLMExpander_FallsBackOnLLMError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("provider unavailable")}
	e := NewLLMExpander(llm, "en")

	sq := e.Expand(context.Background(), "original question")

	require.Len(t, sq.ProcessedQueries, 1)
	assert.Equal(t, "original question", sq.ProcessedQueries[0])
	assert.Equal(t, "en", sq.Language)
}

func TestLLMExpander_FallsBackOnUnparseableResponse(t *testing.T) {
	llm := &fakeLLM{response: "I cannot help with that."}
	e := NewLLMExpander(llm, "")

	sq := e.Expand(context.Background(), "original question")

	require.Len(t, sq.ProcessedQueries, 1)
	assert.Equal(t, "original question", sq.ProcessedQueries[0])
}

func TestLLMExpander_CapsAtThreeQueries(t *testing.T) {
	llm := &fakeLLM{response: "1. a\n2. b\n3. c\n4. d\n5. e\n"}
	e := NewLLMExpander(llm, "")

	sq := e.Expand(context.Background(), "q")

	assert.Len(t, sq.ProcessedQueries, 3)
}
