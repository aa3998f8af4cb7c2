package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/docqa/internal/llm"
	"github.com/ziadkadry99/docqa/internal/logging"
)

// wordTokenizer treats each whitespace-separated word as one token.
type wordTokenizer struct {
	ids   map[string]int
	words []string
}

func (w *wordTokenizer) Encode(text string) []int {
	if w.ids == nil {
		w.ids = map[string]int{}
	}
	var out []int
	for _, f := range strings.Fields(text) {
		id, ok := w.ids[f]
		if !ok {
			id = len(w.words)
			w.ids[f] = id
			w.words = append(w.words, f)
		}
		out = append(out, id)
	}
	return out
}

func (w *wordTokenizer) Decode(tokens []int) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = w.words[t]
	}
	return strings.Join(parts, " ")
}

// echoProvider answers each request with a fixed short summary.
type echoProvider struct {
	calls []llm.CompletionRequest
	args  json.RawMessage
	err   error
}

func (p *echoProvider) Name() string { return "echo" }

func (p *echoProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.calls = append(p.calls, req)
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{
		Content:      fmt.Sprintf(" summary %d ", len(p.calls)),
		InputTokens:  100,
		OutputTokens: 10,
		Arguments:    p.args,
	}, nil
}

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(w, " ")
}

func newSummarizer(p llm.Provider, chunkTokens int) *Summarizer {
	return New(p, WithTokenizer(&wordTokenizer{}), WithChunkTokens(chunkTokens), WithLogger(logging.Discard()))
}

func TestSummarize_ShortTextUnchanged(t *testing.T) {
	p := &echoProvider{}
	text := "  " + words(MinWords-1) + "  "

	sum, err := newSummarizer(p, 1000).Summarize(context.Background(), text, 100)
	require.NoError(t, err)
	assert.True(t, sum.Unchanged)
	assert.Equal(t, strings.TrimSpace(text), sum.Text)
	assert.Empty(t, p.calls)
}

func TestSummarize_SingleCall(t *testing.T) {
	p := &echoProvider{}
	sum, err := newSummarizer(p, 1000).Summarize(context.Background(), words(200), 120)
	require.NoError(t, err)

	assert.Equal(t, "summary 1", sum.Text)
	assert.Equal(t, 1, sum.Calls)
	assert.Equal(t, 110, sum.InputTokens+sum.OutputTokens)
	require.Len(t, p.calls, 1)

	msgs := p.calls[0].Messages
	require.Len(t, msgs, 3)
	assert.Contains(t, msgs[0].Content, "not more than 120 words")
	assert.True(t, strings.HasPrefix(msgs[1].Content, "####"))
	assert.True(t, strings.HasSuffix(msgs[1].Content, "####"))
	assert.Equal(t, llm.RoleAssistant, msgs[2].Role)
}

func TestSummarize_MapReduce(t *testing.T) {
	p := &echoProvider{}
	// 450 words with 200-token chunks stepping 100: windows at 0,100,200,300 -> 4 chunks.
	sum, err := newSummarizer(p, 200).Summarize(context.Background(), words(450), 50)
	require.NoError(t, err)

	assert.Equal(t, 5, sum.Calls, "four chunk summaries plus one combining call")
	assert.Equal(t, "summary 5", sum.Text)
	assert.Contains(t, p.calls[4].Messages[1].Content, "summary 1")
	assert.Contains(t, p.calls[4].Messages[1].Content, "summary 4")
}

func TestSummarize_ProviderError(t *testing.T) {
	p := &echoProvider{err: errors.New("quota exceeded")}
	_, err := newSummarizer(p, 1000).Summarize(context.Background(), words(100), 50)
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestOutline(t *testing.T) {
	p := &echoProvider{args: json.RawMessage(`{"title":"France","topics":["geography"],"key_points":["Paris is the capital of France."]}`)}
	out, err := newSummarizer(p, 1000).Outline(context.Background(), "Paris is the capital of France.")
	require.NoError(t, err)

	assert.Equal(t, "France", out.Title)
	assert.Equal(t, []string{"Paris is the capital of France."}, out.KeyPoints)
	require.Len(t, p.calls, 1)
	require.NotNil(t, p.calls[0].Function)
	assert.Equal(t, outlineFunction, p.calls[0].Function.Name)
	assert.Contains(t, string(p.calls[0].Function.Parameters), "key_points")
}

func TestOutline_Empty(t *testing.T) {
	_, err := newSummarizer(&echoProvider{}, 1000).Outline(context.Background(), "  ")
	assert.Error(t, err)
}
