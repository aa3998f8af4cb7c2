// Package summarize condenses long text with the completion model, using a
// map-reduce pass over token-bounded chunks when the text exceeds one prompt.
package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/docqa/internal/chunk"
	"github.com/ziadkadry99/docqa/internal/llm"
	"github.com/ziadkadry99/docqa/internal/logging"
)

const (
	// MinWords is the length below which text is returned unchanged.
	MinWords = 50
	// DefaultWordLimit bounds summary length when the caller gives none.
	DefaultWordLimit = 250

	delimiter          = "####"
	defaultChunkTokens = 3000
	chunkOverlapTokens = 100
	defaultTemperature = 0.5
	maxReducePasses    = 4
)

// Summary is the result of Summarize.
type Summary struct {
	Text         string        `json:"summary"`
	Unchanged    bool          `json:"unchanged"`
	Calls        int           `json:"calls"`
	InputTokens  int           `json:"input_tokens"`
	OutputTokens int           `json:"output_tokens"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Summarizer summarizes text with a Provider.
type Summarizer struct {
	provider    llm.Provider
	selector    *llm.ModelSelector
	tok         chunk.Tokenizer
	chunkTokens int
	log         logrus.FieldLogger
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithTokenizer sets the tokenizer used to measure and split text.
func WithTokenizer(t chunk.Tokenizer) Option {
	return func(s *Summarizer) { s.tok = t }
}

// WithChunkTokens sets the largest chunk summarized in one call.
func WithChunkTokens(n int) Option {
	return func(s *Summarizer) {
		if n > chunkOverlapTokens {
			s.chunkTokens = n
		}
	}
}

// WithModelSelector chooses the model per prompt size.
func WithModelSelector(sel *llm.ModelSelector) Option {
	return func(s *Summarizer) { s.selector = sel }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Summarizer) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Summarizer.
func New(provider llm.Provider, opts ...Option) *Summarizer {
	s := &Summarizer{
		provider:    provider,
		chunkTokens: defaultChunkTokens,
		log:         logging.Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Summarizer) tokenizer() (chunk.Tokenizer, error) {
	if s.tok != nil {
		return s.tok, nil
	}
	tok, err := chunk.DefaultTokenizer()
	if err != nil {
		return nil, err
	}
	s.tok = tok
	return tok, nil
}

// Summarize condenses text to about wordLimit words. Text shorter than
// MinWords words is returned unchanged without calling the model.
func (s *Summarizer) Summarize(ctx context.Context, text string, wordLimit int) (*Summary, error) {
	start := time.Now()
	text = strings.TrimSpace(text)
	if wordLimit <= 0 {
		wordLimit = DefaultWordLimit
	}
	if len(strings.Fields(text)) < MinWords {
		return &Summary{Text: text, Unchanged: true, Elapsed: time.Since(start)}, nil
	}

	tok, err := s.tokenizer()
	if err != nil {
		return nil, err
	}

	sum := &Summary{}
	current := text
	for pass := 0; ; pass++ {
		if chunk.CountTokens(tok, current) <= s.chunkTokens {
			out, err := s.complete(ctx, current, wordLimit, sum)
			if err != nil {
				return nil, err
			}
			sum.Text = out
			break
		}
		if pass == maxReducePasses {
			return nil, fmt.Errorf("text still exceeds %d tokens after %d summarization passes", s.chunkTokens, pass)
		}

		splitter, err := chunk.NewTokenSplitter(tok, s.chunkTokens, chunkOverlapTokens)
		if err != nil {
			return nil, err
		}
		pieces, err := splitter.SplitText(current)
		if err != nil {
			return nil, err
		}
		s.log.WithField("chunks", len(pieces)).WithField("pass", pass+1).Debug("summarizing chunks")

		partials := make([]string, 0, len(pieces))
		for _, piece := range pieces {
			out, err := s.complete(ctx, piece, wordLimit, sum)
			if err != nil {
				return nil, err
			}
			partials = append(partials, out)
		}
		current = strings.Join(partials, "\n\n")
	}

	sum.Elapsed = time.Since(start)
	return sum, nil
}

func (s *Summarizer) complete(ctx context.Context, text string, wordLimit int, sum *Summary) (string, error) {
	messages := summaryMessages(text, wordLimit)
	req := llm.CompletionRequest{
		Messages:    messages,
		MaxTokens:   wordLimit * 2,
		Temperature: defaultTemperature,
	}
	if s.selector != nil {
		req.Model = s.selector.Select(messages, req.MaxTokens)
	}

	resp, err := s.provider.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	sum.Calls++
	sum.InputTokens += resp.InputTokens
	sum.OutputTokens += resp.OutputTokens
	return strings.TrimSpace(resp.Content), nil
}

func summaryMessages(text string, wordLimit int) []llm.Message {
	system := fmt.Sprintf(`You are a helpful assistant and follow the given instructions.
Summarize the text content provided in between %s characters.
The summarized content should be not more than %d words.
The summarized content must have the key points present in the provided text.`, delimiter, wordLimit)

	return []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: delimiter + text + delimiter},
		{Role: llm.RoleAssistant, Content: "Helpful Summarized content:\n"},
	}
}
