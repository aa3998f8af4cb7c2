// Package qa answers questions from an index: it retrieves the most
// relevant chunks, grounds a prompt in them and asks the completion model.
package qa

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/docqa/internal/llm"
	"github.com/ziadkadry99/docqa/internal/logging"
	"github.com/ziadkadry99/docqa/internal/vectordb"
)

const (
	// DefaultK is the number of chunks retrieved per question.
	DefaultK           = 6
	defaultTemperature = 0.5
	defaultMaxTokens   = 512
)

// Retriever finds the records most relevant to a query.
type Retriever interface {
	Nearest(ctx context.Context, query string, k int) ([]vectordb.Record, error)
}

// Source is one supporting chunk of an answer.
type Source struct {
	Source   string         `json:"source"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Result is a grounded answer.
type Result struct {
	Answer       string        `json:"answer"`
	Sources      []Source      `json:"sources,omitempty"`
	InputTokens  int           `json:"input_tokens"`
	OutputTokens int           `json:"output_tokens"`
	Model        string        `json:"model"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Answerer holds no per-question state and can be shared.
type Answerer struct {
	provider llm.Provider
	selector *llm.ModelSelector
	log      logrus.FieldLogger
	k        int
}

// Option configures an Answerer.
type Option func(*Answerer)

// WithModelSelector chooses the model per prompt size. Without one the
// provider's default model is used.
func WithModelSelector(s *llm.ModelSelector) Option {
	return func(a *Answerer) { a.selector = s }
}

// WithLogger sets the logger for retrieval and completion failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Answerer) {
		if l != nil {
			a.log = l
		}
	}
}

// WithK overrides the number of chunks retrieved.
func WithK(k int) Option {
	return func(a *Answerer) {
		if k > 0 {
			a.k = k
		}
	}
}

// New creates an Answerer.
func New(provider llm.Provider, opts ...Option) *Answerer {
	a := &Answerer{provider: provider, log: logging.Logger(), k: DefaultK}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Answer retrieves context for query from col and asks the model. It
// returns nil when retrieval or completion fails; the failure is logged.
func (a *Answerer) Answer(ctx context.Context, query string, col Retriever, returnSources bool) *Result {
	start := time.Now()
	log := a.log.WithField("query", query)

	records, err := col.Nearest(ctx, query, a.k)
	if err != nil {
		log.WithError(err).Error("retrieval failed")
		return nil
	}

	contexts := make([]string, len(records))
	for i, r := range records {
		contexts[i] = r.Text
	}
	messages := []llm.Message{{Role: llm.RoleUser, Content: BuildPrompt(query, contexts)}}

	req := llm.CompletionRequest{
		Messages:    messages,
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	}
	if a.selector != nil {
		req.Model = a.selector.Select(messages, defaultMaxTokens)
	}

	resp, err := a.provider.Complete(ctx, req)
	if err != nil {
		log.WithError(err).Error("completion failed")
		return nil
	}

	res := &Result{
		Answer:       resp.Content,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		Model:        resp.Model,
		Elapsed:      time.Since(start),
	}
	if returnSources {
		res.Sources = make([]Source, len(records))
		for i, r := range records {
			res.Sources[i] = Source{Source: r.Source, Content: r.Text, Metadata: r.Metadata}
		}
	}
	log.WithFields(logrus.Fields{
		"chunks":  len(records),
		"tokens":  resp.TotalTokens(),
		"elapsed": res.Elapsed,
	}).Debug("answered")
	return res
}
