package llm

import "github.com/ziadkadry99/docqa/internal/chunk"

// DefaultContextThreshold is the prompt-plus-completion token budget above
// which the large-context model is used.
const DefaultContextThreshold = 3750

// ModelSelector picks between a default and a large-context model by the
// size of the prompt.
type ModelSelector struct {
	Default      string
	LargeContext string
	Threshold    int
	// Tokenizer counts prompt tokens. When nil, a character-based
	// estimate is used.
	Tokenizer chunk.Tokenizer
}

// NewModelSelector creates a selector using the shared tokenizer when it can
// be loaded.
func NewModelSelector(defaultModel, largeContextModel string) *ModelSelector {
	s := &ModelSelector{
		Default:      defaultModel,
		LargeContext: largeContextModel,
		Threshold:    DefaultContextThreshold,
	}
	if tok, err := chunk.DefaultTokenizer(); err == nil {
		s.Tokenizer = tok
	}
	return s
}

// CountTokens returns the number of tokens across all message contents.
func (s *ModelSelector) CountTokens(messages []Message) int {
	n := 0
	for _, m := range messages {
		if s.Tokenizer != nil {
			n += chunk.CountTokens(s.Tokenizer, m.Content)
		} else {
			n += EstimateTokens(m.Content)
		}
	}
	return n
}

// Select returns the model for a request with the given messages and
// completion budget.
func (s *ModelSelector) Select(messages []Message, maxTokens int) string {
	threshold := s.Threshold
	if threshold <= 0 {
		threshold = DefaultContextThreshold
	}
	if s.LargeContext == "" || s.CountTokens(messages)+maxTokens < threshold {
		return s.Default
	}
	return s.LargeContext
}
