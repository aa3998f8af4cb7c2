package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziadkadry99/docqa/internal/chunk"
	"github.com/ziadkadry99/docqa/internal/llm"
)

// Outline is a structured digest of a document.
type Outline struct {
	Title     string   `json:"title" jsonschema:"description=A short descriptive title for the document"`
	Topics    []string `json:"topics" jsonschema:"description=Main subjects the document covers"`
	KeyPoints []string `json:"key_points" jsonschema:"description=The most important facts or claims, one sentence each"`
}

const outlineFunction = "record_outline"

// Outline extracts a title, topics and key points from text through a forced
// function call. Text over the chunk budget is summarized first.
func (s *Summarizer) Outline(ctx context.Context, text string) (*Outline, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("outline: empty text")
	}

	tok, err := s.tokenizer()
	if err != nil {
		return nil, err
	}
	if chunk.CountTokens(tok, text) > s.chunkTokens {
		sum, err := s.Summarize(ctx, text, DefaultWordLimit*2)
		if err != nil {
			return nil, err
		}
		text = sum.Text
	}

	fn, err := llm.FunctionSchemaFor(outlineFunction, "Record the outline of the document.", Outline{})
	if err != nil {
		return nil, err
	}

	system := fmt.Sprintf(`You read the document provided in between %s characters.
Extract its key information and answer only by calling the %s function.
Don't make assumptions about what values to plug into the function.
Do not include information that is not present in the document.`, delimiter, outlineFunction)

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: delimiter + text + delimiter},
		},
		MaxTokens:   1024,
		Temperature: 0,
		Function:    fn,
	})
	if err != nil {
		return nil, fmt.Errorf("outline: %w", err)
	}

	var out Outline
	if err := llm.DecodeArguments(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
