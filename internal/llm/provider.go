// Package llm is the completion gateway: one Provider interface over
// OpenAI, Anthropic and Ollama, plus model selection, rate limiting,
// cost estimation and JSON-schema function calls.
package llm

import "context"

// Provider sends chat completions to one model backend.
type Provider interface {
	// Complete runs req and returns the model's reply and token usage.
	// An empty reply is not an error.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name identifies the backend in logs ("openai", "anthropic", "ollama").
	Name() string
}
