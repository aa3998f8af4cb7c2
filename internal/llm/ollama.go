package llm

import (
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOllamaHost = "http://localhost:11434"

// NewOllamaProvider creates a provider for a local Ollama instance through
// its OpenAI-compatible /v1 API. baseURL defaults to http://localhost:11434.
func NewOllamaProvider(baseURL string, model string) *OpenAIProvider {
	if baseURL == "" {
		baseURL = defaultOllamaHost
	}
	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = strings.TrimSuffix(baseURL, "/") + "/v1"
	return NewOpenAICompatibleProvider("ollama", cfg, model)
}
