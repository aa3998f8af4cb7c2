package embeddings

import (
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// ollamaDimensions lists known output sizes for common Ollama embedding models.
var ollamaDimensions = map[string]int{
	"nomic-embed-text":       768,
	"mxbai-embed-large":      1024,
	"all-minilm":             384,
	"snowflake-arctic-embed": 1024,
}

// NewOllamaEmbedder creates an embedder backed by a local Ollama instance
// through its OpenAI-compatible API.
// model is the Ollama model name (e.g. "nomic-embed-text").
// baseURL defaults to http://localhost:11434 if empty.
func NewOllamaEmbedder(model, baseURL string) *OpenAIEmbedder {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = strings.TrimSuffix(baseURL, "/") + "/v1"

	dims := ollamaDimensions[strings.SplitN(model, ":", 2)[0]]
	return NewOpenAICompatibleEmbedder(cfg, model, "ollama/"+model, dims)
}
