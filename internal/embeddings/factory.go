package embeddings

import (
	"fmt"
	"os"

	"github.com/ziadkadry99/docqa/internal/config"
)

// New creates the Embedder selected by cfg.
func New(cfg *config.Config) (Embedder, error) {
	provider := cfg.EmbeddingProviderOrDefault()
	model := cfg.EmbeddingModelOrDefault()

	switch provider {
	case config.ProviderOpenAI:
		env := config.APIKeyEnvVar(provider)
		key := os.Getenv(env)
		if key == "" {
			return nil, fmt.Errorf("%s is not set", env)
		}
		return NewOpenAIEmbedder(key, OpenAIModel(model)), nil
	case config.ProviderOllama:
		return NewOllamaEmbedder(model, cfg.OllamaHost), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", provider)
	}
}
