package llm

import (
	"fmt"
	"os"

	"github.com/ziadkadry99/docqa/internal/config"
)

// NewProvider creates the completion provider selected by cfg, wrapped in a
// rate limiter when cfg.RequestsPerMinute is positive.
func NewProvider(cfg *config.Config) (Provider, error) {
	var p Provider
	switch cfg.Provider {
	case config.ProviderAnthropic, config.ProviderOpenAI:
		env := config.APIKeyEnvVar(cfg.Provider)
		apiKey := os.Getenv(env)
		if apiKey == "" {
			return nil, fmt.Errorf("%s environment variable is not set", env)
		}
		if cfg.Provider == config.ProviderAnthropic {
			p = NewAnthropicProvider(apiKey, cfg.Model)
		} else {
			p = NewOpenAIProvider(apiKey, cfg.Model)
		}

	case config.ProviderOllama:
		host := cfg.OllamaHost
		if host == "" {
			host = os.Getenv("OLLAMA_HOST")
		}
		p = NewOllamaProvider(host, cfg.Model)

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", cfg.Provider)
	}

	if cfg.RequestsPerMinute > 0 {
		p = NewRateLimitedProvider(p, cfg.RequestsPerMinute)
	}
	return p, nil
}
