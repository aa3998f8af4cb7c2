package config

import "fmt"

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOllama    ProviderType = "ollama"
)

// Config is the top-level docqa configuration, corresponding to .docqa.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider" validate:"required,oneof=openai anthropic ollama"`
	Model             string       `yaml:"model" koanf:"model" validate:"required"`
	LargeContextModel string       `yaml:"large_context_model" koanf:"large_context_model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider" validate:"omitempty,oneof=openai ollama"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	OllamaHost        string       `yaml:"ollama_host,omitempty" koanf:"ollama_host" validate:"omitempty,http_url"`

	KnowledgeBaseDir string   `yaml:"knowledge_base_dir" koanf:"knowledge_base_dir" validate:"required"`
	IndexDir         string   `yaml:"index_dir" koanf:"index_dir" validate:"required"`
	ChunkSize        int      `yaml:"chunk_size" koanf:"chunk_size" validate:"required,gt=0"`
	ChunkOverlap     int      `yaml:"chunk_overlap" koanf:"chunk_overlap" validate:"gte=0,ltfield=ChunkSize"`
	Include          []string `yaml:"include" koanf:"include"`
	Exclude          []string `yaml:"exclude" koanf:"exclude"`

	LogLevel          string       `yaml:"log_level" koanf:"log_level" validate:"omitempty,oneof=trace debug info warn warning error"`
	RequestsPerMinute int          `yaml:"requests_per_minute" koanf:"requests_per_minute" validate:"gte=0"`
	FetchRetries      int          `yaml:"fetch_retries" koanf:"fetch_retries" validate:"gte=0,lte=10"`
	Server            ServerConfig `yaml:"server" koanf:"server"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port" validate:"gte=0,lte=65535"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// ConfigError reports a missing or invalid configuration value.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}
