package config

// ModelPreset describes the models used for a provider.
type ModelPreset struct {
	Model             string
	LargeContextModel string
	EmbeddingModel    string
}

var presets = map[ProviderType]ModelPreset{
	ProviderOpenAI: {
		Model:             "gpt-4o-mini",
		LargeContextModel: "gpt-4o",
		EmbeddingModel:    "text-embedding-3-small",
	},
	ProviderAnthropic: {
		Model:             "claude-haiku-4-5-20251001",
		LargeContextModel: "claude-sonnet-4-5-20250929",
		EmbeddingModel:    "text-embedding-3-small",
	},
	ProviderOllama: {
		Model:             "llama3.1",
		LargeContextModel: "llama3.1",
		EmbeddingModel:    "nomic-embed-text",
	},
}

// Suggested values written by the init wizard. Load does not fall back to
// these: the knowledge base, index location and chunking must be configured.
const (
	SuggestedKnowledgeBaseDir = "knowledge_base"
	SuggestedIndexDir         = ".docqa/index"
	SuggestedChunkSize        = 1000
	SuggestedChunkOverlap     = 200
)

// DefaultExcludes are glob patterns skipped when walking the knowledge base.
var DefaultExcludes = []string{
	".git/**",
	".docqa/**",
	"**/~$*",
	"**/.DS_Store",
}

// DefaultConfig returns the provider defaults. Core keys (knowledge_base_dir,
// index_dir, chunk_size, chunk_overlap) are intentionally left unset.
func DefaultConfig() *Config {
	p := presets[ProviderOpenAI]
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             p.Model,
		LargeContextModel: p.LargeContextModel,
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    p.EmbeddingModel,
		Include:           []string{"**"},
		Exclude:           DefaultExcludes,
		LogLevel:          "warn",
		FetchRetries:      2,
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// GetPreset returns the model preset for a provider, falling back to OpenAI.
func GetPreset(provider ProviderType) ModelPreset {
	if p, ok := presets[provider]; ok {
		return p
	}
	return presets[ProviderOpenAI]
}
