package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.KnowledgeBaseDir = "kb"
	cfg.IndexDir = "index"
	cfg.ChunkSize = 1000
	cfg.ChunkOverlap = 100
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider %q, got %q", ProviderOpenAI, cfg.Provider)
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("expected default embedding model, got %q", cfg.EmbeddingModel)
	}
	if cfg.KnowledgeBaseDir != "" || cfg.IndexDir != "" || cfg.ChunkSize != 0 {
		t.Error("core keys must not have defaults")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.docqa.yml")

	original := validConfig()
	original.Provider = ProviderAnthropic
	original.Model = "claude-haiku-4-5-20251001"
	original.Include = []string{"**/*.pdf", "**/*.txt"}
	original.Server.Port = 9090

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.KnowledgeBaseDir != "kb" || loaded.IndexDir != "index" {
		t.Errorf("dirs: got %q/%q", loaded.KnowledgeBaseDir, loaded.IndexDir)
	}
	if loaded.ChunkSize != 1000 || loaded.ChunkOverlap != 100 {
		t.Errorf("chunking: got %d/%d", loaded.ChunkSize, loaded.ChunkOverlap)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("server.port: got %d, want 9090", loaded.Server.Port)
	}
	if len(loaded.Include) != 2 || loaded.Include[1] != "**/*.txt" {
		t.Errorf("include: got %v", loaded.Include)
	}
}

func TestLoadMissingCoreKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected ConfigError for missing knowledge_base_dir")
	}
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *ConfigError, got %T: %v", err, err)
	}
	if cerr.Key != "knowledge_base_dir" {
		t.Errorf("expected key knowledge_base_dir, got %q", cerr.Key)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	if err := validConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("DOCQA_CHUNK_SIZE", "500")
	t.Setenv("DOCQA_PROVIDER", "ollama")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ChunkSize != 500 {
		t.Errorf("env override failed: chunk_size %d", loaded.ChunkSize)
	}
	if loaded.Provider != ProviderOllama {
		t.Errorf("env override failed: provider %q", loaded.Provider)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		key    string
	}{
		{"valid", func(*Config) {}, ""},
		{"invalid provider", func(c *Config) { c.Provider = "invalid" }, "provider"},
		{"empty model", func(c *Config) { c.Model = "" }, "model"},
		{"empty index dir", func(c *Config) { c.IndexDir = "" }, "index_dir"},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, "chunk_size"},
		{"overlap equals size", func(c *Config) { c.ChunkOverlap = 1000 }, "chunk_overlap"},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }, "chunk_overlap"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad ollama host", func(c *Config) { c.OllamaHost = "localhost" }, "ollama_host"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"too many fetch retries", func(c *Config) { c.FetchRetries = 50 }, "fetch_retries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.key == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cerr.Key != tt.key {
				t.Errorf("key: got %q, want %q", cerr.Key, tt.key)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	if p := GetPreset(ProviderOllama); p.EmbeddingModel != "nomic-embed-text" {
		t.Errorf("ollama embedding model: got %q", p.EmbeddingModel)
	}
	if p := GetPreset("unknown"); p.Model != presets[ProviderOpenAI].Model {
		t.Errorf("expected OpenAI fallback, got %q", p.Model)
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     string
	}{
		{ProviderAnthropic, "ANTHROPIC_API_KEY"},
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderOllama, ""},
	}
	for _, tt := range tests {
		if got := APIKeyEnvVar(tt.provider); got != tt.want {
			t.Errorf("APIKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"**/*.pdf", []string{"**/*.pdf"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := SplitList(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("SplitList(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("SplitList(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Key: "chunk_size", Reason: "is required"}
	if err.Error() != "config: chunk_size: is required" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if (&ConfigError{Reason: "bad"}).Error() != "config: bad" {
		t.Error("unexpected message without key")
	}
}

func TestEmbeddingDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Provider = ProviderAnthropic
	cfg.EmbeddingProvider = ""
	cfg.EmbeddingModel = ""
	if got := cfg.EmbeddingProviderOrDefault(); got != ProviderOpenAI {
		t.Errorf("anthropic embedding provider = %q, want openai", got)
	}
	if got := cfg.EmbeddingModelOrDefault(); got != "text-embedding-3-small" {
		t.Errorf("embedding model = %q", got)
	}

	cfg.Provider = ProviderOllama
	if got := cfg.EmbeddingModelOrDefault(); got != "nomic-embed-text" {
		t.Errorf("ollama embedding model = %q", got)
	}

	cfg.EmbeddingModel = "custom-embed"
	if got := cfg.EmbeddingModelOrDefault(); got != "custom-embed" {
		t.Errorf("explicit embedding model = %q", got)
	}
}
