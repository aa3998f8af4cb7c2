package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/ziadkadry99/docqa/internal/config"
	"github.com/ziadkadry99/docqa/internal/embeddings"
	"github.com/ziadkadry99/docqa/internal/extract"
	"github.com/ziadkadry99/docqa/internal/llm"
	"github.com/ziadkadry99/docqa/internal/logging"
	"github.com/ziadkadry99/docqa/internal/qa"
	"github.com/ziadkadry99/docqa/internal/summarize"
	"github.com/ziadkadry99/docqa/internal/vectordb"
)

var errNoIndex = errors.New("no index found; run `docqa index` first")

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docqa init` to create a config file", err)
	}
	if logLevel == "" && !verbose {
		if err := logging.SetLevel(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newExtractor(cfg *config.Config) *extract.Extractor {
	opts := []extract.Option{extract.WithLogger(logging.Logger())}
	if cfg.FetchRetries > 0 {
		opts = append(opts, extract.WithHTTPClient(extract.NewRetryingHTTPClient(cfg.FetchRetries)))
	}
	return extract.New(opts...)
}

func newSelector(cfg *config.Config) *llm.ModelSelector {
	return llm.NewModelSelector(cfg.Model, cfg.LargeContextModel)
}

func newAnswerer(cfg *config.Config) (*qa.Answerer, error) {
	provider, err := llm.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	return qa.New(provider, qa.WithModelSelector(newSelector(cfg))), nil
}

func newSummarizer(cfg *config.Config) (*summarize.Summarizer, error) {
	provider, err := llm.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	return summarize.New(provider, summarize.WithModelSelector(newSelector(cfg))), nil
}

// loadCollection opens the persisted index. It returns errNoIndex when
// nothing has been indexed yet.
func loadCollection(ctx context.Context, cfg *config.Config) (*vectordb.Collection, embeddings.Embedder, error) {
	embedder, err := embeddings.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating embedder: %w", err)
	}
	col, err := vectordb.Load(ctx, cfg.IndexDir, embedder)
	if err != nil {
		return nil, nil, fmt.Errorf("loading index from %s: %w", cfg.IndexDir, err)
	}
	if col == nil {
		return nil, embedder, errNoIndex
	}
	return col, embedder, nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
