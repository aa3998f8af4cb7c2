package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard asks for the provider, knowledge-base and index locations and
// chunking settings, then writes the result to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docqa! Let's configure your knowledge base.")
	fmt.Println()

	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{string(ProviderOpenAI), string(ProviderAnthropic), string(ProviderOllama)},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)
	preset := GetPreset(provider)

	kbDir, err := promptString("Knowledge base directory", SuggestedKnowledgeBaseDir)
	if err != nil {
		return nil, err
	}
	indexDir, err := promptString("Index directory", SuggestedIndexDir)
	if err != nil {
		return nil, err
	}
	chunkSize, err := promptInt("Chunk size (characters)", SuggestedChunkSize)
	if err != nil {
		return nil, err
	}
	chunkOverlap, err := promptInt("Chunk overlap (characters)", SuggestedChunkOverlap)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = preset.Model
	cfg.LargeContextModel = preset.LargeContextModel
	cfg.EmbeddingProvider = embeddingProviderFor(provider)
	cfg.EmbeddingModel = preset.EmbeddingModel
	cfg.KnowledgeBaseDir = kbDir
	cfg.IndexDir = indexDir
	cfg.ChunkSize = chunkSize
	cfg.ChunkOverlap = chunkOverlap

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if envVar := APIKeyEnvVar(provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running docqa index.\n", envVar)
	}
	if cfg.EmbeddingProvider == ProviderOpenAI && provider != ProviderOpenAI && os.Getenv("OPENAI_API_KEY") == "" {
		fmt.Println("Note: embeddings use OpenAI; set OPENAI_API_KEY as well.")
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func promptString(label, def string) (string, error) {
	p := promptui.Prompt{
		Label:   label,
		Default: def,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("value is required")
			}
			return nil
		},
	}
	s, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("%s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(s), nil
}

func promptInt(label string, def int) (int, error) {
	p := promptui.Prompt{
		Label:   label,
		Default: strconv.Itoa(def),
		Validate: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n < 0 {
				return errors.New("enter a non-negative integer")
			}
			return nil
		},
	}
	s, err := p.Run()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", strings.ToLower(label), err)
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

// embeddingProviderFor returns the embedding provider paired with an LLM
// provider. Anthropic has no embeddings API, so it uses OpenAI.
func embeddingProviderFor(p ProviderType) ProviderType {
	if p == ProviderOllama {
		return ProviderOllama
	}
	return ProviderOpenAI
}

// SplitList splits a comma-separated string and trims whitespace.
func SplitList(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
