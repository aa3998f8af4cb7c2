package llm

import "strings"

// price is USD per one million tokens.
type price struct {
	input  float64
	output float64
}

// prices covers the models the presets and the large-context switch use.
// Dated snapshots ("gpt-4o-mini-2024-07-18") resolve to their base entry.
var prices = map[string]price{
	"claude-sonnet-4-5": {input: 3.00, output: 15.00},
	"claude-haiku-4-5":  {input: 1.00, output: 5.00},
	"claude-opus-4-1":   {input: 15.00, output: 75.00},

	"gpt-4o":            {input: 2.50, output: 10.00},
	"gpt-4o-mini":       {input: 0.15, output: 0.60},
	"gpt-4.1":           {input: 2.00, output: 8.00},
	"gpt-4.1-mini":      {input: 0.40, output: 1.60},
	"gpt-3.5-turbo":     {input: 0.50, output: 1.50},
	"gpt-3.5-turbo-16k": {input: 3.00, output: 4.00},

	"text-embedding-3-small": {input: 0.02},
	"text-embedding-3-large": {input: 0.13},
}

// lookupPrice returns the entry with the longest name that prefixes model.
func lookupPrice(model string) (price, bool) {
	model = strings.ToLower(strings.TrimPrefix(model, "openai/"))
	best, found := "", false
	for name := range prices {
		if strings.HasPrefix(model, name) && len(name) > len(best) {
			best, found = name, true
		}
	}
	return prices[best], found
}

// EstimateCost returns the USD cost of a call. Unknown models, including
// every local Ollama model, cost 0.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	p, ok := lookupPrice(model)
	if !ok {
		return 0
	}
	return float64(inputTokens)/1e6*p.input + float64(outputTokens)/1e6*p.output
}

// EstimateTokens approximates a token count at four bytes per token. Use
// chunk.CountTokens where an exact count matters.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return max(1, len(text)/4)
}
