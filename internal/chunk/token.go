package chunk

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE encoding used for token budgets.
const DefaultEncoding = "cl100k_base"

// Tokenizer converts between text and token IDs.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type tiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

func (t tiktokenTokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

func (t tiktokenTokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

var (
	defaultTokenizer     Tokenizer
	defaultTokenizerErr  error
	defaultTokenizerOnce sync.Once
)

// DefaultTokenizer returns the shared cl100k_base tokenizer. The BPE ranks
// are downloaded and cached by tiktoken-go on first use.
func DefaultTokenizer() (Tokenizer, error) {
	defaultTokenizerOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(DefaultEncoding)
		if err != nil {
			defaultTokenizerErr = fmt.Errorf("loading %s encoding: %w", DefaultEncoding, err)
			return
		}
		defaultTokenizer = tiktokenTokenizer{enc: enc}
	})
	return defaultTokenizer, defaultTokenizerErr
}

// CountTokens returns the number of tokens in text.
func CountTokens(tok Tokenizer, text string) int {
	return len(tok.Encode(text))
}

// TokenSplitter cuts text into windows of size tokens, each starting
// size-overlap tokens after the previous one.
type TokenSplitter struct {
	tok     Tokenizer
	size    int
	overlap int
}

// NewTokenSplitter creates a TokenSplitter over tok.
func NewTokenSplitter(tok Tokenizer, size, overlap int) (*TokenSplitter, error) {
	if err := checkSizes(size, overlap); err != nil {
		return nil, err
	}
	return &TokenSplitter{tok: tok, size: size, overlap: overlap}, nil
}

func (s *TokenSplitter) SplitText(text string) ([]string, error) {
	tokens := s.tok.Encode(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	step := s.size - s.overlap
	var out []string
	for start := 0; start < len(tokens); start += step {
		end := min(start+s.size, len(tokens))
		out = append(out, s.tok.Decode(tokens[start:end]))
		if end == len(tokens) {
			break
		}
	}
	return out, nil
}
