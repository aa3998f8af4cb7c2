// Package chunk splits extracted documents into bounded, overlapping
// segments ready for embedding.
package chunk

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ziadkadry99/docqa/internal/config"
	"github.com/ziadkadry99/docqa/internal/extract"
)

// Policy selects how chunk boundaries are measured.
type Policy int

const (
	// PolicyRecursive bounds chunks by characters and prefers natural
	// boundaries (paragraph, line, sentence, word).
	PolicyRecursive Policy = iota
	// PolicyToken bounds chunks by model tokens.
	PolicyToken
)

func (p Policy) String() string {
	switch p {
	case PolicyRecursive:
		return "recursive"
	case PolicyToken:
		return "token"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Task is the downstream workload a split is made for.
type Task int

const (
	TaskQA Task = iota
	TaskSummarization
)

// TaskPolicy returns the policy used for a workload.
func TaskPolicy(task Task) Policy {
	if task == TaskSummarization {
		return PolicyToken
	}
	return PolicyRecursive
}

// Chunk is a bounded slice of one Document's text.
type Chunk struct {
	ID     string
	Text   string
	Source string
	// Seq is the position of the chunk across the whole split, in
	// document order.
	Seq      int
	Metadata map[string]any
}

// Splitter divides one text into pieces.
type Splitter interface {
	SplitText(text string) ([]string, error)
}

// NewSplitter builds the Splitter for a policy. Sizes are in characters for
// PolicyRecursive and tokens for PolicyToken.
func NewSplitter(policy Policy, size, overlap int) (Splitter, error) {
	if err := checkSizes(size, overlap); err != nil {
		return nil, err
	}
	switch policy {
	case PolicyRecursive:
		return NewRecursiveSplitter(size, overlap)
	case PolicyToken:
		tok, err := DefaultTokenizer()
		if err != nil {
			return nil, err
		}
		return NewTokenSplitter(tok, size, overlap)
	default:
		return nil, fmt.Errorf("unknown chunk policy %v", policy)
	}
}

func checkSizes(size, overlap int) error {
	switch {
	case size <= 0:
		return &config.ConfigError{Key: "chunk_size", Reason: fmt.Sprintf("must be positive, got %d", size)}
	case overlap < 0:
		return &config.ConfigError{Key: "chunk_overlap", Reason: fmt.Sprintf("must not be negative, got %d", overlap)}
	case overlap >= size:
		return &config.ConfigError{Key: "chunk_overlap", Reason: fmt.Sprintf("must be smaller than chunk_size (%d >= %d)", overlap, size)}
	}
	return nil
}

// Split chunks every document in order. Documents with empty text are
// skipped; an empty result is not an error.
func Split(docs []extract.Document, s Splitter) ([]Chunk, error) {
	chunks := []Chunk{}
	for _, doc := range docs {
		if doc.IsEmpty() {
			continue
		}
		pieces, err := s.SplitText(doc.Text)
		if err != nil {
			return nil, fmt.Errorf("splitting %s: %w", doc.Source, err)
		}
		for i, piece := range pieces {
			md := doc.MetadataCopy()
			md["source"] = doc.Source
			md["chunk"] = i
			chunks = append(chunks, Chunk{
				ID:       uuid.NewString(),
				Text:     piece,
				Source:   doc.Source,
				Seq:      len(chunks),
				Metadata: md,
			})
		}
	}
	return chunks, nil
}
