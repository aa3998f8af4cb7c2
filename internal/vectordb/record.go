package vectordb

import (
	"errors"
	"fmt"
)

// Record is one indexed chunk: its text, provenance and metadata.
type Record struct {
	ID     string
	Seq    int
	Text   string
	Source string
	// Metadata holds the parent document metadata as stored in the sidecar.
	// Numbers come back as float64.
	Metadata map[string]any
	// Similarity is the cosine similarity to the query, set by Nearest.
	Similarity float32
}

// ErrEmbeddingMismatch is returned by Load when the index was built with a
// different embedding model than the one supplied.
var ErrEmbeddingMismatch = errors.New("index was built with a different embedding model")

// IndexBuildError reports a failed build. Op is "embed" or "persist".
type IndexBuildError struct {
	Op  string
	Err error
}

func (e *IndexBuildError) Error() string {
	return fmt.Sprintf("index build failed during %s: %v", e.Op, e.Err)
}

func (e *IndexBuildError) Unwrap() error { return e.Err }
