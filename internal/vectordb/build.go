package vectordb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ziadkadry99/docqa/internal/chunk"
	"github.com/ziadkadry99/docqa/internal/embeddings"
	"github.com/ziadkadry99/docqa/internal/extract"
	"github.com/ziadkadry99/docqa/internal/logging"
)

// BuildOptions configures Build.
type BuildOptions struct {
	// PersistTo, when set, is the directory the index is written to. Any
	// index already there is replaced only once the new one is complete.
	PersistTo    string
	ChunkSize    int
	ChunkOverlap int
}

// Build chunks docs for question answering, embeds every chunk in one
// batch and returns the resulting collection with the elapsed time.
//
// It returns (nil, 0, nil) when there is nothing to index. Metadata encoding,
// embedding and persistence failures are returned as *IndexBuildError.
func Build(ctx context.Context, docs []extract.Document, embedder embeddings.Embedder, opts BuildOptions) (*Collection, time.Duration, error) {
	start := time.Now()
	log := logging.Logger()

	splitter, err := chunk.NewSplitter(chunk.TaskPolicy(chunk.TaskQA), opts.ChunkSize, opts.ChunkOverlap)
	if err != nil {
		return nil, 0, err
	}
	chunks, err := chunk.Split(docs, splitter)
	if err != nil {
		return nil, 0, err
	}
	if len(chunks) == 0 {
		log.Debug("no content to index")
		return nil, 0, nil
	}

	records := make([]Record, len(chunks))
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		md, err := normalizeMetadata(c.Metadata)
		if err != nil {
			return nil, 0, &IndexBuildError{Op: "embed", Err: fmt.Errorf("chunk %d metadata: %w", i, err)}
		}
		records[i] = Record{ID: c.ID, Seq: c.Seq, Text: c.Text, Source: c.Source, Metadata: md}
		texts[i] = c.Text
	}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, 0, &IndexBuildError{Op: "embed", Err: err}
	}
	if len(vectors) != len(texts) {
		return nil, 0, &IndexBuildError{Op: "embed", Err: fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(texts))}
	}
	dims := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dims {
			return nil, 0, &IndexBuildError{Op: "embed", Err: fmt.Errorf("vector %d has %d dimensions, expected %d", i, len(v), dims)}
		}
	}

	col, err := newCollection(embedder, embedder.Name(), dims)
	if err != nil {
		return nil, 0, &IndexBuildError{Op: "embed", Err: err}
	}
	if err := col.add(ctx, records, vectors); err != nil {
		return nil, 0, &IndexBuildError{Op: "embed", Err: err}
	}

	if opts.PersistTo != "" {
		if err := col.Persist(ctx, opts.PersistTo); err != nil {
			return nil, 0, &IndexBuildError{Op: "persist", Err: err}
		}
	}

	elapsed := time.Since(start)
	log.WithField("records", len(records)).WithField("elapsed", elapsed).Info("built index")
	return col, elapsed, nil
}

// normalizeMetadata gives in-memory metadata the same shape it has after a
// trip through the sidecar, so built and loaded collections compare equal.
func normalizeMetadata(md map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(md)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
