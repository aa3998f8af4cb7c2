// Package ingest turns a knowledge base into a persisted index:
// walk -> extract -> chunk -> embed -> store.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ziadkadry99/docqa/internal/config"
	"github.com/ziadkadry99/docqa/internal/embeddings"
	"github.com/ziadkadry99/docqa/internal/extract"
	"github.com/ziadkadry99/docqa/internal/logging"
	"github.com/ziadkadry99/docqa/internal/progress"
	"github.com/ziadkadry99/docqa/internal/vectordb"
	"github.com/ziadkadry99/docqa/internal/walker"
)

// Sources lists everything an index is built from. Empty URLs are skipped.
type Sources struct {
	Files    []string
	WebURL   string
	VideoURL string
}

// Result summarizes a pipeline run.
type Result struct {
	// Collection is nil when there was nothing to index.
	Collection *vectordb.Collection
	Documents  int
	Records    int
	Duration   time.Duration
}

// Empty reports whether the run produced no index.
func (r *Result) Empty() bool { return r.Collection == nil }

// Pipeline builds and persists the index described by a Config.
type Pipeline struct {
	cfg       *config.Config
	extractor *extract.Extractor
	embedder  embeddings.Embedder
	reporter  progress.Reporter
	log       logrus.FieldLogger
}

// NewPipeline creates a new Pipeline.
func NewPipeline(cfg *config.Config, extractor *extract.Extractor, embedder embeddings.Embedder) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		extractor: extractor,
		embedder:  embedder,
		reporter:  progress.Nop{},
		log:       logging.Logger(),
	}
}

// SetReporter sets the progress reporter.
func (p *Pipeline) SetReporter(r progress.Reporter) {
	if r != nil {
		p.reporter = r
	}
}

// DiscoverFiles lists the files of the configured knowledge-base directory.
func DiscoverFiles(cfg *config.Config) ([]string, error) {
	files, err := walker.Walk(walker.Config{
		RootDir: cfg.KnowledgeBaseDir,
		Include: cfg.Include,
		Exclude: cfg.Exclude,
	})
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths, nil
}

// Run extracts every source in order, builds the index and persists it to
// the configured index directory. An unsupported file aborts the run before
// anything is fetched or embedded.
func (p *Pipeline) Run(ctx context.Context, src Sources) (*Result, error) {
	start := time.Now()

	inputs, err := inputsFor(src)
	if err != nil {
		return nil, err
	}
	state, err := p.stateFor(src)
	if err != nil {
		return nil, err
	}

	p.reporter.Start(len(inputs))
	docs := make([]extract.Document, 0, len(inputs))
	for i, in := range inputs {
		doc, err := p.extractor.Extract(ctx, in)
		if err != nil {
			p.reporter.Finish()
			return nil, err
		}
		if doc.IsEmpty() {
			p.log.WithField("source", doc.Source).Warn("no text extracted")
		}
		docs = append(docs, doc)
		p.reporter.Update(i+1, filepath.Base(doc.Source))
	}
	p.reporter.Finish()

	col, elapsed, err := vectordb.Build(ctx, docs, p.embedder, vectordb.BuildOptions{
		PersistTo:    p.cfg.IndexDir,
		ChunkSize:    p.cfg.ChunkSize,
		ChunkOverlap: p.cfg.ChunkOverlap,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{Collection: col, Documents: len(docs)}
	if col == nil {
		result.Duration = time.Since(start)
		return result, nil
	}

	result.Records = col.Count()
	state.Records = result.Records
	if err := state.Save(p.cfg.IndexDir); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}

	p.log.WithFields(logrus.Fields{
		"documents": result.Documents,
		"records":   result.Records,
		"build":     elapsed,
	}).Info("index built")

	result.Duration = time.Since(start)
	return result, nil
}

// UpToDate reports whether the persisted index was built from exactly src
// with the current embedding and chunking settings.
func (p *Pipeline) UpToDate(src Sources) (bool, error) {
	if !vectordb.Exists(p.cfg.IndexDir) {
		return false, nil
	}
	stored, err := LoadState(p.cfg.IndexDir)
	if err != nil {
		return false, fmt.Errorf("load state: %w", err)
	}
	current, err := p.stateFor(src)
	if err != nil {
		return false, err
	}
	return stored.Matches(current), nil
}

func (p *Pipeline) stateFor(src Sources) (*State, error) {
	state := &State{
		EmbeddingModel: p.embedder.Name(),
		ChunkSize:      p.cfg.ChunkSize,
		ChunkOverlap:   p.cfg.ChunkOverlap,
		FileHashes:     make(map[string]string, len(src.Files)),
		WebURL:         src.WebURL,
		VideoURL:       src.VideoURL,
	}
	for _, path := range src.Files {
		hash, err := walker.HashFile(path)
		if err != nil {
			return nil, fmt.Errorf("hash %s: %w", path, err)
		}
		state.FileHashes[filepath.ToSlash(path)] = hash
	}
	return state, nil
}

func inputsFor(src Sources) ([]extract.Input, error) {
	inputs := make([]extract.Input, 0, len(src.Files)+2)
	for _, path := range src.Files {
		in, err := extract.FileInput(path)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	if src.WebURL != "" {
		inputs = append(inputs, extract.WebInput(src.WebURL))
	}
	if src.VideoURL != "" {
		inputs = append(inputs, extract.VideoInput(src.VideoURL))
	}
	return inputs, nil
}
