package vectordb

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ziadkadry99/docqa/internal/db"
	"github.com/ziadkadry99/docqa/internal/embeddings"
)

const (
	// IndexFile holds the exported vector collection.
	IndexFile = "index.gob.gz"
	// RecordsFile is the SQLite sidecar with record texts and index metadata.
	RecordsFile = "records.db"
)

// Persist writes the collection to dir. The new index is assembled in a
// sibling temporary directory and renamed into place, so dir never holds a
// partial index.
func (c *Collection) Persist(ctx context.Context, dir string) error {
	dir = filepath.Clean(dir)
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("creating index parent directory: %w", err)
	}

	tmp, err := os.MkdirTemp(parent, "."+filepath.Base(dir)+".tmp-")
	if err != nil {
		return fmt.Errorf("creating temp index directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := c.writeTo(ctx, tmp); err != nil {
		return err
	}
	return swapDir(tmp, dir)
}

func (c *Collection) writeTo(ctx context.Context, dir string) error {
	if err := c.db.ExportToFile(filepath.Join(dir, IndexFile), true, ""); err != nil {
		return fmt.Errorf("export index: %w", err)
	}

	side, err := db.Open(filepath.Join(dir, RecordsFile))
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer side.Close()

	rows := make([]db.Record, 0, len(c.order))
	for _, r := range c.Records() {
		rows = append(rows, db.Record{ID: r.ID, Seq: r.Seq, Text: r.Text, Source: r.Source, Metadata: r.Metadata})
	}
	if err := side.InsertRecords(ctx, rows); err != nil {
		return fmt.Errorf("write records: %w", err)
	}

	meta := map[string]string{
		db.MetaEmbeddingModel: c.model,
		db.MetaDimensions:     strconv.Itoa(c.dimensions),
		db.MetaRecordCount:    strconv.Itoa(len(rows)),
		db.MetaCreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if err := side.SetMeta(ctx, k, v); err != nil {
			return err
		}
	}
	return side.Close()
}

// swapDir replaces dst with src. An existing dst is moved aside first and
// removed only after src is in place.
func swapDir(src, dst string) error {
	var old string
	if _, err := os.Stat(dst); err == nil {
		old = dst + ".old-" + strconv.FormatInt(time.Now().UnixNano(), 36)
		if err := os.Rename(dst, old); err != nil {
			return fmt.Errorf("moving previous index aside: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := os.Rename(src, dst); err != nil {
		if old != "" {
			_ = os.Rename(old, dst)
		}
		return fmt.Errorf("moving index into place: %w", err)
	}
	if old != "" {
		return os.RemoveAll(old)
	}
	return nil
}

// Load reads the index persisted in dir. It returns (nil, nil) when dir or
// its index file does not exist. The stored embedding model must match
// embedder, otherwise ErrEmbeddingMismatch is returned.
func Load(ctx context.Context, dir string, embedder embeddings.Embedder) (*Collection, error) {
	indexPath := filepath.Join(dir, IndexFile)
	if _, err := os.Stat(indexPath); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("stat index: %w", err)
	}

	recordsPath := filepath.Join(dir, RecordsFile)
	if _, err := os.Stat(recordsPath); err != nil {
		return nil, fmt.Errorf("index at %s has no record store: %w", dir, err)
	}
	side, err := db.Open(recordsPath)
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}
	defer side.Close()

	model, err := side.Meta(ctx, db.MetaEmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("read index metadata: %w", err)
	}
	if model != embedder.Name() {
		return nil, fmt.Errorf("%w: index uses %q, configured embedder is %q", ErrEmbeddingMismatch, model, embedder.Name())
	}
	dims := 0
	if v, err := side.Meta(ctx, db.MetaDimensions); err == nil {
		dims, _ = strconv.Atoi(v)
	}
	if want := embedder.Dimensions(); want > 0 && dims > 0 && want != dims {
		return nil, fmt.Errorf("%w: index has %d dimensions, embedder produces %d", ErrEmbeddingMismatch, dims, want)
	}

	col, err := newCollection(embedder, model, dims)
	if err != nil {
		return nil, err
	}
	if err := col.db.ImportFromFile(indexPath, ""); err != nil {
		return nil, fmt.Errorf("import index: %w", err)
	}
	// Re-acquire collection reference after import.
	col.col = col.db.GetCollection(collectionName, embeddings.ToChromemFunc(embedder))
	if col.col == nil {
		return nil, fmt.Errorf("collection %q not found after import", collectionName)
	}

	rows, err := side.Records(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]Record, len(rows))
	for i, r := range rows {
		records[i] = Record{ID: r.ID, Seq: r.Seq, Text: r.Text, Source: r.Source, Metadata: r.Metadata}
	}
	if len(records) != col.Count() {
		return nil, fmt.Errorf("index holds %d vectors but record store holds %d records", col.Count(), len(records))
	}
	col.index(records)
	return col, nil
}

// Reset removes the index directory. A missing directory is not an error.
func Reset(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing index: %w", err)
	}
	return nil
}

// Exists reports whether dir holds a persisted index.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, IndexFile))
	return err == nil
}
