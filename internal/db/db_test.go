package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	for _, table := range []string{"records", "meta"} {
		var count int
		err := d.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Running migrate again should not fail.
	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.db")

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	records := []Record{
		{ID: "b", Seq: 1, Text: "second", Source: "doc.txt", Metadata: map[string]any{"title": "Doc"}},
		{ID: "a", Seq: 0, Text: "first", Source: "doc.txt"},
	}
	if err := d.InsertRecords(ctx, records); err != nil {
		t.Fatalf("InsertRecords() error: %v", err)
	}
	if err := d.SetMeta(ctx, MetaEmbeddingModel, "mock"); err != nil {
		t.Fatalf("SetMeta() error: %v", err)
	}
	if err := d.SetMeta(ctx, MetaEmbeddingModel, "mock-2"); err != nil {
		t.Fatalf("SetMeta() overwrite error: %v", err)
	}
	d.Close()

	d, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer d.Close()

	got, err := d.Records(ctx)
	if err != nil {
		t.Fatalf("Records() error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("Records() = %+v, want ordered by seq", got)
	}
	if got[1].Metadata["title"] != "Doc" {
		t.Errorf("metadata = %v", got[1].Metadata)
	}
	if len(got[0].Metadata) != 0 {
		t.Errorf("empty metadata = %v", got[0].Metadata)
	}

	model, err := d.Meta(ctx, MetaEmbeddingModel)
	if err != nil || model != "mock-2" {
		t.Errorf("Meta() = %q, %v", model, err)
	}
	if _, err := d.Meta(ctx, MetaDimensions); !errors.Is(err, ErrNoMeta) {
		t.Errorf("Meta(missing) error = %v, want ErrNoMeta", err)
	}
}

func TestInsertRecordsDuplicateSeqRollsBack(t *testing.T) {
	ctx := context.Background()
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	err = d.InsertRecords(ctx, []Record{{ID: "a", Seq: 0, Text: "x"}, {ID: "b", Seq: 0, Text: "y"}})
	if err == nil {
		t.Fatal("expected duplicate seq error")
	}
	got, err := d.Records(ctx)
	if err != nil {
		t.Fatalf("Records() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("transaction not rolled back, got %d records", len(got))
	}
}
