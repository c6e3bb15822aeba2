package index

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/akolanti/DocFlowAPI/internal/domain/docModel"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "index.json"))
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := newTestStore(t)

	records, err := store.Load()
	if err != nil {
		t.Fatalf("Load on absent file: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected empty collection, got %d records", len(records))
	}
}

func TestStore_LoadCorruptFile(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0640); err != nil {
		t.Fatal(err)
	}

	_, err := store.Load()
	if !errors.Is(err, docModel.ErrCorruptIndex) {
		t.Errorf("Expected ErrCorruptIndex, got %v", err)
	}
}

func TestStore_UpsertRoundtrip(t *testing.T) {
	store := newTestStore(t)

	record := docModel.DocumentRecord{
		FileName:     "invoice_42.pdf",
		Stem:         "invoice_42",
		PathFile:     "data/uploads/invoice_42.pdf",
		PathOcr:      "data/samples/invoice_42_ocr_result.json",
		FullText:     "Invoice 42 total 100",
		NumPages:     2,
		DocumentType: "invoice",
	}
	if err := store.Upsert(record); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	records, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0] != record {
		t.Errorf("Record changed in roundtrip: got %+v", records[0])
	}
}

func TestStore_UpsertReplacesByFileName(t *testing.T) {
	store := newTestStore(t)

	first := docModel.DocumentRecord{FileName: "doc.pdf", FullText: "first pass", NumPages: 1}
	other := docModel.DocumentRecord{FileName: "other.pdf", FullText: "untouched", NumPages: 1}
	if err := store.Upsert(first); err != nil {
		t.Fatal(err)
	}
	if err := store.Upsert(other); err != nil {
		t.Fatal(err)
	}

	second := first
	second.FullText = "second pass"
	second.NumPages = 3
	if err := store.Upsert(second); err != nil {
		t.Fatal(err)
	}

	records, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("Re-ingesting the same file must not grow the index: got %d records", len(records))
	}
	for _, r := range records {
		if r.FileName == "doc.pdf" && r.FullText != "second pass" {
			t.Errorf("Old record survived the replace: %+v", r)
		}
		if r.FileName == "other.pdf" && r.FullText != "untouched" {
			t.Errorf("Unrelated record was modified: %+v", r)
		}
	}
}

func TestStore_UpsertIdempotent(t *testing.T) {
	store := newTestStore(t)
	record := docModel.DocumentRecord{FileName: "doc.pdf", FullText: "same"}

	for i := 0; i < 3; i++ {
		if err := store.Upsert(record); err != nil {
			t.Fatal(err)
		}
	}

	records, _ := store.Load()
	if len(records) != 1 {
		t.Errorf("Expected 1 record after repeated identical upserts, got %d", len(records))
	}
}

func TestStore_ConcurrentUpserts(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	names := []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf"}
	for _, name := range names {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			if err := store.Upsert(docModel.DocumentRecord{FileName: n}); err != nil {
				t.Errorf("Upsert(%s): %v", n, err)
			}
		}(name)
	}
	wg.Wait()

	records, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != len(names) {
		t.Errorf("Concurrent upserts dropped records: got %d, want %d", len(records), len(names))
	}
}

func TestStore_Find(t *testing.T) {
	store := newTestStore(t)
	if err := store.Upsert(docModel.DocumentRecord{FileName: "doc.pdf", DocumentType: "invoice"}); err != nil {
		t.Fatal(err)
	}

	record, found, err := store.Find("doc.pdf")
	if err != nil || !found {
		t.Fatalf("Find: found=%v err=%v", found, err)
	}
	if record.DocumentType != "invoice" {
		t.Errorf("Wrong record: %+v", record)
	}

	_, found, err = store.Find("ghost.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("Expected found=false for unknown file")
	}
}

func TestStore_FileIsAPrettyJSONArray(t *testing.T) {
	store := newTestStore(t)
	if err := store.Upsert(docModel.DocumentRecord{FileName: "doc.pdf"}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Index file is not a JSON array: %v", err)
	}
	if !strings.Contains(string(data), "\n    ") {
		t.Error("Index file is not indented")
	}
	if _, ok := raw[0]["file_name"]; !ok {
		t.Errorf("Expected snake_case file_name key, got %v", raw[0])
	}
}
