package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/DocFlowAPI/internal/index"
	"github.com/akolanti/DocFlowAPI/pkg/logger_i"
)

func writeArtifact(t *testing.T, dir string, name string, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0640); err != nil {
		t.Fatal(err)
	}
}

func TestRebuildIndex(t *testing.T) {
	dir := t.TempDir()
	samplesDir := filepath.Join(dir, "samples")
	uploadDir := filepath.Join(dir, "uploads")
	store := index.NewStore(filepath.Join(dir, "index.json"))
	logger := logger_i.NewLogger("rebuild test")

	// one fully processed document, with its upload still around
	writeArtifact(t, samplesDir, "invoice_42_ocr_result.json",
		`{"file_name": "invoice_42.pdf", "full_text": "Invoice 42 total 100", "num_pages": 2, "document_type": "invoice"}`)
	writeArtifact(t, samplesDir, "invoice_42_structured.json",
		`{"invoice_number": "INV-42", "total": 100}`)
	writeArtifact(t, uploadDir, "invoice_42.pdf", "%PDF-fake")

	// one OCR-only document, no structured pass and no upload
	writeArtifact(t, samplesDir, "receipt_7_ocr_result.json",
		`{"file_name": "receipt_7.png", "full_text": "Receipt 7", "num_pages": 1}`)

	// noise the rebuild must ignore
	writeArtifact(t, samplesDir, "notes.txt", "not an artifact")

	count, err := rebuildIndex(store, samplesDir, uploadDir, logger)
	if err != nil {
		t.Fatalf("rebuildIndex: %v", err)
	}
	if count != 2 {
		t.Fatalf("Expected 2 rebuilt records, got %d", count)
	}

	records, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records in the index, got %d", len(records))
	}

	invoice, found, _ := store.Find("invoice_42.pdf")
	if !found {
		t.Fatal("invoice_42.pdf not rebuilt")
	}
	if invoice.FullText != "Invoice 42 total 100" || invoice.NumPages != 2 || invoice.DocumentType != "invoice" {
		t.Errorf("OCR fields not restored: %+v", invoice)
	}
	if invoice.StructuredJSON == nil || invoice.StructuredJSON.Field("invoice_number") != "INV-42" {
		t.Errorf("Structured data not restored: %+v", invoice.StructuredJSON)
	}
	if invoice.PathStructured == "" || invoice.PathFile == "" {
		t.Errorf("Artifact paths not restored: %+v", invoice)
	}

	receipt, found, _ := store.Find("receipt_7.png")
	if !found {
		t.Fatal("receipt_7.png not rebuilt")
	}
	if receipt.StructuredJSON != nil || receipt.PathStructured != "" {
		t.Errorf("OCR-only document grew structured data: %+v", receipt)
	}
	if receipt.DocumentType != "unknown" {
		t.Errorf("Missing document_type not defaulted: %q", receipt.DocumentType)
	}
	if receipt.PathFile != "" {
		t.Errorf("Absent upload must leave path_file empty: %q", receipt.PathFile)
	}
}

func TestRebuildIndex_IsRepeatable(t *testing.T) {
	dir := t.TempDir()
	samplesDir := filepath.Join(dir, "samples")
	store := index.NewStore(filepath.Join(dir, "index.json"))
	logger := logger_i.NewLogger("rebuild test")

	writeArtifact(t, samplesDir, "doc_ocr_result.json",
		`{"file_name": "doc.pdf", "full_text": "text"}`)

	for i := 0; i < 2; i++ {
		if _, err := rebuildIndex(store, samplesDir, filepath.Join(dir, "uploads"), logger); err != nil {
			t.Fatalf("rebuild pass %d: %v", i, err)
		}
	}

	records, _ := store.Load()
	if len(records) != 1 {
		t.Errorf("Repeated rebuild duplicated records: got %d", len(records))
	}
}

func TestRebuildIndex_MissingFolder(t *testing.T) {
	dir := t.TempDir()
	store := index.NewStore(filepath.Join(dir, "index.json"))
	logger := logger_i.NewLogger("rebuild test")

	if _, err := rebuildIndex(store, filepath.Join(dir, "nope"), dir, logger); err == nil {
		t.Fatal("Expected an error for a missing artifacts folder")
	}
}
