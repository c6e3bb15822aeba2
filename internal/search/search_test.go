package search

import (
	"reflect"
	"testing"

	"github.com/akolanti/DocFlowAPI/internal/domain/docModel"
)

func fixtureRecords() []docModel.DocumentRecord {
	return []docModel.DocumentRecord{
		{FileName: "invoice_42.pdf", FullText: "Invoice 42\nTotal: 100 EUR", DocumentType: "invoice"},
		{FileName: "receipt_7.png", FullText: "Receipt 7 total 55", DocumentType: "receipt"},
		{FileName: "contract.pdf", FullText: "Service contract, annual total 1200", DocumentType: "contract"},
		{FileName: "scan_blank.jpg", FullText: "", DocumentType: "unknown"},
	}
}

func TestSearch_Keywords(t *testing.T) {
	records := fixtureRecords()

	tests := []struct {
		name      string
		query     string
		wantFiles []string
	}{
		{
			name:      "all keywords must match, case insensitive",
			query:     "invoice 42 total 100",
			wantFiles: []string{"invoice_42.pdf"},
		},
		{
			name:      "single keyword matches several documents",
			query:     "total",
			wantFiles: []string{"invoice_42.pdf", "receipt_7.png", "contract.pdf"},
		},
		{
			name:      "empty query matches everything",
			query:     "",
			wantFiles: []string{"invoice_42.pdf", "receipt_7.png", "contract.pdf", "scan_blank.jpg"},
		},
		{
			name:      "whitespace only behaves like empty query",
			query:     "   \t ",
			wantFiles: []string{"invoice_42.pdf", "receipt_7.png", "contract.pdf", "scan_blank.jpg"},
		},
		{
			name:      "one missing keyword drops the document",
			query:     "invoice 42 nonexistent",
			wantFiles: []string{},
		},
		{
			name:      "keywords on empty text never match",
			query:     "blank",
			wantFiles: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(records, tt.query, "")
			gotFiles := make([]string, 0, len(got))
			for _, r := range got {
				gotFiles = append(gotFiles, r.FileName)
			}
			if !reflect.DeepEqual(gotFiles, tt.wantFiles) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, gotFiles, tt.wantFiles)
			}
		})
	}
}

func TestSearch_TypeFilter(t *testing.T) {
	records := fixtureRecords()

	t.Run("filters by type", func(t *testing.T) {
		got := Search(records, "total", "receipt")
		if len(got) != 1 || got[0].FileName != "receipt_7.png" {
			t.Errorf("Expected the receipt only, got %v", got)
		}
	})

	t.Run("sentinel disables the filter", func(t *testing.T) {
		got := Search(records, "total", AllTypes)
		if len(got) != 3 {
			t.Errorf("Expected 3 matches with %q filter, got %d", AllTypes, len(got))
		}
	})

	t.Run("unknown type matches nothing", func(t *testing.T) {
		got := Search(records, "", "passport")
		if len(got) != 0 {
			t.Errorf("Expected no matches, got %d", len(got))
		}
	})
}

func TestSearch_StableOrder(t *testing.T) {
	records := fixtureRecords()
	got := Search(records, "total", "")
	want := []string{"invoice_42.pdf", "receipt_7.png", "contract.pdf"}
	for i, fileName := range want {
		if got[i].FileName != fileName {
			t.Fatalf("Result order changed: position %d is %s, want %s", i, got[i].FileName, fileName)
		}
	}
}

func TestDistinctTypes(t *testing.T) {
	got := DistinctTypes(fixtureRecords())
	want := []string{"contract", "invoice", "receipt", "unknown"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DistinctTypes = %v, want %v", got, want)
	}
}

func TestDistinctTypes_EmptyTypeBecomesUnknown(t *testing.T) {
	records := []docModel.DocumentRecord{{FileName: "a.pdf", DocumentType: ""}}
	got := DistinctTypes(records)
	if !reflect.DeepEqual(got, []string{docModel.DefaultDocumentType}) {
		t.Errorf("DistinctTypes = %v, want [%s]", got, docModel.DefaultDocumentType)
	}
}
