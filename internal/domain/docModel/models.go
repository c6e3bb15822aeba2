package docModel

import (
	"path/filepath"
	"strings"
)

// DocumentRecord is one entry in the index file. FileName is the identity:
// upserting a record with an existing FileName replaces the old entry whole,
// there is no field-level merge.
type DocumentRecord struct {
	FileName       string            `json:"file_name"`
	Stem           string            `json:"stem"`
	PathFile       string            `json:"path_file"`
	PathOcr        string            `json:"path_ocr"`
	PathStructured string            `json:"path_structured,omitempty"`
	FullText       string            `json:"full_text"`
	StructuredJSON *StructuredResult `json:"structured_json,omitempty"`
	NumPages       int               `json:"num_pages"`
	DocumentType   string            `json:"document_type"`
}

const DefaultDocumentType = "unknown"

// OcrResult is what ingestion hands back to callers after the OCR
// collaborator ran (or failed - an empty FullText with a Warning set is a
// valid, indexable outcome).
type OcrResult struct {
	FileName     string `json:"file_name"`
	FullText     string `json:"full_text"`
	NumPages     int    `json:"num_pages"`
	DocumentType string `json:"document_type"`
	PathFile     string `json:"path_file"`
	PathOcr      string `json:"path_ocr"`
	Warning      string `json:"warning,omitempty"`
}

func Stem(fileName string) string {
	base := filepath.Base(fileName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
