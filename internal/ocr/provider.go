package ocr

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akolanti/DocFlowAPI/internal/domain/docModel"
)

// Provider is the OCR collaborator: payload bytes plus MIME type in,
// page-level text out. Implementations may fail or return empty content -
// the pipeline treats both as a degraded (but indexable) ingestion.
type Provider interface {
	Process(ctx context.Context, content []byte, mimeType string) (Response, error)
}

type Page struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

type UsageInfo struct {
	PagesProcessed int   `json:"pages_processed"`
	DocSizeBytes   int64 `json:"doc_size_bytes,omitempty"`
}

// Response mirrors the collaborator's wire shape. NumPages and DocumentType
// are optional top-level hints; the pipeline falls back to UsageInfo and to
// defaults when they are absent.
type Response struct {
	Model        string     `json:"model,omitempty"`
	Pages        []Page     `json:"pages"`
	NumPages     int        `json:"num_pages,omitempty"`
	DocumentType string     `json:"document_type,omitempty"`
	UsageInfo    *UsageInfo `json:"usage_info,omitempty"`
}

// FullText concatenates the page texts in page order.
func (r Response) FullText() string {
	parts := make([]string, 0, len(r.Pages))
	for _, p := range r.Pages {
		parts = append(parts, p.Markdown)
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

// MimeTypeForFile gates ingestion by extension before any collaborator call.
// pdf/png/jpg/jpeg go to the remote OCR service; txt/docx/rtf exist for the
// local extraction provider. Anything else fails fast.
func MimeTypeForFile(fileName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".pdf":
		return "application/pdf", nil
	case ".png":
		return "image/png", nil
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	case ".txt":
		return "text/plain", nil
	case ".rtf":
		return "application/rtf", nil
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document", nil
	default:
		return "", fmt.Errorf("%q: %w", ext, docModel.ErrUnsupportedFormat)
	}
}
