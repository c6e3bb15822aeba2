package ocr

import (
	"errors"
	"testing"

	"github.com/akolanti/DocFlowAPI/internal/domain/docModel"
)

func TestMimeTypeForFile(t *testing.T) {
	tests := []struct {
		fileName string
		want     string
	}{
		{"invoice.pdf", "application/pdf"},
		{"INVOICE.PDF", "application/pdf"},
		{"scan.png", "image/png"},
		{"photo.jpg", "image/jpeg"},
		{"photo.jpeg", "image/jpeg"},
		{"notes.txt", "text/plain"},
		{"contract.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			got, err := MimeTypeForFile(tt.fileName)
			if err != nil {
				t.Fatalf("MimeTypeForFile(%q): %v", tt.fileName, err)
			}
			if got != tt.want {
				t.Errorf("MimeTypeForFile(%q) = %q, want %q", tt.fileName, got, tt.want)
			}
		})
	}
}

func TestMimeTypeForFile_Unsupported(t *testing.T) {
	for _, fileName := range []string{"archive.zip", "noextension", "movie.mp4", "sheet.xlsx"} {
		if _, err := MimeTypeForFile(fileName); !errors.Is(err, docModel.ErrUnsupportedFormat) {
			t.Errorf("MimeTypeForFile(%q): expected ErrUnsupportedFormat, got %v", fileName, err)
		}
	}
}

func TestResponse_FullText(t *testing.T) {
	response := Response{
		Pages: []Page{
			{Index: 0, Markdown: "# Page one"},
			{Index: 1, Markdown: "Page two"},
		},
	}
	if got := response.FullText(); got != "# Page one\n\nPage two" {
		t.Errorf("FullText() = %q", got)
	}

	empty := Response{}
	if empty.FullText() != "" {
		t.Errorf("Empty response should yield empty text, got %q", empty.FullText())
	}
}
