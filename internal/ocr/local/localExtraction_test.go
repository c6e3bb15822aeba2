package local

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestSpoolToTemp(t *testing.T) {
	t.Run("pdf spool keeps the extension", func(t *testing.T) {
		path, err := spoolToTemp([]byte("%PDF-fake"), "application/pdf")
		if err != nil {
			t.Fatalf("spoolToTemp: %v", err)
		}
		defer os.Remove(path)

		if !strings.HasSuffix(path, ".pdf") {
			t.Errorf("PDF spool file has no .pdf suffix: %s", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "%PDF-fake" {
			t.Errorf("Spooled content changed: %q", data)
		}
	})

	t.Run("other formats spool without extension", func(t *testing.T) {
		path, err := spoolToTemp([]byte("plain text"), "text/plain")
		if err != nil {
			t.Fatalf("spoolToTemp: %v", err)
		}
		defer os.Remove(path)

		if strings.HasSuffix(path, ".pdf") {
			t.Errorf("Non-PDF spool file got a .pdf suffix: %s", path)
		}
	})
}

func TestProcess_PlainText(t *testing.T) {
	provider := GetLocalProvider()

	content := []byte("Invoice 42\ntotal 100")
	response, err := provider.Process(context.Background(), content, "text/plain")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(response.Pages) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(response.Pages))
	}
	if !strings.Contains(response.Pages[0].Markdown, "Invoice 42") {
		t.Errorf("Extracted text lost content: %q", response.Pages[0].Markdown)
	}
	if response.UsageInfo == nil || response.UsageInfo.PagesProcessed != 1 {
		t.Errorf("UsageInfo not filled: %+v", response.UsageInfo)
	}
	if response.Model != "local-cat" {
		t.Errorf("Model = %q", response.Model)
	}
}

func TestProcess_ImagesNeedRemoteProvider(t *testing.T) {
	provider := GetLocalProvider()

	_, err := provider.Process(context.Background(), []byte{0x89, 0x50, 0x4e, 0x47}, "image/png")
	if err == nil {
		t.Fatal("Expected an error for image input")
	}
}
