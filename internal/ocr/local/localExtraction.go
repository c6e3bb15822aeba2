package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"

	"github.com/akolanti/DocFlowAPI/internal/ocr"
	"github.com/akolanti/DocFlowAPI/pkg/logger_i"
)

// Provider extracts text on this machine instead of calling the hosted OCR
// service. PDFs go through dslipak/pdf page by page; docx/txt/rtf go through
// cat. Scanned images have no local path and fail, which the pipeline
// degrades into an empty-text record. Selected with OCR_PROVIDER=local.
type Provider struct{}

var (
	logger *logger_i.Logger
	once   sync.Once
)

func GetLocalProvider() ocr.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("ocr_local")
		logger.Info("Local extraction provider created")
	})
	return &Provider{}
}

func (p *Provider) Process(ctx context.Context, content []byte, mimeType string) (ocr.Response, error) {
	tempFile, err := spoolToTemp(content, mimeType)
	if err != nil {
		return ocr.Response{}, err
	}
	defer func() {
		if err := os.Remove(tempFile); err != nil {
			logger.Warn("Couldn't remove extraction temp file", "path", tempFile, "error", err)
		}
	}()

	switch {
	case mimeType == "application/pdf":
		return extractPDF(ctx, tempFile)
	case strings.HasPrefix(mimeType, "image/"):
		return ocr.Response{}, errors.New("image OCR needs the remote provider")
	default:
		return extractDocxTxtRtf(tempFile)
	}
}

func spoolToTemp(content []byte, mimeType string) (string, error) {
	pattern := "local-extract-*"
	if mimeType == "application/pdf" {
		pattern = "local-extract-*.pdf"
	}
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("creating extraction temp file: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing extraction temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func extractPDF(ctx context.Context, path string) (ocr.Response, error) {
	logger.Debug("extractPDF", "attempting extraction", path)
	f, err := pdf.Open(path)
	if err != nil {
		logger.Error("failed opening of pdf file")
		return ocr.Response{}, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []ocr.Page
	numPages := f.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		select {
		case <-ctx.Done():
			return ocr.Response{}, ctx.Err()
		default:
		}

		page := f.Page(i)
		if page.V.IsNull() {
			logger.Debug("extractPDF", "page value is null!!", i)
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// Log warning but continue with other pages
			logger.Error("Error parsing page content", "Error", err)
			continue
		}

		pages = append(pages, ocr.Page{
			Index:    i - 1,
			Markdown: content,
		})
	}
	return ocr.Response{
		Model: "local-pdf",
		Pages: pages,
		UsageInfo: &ocr.UsageInfo{
			PagesProcessed: numPages,
		},
	}, nil
}

// File reads a .odt, .docx, .rtf or plaintext file and returns the content as a string
func extractDocxTxtRtf(path string) (ocr.Response, error) {
	text, err := cat.File(path)
	if err != nil {
		logger.Error("Error extracting content from doc")
		return ocr.Response{}, fmt.Errorf("failed to extract doc: %w", err)
	}

	return ocr.Response{
		Model: "local-cat",
		Pages: []ocr.Page{{Index: 0, Markdown: text}},
		UsageInfo: &ocr.UsageInfo{
			PagesProcessed: 1,
		},
	}, nil
}

func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		logger.Error("pageExtract", "timeout")
		return "", errors.New("timeout")
	}
}
