package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/DocFlowAPI/internal/config"
	"github.com/akolanti/DocFlowAPI/internal/domain/docModel"
	"github.com/akolanti/DocFlowAPI/internal/domain/jobModel"
	"github.com/akolanti/DocFlowAPI/internal/index"
	"github.com/akolanti/DocFlowAPI/internal/metrics"
	"github.com/akolanti/DocFlowAPI/internal/ocr"
	"github.com/akolanti/DocFlowAPI/internal/structure"
	"github.com/akolanti/DocFlowAPI/pkg/logger_i"
)

// Service is all the worker (and the batch CLI) sees of the ingestion
// pipeline - it doesn't need to know which OCR or structuring collaborator
// sits behind it.
type Service interface {
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
	StructureDocument(ctx context.Context, job jobModel.Job) jobModel.Job

	// Ingest persists the upload, runs OCR and upserts a minimal record.
	// On ErrOcrService the returned result is still valid (empty text,
	// Warning set) and the record was still indexed.
	Ingest(ctx context.Context, content []byte, fileName string) (docModel.OcrResult, error)

	// Structure runs the structuring collaborator over a previously
	// ingested document and upserts the full record.
	Structure(ctx context.Context, fileName string) (*docModel.StructuredResult, error)
}

type service struct {
	ocrProvider ocr.Provider
	llmProvider structure.Provider
	store       *index.Store
	cache       jobModel.StructureCache
	uploadDir   string
	samplesDir  string
	logger      *logger_i.Logger
}

func NewService(ocrProvider ocr.Provider, llmProvider structure.Provider, store *index.Store, cache jobModel.StructureCache, uploadDir string, samplesDir string) Service {
	return &service{
		ocrProvider: ocrProvider,
		llmProvider: llmProvider,
		store:       store,
		cache:       cache,
		uploadDir:   uploadDir,
		samplesDir:  samplesDir,
		logger:      logger_i.NewLogger("Pipeline Service :"),
	}
}

// the raw collaborator response augmented with the fields the rest of the
// system reads back; this is the per-document *_ocr_result.json artifact
type ocrArtifact struct {
	ocr.Response
	FullText     string `json:"full_text"`
	FileName     string `json:"file_name"`
	NumPages     int    `json:"num_pages"`
	DocumentType string `json:"document_type"`
}

func (s *service) Ingest(ctx context.Context, content []byte, fileName string) (docModel.OcrResult, error) {
	log := s.logger.With("file_name", fileName)

	// the format gate runs before anything is written or any collaborator
	// is contacted
	mimeType, err := ocr.MimeTypeForFile(fileName)
	if err != nil {
		return docModel.OcrResult{}, err
	}

	uploadPath, err := s.writeUpload(content, fileName)
	if err != nil {
		return docModel.OcrResult{}, err
	}
	log.Debug("Upload persisted", "path", uploadPath)

	response, warning, ocrErr := s.executeOcrStep(ctx, content, mimeType)

	result := docModel.OcrResult{
		FileName:     fileName,
		FullText:     response.FullText(),
		NumPages:     normalizeNumPages(response),
		DocumentType: normalizeDocumentType(response),
		PathFile:     uploadPath,
		Warning:      warning,
	}

	ocrPath, err := s.writeOcrArtifact(response, result)
	if err != nil {
		return docModel.OcrResult{}, err
	}
	result.PathOcr = ocrPath

	// an empty-text record is still indexable - OCR failure is non-fatal
	if err := s.store.Upsert(minimalRecord(result)); err != nil {
		return docModel.OcrResult{}, err
	}
	metrics.IncrementIndexUpserts()

	if ocrErr != nil {
		log.Warn("OCR degraded, indexed empty-text record", "warning", warning)
		return result, ocrErr
	}
	log.Info("Document ingested", "pages", result.NumPages)
	return result, nil
}

func (s *service) Structure(ctx context.Context, fileName string) (*docModel.StructuredResult, error) {
	log := s.logger.With("file_name", fileName)

	record, found, err := s.store.Find(fileName)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("document %q is not in the index", fileName)
	}

	ocrText, err := s.readOcrText(record.PathOcr)
	if err != nil {
		return nil, err
	}

	rawAnswer, err := s.executeStructuringStep(ctx, ocrText)
	if err != nil {
		return nil, err
	}

	parsed := structure.Parse(rawAnswer)
	if parsed.IsRawFallback() {
		log.Warn("Structuring answer was not valid JSON, keeping raw output")
	}

	structuredPath, err := s.writeStructuredArtifact(record.Stem, parsed)
	if err != nil {
		return nil, err
	}

	// full-record replace: the updated record carries everything the OCR
	// pass computed plus the structuring outcome
	record.PathStructured = structuredPath
	record.StructuredJSON = parsed
	if err := s.store.Upsert(record); err != nil {
		return nil, err
	}
	metrics.IncrementIndexUpserts()

	log.Info("Document structured", "raw_fallback", parsed.IsRawFallback())
	return parsed, nil
}

func (s *service) executeOcrStep(ctx context.Context, content []byte, mimeType string) (ocr.Response, string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("ocr", time.Since(start)) }()

	ocrCtx, cancel := context.WithTimeout(ctx, config.OcrCallTimeout)
	defer cancel()

	response, err := s.ocrProvider.Process(ocrCtx, content, mimeType)
	if err != nil {
		return ocr.Response{}, err.Error(), fmt.Errorf("%v: %w", err, docModel.ErrOcrService)
	}
	if response.FullText() == "" {
		return response, "no text detected (empty OCR result)", fmt.Errorf("empty ocr output: %w", docModel.ErrOcrService)
	}
	return response, "", nil
}

func (s *service) executeStructuringStep(ctx context.Context, ocrText string) (string, error) {
	cacheKey := structureCacheKey(ocrText)
	if answer, found := s.cache.GetAnswer(ctx, cacheKey); found {
		s.logger.Debug("Structure cache hit")
		return answer, nil
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("structuring", time.Since(start)) }()

	llmCtx, cancel := context.WithTimeout(ctx, config.StructureCallTimeout)
	defer cancel()

	answer, err := s.llmProvider.Structure(llmCtx, ocrText)
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, docModel.ErrStructuringService)
	}

	if err := s.cache.SaveAnswer(ctx, cacheKey, answer); err != nil {
		s.logger.Err("Failed to cache structuring answer", err)
	}
	return answer, nil
}

func (s *service) writeUpload(content []byte, fileName string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0750); err != nil {
		return "", fmt.Errorf("creating upload dir: %w", err)
	}
	path := filepath.Join(s.uploadDir, filepath.Base(fileName))
	if err := os.WriteFile(path, content, 0640); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return path, nil
}

func (s *service) writeOcrArtifact(response ocr.Response, result docModel.OcrResult) (string, error) {
	artifact := ocrArtifact{
		Response:     response,
		FullText:     result.FullText,
		FileName:     result.FileName,
		NumPages:     result.NumPages,
		DocumentType: result.DocumentType,
	}
	path := filepath.Join(s.samplesDir, docModel.Stem(result.FileName)+"_ocr_result.json")
	if err := writePrettyJSON(path, artifact); err != nil {
		return "", err
	}
	return path, nil
}

func (s *service) writeStructuredArtifact(stem string, parsed *docModel.StructuredResult) (string, error) {
	path := filepath.Join(s.samplesDir, stem+"_structured.json")
	if err := writePrettyJSON(path, parsed); err != nil {
		return "", err
	}
	return path, nil
}

func (s *service) readOcrText(ocrPath string) (string, error) {
	data, err := os.ReadFile(ocrPath)
	if err != nil {
		return "", fmt.Errorf("reading ocr artifact: %w", err)
	}
	var artifact ocrArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return "", fmt.Errorf("parsing ocr artifact %s: %w", ocrPath, err)
	}
	if artifact.FullText != "" {
		return artifact.FullText, nil
	}
	// older artifacts carried only page markdown
	if len(artifact.Pages) > 0 {
		return artifact.Pages[0].Markdown, nil
	}
	return "", nil
}

func writePrettyJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating artifact dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0640); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func minimalRecord(result docModel.OcrResult) docModel.DocumentRecord {
	return docModel.DocumentRecord{
		FileName:     result.FileName,
		Stem:         docModel.Stem(result.FileName),
		PathFile:     result.PathFile,
		PathOcr:      result.PathOcr,
		FullText:     result.FullText,
		NumPages:     result.NumPages,
		DocumentType: result.DocumentType,
	}
}

// fallback precedence: explicit top-level value, then usage info, then 1
func normalizeNumPages(response ocr.Response) int {
	if response.NumPages > 0 {
		return response.NumPages
	}
	if response.UsageInfo != nil && response.UsageInfo.PagesProcessed > 0 {
		return response.UsageInfo.PagesProcessed
	}
	if len(response.Pages) > 0 {
		return len(response.Pages)
	}
	return 1
}

func normalizeDocumentType(response ocr.Response) string {
	if response.DocumentType != "" {
		return response.DocumentType
	}
	return docModel.DefaultDocumentType
}

func structureCacheKey(ocrText string) string {
	sum := sha256.Sum256([]byte(ocrText))
	return "structure:" + hex.EncodeToString(sum[:])
}
