package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"

	"github.com/akolanti/DocFlowAPI/internal/config"
	"github.com/akolanti/DocFlowAPI/internal/data/store"
	"github.com/akolanti/DocFlowAPI/internal/domain/docModel"
	"github.com/akolanti/DocFlowAPI/internal/index"
	"github.com/akolanti/DocFlowAPI/internal/ocr"
	"github.com/akolanti/DocFlowAPI/internal/ocr/local"
	ocrmistral "github.com/akolanti/DocFlowAPI/internal/ocr/mistral"
	"github.com/akolanti/DocFlowAPI/internal/pipeline"
	"github.com/akolanti/DocFlowAPI/internal/structure"
	"github.com/akolanti/DocFlowAPI/internal/structure/gemini"
	llmmistral "github.com/akolanti/DocFlowAPI/internal/structure/mistral"
	"github.com/akolanti/DocFlowAPI/pkg/logger_i"
)

var (
	filePath     string
	folderPath   string
	outputFolder string
	skipLLM      bool
	rebuild      bool
)

// batch runner: same pipeline as the API but synchronous, for processing a
// file or a whole folder from the command line.
func main() {
	logger_i.Init()
	logger := logger_i.NewLogger("batch")

	flag.StringVar(&filePath, "file", "", "one document to process")
	flag.StringVar(&folderPath, "folder", "", "process every supported document in this folder")
	flag.StringVar(&outputFolder, "output", config.DataDir, "where the index and artifacts are written")
	flag.BoolVar(&skipLLM, "skip-structure", false, "OCR and index only, no field extraction")
	flag.BoolVar(&rebuild, "rebuild", false, "re-create the index from existing artifacts, no collaborator calls")
	flag.Parse()

	if rebuild {
		indexStore := index.NewStore(filepath.Join(outputFolder, "index.json"))
		count, err := rebuildIndex(indexStore, filepath.Join(outputFolder, "samples"), filepath.Join(outputFolder, "uploads"), logger)
		if err != nil {
			logger.Err("Rebuild failed", err)
			os.Exit(1)
		}
		logger.Info("Rebuild finished", "records", count)
		return
	}

	if filePath == "" && folderPath == "" {
		logger.Error("Nothing to do: pass -file, -folder or -rebuild")
		os.Exit(2)
	}

	ctx := context.Background()
	pipelineService := buildPipeline(ctx, logger)
	if pipelineService == nil {
		os.Exit(1)
	}

	failures := 0
	if filePath != "" {
		if !processFile(ctx, pipelineService, filePath, logger) {
			failures++
		}
	}
	if folderPath != "" {
		failures += processFolder(ctx, pipelineService, folderPath, logger)
	}

	if failures > 0 {
		logger.Error("Batch finished with failures", "count", failures)
		os.Exit(1)
	}
	logger.Info("Batch finished")
}

func buildPipeline(ctx context.Context, logger *logger_i.Logger) pipeline.Service {
	var ocrProvider ocr.Provider
	if config.OcrProviderName == "local" {
		ocrProvider = local.GetLocalProvider()
	} else {
		ocrProvider = ocrmistral.GetMistralOCRClient(config.MistralAPIKey)
	}

	var llmProvider structure.Provider
	if config.StructureProviderName == "gemini" {
		llmProvider = gemini.GetGeminiClient(ctx, config.GeminiAPIKey, config.GeminiModelName)
	} else {
		llmProvider = llmmistral.GetMistralChatClient(config.MistralAPIKey)
	}

	if ocrProvider == nil || (llmProvider == nil && !skipLLM) {
		logger.Error("External services failed to initialize", "OcrProvider", ocrProvider != nil, "LLMProvider", llmProvider != nil)
		return nil
	}

	indexStore := index.NewStore(filepath.Join(outputFolder, "index.json"))
	uploadDir := filepath.Join(outputFolder, "uploads")
	samplesDir := filepath.Join(outputFolder, "samples")

	//a one-shot run has no redis to share, the in-memory cache is enough
	return pipeline.NewService(ocrProvider, llmProvider, indexStore, store.InitInMemoryStructureCache(), uploadDir, samplesDir)
}

func processFile(ctx context.Context, svc pipeline.Service, path string, logger *logger_i.Logger) bool {
	log := logger.With("file", path)

	content, err := os.ReadFile(path)
	if err != nil {
		log.Err("Could not read file", err)
		return false
	}

	fileName := filepath.Base(path)
	result, err := svc.Ingest(ctx, content, fileName)
	switch {
	case err == nil:
	case errors.Is(err, docModel.ErrOcrService):
		log.Warn("Indexed without text", "warning", result.Warning)
		return true
	case errors.Is(err, docModel.ErrUnsupportedFormat):
		log.Warn("Skipped unsupported format")
		return true
	default:
		log.Err("Ingest failed", err)
		return false
	}

	if skipLLM {
		log.Info("Ingested", "pages", result.NumPages)
		return true
	}

	if _, err := svc.Structure(ctx, fileName); err != nil {
		log.Err("Structuring failed", err)
		return false
	}
	log.Info("Processed", "pages", result.NumPages)
	return true
}

func processFolder(ctx context.Context, svc pipeline.Service, dir string, logger *logger_i.Logger) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Err("Could not read folder", err)
		return 1
	}

	failures := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := ocr.MimeTypeForFile(entry.Name()); err != nil {
			continue
		}
		if !processFile(ctx, svc, filepath.Join(dir, entry.Name()), logger) {
			failures++
		}
	}
	return failures
}
