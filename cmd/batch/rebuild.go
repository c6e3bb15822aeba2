package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/DocFlowAPI/internal/domain/docModel"
	"github.com/akolanti/DocFlowAPI/internal/index"
	"github.com/akolanti/DocFlowAPI/pkg/logger_i"
)

const ocrArtifactSuffix = "_ocr_result.json"

// the slice of the OCR artifact the rebuild needs back
type artifactFields struct {
	FileName     string `json:"file_name"`
	FullText     string `json:"full_text"`
	NumPages     int    `json:"num_pages"`
	DocumentType string `json:"document_type"`
}

// rebuildIndex re-creates index records from the per-document artifacts
// already on disk, with no collaborator calls. It lets a wiped or corrupted
// index file be regenerated from the samples folder alone.
func rebuildIndex(store *index.Store, samplesDir string, uploadDir string, logger *logger_i.Logger) (int, error) {
	entries, err := os.ReadDir(samplesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("no artifacts folder at %s", samplesDir)
		}
		return 0, err
	}

	rebuilt := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ocrArtifactSuffix) {
			continue
		}

		record, err := recordFromArtifacts(samplesDir, uploadDir, entry.Name())
		if err != nil {
			logger.Warn("Skipping unreadable artifact", "artifact", entry.Name(), "error", err)
			continue
		}

		if err := store.Upsert(record); err != nil {
			return rebuilt, err
		}
		logger.Info("Rebuilt record", "file_name", record.FileName)
		rebuilt++
	}
	return rebuilt, nil
}

func recordFromArtifacts(samplesDir string, uploadDir string, artifactName string) (docModel.DocumentRecord, error) {
	ocrPath := filepath.Join(samplesDir, artifactName)
	data, err := os.ReadFile(ocrPath)
	if err != nil {
		return docModel.DocumentRecord{}, err
	}

	var artifact artifactFields
	if err := json.Unmarshal(data, &artifact); err != nil {
		return docModel.DocumentRecord{}, fmt.Errorf("parsing %s: %w", ocrPath, err)
	}

	stem := strings.TrimSuffix(artifactName, ocrArtifactSuffix)
	fileName := artifact.FileName
	if fileName == "" {
		// pre-rename artifacts carried no file_name, fall back to the stem
		fileName = stem + ".pdf"
	}

	numPages := artifact.NumPages
	if numPages < 1 {
		numPages = 1
	}
	documentType := artifact.DocumentType
	if documentType == "" {
		documentType = docModel.DefaultDocumentType
	}

	record := docModel.DocumentRecord{
		FileName:     fileName,
		Stem:         docModel.Stem(fileName),
		PathOcr:      ocrPath,
		FullText:     artifact.FullText,
		NumPages:     numPages,
		DocumentType: documentType,
	}

	if uploadPath := filepath.Join(uploadDir, fileName); fileExists(uploadPath) {
		record.PathFile = uploadPath
	}

	structuredPath := filepath.Join(samplesDir, stem+"_structured.json")
	if fileExists(structuredPath) {
		structuredData, err := os.ReadFile(structuredPath)
		if err != nil {
			return docModel.DocumentRecord{}, err
		}
		var structured docModel.StructuredResult
		if err := json.Unmarshal(structuredData, &structured); err != nil {
			return docModel.DocumentRecord{}, fmt.Errorf("parsing %s: %w", structuredPath, err)
		}
		record.StructuredJSON = &structured
		record.PathStructured = structuredPath
	}

	return record, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
