package docModel

import "errors"

var (
	// ErrCorruptIndex means the index file exists but does not parse. This is
	// never folded into "no documents" - that would hide data loss.
	ErrCorruptIndex = errors.New("index file is corrupt")

	// ErrOcrService covers collaborator failure, timeout and empty output.
	// Ingestion still indexes a minimal record when it sees this.
	ErrOcrService = errors.New("ocr service failed")

	ErrStructuringService = errors.New("structuring service failed")

	// ErrUnsupportedFormat is raised before any collaborator is contacted.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)
