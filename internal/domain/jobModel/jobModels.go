package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	IngestInit  InternalStatus = "IngestInit"
	UploadWrite InternalStatus = "UploadWrite"
	OcrCall     InternalStatus = "OcrCall"
	IndexWrite  InternalStatus = "IndexWrite"

	StructureInit InternalStatus = "StructureInit"
	CacheCall     InternalStatus = "CacheCall"
	LLMCall       InternalStatus = "LLM"

	Error    InternalStatus = "Error"
	Complete InternalStatus = "Complete"

	JobTypeIngest    JobType = "Ingest"
	JobTypeStructure JobType = "Structure"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	FileName string `json:"file_name,omitempty"`
	//where the upload handler spooled the raw bytes before the worker ran
	SpoolPath string `json:"spool_path,omitempty"`

	PathFile       string `json:"path_file,omitempty"`
	PathOcr        string `json:"path_ocr,omitempty"`
	PathStructured string `json:"path_structured,omitempty"`
	NumPages       int    `json:"num_pages,omitempty"`
	DocumentType   string `json:"document_type,omitempty"`

	//non-fatal trouble the caller should show the user (e.g. empty OCR text)
	Warning string `json:"warning,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

// StructureCache remembers the raw structuring answer per OCR-text hash so a
// parse hiccup never re-triggers the paid model call.
type StructureCache interface {
	GetAnswer(ctx context.Context, key string) (string, bool)
	SaveAnswer(ctx context.Context, key string, rawAnswer string) error
}
