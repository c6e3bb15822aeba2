package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

// DocumentStatus is what an ingest or structure job reports back once it
// has touched the index.
type DocumentStatus struct {
	FileName       string `json:"file_name"`
	PathFile       string `json:"path_file,omitempty"`
	PathOcr        string `json:"path_ocr,omitempty"`
	PathStructured string `json:"path_structured,omitempty"`
	NumPages       int    `json:"num_pages,omitempty"`
	DocumentType   string `json:"document_type,omitempty"`
	Warning        string `json:"warning,omitempty"`
}

type Result struct {
	Status   string          `json:"status"`
	Document *DocumentStatus `json:"document,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

// SearchRow is one hit of a keyword search, trimmed for result tables.
type SearchRow struct {
	FileName       string `json:"file_name"`
	DocumentType   string `json:"document_type"`
	Total          any    `json:"total,omitempty"`
	PathFile       string `json:"path_file,omitempty"`
	PathStructured string `json:"path_structured,omitempty"`
}

type SearchResponse struct {
	Count   int         `json:"count"`
	Results []SearchRow `json:"results"`
}

type TypesResponse struct {
	Types []string `json:"types"`
}

// requests---------------------

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}

type StructureDocumentRequest struct {
	DocumentName string `json:"document_name" validate:"required"`
}
