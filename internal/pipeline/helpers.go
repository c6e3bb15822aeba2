package pipeline

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/akolanti/DocFlowAPI/internal/config"
	"github.com/akolanti/DocFlowAPI/internal/domain/docModel"
	"github.com/akolanti/DocFlowAPI/internal/domain/jobModel"
	"github.com/akolanti/DocFlowAPI/pkg/logger_i"
)

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessJob", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, code int, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    code,
		Message: message,
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	return job
}

// IngestDocument is the async wrapper around Ingest: it reads the spooled
// upload, runs the pipeline and maps the outcome back onto the job.
func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", job.TraceId, "JobId", job.Id)
	job = logOutput(job, jobModel.IngestInit, inMethodLogger)

	content, err := os.ReadFile(job.JobPayload.SpoolPath)
	if err != nil {
		return s.jobError(job, err, "Upload spool file unreadable", http.StatusInternalServerError, true)
	}
	if err := os.Remove(job.JobPayload.SpoolPath); err != nil {
		inMethodLogger.Warn("Couldn't remove spool file", "path", job.JobPayload.SpoolPath, "error", err)
	}

	job = logOutput(job, jobModel.OcrCall, inMethodLogger)
	result, err := s.Ingest(ctx, content, job.JobPayload.FileName)

	switch {
	case err == nil:
	case errors.Is(err, docModel.ErrUnsupportedFormat):
		return s.jobError(job, err, "Unsupported document format", http.StatusBadRequest, false)
	case errors.Is(err, docModel.ErrOcrService):
		// degraded but indexed; the job completes with a warning
		inMethodLogger.Warn("Ingest completed degraded", "warning", result.Warning)
	default:
		return s.jobError(job, err, "Ingest failed", http.StatusInternalServerError, true)
	}

	job = logOutput(job, jobModel.IndexWrite, inMethodLogger)
	job.JobPayload.PathFile = result.PathFile
	job.JobPayload.PathOcr = result.PathOcr
	job.JobPayload.NumPages = result.NumPages
	job.JobPayload.DocumentType = result.DocumentType
	job.JobPayload.Warning = result.Warning
	job.CurrentStep = jobModel.Complete
	return job
}

// StructureDocument is the async wrapper around Structure.
func (s *service) StructureDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", job.TraceId, "JobId", job.Id)
	job = logOutput(job, jobModel.StructureInit, inMethodLogger)

	structureContext, cancel := context.WithTimeout(ctx, config.StructureCallTimeout)
	defer cancel()

	job = logOutput(job, jobModel.LLMCall, inMethodLogger)
	_, err := s.Structure(structureContext, job.JobPayload.FileName)
	if err != nil {
		if errors.Is(err, docModel.ErrStructuringService) {
			return s.jobError(job, err, "Structuring service unavailable", http.StatusBadGateway, true)
		}
		return s.jobError(job, err, "Structuring failed", http.StatusInternalServerError, false)
	}

	record, found, err := s.store.Find(job.JobPayload.FileName)
	if err == nil && found {
		job.JobPayload.PathStructured = record.PathStructured
		job.JobPayload.PathOcr = record.PathOcr
		job.JobPayload.PathFile = record.PathFile
		job.JobPayload.NumPages = record.NumPages
		job.JobPayload.DocumentType = record.DocumentType
	}
	job.CurrentStep = jobModel.Complete
	return job
}
