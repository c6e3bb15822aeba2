package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/DocFlowAPI/internal/api"
	"github.com/akolanti/DocFlowAPI/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id), //pass "status/job.Id"
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:   string(job.Status),
		Document: ToDocumentStatus(job.JobPayload),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToDocumentStatus(payload jobModel.JobPayload) *api.DocumentStatus {
	if payload.FileName == "" {
		return nil
	}

	return &api.DocumentStatus{
		FileName:       payload.FileName,
		PathFile:       payload.PathFile,
		PathOcr:        payload.PathOcr,
		PathStructured: payload.PathStructured,
		NumPages:       payload.NumPages,
		DocumentType:   payload.DocumentType,
		Warning:        payload.Warning,
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
