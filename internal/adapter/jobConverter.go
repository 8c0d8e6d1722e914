package adapter

import (
	"github.com/spevenexe/S25-NLP-project/internal/api"
	"github.com/spevenexe/S25-NLP-project/internal/domain/jobModel"
)

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	return api.JobResponse{
		Id:        job.Id,
		SessionId: job.SessionId,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result: api.Result{
			Status:       string(job.Status),
			CurrentStep:  string(job.CurrentStep),
			IngestResult: ToIngestResult(job),
		},
	}
}

func ToIngestResult(job jobModel.Job) *api.IngestResult {
	if job.JobType != jobModel.JobTypeIngest {
		return nil
	}
	return &api.IngestResult{
		FileName:     job.JobPayload.IngestFileName,
		PageCount:    job.JobPayload.PageCount,
		ChunkCount:   job.JobPayload.ChunkCount,
		IndexBuilt:   job.JobPayload.IndexBuilt,
		StatusDetail: job.JobPayload.StatusDetail,
	}
}

func BadRequest(message string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Error: api.JobOutgoingError{
			Code:    code,
			Message: message,
			Retry:   code >= 500,
		},
	}
}
