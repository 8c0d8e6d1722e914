package handlers

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spevenexe/S25-NLP-project/internal/adapter"
	"github.com/spevenexe/S25-NLP-project/internal/adapter/utils"
	"github.com/spevenexe/S25-NLP-project/internal/api"
	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/domain/jobModel"
	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
	"github.com/spevenexe/S25-NLP-project/internal/job"
	"github.com/spevenexe/S25-NLP-project/internal/rag/ingest"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
)

const pdfContentType = "application/pdf"

type JobHandler struct {
	service     *job.Service
	uploadDir   string
	waitTimeout time.Duration
	logger      *logger_i.Logger
}

func NewJobHandler(jobService *job.Service, uploadDir string) *JobHandler {
	return &JobHandler{
		service:     jobService,
		uploadDir:   uploadDir,
		waitTimeout: config.IngestWaitTimeout,
		logger:      logger_i.NewLogger("JobHandler"),
	}
}

// UploadFile godoc
// @Summary      Upload a PDF
// @Description  Stores the PDF under a generated name and replaces the session's document and index. Waits for ingestion to finish; answers 202 with the job id when it takes longer.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        X-Session-Id  header    string  false  "Session key, defaults to \"default\""
// @Param        file          formData  file    true   "The PDF to quiz on"
// @Success      200  {object}  api.UploadResponse  "Document ingested"
// @Success      202  {object}  api.UploadResponse  "Still processing, poll /status/{jobId}"
// @Failure      400  {object}  api.ErrorResponse   "Missing file or not a PDF"
// @Failure      422  {object}  api.ErrorResponse   "PDF could not be read"
// @Failure      500  {object}  api.ErrorResponse   "Storage error"
// @Router       /uploadFile [post]
func (h *JobHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	ctx := r.Context()
	log := h.logger.WithTrace(ctx)

	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "File too large or bad request")
		return
	}
	fileReader, fileMetadata, err := r.FormFile("file")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	if !isPDF(fileMetadata.Header.Get("Content-Type")) {
		writeServiceError(w, r, fmt.Errorf("%w: %q, only %s is accepted",
			quizModel.ErrUnsupportedContentType, fileMetadata.Header.Get("Content-Type"), pdfContentType))
		return
	}

	jobId := utils.GetNewUUID()
	path, err := h.store(jobId, fileReader)
	if err != nil {
		log.Error("Could not store upload", "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}

	newJob := job.NewIngestJob(jobId, sessionFrom(ctx), traceFrom(ctx), fileMetadata.Filename, path)
	result := make(chan jobModel.Job, 1)
	newJob.Result = result
	if err := h.service.Submit(ctx, newJob); err != nil {
		log.Error("Could not queue ingestion", "err", err)
		WriteErrorResponse(w, http.StatusServiceUnavailable, "Ingestion queue unavailable")
		return
	}

	select {
	case done := <-result:
		if done.CurrentStep == jobModel.Error {
			WriteErrorResponse(w, done.Error.Code, ingest.Describe(done))
			return
		}
		writeJsonResponse(w, http.StatusOK, api.UploadResponse{
			Status:  api.UploadStatusSuccess,
			Message: ingest.Describe(done),
			Path:    path,
			JobId:   jobId,
			Chunks:  done.JobPayload.ChunkCount,
		})
	case <-time.After(h.waitTimeout):
		writeJsonResponse(w, http.StatusAccepted, processing(jobId, path))
	case <-ctx.Done():
		log.Warn("Client went away while ingesting", "jobId", jobId)
	}
}

// GetStatusHandler godoc
// @Summary      Get ingestion job status
// @Tags         Ingestion
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse
// @Failure      404  {object}  api.ErrorResponse  "Job not found"
// @Router       /status/{id} [get]
func (h *JobHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	result, err := h.service.Status(r.Context(), idString)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

func (h *JobHandler) store(id string, src io.Reader) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0750); err != nil {
		return "", err
	}
	path := filepath.Join(h.uploadDir, id+".pdf")
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}

func isPDF(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == pdfContentType
}

func processing(jobId, path string) api.UploadResponse {
	return api.UploadResponse{
		Status:  api.UploadStatusProcessing,
		Message: "File is still being processed, poll /status/" + jobId,
		Path:    path,
		JobId:   jobId,
	}
}
