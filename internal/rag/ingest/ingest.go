package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/domain/commonModels"
	"github.com/spevenexe/S25-NLP-project/internal/domain/jobModel"
	"github.com/spevenexe/S25-NLP-project/internal/metrics"
	"github.com/spevenexe/S25-NLP-project/internal/rag/chunker"
	"github.com/spevenexe/S25-NLP-project/internal/rag/embedding"
	"github.com/spevenexe/S25-NLP-project/internal/rag/index"
	"github.com/spevenexe/S25-NLP-project/internal/rag/vectorDB"
	"github.com/spevenexe/S25-NLP-project/internal/session"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Service interface {
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
}

type service struct {
	sessions    *session.Manager
	store       vectorDB.DataProcessor
	embedder    embedding.Embedder
	chunkSize   int
	overlap     int
	pageTimeout time.Duration
	extract     func(path string) ([]rawPage, error)
	logger      *logger_i.Logger
}

func NewService(sessions *session.Manager, store vectorDB.DataProcessor, embedder embedding.Embedder) Service {
	s := &service{
		sessions:    sessions,
		store:       store,
		embedder:    embedder,
		chunkSize:   config.ChunkSize,
		overlap:     config.ChunkOverlap,
		pageTimeout: pageTimeoutOrDefault(0),
		logger:      logger_i.NewLogger("Document Ingestion"),
	}
	s.extract = s.extractPDF
	return s
}

// IngestDocument turns the uploaded file into the session's Document and Index.
// An embedding failure is not a job failure: the session keeps the document with no index
// and generation runs in fallback mode.
func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	ctx, span := otel.Tracer(config.ServiceName).Start(ctx, "ingest.document")
	defer span.End()
	span.SetAttributes(attribute.String("ingest.session", job.SessionId), attribute.String("ingest.job", job.Id))
	log := s.logger.WithTrace(ctx).With("jobId", job.Id, "sessionId", job.SessionId)

	path := job.JobPayload.IngestURL
	log.Debug("Processing document", "filename", job.JobPayload.IngestFileName, "path", path)

	job.CurrentStep = jobModel.ExtractCall
	start := time.Now()
	pages, err := s.extract(path)
	metrics.CaptureExecutionMetrics("pdf_extract", time.Since(start))
	if err != nil {
		log.Error("Error extracting document", "err", err)
		span.SetStatus(codes.Error, err.Error())
		return failJob(job, 422, "Error extracting document content", false)
	}
	text := joinPages(pages)
	job.JobPayload.PageCount = len(pages)

	job.CurrentStep = jobModel.ChunkCall
	chunks, err := chunker.Split(text, s.chunkSize, s.overlap)
	if err != nil {
		log.Error("Error chunking document", "err", err)
		return failJob(job, 500, err.Error(), false)
	}
	job.JobPayload.ChunkCount = len(chunks)
	log.Debug("Chunked document", "pages", len(pages), "chunks", len(chunks))

	doc := &commonModels.Document{
		Id:                  job.Id,
		Name:                job.JobPayload.IngestFileName,
		Path:                path,
		Text:                text,
		PageCount:           len(pages),
		LastIngestTimestamp: time.Now(),
		ContentType:         docType(path),
	}

	var idx *index.Index
	if len(chunks) > 0 {
		job.CurrentStep = jobModel.EmbeddingAPICall
		idx, err = index.Build(ctx, s.store, s.embedder, index.CollectionName(job.SessionId), chunks)
		if err != nil {
			log.Warn("Index build failed, session continues without an index", "err", err)
			span.SetAttributes(attribute.Bool("ingest.index_absent", true))
			job.JobPayload.StatusDetail = "fallback mode: " + err.Error()
			idx = nil
		}
	} else {
		job.JobPayload.StatusDetail = "fallback mode: document has no text"
	}

	job.CurrentStep = jobModel.IndexSwap
	sess := s.sessions.Get(job.SessionId)
	sess.Lock()
	sess.SetDocument(doc)
	if err := sess.ReplaceIndex(context.WithoutCancel(ctx), idx); err != nil {
		log.Warn("Could not drop previous collection", "err", err)
	}
	sess.Unlock()

	job.JobPayload.IndexBuilt = idx != nil
	job.CurrentStep = jobModel.Complete
	span.SetAttributes(attribute.Int("ingest.chunks", len(chunks)), attribute.Bool("ingest.index_built", idx != nil))
	log.Info("Document ingested", "chunks", len(chunks), "indexBuilt", idx != nil)
	return job
}

func failJob(job jobModel.Job, code int, message string, retry bool) jobModel.Job {
	job.CurrentStep = jobModel.Error
	job.Error = jobModel.JobError{Code: code, Message: message, Retry: retry}
	return job
}

func docType(path string) commonModels.DocType {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return commonModels.PDF
	}
	return commonModels.ERR
}

// Describe is a one-line summary used in transport responses.
func Describe(job jobModel.Job) string {
	switch {
	case job.CurrentStep == jobModel.Error:
		return fmt.Sprintf("ingestion failed: %s", job.Error.Message)
	case job.JobPayload.IndexBuilt:
		return fmt.Sprintf("File processed: %d chunks indexed", job.JobPayload.ChunkCount)
	default:
		return "File processed without an index, questions will use fallback templates"
	}
}
