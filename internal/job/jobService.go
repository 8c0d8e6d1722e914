package job

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/domain/jobModel"
	"github.com/spevenexe/S25-NLP-project/internal/metrics"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
)

var ErrJobNotFound = errors.New("job not found")

type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	logger            *logger_i.Logger
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		logger:            logger_i.NewLogger("JobService"),
	}
}

// NewIngestJob builds a queued ingestion job for a stored upload.
func NewIngestJob(id, sessionId, traceId, fileName, path string) jobModel.Job {
	return jobModel.Job{
		Id:          id,
		SessionId:   sessionId,
		TraceId:     traceId,
		JobType:     jobModel.JobTypeIngest,
		CreatedTime: time.Now(),
		Status:      jobModel.JobStatusQueued,
		CurrentStep: jobModel.IngestInit,
		JobPayload: jobModel.JobPayload{
			IngestFileName: fileName,
			IngestURL:      path,
		},
	}
}

// Submit records the job as queued and hands it to the worker pool.
// The send blocks while the buffer is full so callers feel back pressure.
func (s *Service) Submit(ctx context.Context, newJob jobModel.Job) error {
	log := s.logger.WithTrace(ctx).With("jobId", newJob.Id)
	if err := s.JobStore.SaveJob(ctx, newJob); err != nil {
		log.Warn("Could not record queued job", "err", err)
	}

	metrics.IncrementJobsInQueue()
	select {
	case s.JobChannel <- newJob:
	case <-ctx.Done():
		metrics.DecrementJobsInQueue()
		return ctx.Err()
	}
	log.Info("Queued job", "type", newJob.JobType)

	// a new worker every RequestsPerNewWorkerCount requests, or for any ingestion
	// since those spend most of their time waiting on the embedding provider
	count := atomic.AddInt64(&s.RequestCount, 1)
	if count%config.RequestsPerNewWorkerCount == 0 || newJob.JobType == jobModel.JobTypeIngest {
		s.signalDispatcher()
	}
	return nil
}

func (s *Service) signalDispatcher() {
	if s.DispatcherChannel == nil {
		return
	}
	select {
	case s.DispatcherChannel <- true:
		metrics.StartDispatcherSignalCount()
	default:
		s.logger.Debug("Dispatcher busy, signal dropped")
	}
}

func (s *Service) Status(ctx context.Context, id string) (jobModel.Job, error) {
	if id == "" {
		return jobModel.Job{}, ErrJobNotFound
	}
	found, ok := s.JobStore.GetJob(ctx, id)
	if !ok {
		return jobModel.Job{}, ErrJobNotFound
	}
	return found, nil
}
