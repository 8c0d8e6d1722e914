package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/domain/jobModel"
	"github.com/spevenexe/S25-NLP-project/internal/job"
	"github.com/spevenexe/S25-NLP-project/internal/metrics"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
)

// Ingestor runs one ingestion job and returns it with its final step and payload filled in.
type Ingestor interface {
	IngestDocument(ctx context.Context, j jobModel.Job) jobModel.Job
}

// Pool is an elastic set of workers draining the job channel.
// The dispatcher adds workers on signal up to MaxWorkerCount and idle workers
// retire while more than minWorkers are running.
type Pool struct {
	jobService  *job.Service
	ingestor    Ingestor
	stop        chan bool
	wg          *sync.WaitGroup
	workerCount int64
	minWorkers  int64
	maxWorkers  int64
	idleTimeout time.Duration
	logger      *logger_i.Logger
}

func NewPool(jobService *job.Service, ingestor Ingestor, stop chan bool, wg *sync.WaitGroup) *Pool {
	return &Pool{
		jobService:  jobService,
		ingestor:    ingestor,
		stop:        stop,
		wg:          wg,
		minWorkers:  config.MinWorkerCount,
		maxWorkers:  config.MaxWorkerCount,
		idleTimeout: config.IdleWorkerTimeout,
		logger:      logger_i.NewLogger("WorkerPool"),
	}
}

func (p *Pool) Start() {
	p.logger.Info("Initializing worker pool")
	go p.dispatcher()
}

func (p *Pool) WorkerCount() int64 {
	return atomic.LoadInt64(&p.workerCount)
}

func (p *Pool) dispatcher() {
	p.createWorker()
	p.logger.Info("Dispatcher started")
	for {
		select {
		case <-p.jobService.DispatcherChannel:
			if p.WorkerCount() < p.maxWorkers {
				p.logger.Info("Creating new worker", "workerCount", p.WorkerCount())
				p.createWorker()
			}
		case <-p.stop:
			return
		}
	}
}

func (p *Pool) createWorker() {
	p.wg.Add(1)
	atomic.AddInt64(&p.workerCount, 1)
	metrics.IncrementActiveWorkerCount()
	go p.worker()
}

func (p *Pool) worker() {
	idle := time.NewTimer(p.idleTimeout)
	defer idle.Stop()
	for {
		select {
		case currentJob := <-p.jobService.JobChannel:
			metrics.DecrementJobsInQueue()
			p.executeJob(currentJob)
			idle.Reset(p.idleTimeout)

		case <-p.stop:
			p.removeWorker("stop signal received")
			return

		case <-idle.C:
			if p.retireIdle() {
				return
			}
			idle.Reset(p.idleTimeout)
		}
	}
}

// retireIdle removes the calling worker unless that would drop the pool below minWorkers.
func (p *Pool) retireIdle() bool {
	for {
		current := atomic.LoadInt64(&p.workerCount)
		if current <= p.minWorkers {
			return false
		}
		if atomic.CompareAndSwapInt64(&p.workerCount, current, current-1) {
			p.wg.Done()
			metrics.DecrementActiveWorkerCount()
			p.logger.Info("Removed worker", "reason", "idle timeout", "workerCount", current-1)
			return true
		}
	}
}

func (p *Pool) removeWorker(reason string) {
	remaining := atomic.AddInt64(&p.workerCount, -1)
	p.wg.Done()
	metrics.DecrementActiveWorkerCount()
	p.logger.Info("Removed worker", "reason", reason, "workerCount", remaining)
}

func (p *Pool) executeJob(j jobModel.Job) {
	start := time.Now()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, j.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.IngestTimeout)
	defer cancel()
	log := p.logger.WithTrace(ctx).With("jobId", j.Id)
	log.Debug("Processing job", "type", j.JobType)

	result := j.Result
	j.Status = jobModel.JobStatusRunning
	p.saveJobState(ctx, j)

	switch j.JobType {
	case jobModel.JobTypeIngest:
		j = p.ingestor.IngestDocument(ctx, j)
	default:
		j.CurrentStep = jobModel.Error
		j.Error = jobModel.JobError{Code: 400, Message: "unsupported job type " + string(j.JobType)}
	}

	j.EndTime = time.Now()
	if j.CurrentStep == jobModel.Error {
		j.Status = jobModel.JobStatusError
	} else {
		j.Status = jobModel.JobStatusComplete
	}
	p.saveJobState(ctx, j)
	metrics.CaptureJobMetrics(string(j.Status), time.Since(start))
	log.Info("Finished job", "status", j.Status, "step", j.CurrentStep)

	if result != nil {
		select {
		case result <- j:
		default:
		}
	}
}

func (p *Pool) saveJobState(ctx context.Context, j jobModel.Job) {
	if err := p.jobService.JobStore.SaveJob(ctx, j); err != nil {
		p.logger.WithTrace(ctx).Error("Failed to update job state", "jobId", j.Id, "err", err)
	}
}
