package store

import (
	"context"
	"sync"
	"time"

	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/domain/jobModel"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem Store")

type storedJob struct {
	job       jobModel.Job
	expiresAt time.Time
}

// InMemoryJobStore mirrors the redis job store, expiry included, for runs without redis.
type InMemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]storedJob
	ttl  time.Duration
	now  func() time.Time
}

func InitInMemoryJobStore() *InMemoryJobStore {
	return NewInMemoryJobStore(config.RedisJobStoreTTL, time.Now)
}

// NewInMemoryJobStore takes the clock so expiry can be tested.
func NewInMemoryJobStore(ttl time.Duration, now func() time.Time) *InMemoryJobStore {
	return &InMemoryJobStore{jobs: make(map[string]storedJob), ttl: ttl, now: now}
}

func (store *InMemoryJobStore) SaveJob(ctx context.Context, jobToStore jobModel.Job) error {
	jobToStore.Result = nil
	now := store.now()

	store.mu.Lock()
	defer store.mu.Unlock()
	for id, entry := range store.jobs {
		if now.After(entry.expiresAt) {
			delete(store.jobs, id)
		}
	}
	store.jobs[jobToStore.Id] = storedJob{job: jobToStore, expiresAt: now.Add(store.ttl)}
	inMemLogger.WithTrace(ctx).Debug("Saved job to store", "jobId", jobToStore.Id, "status", jobToStore.Status)
	return nil
}

func (store *InMemoryJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	store.mu.RLock()
	entry, found := store.jobs[jobId]
	store.mu.RUnlock()
	if found && store.now().After(entry.expiresAt) {
		found = false
	}
	inMemLogger.WithTrace(ctx).Debug("Job lookup", "jobId", jobId, "found", found)
	if !found {
		return jobModel.Job{}, false
	}
	return entry.job, true
}

func (store *InMemoryJobStore) DeleteJob(ctx context.Context, jobID string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.jobs, jobID)
}
