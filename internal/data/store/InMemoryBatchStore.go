package store

import (
	"context"
	"sync"

	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
)

type InMemoryBatchStore struct {
	batchMutex *sync.RWMutex
	batchMap   map[string]quizModel.Batch
}

func InitInMemoryBatchStore() *InMemoryBatchStore {
	return &InMemoryBatchStore{
		batchMutex: new(sync.RWMutex),
		batchMap:   make(map[string]quizModel.Batch),
	}
}

// SaveBatch replaces the session's previous batch.
func (store *InMemoryBatchStore) SaveBatch(ctx context.Context, batch quizModel.Batch) error {
	store.batchMutex.Lock()
	defer store.batchMutex.Unlock()
	store.batchMap[batch.SessionId] = batch
	inMemLogger.WithTrace(ctx).Debug("Saved batch", "sessionId", batch.SessionId, "questions", len(batch.Questions))
	return nil
}

func (store *InMemoryBatchStore) GetBatch(ctx context.Context, sessionId string) (quizModel.Batch, bool) {
	store.batchMutex.RLock()
	defer store.batchMutex.RUnlock()
	batch, found := store.batchMap[sessionId]
	return batch, found
}

func (store *InMemoryBatchStore) DeleteBatch(ctx context.Context, sessionId string) {
	store.batchMutex.Lock()
	defer store.batchMutex.Unlock()
	delete(store.batchMap, sessionId)
}
