package store

import (
	"context"
	"encoding/json"

	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/data/redisStore"
	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
)

const batchKeyPrefix = "batch:"

// RedisBatchStore keeps the latest question batch per session, dialogues included,
// so grading can continue each question's conversation after a restart.
type RedisBatchStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisBatchStore returns nil when redis is offline.
func GetRedisBatchStore(ctx context.Context) *RedisBatchStore {
	s := redisStore.GetRedisStore(ctx, config.RedisBatchStore)
	if s == nil {
		return nil
	}
	return &RedisBatchStore{store: s, logger: logger_i.NewLogger("BatchStore")}
}

func (s *RedisBatchStore) SaveBatch(ctx context.Context, batch quizModel.Batch) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, batchKeyPrefix+batch.SessionId, data, config.RedisBatchStoreTTL); err != nil {
		s.logger.WithTrace(ctx).Error("Error saving batch", "sessionId", batch.SessionId, "error", err)
		return err
	}
	return nil
}

func (s *RedisBatchStore) GetBatch(ctx context.Context, sessionId string) (quizModel.Batch, bool) {
	var batch quizModel.Batch
	key := batchKeyPrefix + sessionId
	data, err := s.store.GetBytes(ctx, key)
	if s.store.IsNil(err) {
		return batch, false
	} else if err != nil {
		s.logger.WithTrace(ctx).Error("Error reading batch", "sessionId", sessionId, "error", err)
		return batch, false
	}
	if err := json.Unmarshal(data, &batch); err != nil {
		s.logger.WithTrace(ctx).Error("Stored batch is not valid JSON", "sessionId", sessionId, "error", err)
		return batch, false
	}
	_ = s.store.Touch(ctx, key, config.RedisBatchStoreTTL)
	return batch, true
}

func (s *RedisBatchStore) DeleteBatch(ctx context.Context, sessionId string) {
	if err := s.store.Del(ctx, batchKeyPrefix+sessionId); err != nil {
		s.logger.WithTrace(ctx).Error("Error deleting batch", "sessionId", sessionId, "error", err)
	}
}

func TestBatchStore(store *redisStore.Store) *RedisBatchStore {
	return &RedisBatchStore{store: store, logger: logger_i.NewLogger("test redis")}
}
