package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/domain/commonModels"
	"github.com/spevenexe/S25-NLP-project/internal/metrics"
	"github.com/spevenexe/S25-NLP-project/internal/rag/vectorDB"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
)

const (
	payloadContent  = "content"
	payloadSequence = "sequence_index"
)

var logger *logger_i.Logger
var quadrantInstance *qdrant.Client
var once sync.Once

type ClientHolder struct {
	QObj *qdrant.Client
}

// GetQuadrantClient returns nil when no host is configured or the server does not answer a health check.
func GetQuadrantClient(ctx context.Context) *ClientHolder {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient(ctx)
		if res != nil {
			quadrantInstance = res
			go closeQdrant(ctx, quadrantInstance)
		}
	})

	if quadrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: quadrantInstance,
	}
}

func newClient(ctx context.Context) *qdrant.Client {
	host := config.GetEnv("QDRANT_HOST", config.QdrantHost)
	if host == "" {
		logger.Info("No Qdrant host configured")
		return nil
	}
	port := config.GetEnvInt("QDRANT_PORT", config.QdrantGrpcPort)

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		APIKey:   config.GetEnv("QDRANT_API_KEY", ""),
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate", "error", err)
		return nil
	}

	healthCtx, cancel := context.WithTimeout(ctx, config.QdrantConnectionTimeout)
	defer cancel()
	if _, err := client.HealthCheck(healthCtx); err != nil {
		logger.Error("Qdrant health check failed", "host", host, "port", port, "error", err)
		_ = client.Close()
		return nil
	}
	logger.Info("Qdrant client created", "host", host, "port", port)
	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant", "error", err)
	}
	logger.Info("Closed Qdrant")
}

func (db *ClientHolder) CreateCollection(ctx context.Context, collectionName string, dimension int) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}

	exists, err := db.QObj.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, collectionName string, chunks []commonModels.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("qdrant_upsert", time.Since(start)) }()

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = &qdrant.PointStruct{
			// sequence indexes are unique within a collection
			Id:      qdrant.NewIDNum(uint64(chunk.SequenceIndex)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				payloadContent:  chunk.Text,
				payloadSequence: int64(chunk.SequenceIndex),
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) Search(ctx context.Context, collectionName string, vector []float32, k int) ([]vectorDB.Match, error) {
	if k <= 0 {
		return []vectorDB.Match{}, nil
	}
	log := logger.WithTrace(ctx).With("collection", collectionName)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("qdrant_search", time.Since(start)) }()

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		log.Error("Error querying Qdrant", "error", err)
		return nil, err
	}

	matches := make([]vectorDB.Match, 0, len(result))
	for _, hit := range result {
		matches = append(matches, vectorDB.Match{
			Chunk: commonModels.Chunk{
				SequenceIndex: int(hit.Payload[payloadSequence].GetIntegerValue()),
				Text:          hit.Payload[payloadContent].GetStringValue(),
			},
			Score: float64(hit.Score),
		})
	}
	// qdrant orders by score only
	vectorDB.SortMatches(matches)
	log.Debug("Found matches", "count", len(matches))
	return matches, nil
}

func (db *ClientHolder) DropCollection(ctx context.Context, collectionName string) error {
	if err := db.QObj.DeleteCollection(ctx, collectionName); err != nil {
		return fmt.Errorf("qdrant drop collection %s: %w", collectionName, err)
	}
	return nil
}
