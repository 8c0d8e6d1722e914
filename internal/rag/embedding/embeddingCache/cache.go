package embeddingCache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/spevenexe/S25-NLP-project/internal/metrics"
	"github.com/spevenexe/S25-NLP-project/internal/rag/embedding"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
)

const keyPrefix = "emb_cache:"

// kvStore is the part of the redis store the cache needs.
type kvStore interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	IsNil(err error) bool
}

// CachedEmbedder stores vectors keyed by model and text so re-uploads and repeated
// label lookups skip the provider.
type CachedEmbedder struct {
	inner  embedding.Embedder
	store  kvStore
	model  string
	ttl    time.Duration
	logger *logger_i.Logger
}

func New(inner embedding.Embedder, store kvStore, model string, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{
		inner:  inner,
		store:  store,
		model:  model,
		ttl:    ttl,
		logger: logger_i.NewLogger("embedding_cache"),
	}
}

func (c *CachedEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	key := c.cacheKey(query)
	if vec, ok := c.get(ctx, key); ok {
		metrics.CaptureEmbeddingCache("hit", 1)
		return vec, nil
	}
	metrics.CaptureEmbeddingCache("miss", 1)

	vec, err := c.inner.GetEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	c.put(ctx, key, vec)
	return vec, nil
}

func (c *CachedEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	results := make([][]float32, len(chunks))
	keys := make([]string, len(chunks))
	var missIdx []int
	var missTexts []string

	for i, text := range chunks {
		keys[i] = c.cacheKey(text)
		if vec, ok := c.get(ctx, keys[i]); ok {
			results[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}
	metrics.CaptureEmbeddingCache("hit", len(chunks)-len(missIdx))
	metrics.CaptureEmbeddingCache("miss", len(missIdx))

	if len(missTexts) == 0 {
		return results, nil
	}

	vectors, err := c.inner.BatchEmbedding(ctx, missTexts)
	if err != nil {
		return nil, fmt.Errorf("batch embed: %w", err)
	}
	if len(vectors) != len(missTexts) {
		return nil, fmt.Errorf("batch embed: got %d vectors for %d inputs", len(vectors), len(missTexts))
	}
	for j, i := range missIdx {
		results[i] = vectors[j]
		c.put(ctx, keys[i], vectors[j])
	}
	return results, nil
}

func (c *CachedEmbedder) cacheKey(text string) string {
	h := sha256.Sum256([]byte(c.model + "\x00" + text))
	return keyPrefix + hex.EncodeToString(h[:])
}

// get treats every store failure as a miss.
func (c *CachedEmbedder) get(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.store.GetBytes(ctx, key)
	if err != nil {
		if !c.store.IsNil(err) {
			c.logger.WithTrace(ctx).Warn("cache read failed", "error", err)
		}
		return nil, false
	}
	vec, ok := decodeVector(data)
	return vec, ok
}

func (c *CachedEmbedder) put(ctx context.Context, key string, vec []float32) {
	if err := c.store.Set(ctx, key, encodeVector(vec), c.ttl); err != nil {
		c.logger.WithTrace(ctx).Warn("cache write failed", "error", err)
	}
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(data []byte) ([]float32, bool) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, false
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, true
}
