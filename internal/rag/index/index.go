package index

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/domain/commonModels"
	"github.com/spevenexe/S25-NLP-project/internal/metrics"
	"github.com/spevenexe/S25-NLP-project/internal/rag/embedding"
	"github.com/spevenexe/S25-NLP-project/internal/rag/vectorDB"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
)

var ErrNoChunks = errors.New("index: no chunks to index")

// Index is an immutable, fully built view over one document's chunks.
// A rebuild produces a new Index in a new collection. Readers that Acquire the old one
// keep working; its collection is dropped once it is retired and the last reader releases it.
type Index struct {
	collection string
	chunks     []commonModels.Chunk
	store      vectorDB.DataProcessor
	embedder   embedding.Embedder
	builtAt    time.Time

	mu      sync.Mutex
	readers int
	retired bool
	dropped bool
}

// CollectionName makes a unique collection name per build.
func CollectionName(sessionId string) string {
	clean := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, sessionId)
	return fmt.Sprintf("%s-%s-%s", config.CollectionPrefix, clean, uuid.NewString()[:8])
}

// Build embeds chunks in batches and writes them to a fresh collection. On failure the
// partially written collection is dropped.
func Build(ctx context.Context, store vectorDB.DataProcessor, embedder embedding.Embedder, collection string, chunks []commonModels.Chunk) (*Index, error) {
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	log := logger_i.NewLogger("Index").WithTrace(ctx).With("collection", collection, "chunks", len(chunks))
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("index_build", time.Since(start)) }()

	created := false
	fail := func(err error) (*Index, error) {
		if created {
			if dropErr := store.DropCollection(context.WithoutCancel(ctx), collection); dropErr != nil {
				log.Warn("could not drop partial collection", "error", dropErr)
			}
		}
		return nil, err
	}

	for i := 0; i < len(chunks); i += config.EmbeddingBatchSize {
		end := min(i+config.EmbeddingBatchSize, len(chunks))
		batch := chunks[i:end]

		texts := make([]string, len(batch))
		for j, c := range batch {
			texts[j] = c.Text
		}

		log.Debug("Starting embedding call", "batchStart", i, "batchLength", len(batch))
		vectors, err := embedder.BatchEmbedding(ctx, texts)
		if err != nil {
			return fail(fmt.Errorf("embedding batch failed: %w", err))
		}
		if len(vectors) != len(batch) || len(vectors[0]) == 0 {
			return fail(fmt.Errorf("embedding batch returned %d vectors for %d chunks", len(vectors), len(batch)))
		}

		if !created {
			if err := store.CreateCollection(ctx, collection, len(vectors[0])); err != nil {
				return fail(fmt.Errorf("creating collection failed: %w", err))
			}
			created = true
		}

		if err := store.UpsertBatch(ctx, collection, batch, vectors); err != nil {
			return fail(fmt.Errorf("upserting batch failed: %w", err))
		}
	}

	owned := make([]commonModels.Chunk, len(chunks))
	copy(owned, chunks)
	log.Info("Index built", "elapsed", time.Since(start))
	return &Index{
		collection: collection,
		chunks:     owned,
		store:      store,
		embedder:   embedder,
		builtAt:    time.Now(),
	}, nil
}

// TopK returns up to k chunks ranked by similarity to query, ties by ascending sequence index.
func (i *Index) TopK(ctx context.Context, query string, k int) ([]commonModels.Chunk, error) {
	if k <= 0 {
		return []commonModels.Chunk{}, nil
	}
	vector, err := i.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query failed: %w", err)
	}
	matches, err := i.store.Search(ctx, i.collection, vector, k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	vectorDB.SortMatches(matches)
	out := make([]commonModels.Chunk, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Chunk)
	}
	return out, nil
}

// Chunks returns a copy of the indexed chunks in sequence order.
func (i *Index) Chunks() []commonModels.Chunk {
	out := make([]commonModels.Chunk, len(i.chunks))
	copy(out, i.chunks)
	return out
}

func (i *Index) Len() int { return len(i.chunks) }

func (i *Index) Collection() string { return i.collection }

func (i *Index) BuiltAt() time.Time { return i.builtAt }

func (i *Index) Drop(ctx context.Context) error {
	return i.store.DropCollection(ctx, i.collection)
}

// Acquire registers a reader. It fails once the index is retired.
func (i *Index) Acquire() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.retired {
		return false
	}
	i.readers++
	return true
}

// Release ends a read started with Acquire and drops the collection when
// the index was retired in the meantime and this was the last reader.
func (i *Index) Release(ctx context.Context) error {
	i.mu.Lock()
	i.readers--
	drop := i.claimDrop()
	i.mu.Unlock()
	if !drop {
		return nil
	}
	return i.Drop(ctx)
}

// Retire stops new readers. The collection is dropped now if nobody reads it,
// otherwise by the last Release.
func (i *Index) Retire(ctx context.Context) error {
	i.mu.Lock()
	i.retired = true
	drop := i.claimDrop()
	i.mu.Unlock()
	if !drop {
		return nil
	}
	return i.Drop(ctx)
}

// claimDrop expects i.mu to be held.
func (i *Index) claimDrop() bool {
	if !i.retired || i.readers > 0 || i.dropped {
		return false
	}
	i.dropped = true
	return true
}

func (i *Index) Readers() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.readers
}
