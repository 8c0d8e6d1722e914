package memoryDB

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spevenexe/S25-NLP-project/internal/domain/commonModels"
	"github.com/spevenexe/S25-NLP-project/internal/rag/embedding"
	"github.com/spevenexe/S25-NLP-project/internal/rag/vectorDB"
)

type collection struct {
	dimension int
	vectors   [][]float32
	chunks    []commonModels.Chunk
}

// Storage is an in-process vector store using brute-force cosine similarity.
type Storage struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

func NewStorage() *Storage {
	return &Storage{collections: make(map[string]*collection)}
}

func (s *Storage) CreateCollection(ctx context.Context, name string, dimension int) error {
	if name == "" {
		return errors.New("empty collection name")
	}
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.collections[name]; exists {
		return nil
	}
	s.collections[name] = &collection{dimension: dimension}
	return nil
}

func (s *Storage) UpsertBatch(ctx context.Context, name string, chunks []commonModels.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("%w: %s", vectorDB.ErrCollectionNotFound, name)
	}
	for _, v := range vectors {
		if len(v) != c.dimension {
			return vectorDB.ErrDimensionMismatch
		}
	}
	c.chunks = append(c.chunks, chunks...)
	c.vectors = append(c.vectors, vectors...)
	return nil
}

func (s *Storage) Search(ctx context.Context, name string, vector []float32, k int) ([]vectorDB.Match, error) {
	if k <= 0 {
		return []vectorDB.Match{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", vectorDB.ErrCollectionNotFound, name)
	}
	if len(vector) != c.dimension {
		return nil, vectorDB.ErrDimensionMismatch
	}

	matches := make([]vectorDB.Match, len(c.vectors))
	for i := range c.vectors {
		matches[i] = vectorDB.Match{Chunk: c.chunks[i], Score: embedding.CosineSimilarity(c.vectors[i], vector)}
	}
	vectorDB.SortMatches(matches)
	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

func (s *Storage) DropCollection(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
	return nil
}

func (s *Storage) CollectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections)
}
