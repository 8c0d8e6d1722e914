package vectorDB

import (
	"context"
	"errors"
	"sort"

	"github.com/spevenexe/S25-NLP-project/internal/domain/commonModels"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrDimensionMismatch  = errors.New("vector dimension mismatch")
)

type Match struct {
	Chunk commonModels.Chunk
	Score float64
}

// DataProcessor stores chunk vectors in named collections. Every index build writes its own collection.
type DataProcessor interface {
	CreateCollection(ctx context.Context, collectionName string, dimension int) error
	UpsertBatch(ctx context.Context, collectionName string, chunks []commonModels.Chunk, vectors [][]float32) error
	Search(ctx context.Context, collectionName string, vector []float32, k int) ([]Match, error)
	DropCollection(ctx context.Context, collectionName string) error
}

// SortMatches orders by score descending, ties by ascending sequence index.
func SortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Chunk.SequenceIndex < matches[j].Chunk.SequenceIndex
	})
}
