package memoryDB

import (
	"context"
	"errors"
	"testing"

	"github.com/spevenexe/S25-NLP-project/internal/domain/commonModels"
	"github.com/spevenexe/S25-NLP-project/internal/rag/vectorDB"
)

func seeded(t *testing.T) *Storage {
	t.Helper()
	s := NewStorage()
	ctx := context.Background()
	if err := s.CreateCollection(ctx, "c", 2); err != nil {
		t.Fatal(err)
	}
	chunks := []commonModels.Chunk{
		{SequenceIndex: 0, Text: "x axis"},
		{SequenceIndex: 1, Text: "diagonal"},
		{SequenceIndex: 2, Text: "y axis"},
		{SequenceIndex: 3, Text: "x again"},
	}
	vectors := [][]float32{{1, 0}, {1, 1}, {0, 1}, {2, 0}}
	if err := s.UpsertBatch(ctx, "c", chunks, vectors); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSearch_OrderAndTies(t *testing.T) {
	s := seeded(t)
	matches, err := s.Search(context.Background(), "c", []float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 3 {
		t.Fatalf("got %d matches", len(matches))
	}
	// chunks 0 and 3 tie at cosine 1, lower sequence index first
	if matches[0].Chunk.SequenceIndex != 0 || matches[1].Chunk.SequenceIndex != 3 || matches[2].Chunk.SequenceIndex != 1 {
		t.Errorf("unexpected order: %+v", matches)
	}
}

func TestSearch_KLargerThanCollection(t *testing.T) {
	s := seeded(t)
	matches, _ := s.Search(context.Background(), "c", []float32{0, 1}, 10)
	if len(matches) != 4 {
		t.Errorf("got %d matches, want 4", len(matches))
	}
	none, _ := s.Search(context.Background(), "c", []float32{0, 1}, 0)
	if len(none) != 0 {
		t.Error("k=0 should return nothing")
	}
}

func TestErrors(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	if _, err := s.Search(ctx, "missing", []float32{1, 0}, 1); !errors.Is(err, vectorDB.ErrCollectionNotFound) {
		t.Errorf("got %v", err)
	}
	if _, err := s.Search(ctx, "c", []float32{1, 0, 0}, 1); !errors.Is(err, vectorDB.ErrDimensionMismatch) {
		t.Errorf("got %v", err)
	}
	if err := s.UpsertBatch(ctx, "c", []commonModels.Chunk{{}}, nil); err == nil {
		t.Error("expected length mismatch error")
	}
	if err := s.CreateCollection(ctx, "", 2); err == nil {
		t.Error("expected empty name error")
	}
}

func TestDropCollection(t *testing.T) {
	s := seeded(t)
	_ = s.DropCollection(context.Background(), "c")
	if s.CollectionCount() != 0 {
		t.Error("collection should be gone")
	}
}
