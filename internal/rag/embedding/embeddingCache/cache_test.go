package embeddingCache

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spevenexe/S25-NLP-project/internal/data/redisStore"
)

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
	BatchInputs      [][]string
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	return []float32{float32(len(text)), 1}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	m.BatchInputs = append(m.BatchInputs, chunks)
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	out := make([][]float32, len(chunks))
	for i, c := range chunks {
		out[i] = []float32{float32(len(c)), 1}
	}
	return out, nil
}

func newCache(t *testing.T, inner *MockEmbedder) (*CachedEmbedder, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(inner, redisStore.NewTestStore(client), "test-model", time.Hour), mr
}

func TestGetEmbedding_CachesResult(t *testing.T) {
	calls := 0
	inner := &MockEmbedder{
		OnGetEmbedding: func(ctx context.Context, text string) ([]float32, error) {
			calls++
			return []float32{0.25, -1.5, 3}, nil
		},
	}
	cache, _ := newCache(t, inner)
	ctx := context.Background()

	first, err := cache.GetEmbedding(ctx, "osmosis")
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.GetEmbedding(ctx, "osmosis")
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("inner embedder called %d times, want 1", calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached vector differs: %v vs %v", first, second)
	}
}

func TestBatchEmbedding_OnlyMissesReachProvider(t *testing.T) {
	inner := &MockEmbedder{}
	cache, _ := newCache(t, inner)
	ctx := context.Background()

	if _, err := cache.BatchEmbedding(ctx, []string{"a", "bb"}); err != nil {
		t.Fatal(err)
	}
	got, err := cache.BatchEmbedding(ctx, []string{"bb", "ccc", "a"})
	if err != nil {
		t.Fatal(err)
	}

	if len(inner.BatchInputs) != 2 || !reflect.DeepEqual(inner.BatchInputs[1], []string{"ccc"}) {
		t.Errorf("provider inputs got %v", inner.BatchInputs)
	}
	want := [][]float32{{2, 1}, {3, 1}, {1, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("vectors got %v, want %v", got, want)
	}
}

func TestBatchEmbedding_ProviderError(t *testing.T) {
	inner := &MockEmbedder{
		OnBatchEmbedding: func(ctx context.Context, chunks []string) ([][]float32, error) {
			return nil, errors.New("quota")
		},
	}
	cache, _ := newCache(t, inner)
	if _, err := cache.BatchEmbedding(context.Background(), []string{"x"}); err == nil {
		t.Error("expected provider error to surface")
	}
}

func TestRedisOffline_ActsAsMiss(t *testing.T) {
	inner := &MockEmbedder{}
	cache, mr := newCache(t, inner)
	mr.Close()

	vec, err := cache.GetEmbedding(context.Background(), "abc")
	if err != nil {
		t.Fatalf("offline cache should not fail the call: %v", err)
	}
	if vec[0] != 3 {
		t.Errorf("unexpected vector %v", vec)
	}
}

func TestKeyDependsOnModel(t *testing.T) {
	a := New(&MockEmbedder{}, nil, "m1", time.Hour)
	b := New(&MockEmbedder{}, nil, "m2", time.Hour)
	if a.cacheKey("text") == b.cacheKey("text") {
		t.Error("keys for different models should differ")
	}
}

func TestVectorEncoding(t *testing.T) {
	vec := []float32{1.5, -2, 0}
	got, ok := decodeVector(encodeVector(vec))
	if !ok || !reflect.DeepEqual(got, vec) {
		t.Errorf("got %v", got)
	}
	if _, ok := decodeVector([]byte{1, 2, 3}); ok {
		t.Error("odd length data should not decode")
	}
}
