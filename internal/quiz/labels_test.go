package quiz

import (
	"context"
	"errors"
	"math"
	"testing"
)

type MockEmbedder struct {
	OnGetEmbedding func(ctx context.Context, text string) ([]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	return m.OnGetEmbedding(ctx, text)
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	out := make([][]float32, len(chunks))
	for i, c := range chunks {
		v, err := m.OnGetEmbedding(ctx, c)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func TestCleanLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Biology", "Biology"},
		{"  **Biology**.\n", "Biology"},
		{"\n\nField of study: Computer   Science\nextra text", "Computer Science"},
		{"\"Organic Chemistry\"", "Organic Chemistry"},
		{"Topic: History!", "History"},
		{"   ", ""},
		{"CATEGORY: Économie", "Économie"},
		{"İstatistik", "İstatistik"},
		{"Cat", "Cat"},
		{"topic:Ökologie", "Ökologie"},
	}
	for _, tt := range tests {
		if got := CleanLabel(tt.raw); got != tt.want {
			t.Errorf("CleanLabel(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestStringSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"Biology", "biology", 1},
		{"", "", 1},
		{"Biology", "Biolgy", 1 - 1.0/7},
		{"Ökologie", "Okologie", 1 - 1.0/8},
		{"abc", "xyz", 0},
		{"kitten", "sitting", 1 - 3.0/7},
	}
	for _, tt := range tests {
		if got := stringSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("stringSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLabelSet_ExactAndFuzzy(t *testing.T) {
	ctx := context.Background()
	labels := NewLabelSet(nil, 8)

	if got := labels.Resolve(ctx, "Biology"); got != "Biology" {
		t.Fatalf("first label got %q", got)
	}
	if got := labels.Resolve(ctx, "biology."); got != "Biology" {
		t.Errorf("case-insensitive match got %q", got)
	}
	if got := labels.Resolve(ctx, "Biologgy"); got != "Biology" {
		t.Errorf("fuzzy match got %q", got)
	}
	if got := labels.Resolve(ctx, "Physics"); got != "Physics" {
		t.Errorf("distinct label got %q", got)
	}
	if len(labels.Labels()) != 2 {
		t.Errorf("labels %v", labels.Labels())
	}
	if got := labels.Resolve(ctx, "  "); got != "" {
		t.Errorf("blank reply got %q", got)
	}
}

func TestLabelSet_Bounded(t *testing.T) {
	ctx := context.Background()
	labels := NewLabelSet(nil, 2)
	labels.Resolve(ctx, "Mathematics")
	labels.Resolve(ctx, "History")

	got := labels.Resolve(ctx, "Mathematical Logic")
	if got != "Mathematics" {
		t.Errorf("over the limit should reuse the closest label, got %q", got)
	}
	if len(labels.Labels()) != 2 {
		t.Errorf("label set grew past its limit: %v", labels.Labels())
	}
}

func TestLabelSet_Semantic(t *testing.T) {
	vectors := map[string][]float32{
		"Cell Biology":      {1, 0, 0},
		"Molecular Biology": {0.99, 0.05, 0},
		"Art History":       {0, 0, 1},
	}
	emb := &MockEmbedder{OnGetEmbedding: func(ctx context.Context, text string) ([]float32, error) {
		if v, ok := vectors[text]; ok {
			return v, nil
		}
		return nil, errors.New("unknown")
	}}
	ctx := context.Background()
	labels := NewLabelSet(emb, 8)

	labels.Resolve(ctx, "Cell Biology")
	if got := labels.Resolve(ctx, "Molecular Biology"); got != "Cell Biology" {
		t.Errorf("semantic match got %q", got)
	}
	if got := labels.Resolve(ctx, "Art History"); got != "Art History" {
		t.Errorf("unrelated label got %q", got)
	}
	if got := labels.Resolve(ctx, "Quantum Optics"); got != "Quantum Optics" {
		t.Errorf("embedding failure should still add the label, got %q", got)
	}
}
