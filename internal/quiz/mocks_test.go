package quiz

import (
	"context"
	"strings"
	"sync"

	"github.com/spevenexe/S25-NLP-project/internal/domain/commonModels"
	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
)

// MockLLM implements llm.Provider and records every dialogue it receives.
type MockLLM struct {
	OnComplete func(ctx context.Context, dialogue quizModel.Dialogue) (string, error)

	mu        sync.Mutex
	dialogues []quizModel.Dialogue
}

func (m *MockLLM) Complete(ctx context.Context, dialogue quizModel.Dialogue) (string, error) {
	m.mu.Lock()
	m.dialogues = append(m.dialogues, dialogue)
	m.mu.Unlock()
	if m.OnComplete != nil {
		return m.OnComplete(ctx, dialogue)
	}
	return "What is the mocked concept", nil
}

func (m *MockLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.dialogues)
}

func (m *MockLLM) Dialogues() []quizModel.Dialogue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]quizModel.Dialogue(nil), m.dialogues...)
}

// MockCorpus implements Corpus over a fixed chunk list.
type MockCorpus struct {
	chunks  []commonModels.Chunk
	OnTopK  func(ctx context.Context, query string, k int) ([]commonModels.Chunk, error)
	Queries []string
}

func (m *MockCorpus) Chunks() []commonModels.Chunk {
	return m.chunks
}

func (m *MockCorpus) TopK(ctx context.Context, query string, k int) ([]commonModels.Chunk, error) {
	m.Queries = append(m.Queries, query)
	if m.OnTopK != nil {
		return m.OnTopK(ctx, query, k)
	}
	return m.chunks[:min(k, len(m.chunks))], nil
}

func corpusOf(texts ...string) *MockCorpus {
	chunks := make([]commonModels.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = commonModels.Chunk{SequenceIndex: i, Text: t}
	}
	return &MockCorpus{chunks: chunks}
}

// gradingLLM answers grading prompts with score and topic prompts with topic.
func gradingLLM(score string, topic string) *MockLLM {
	return &MockLLM{OnComplete: func(ctx context.Context, d quizModel.Dialogue) (string, error) {
		last := d.LastContent()
		switch {
		case strings.Contains(last, "Return only the numeric score"):
			return score, nil
		case strings.Contains(last, "field of study"):
			return topic, nil
		}
		return "What is unexpected", nil
	}}
}
