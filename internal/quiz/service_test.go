package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/data/store"
	"github.com/spevenexe/S25-NLP-project/internal/domain/commonModels"
	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
	"github.com/spevenexe/S25-NLP-project/internal/rag/embedding/localEmbedding"
	"github.com/spevenexe/S25-NLP-project/internal/rag/index"
	"github.com/spevenexe/S25-NLP-project/internal/rag/vectorDB/memoryDB"
	"github.com/spevenexe/S25-NLP-project/internal/session"
)

type serviceFixture struct {
	svc      Service
	sessions *session.Manager
	batches  *store.InMemoryBatchStore
	llm      *MockLLM
}

func newServiceFixture(llm *MockLLM) serviceFixture {
	cfg := config.DefaultQuizConfig()
	rng := NewSeededRandomizer(99)
	sessions := session.NewManager(time.Hour)
	batches := store.InitInMemoryBatchStore()
	svc := NewService(sessions, batches, NewGenerator(llm, cfg, rng), NewEvaluator(llm, nil, cfg, rng), cfg)
	return serviceFixture{svc: svc, sessions: sessions, batches: batches, llm: llm}
}

func (f serviceFixture) indexDocument(t *testing.T, sessionId string, texts ...string) {
	t.Helper()
	chunks := make([]commonModels.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = commonModels.Chunk{SequenceIndex: i, Text: text}
	}
	idx, err := index.Build(context.Background(), memoryDB.NewStorage(), localEmbedding.NewEmbedder(64), index.CollectionName(sessionId), chunks)
	if err != nil {
		t.Fatal(err)
	}
	_ = f.sessions.Get(sessionId).ReplaceIndex(context.Background(), idx)
}

func TestService_CountTooLarge(t *testing.T) {
	f := newServiceFixture(&MockLLM{})
	_, err := f.svc.GenerateQuestions(context.Background(), "s", config.MaxQuestionCount+1)
	if !errors.Is(err, quizModel.ErrQuestionCountTooLarge) {
		t.Errorf("got %v", err)
	}
}

func TestService_EmptyDocumentFlow(t *testing.T) {
	f := newServiceFixture(&MockLLM{})
	ctx := context.Background()

	questions, err := f.svc.GenerateQuestions(ctx, "s", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(questions) != 3 || f.llm.Calls() != 0 {
		t.Fatalf("expected 3 template questions without model calls, got %d questions and %d calls", len(questions), f.llm.Calls())
	}
	if _, found := f.batches.GetBatch(ctx, "s"); !found {
		t.Fatal("batch not stored")
	}

	_, err = f.svc.EvaluateAnswers(ctx, "s", []quizModel.AnswerSubmission{{Id: 7, Text: "x"}})
	if !errors.Is(err, quizModel.ErrUnknownQuestionID) {
		t.Errorf("unknown id got %v", err)
	}

	result, err := f.svc.EvaluateAnswers(ctx, "s", []quizModel.AnswerSubmission{{Id: 1, Text: "x"}, {Id: 2, Text: "y"}})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Random || len(result.Scores) != 2 {
		t.Errorf("expected random evaluation, got %+v", result)
	}
}

func TestService_FullLoop(t *testing.T) {
	llm := &MockLLM{OnComplete: func(ctx context.Context, d quizModel.Dialogue) (string, error) {
		last := d.LastContent()
		switch {
		case strings.Contains(last, "Return only the numeric score"):
			if strings.Contains(last, "wrong") {
				return "1", nil
			}
			return "5", nil
		case strings.Contains(last, "field of study"):
			for _, turn := range d {
				if strings.Contains(turn.Content, "photosynthesis") {
					return "Botany", nil
				}
			}
			return "Chemistry", nil
		}
		return "What is described here", nil
	}}
	f := newServiceFixture(llm)
	ctx := context.Background()
	f.indexDocument(t, "s", "photosynthesis turns light into sugar", "acids donate protons in solution")

	questions, err := f.svc.GenerateQuestions(ctx, "s", 2)
	if err != nil {
		t.Fatal(err)
	}
	answers := make([]quizModel.AnswerSubmission, 0, len(questions))
	for _, q := range questions {
		if q.Outcome != quizModel.OutcomeSuccess {
			t.Fatalf("question %d fell back", q.Id)
		}
		text := "right"
		if !strings.Contains(q.Dialogue[1].Content, "photosynthesis") {
			text = "wrong"
		}
		answers = append(answers, quizModel.AnswerSubmission{Id: q.Id, Text: text})
	}

	result, err := f.svc.EvaluateAnswers(ctx, "s", answers)
	if err != nil {
		t.Fatal(err)
	}
	if result.Random {
		t.Fatal("indexed session should not use random evaluation")
	}
	if len(result.Strengths) != 1 || result.Strengths[0] != "Botany" {
		t.Errorf("strengths %v", result.Strengths)
	}
	if len(result.Weaknesses) != 1 || result.Weaknesses[0] != "Chemistry" {
		t.Errorf("weaknesses %v", result.Weaknesses)
	}

	tailored, err := f.svc.RegenerateTailoredQuestions(ctx, "s", 2, result.Weaknesses)
	if err != nil || len(tailored) != 2 {
		t.Fatalf("tailored generation failed: %v", err)
	}
	last := llm.Dialogues()[len(llm.Dialogues())-1]
	if !strings.Contains(last[1].Content, "- Chemistry") {
		t.Errorf("tailored prompt missing weakness:\n%s", last[1].Content)
	}
}

func TestService_BiasTopicsFiltered(t *testing.T) {
	f := newServiceFixture(&MockLLM{})
	f.indexDocument(t, "s", "a passage about cells")
	ctx := context.Background()

	_, err := f.svc.RegenerateTailoredQuestions(ctx, "s", 1, []string{"None identified", " ", "Genetics", "genetics"})
	if err != nil {
		t.Fatal(err)
	}
	prompt := f.llm.Dialogues()[0][1].Content
	if strings.Count(prompt, "Genetics") != 1 || strings.Contains(prompt, "None identified") {
		t.Errorf("weaknesses not filtered:\n%s", prompt)
	}

	_, _ = f.svc.RegenerateTailoredQuestions(ctx, "s", 1, []string{"None identified"})
	prompt = f.llm.Dialogues()[1][1].Content
	if strings.Contains(prompt, "listed topics") {
		t.Errorf("placeholder-only weaknesses should give an untailored prompt:\n%s", prompt)
	}
}

func TestService_SessionsAreIsolated(t *testing.T) {
	f := newServiceFixture(&MockLLM{})
	ctx := context.Background()
	f.indexDocument(t, "alice", "alice's notes on rivers")

	if _, err := f.svc.GenerateQuestions(ctx, "alice", 1); err != nil {
		t.Fatal(err)
	}
	questions, _ := f.svc.GenerateQuestions(ctx, "bob", 2)
	for _, q := range questions {
		if q.Outcome != quizModel.OutcomeFallback {
			t.Errorf("bob has no document, got %+v", q)
		}
	}

	aliceBatch, _ := f.batches.GetBatch(ctx, "alice")
	if len(aliceBatch.Questions) != 1 {
		t.Errorf("bob's generation replaced alice's batch")
	}
}

func TestService_EvaluationSurvivesConcurrentReindex(t *testing.T) {
	var f serviceFixture
	grading := false
	var gradedWithContext []bool
	llm := &MockLLM{OnComplete: func(ctx context.Context, d quizModel.Dialogue) (string, error) {
		last := d.LastContent()
		switch {
		case strings.Contains(last, "Return only the numeric score"):
			gradedWithContext = append(gradedWithContext, strings.Contains(last, "thylakoid"))
			if len(gradedWithContext) == 1 {
				// a new upload lands while the first answer is being graded
				sess := f.sessions.Get("s")
				sess.Lock()
				next, err := index.Build(ctx, memoryDB.NewStorage(), localEmbedding.NewEmbedder(64), "next", []commonModels.Chunk{{Text: "tectonic plates drift"}})
				if err != nil {
					t.Error(err)
				}
				_ = sess.ReplaceIndex(ctx, next)
				sess.Unlock()
			}
			return "4", nil
		case strings.Contains(last, "field of study"):
			return "Biology", nil
		}
		if !grading {
			return "", errors.New("generation offline")
		}
		return "", nil
	}}
	f = newServiceFixture(llm)
	ctx := context.Background()
	f.indexDocument(t, "s", "photosynthesis turns light into sugar inside the chloroplast, within each thylakoid")
	original := f.sessions.Get("s").Index()

	questions, err := f.svc.GenerateQuestions(ctx, "s", 2)
	if err != nil {
		t.Fatal(err)
	}
	grading = true
	answers := []quizModel.AnswerSubmission{{Id: questions[0].Id, Text: "a"}, {Id: questions[1].Id, Text: "b"}}
	if _, err := f.svc.EvaluateAnswers(ctx, "s", answers); err != nil {
		t.Fatal(err)
	}

	if len(gradedWithContext) != 2 || !gradedWithContext[0] || !gradedWithContext[1] {
		t.Errorf("answers graded with retrieved context: %v, want both", gradedWithContext)
	}
	if original.Readers() != 0 || original.Acquire() {
		t.Error("replaced index should be retired with no readers left")
	}
}
