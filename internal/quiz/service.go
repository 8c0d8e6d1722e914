package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
	"github.com/spevenexe/S25-NLP-project/internal/session"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Service is what the HTTP and MCP transports call.
type Service interface {
	GenerateQuestions(ctx context.Context, sessionId string, count int) ([]quizModel.Question, error)
	RegenerateTailoredQuestions(ctx context.Context, sessionId string, count int, weaknesses []string) ([]quizModel.Question, error)
	EvaluateAnswers(ctx context.Context, sessionId string, answers []quizModel.AnswerSubmission) (quizModel.EvaluationResult, error)
}

type service struct {
	sessions  *session.Manager
	batches   quizModel.BatchStore
	generator *Generator
	evaluator *Evaluator
	cfg       *config.QuizConfig
	logger    *logger_i.Logger
}

func NewService(sessions *session.Manager, batches quizModel.BatchStore, generator *Generator, evaluator *Evaluator, cfg *config.QuizConfig) Service {
	return &service{
		sessions:  sessions,
		batches:   batches,
		generator: generator,
		evaluator: evaluator,
		cfg:       cfg,
		logger:    logger_i.NewLogger("Quiz Service"),
	}
}

func (s *service) GenerateQuestions(ctx context.Context, sessionId string, count int) ([]quizModel.Question, error) {
	return s.generate(ctx, sessionId, count, nil)
}

// RegenerateTailoredQuestions steers generation toward the given weaknesses. Blank entries and
// the placeholder label are ignored; with nothing left it behaves like GenerateQuestions.
func (s *service) RegenerateTailoredQuestions(ctx context.Context, sessionId string, count int, weaknesses []string) ([]quizModel.Question, error) {
	return s.generate(ctx, sessionId, count, s.biasTopics(weaknesses))
}

func (s *service) generate(ctx context.Context, sessionId string, count int, biasTopics []string) ([]quizModel.Question, error) {
	if count > config.MaxQuestionCount {
		return nil, fmt.Errorf("%w: %d > %d", quizModel.ErrQuestionCountTooLarge, count, config.MaxQuestionCount)
	}
	ctx, span := otel.Tracer(config.ServiceName).Start(ctx, "quiz.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("quiz.session", sessionId),
		attribute.Int("quiz.count", count),
		attribute.Int("quiz.bias_topics", len(biasTopics)),
	)

	sess := s.sessions.Get(sessionId)
	sess.Lock()
	defer sess.Unlock()

	var corpus Corpus
	if idx := sess.Index(); idx != nil {
		corpus = idx
	}
	questions := s.generator.Generate(ctx, corpus, count, s.cfg.CategoryNames(), biasTopics)

	batch := quizModel.Batch{
		Id:        uuid.NewString(),
		SessionId: sess.Id,
		CreatedAt: time.Now(),
		Questions: questions,
	}
	if err := s.batches.SaveBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("saving question batch: %w", err)
	}
	s.logger.WithTrace(ctx).Info("Batch stored", "sessionId", sess.Id, "batchId", batch.Id, "questions", len(questions))
	return questions, nil
}

func (s *service) EvaluateAnswers(ctx context.Context, sessionId string, answers []quizModel.AnswerSubmission) (quizModel.EvaluationResult, error) {
	ctx, span := otel.Tracer(config.ServiceName).Start(ctx, "quiz.evaluate")
	defer span.End()
	span.SetAttributes(attribute.String("quiz.session", sessionId), attribute.Int("quiz.answers", len(answers)))

	sess := s.sessions.Get(sessionId)

	var batch *quizModel.Batch
	if stored, found := s.batches.GetBatch(ctx, sess.Id); found {
		batch = &stored
	}
	var corpus Corpus
	if idx := sess.AcquireIndex(); idx != nil {
		corpus = idx
		defer func() {
			if err := idx.Release(context.WithoutCancel(ctx)); err != nil {
				s.logger.WithTrace(ctx).Warn("Could not drop retired index", "collection", idx.Collection(), "error", err)
			}
		}()
	}

	result, err := s.evaluator.Evaluate(ctx, corpus, batch, answers)
	if err != nil {
		return quizModel.EvaluationResult{}, err
	}
	span.SetAttributes(attribute.Bool("quiz.random", result.Random))
	return result, nil
}

func (s *service) biasTopics(weaknesses []string) []string {
	seen := make(map[string]struct{}, len(weaknesses))
	topics := make([]string, 0, len(weaknesses))
	for _, w := range weaknesses {
		w = strings.TrimSpace(w)
		if w == "" || strings.EqualFold(w, s.cfg.PlaceholderLabel) {
			continue
		}
		key := strings.ToLower(w)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		topics = append(topics, w)
	}
	if len(topics) == 0 {
		return nil
	}
	return topics
}
