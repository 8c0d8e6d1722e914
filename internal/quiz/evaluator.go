package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
	"github.com/spevenexe/S25-NLP-project/internal/metrics"
	"github.com/spevenexe/S25-NLP-project/internal/rag/embedding"
	"github.com/spevenexe/S25-NLP-project/internal/rag/llm"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
)

const outcomeRandom = "random"

var errEmptyTopic = errors.New("empty topic label")

type Evaluator struct {
	llm           llm.Provider
	labelEmbedder embedding.Embedder
	cfg           *config.QuizConfig
	rng           *Randomizer
	timeout       time.Duration
	logger        *logger_i.Logger
}

// NewEvaluator builds an evaluator. labelEmbedder may be nil, which turns off semantic label matching.
func NewEvaluator(provider llm.Provider, labelEmbedder embedding.Embedder, cfg *config.QuizConfig, rng *Randomizer) *Evaluator {
	return &Evaluator{
		llm:           provider,
		labelEmbedder: labelEmbedder,
		cfg:           cfg,
		rng:           rng,
		timeout:       config.CompletionTimeout,
		logger:        logger_i.NewLogger("Evaluator"),
	}
}

// ValidateAnswers checks every id against the batch and rejects repeats.
func ValidateAnswers(batch *quizModel.Batch, answers []quizModel.AnswerSubmission) error {
	seen := make(map[int]struct{}, len(answers))
	for _, a := range answers {
		if _, dup := seen[a.Id]; dup {
			return fmt.Errorf("%w: %d", quizModel.ErrDuplicateAnswerID, a.Id)
		}
		seen[a.Id] = struct{}{}
		if batch != nil {
			if _, ok := batch.Lookup(a.Id); !ok {
				return fmt.Errorf("%w: %d", quizModel.ErrUnknownQuestionID, a.Id)
			}
		}
	}
	return nil
}

// Evaluate scores every answer and aggregates the scores by topic. Validation errors are returned
// before any model call. Without a batch or a corpus the result is a random demonstration.
// Per-answer failures score the neutral value and never fail the call.
func (e *Evaluator) Evaluate(ctx context.Context, corpus Corpus, batch *quizModel.Batch, answers []quizModel.AnswerSubmission) (quizModel.EvaluationResult, error) {
	if err := ValidateAnswers(batch, answers); err != nil {
		return quizModel.EvaluationResult{}, err
	}
	if batch == nil || corpus == nil {
		return e.RandomEvaluation(answers), nil
	}

	log := e.logger.WithTrace(ctx).With("batchId", batch.Id, "answers", len(answers))
	start := time.Now()

	labels := NewLabelSet(e.labelEmbedder, config.MaxTopicLabels)
	stats := make(map[string]quizModel.CategoryStat)
	result := quizModel.EvaluationResult{
		Scores: make([]quizModel.Score, 0, len(answers)),
		Report: make([]quizModel.AnswerReport, 0, len(answers)),
	}

	for _, answer := range answers {
		question, _ := batch.Lookup(answer.Id)
		report := e.scoreOne(ctx, corpus, question, answer, labels)

		stats[report.Category] = stats[report.Category].Add(report.score)
		result.Scores = append(result.Scores, quizModel.Score{Id: answer.Id, Value: report.score})
		result.Report = append(result.Report, report.AnswerReport)
		metrics.CaptureAnswerOutcome(string(report.Outcome))
	}

	result.Strengths, result.Weaknesses = Aggregate(stats, e.cfg.PlaceholderLabel)
	metrics.CaptureExecutionMetrics("answer_evaluation", time.Since(start))
	log.Info("Answers evaluated", "categories", len(stats), "elapsed", time.Since(start))
	return result, nil
}

type scoredAnswer struct {
	quizModel.AnswerReport
	score float64
}

func (e *Evaluator) scoreOne(ctx context.Context, corpus Corpus, question quizModel.Question, answer quizModel.AnswerSubmission, labels *LabelSet) scoredAnswer {
	fallback := func(err error) scoredAnswer {
		e.logger.WithTrace(ctx).Warn("Answer evaluation failed, using neutral score", "id", answer.Id, "error", err)
		return scoredAnswer{
			AnswerReport: quizModel.AnswerReport{
				Id:       answer.Id,
				Category: question.Category,
				Outcome:  quizModel.OutcomeFallback,
				Reason:   err.Error(),
			},
			score: config.NeutralScore,
		}
	}

	dialogue := e.gradingDialogue(ctx, corpus, question, answer)
	raw, err := e.complete(ctx, dialogue)
	if err != nil {
		return fallback(err)
	}

	score, parsed := ParseScore(raw)

	topicDialogue := dialogue.
		Append(quizModel.RoleAssistant, raw).
		Append(quizModel.RoleUser, e.topicPrompt(labels.Labels()))
	topicReply, err := e.complete(ctx, topicDialogue)
	if err != nil {
		return fallback(err)
	}
	category := labels.Resolve(ctx, topicReply)
	if category == "" {
		return fallback(errEmptyTopic)
	}

	out := scoredAnswer{
		AnswerReport: quizModel.AnswerReport{Id: answer.Id, Category: category, Outcome: quizModel.OutcomeSuccess},
		score:        score,
	}
	if !parsed {
		out.Outcome = quizModel.OutcomeFallback
		out.Reason = "unparseable score"
	}
	return out
}

// gradingDialogue continues the question's own conversation when it has one. Template questions
// have none, so they are graded against retrieved passages instead.
func (e *Evaluator) gradingDialogue(ctx context.Context, corpus Corpus, question quizModel.Question, answer quizModel.AnswerSubmission) quizModel.Dialogue {
	evaluation := render(e.cfg.Prompts.Evaluation, map[string]string{"answer": answer.Text})
	if len(question.Dialogue) > 0 {
		return question.Dialogue.Append(quizModel.RoleUser, evaluation)
	}

	var passages []string
	chunks, err := corpus.TopK(ctx, question.Text, config.EvaluationContextChunks)
	if err != nil {
		e.logger.WithTrace(ctx).Warn("Context retrieval failed, grading without context", "error", err)
	}
	for _, c := range chunks {
		passages = append(passages, c.Text)
	}
	grounded := render(e.cfg.Prompts.GroundedContext, map[string]string{
		"context":  strings.Join(passages, "\n\n"),
		"question": question.Text,
	})
	return quizModel.NewDialogue(e.cfg.Prompts.EvaluatorSystem).
		Append(quizModel.RoleUser, grounded+"\n\n"+evaluation)
}

func (e *Evaluator) topicPrompt(known []string) string {
	knownText := ""
	if len(known) > 0 {
		knownText = render(e.cfg.Prompts.KnownTopics, map[string]string{"labels": bulletList(known)})
	}
	return render(e.cfg.Prompts.Topic, map[string]string{"known": knownText})
}

func (e *Evaluator) complete(ctx context.Context, dialogue quizModel.Dialogue) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	reply, err := e.llm.Complete(callCtx, dialogue)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", quizModel.ErrEmptyCompletion
	}
	return reply, nil
}

// RandomEvaluation is the degraded mode used when there is nothing to grade against.
func (e *Evaluator) RandomEvaluation(answers []quizModel.AnswerSubmission) quizModel.EvaluationResult {
	result := quizModel.EvaluationResult{
		Strengths:  append([]string(nil), e.cfg.RandomStrengths...),
		Weaknesses: append([]string(nil), e.cfg.RandomWeaknesses...),
		Scores:     make([]quizModel.Score, 0, len(answers)),
		Random:     true,
	}
	for _, a := range answers {
		result.Scores = append(result.Scores, quizModel.Score{Id: a.Id, Value: float64(e.rng.IntN(6))})
		metrics.CaptureAnswerOutcome(outcomeRandom)
	}
	return result
}
