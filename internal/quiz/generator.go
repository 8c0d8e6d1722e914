package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/domain/commonModels"
	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
	"github.com/spevenexe/S25-NLP-project/internal/metrics"
	"github.com/spevenexe/S25-NLP-project/internal/rag/llm"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
	"golang.org/x/sync/errgroup"
)

// Corpus is what the quiz needs from an index. A nil Corpus means no document is indexed.
type Corpus interface {
	Chunks() []commonModels.Chunk
	TopK(ctx context.Context, query string, k int) ([]commonModels.Chunk, error)
}

type Generator struct {
	llm      llm.Provider
	cfg      *config.QuizConfig
	rng      *Randomizer
	parallel int
	timeout  time.Duration
	logger   *logger_i.Logger
}

func NewGenerator(provider llm.Provider, cfg *config.QuizConfig, rng *Randomizer) *Generator {
	return &Generator{
		llm:      provider,
		cfg:      cfg,
		rng:      rng,
		parallel: config.MaxParallelCompletions,
		timeout:  config.CompletionTimeout,
		logger:   logger_i.NewLogger("QuestionGenerator"),
	}
}

// plan is one question decided up front: which chunk and which category.
type plan struct {
	chunk    commonModels.Chunk
	category string
}

// Generate always returns exactly count questions (none for count <= 0) with ids 1..count.
// Sampling and category choice happen before any model call, so a seeded Randomizer gives
// the same plan regardless of how the calls finish.
func (g *Generator) Generate(ctx context.Context, corpus Corpus, count int, categories []string, biasTopics []string) []quizModel.Question {
	if count <= 0 {
		return []quizModel.Question{}
	}
	if len(categories) == 0 {
		categories = g.cfg.CategoryNames()
	}

	var chunks []commonModels.Chunk
	if corpus != nil {
		chunks = corpus.Chunks()
	}
	if len(chunks) == 0 {
		return g.Fallback(count, categories)
	}

	log := g.logger.WithTrace(ctx).With("count", count, "chunks", len(chunks), "tailored", len(biasTopics) > 0)
	start := time.Now()

	sampleSize := min(count, len(chunks))
	order := g.rng.Perm(len(chunks))[:sampleSize]
	plans := make([]plan, sampleSize)
	for i, idx := range order {
		plans[i] = plan{chunk: chunks[idx], category: g.rng.Pick(categories)}
	}

	questions := make([]quizModel.Question, sampleSize)
	group := errgroup.Group{}
	group.SetLimit(g.parallel)
	for i, p := range plans {
		group.Go(func() error {
			questions[i] = g.generateOne(ctx, p, biasTopics)
			return nil
		})
	}
	_ = group.Wait()

	if sampleSize < count {
		questions = append(questions, g.Fallback(count-sampleSize, categories)...)
	}
	for i := range questions {
		if i < sampleSize {
			metrics.CaptureQuestionOutcome(string(questions[i].Outcome))
		}
		questions[i].Id = i + 1
	}

	metrics.CaptureExecutionMetrics("question_generation", time.Since(start))
	log.Info("Questions generated", "elapsed", time.Since(start))
	return questions
}

func (g *Generator) generateOne(ctx context.Context, p plan, biasTopics []string) quizModel.Question {
	values := map[string]string{
		"excerpt":     excerpt(p.chunk.Text, config.PromptExcerptLength),
		"instruction": g.cfg.CategoryPrompt(p.category),
	}
	template := g.cfg.Prompts.Excerpt
	if len(biasTopics) > 0 {
		template = g.cfg.Prompts.TailoredExcerpt
		values["topics"] = bulletList(biasTopics)
	}
	dialogue := quizModel.NewDialogue(g.cfg.Prompts.System).Append(quizModel.RoleUser, render(template, values))

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	reply, err := g.llm.Complete(callCtx, dialogue)
	text := strings.TrimSpace(reply)
	if err == nil && text == "" {
		err = quizModel.ErrEmptyCompletion
	}
	if err != nil {
		g.logger.WithTrace(ctx).Warn("Question generation failed, using excerpt fallback",
			"chunk", p.chunk.SequenceIndex, "error", err)
		return quizModel.Question{
			Text:     ensureQuestionMark(fmt.Sprintf("What is the main point of this excerpt: '%s...'", excerpt(p.chunk.Text, config.FallbackExcerptLength))),
			Category: p.category,
			Dialogue: quizModel.Dialogue{},
			Outcome:  quizModel.OutcomeFallback,
		}
	}

	return quizModel.Question{
		Text:     ensureQuestionMark(text),
		Category: p.category,
		Dialogue: dialogue.Append(quizModel.RoleAssistant, text),
		Outcome:  quizModel.OutcomeSuccess,
	}
}

// Fallback builds count template questions without calling the model. Ids are 1..count.
func (g *Generator) Fallback(count int, categories []string) []quizModel.Question {
	if count <= 0 {
		return []quizModel.Question{}
	}
	if len(categories) == 0 {
		categories = g.cfg.CategoryNames()
	}
	questions := make([]quizModel.Question, count)
	for i := range questions {
		stem := g.rng.Pick(g.cfg.FallbackStems)
		topic := g.rng.Pick(g.cfg.FallbackTopics)
		questions[i] = quizModel.Question{
			Id:       i + 1,
			Text:     ensureQuestionMark(strings.TrimSpace(stem + " " + topic)),
			Category: g.rng.Pick(categories),
			Dialogue: quizModel.Dialogue{},
			Outcome:  quizModel.OutcomeFallback,
		}
		metrics.CaptureQuestionOutcome(string(quizModel.OutcomeFallback))
	}
	return questions
}

func ensureQuestionMark(text string) string {
	if strings.HasSuffix(text, "?") {
		return text
	}
	return text + "?"
}
