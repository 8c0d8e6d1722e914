package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/data/redisStore"
	"github.com/spevenexe/S25-NLP-project/internal/data/store"
	"github.com/spevenexe/S25-NLP-project/internal/domain/jobModel"
	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
	"github.com/spevenexe/S25-NLP-project/internal/quiz"
	"github.com/spevenexe/S25-NLP-project/internal/rag/embedding"
	"github.com/spevenexe/S25-NLP-project/internal/rag/embedding/embeddingCache"
	"github.com/spevenexe/S25-NLP-project/internal/rag/embedding/googleEmbedding"
	"github.com/spevenexe/S25-NLP-project/internal/rag/embedding/localEmbedding"
	"github.com/spevenexe/S25-NLP-project/internal/rag/embedding/openaiEmbedding"
	"github.com/spevenexe/S25-NLP-project/internal/rag/ingest"
	"github.com/spevenexe/S25-NLP-project/internal/rag/llm"
	"github.com/spevenexe/S25-NLP-project/internal/rag/llm/gemini"
	"github.com/spevenexe/S25-NLP-project/internal/rag/llm/openaiLLM"
	"github.com/spevenexe/S25-NLP-project/internal/rag/llm/resilient"
	"github.com/spevenexe/S25-NLP-project/internal/rag/vectorDB"
	"github.com/spevenexe/S25-NLP-project/internal/rag/vectorDB/memoryDB"
	"github.com/spevenexe/S25-NLP-project/internal/rag/vectorDB/qdrantDB"
	"github.com/spevenexe/S25-NLP-project/internal/session"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
)

const (
	providerGemini = "gemini"
	providerOpenAI = "openai"
	providerLocal  = "local"
	providerNone   = "none"
)

// App holds the services both transports share.
type App struct {
	Sessions *session.Manager
	Quiz     quiz.Service
	Ingestor ingest.Service
	Batches  quizModel.BatchStore
	JobStore jobModel.JobStore
	Provider llm.Provider
	Embedder embedding.Embedder
	Vectors  vectorDB.DataProcessor
}

// Build connects every dependency. Redis, Qdrant and the model providers are optional and fall
// back to in-memory stores, the local embedder and template questions.
func Build(ctx context.Context) (*App, error) {
	logger := logger_i.NewLogger("App")

	cfg, err := config.LoadQuizConfig(config.QuizConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading quiz config %s: %w", config.QuizConfigPath, err)
	}

	provider := selectProvider(ctx, logger)
	embedder := selectEmbedder(ctx, logger)
	vectors := selectVectorStore(ctx, logger)
	batches, jobs, err := selectStores(ctx, logger)
	if err != nil {
		return nil, err
	}

	sessions := session.NewManager(config.SessionIdleTTL)
	sessions.OnEvict(func(ctx context.Context, sessionId string) {
		batches.DeleteBatch(ctx, sessionId)
	})

	rng := quiz.NewRandomizer()
	generator := quiz.NewGenerator(provider, cfg, rng)
	evaluator := quiz.NewEvaluator(provider, embedder, cfg, rng)

	return &App{
		Sessions: sessions,
		Quiz:     quiz.NewService(sessions, batches, generator, evaluator, cfg),
		Ingestor: ingest.NewService(sessions, vectors, embedder),
		Batches:  batches,
		JobStore: jobs,
		Provider: provider,
		Embedder: embedder,
		Vectors:  vectors,
	}, nil
}

// Start runs background maintenance until ctx is done.
func (a *App) Start(ctx context.Context) {
	go a.Sessions.RunJanitor(ctx, config.SessionJanitorInterval)
}

func (a *App) Close(ctx context.Context) {
	a.Sessions.Close(ctx)
}

func providerName(explicit string) string {
	name := strings.ToLower(strings.TrimSpace(explicit))
	if name != "" {
		return name
	}
	switch {
	case config.GoogleAPIKey != "":
		return providerGemini
	case config.OpenAIAPIKey != "" || config.OpenAIBaseURL != "":
		return providerOpenAI
	default:
		return providerNone
	}
}

func selectProvider(ctx context.Context, logger *logger_i.Logger) llm.Provider {
	name := providerName(config.LLMProviderName)
	switch name {
	case providerGemini:
		if p := gemini.GetGeminiClient(ctx, config.GetEnv("GEMINI_MODEL", config.GeminiModelName), config.GoogleAPIKey); p != nil {
			logger.Info("Using Gemini for generation")
			return resilient.New(providerGemini, p, resilient.DefaultSettings())
		}
	case providerOpenAI:
		model := config.GetEnv("OPENAI_MODEL", config.OpenAIModelName)
		logger.Info("Using OpenAI-compatible generation", "model", model, "baseURL", config.OpenAIBaseURL)
		return resilient.New(providerOpenAI, openaiLLM.NewOpenAIClient(config.OpenAIAPIKey, config.OpenAIBaseURL, model), resilient.DefaultSettings())
	}
	logger.Warn("No generation provider, questions come from templates and answers get neutral scores", "provider", name)
	return llm.Unavailable{}
}

func selectEmbedder(ctx context.Context, logger *logger_i.Logger) embedding.Embedder {
	name := strings.ToLower(strings.TrimSpace(config.EmbeddingProviderName))
	if name == "" {
		name = providerName("")
	}

	var (
		inner embedding.Embedder
		model string
	)
	switch name {
	case providerGemini:
		model = config.GoogleEmbeddingModel
		inner = googleEmbedding.GetGoogleEmbeddingClient(ctx, model, config.GoogleAPIKey)
	case providerOpenAI:
		model = config.GetEnv("OPENAI_EMBEDDING_MODEL", config.OpenAIEmbeddingModel)
		inner = openaiEmbedding.NewOpenAIEmbedder(config.OpenAIAPIKey, config.OpenAIBaseURL, model)
	}
	if inner == nil {
		// local vectors are cheap to compute, caching them buys nothing
		logger.Info("Using local hashed embeddings", "requested", name)
		return localEmbedding.NewEmbedder(config.LocalEmbeddingDimension)
	}

	if cacheStore := redisStore.GetRedisStore(ctx, config.RedisEmbeddingCache); cacheStore != nil {
		logger.Info("Embedding cache enabled", "model", model)
		return embeddingCache.New(inner, cacheStore, model, config.RedisEmbeddingCacheTTL)
	}
	return inner
}

func selectVectorStore(ctx context.Context, logger *logger_i.Logger) vectorDB.DataProcessor {
	if q := qdrantDB.GetQuadrantClient(ctx); q != nil {
		logger.Info("Using Qdrant vector store")
		return q
	}
	logger.Info("Using in-memory vector store")
	return memoryDB.NewStorage()
}

func selectStores(ctx context.Context, logger *logger_i.Logger) (quizModel.BatchStore, jobModel.JobStore, error) {
	batchStore := store.GetRedisBatchStore(ctx)
	jobStore := store.GetRedisJobStore(ctx)
	if batchStore != nil && jobStore != nil {
		return batchStore, jobStore, nil
	}
	if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
		return nil, nil, errors.New("redis is offline and the in-memory fallback is disabled")
	}
	logger.Warn("Redis stores are offline, using in-memory stores")
	return store.InitInMemoryBatchStore(), store.InitInMemoryJobStore(), nil
}
