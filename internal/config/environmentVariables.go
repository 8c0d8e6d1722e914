package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, it falls back to an internals in-memory store
	TRACE_ID_KEY                    = "traceId"
	SESSION_ID_KEY                  = "sessionId"
	SessionHeader                   = "X-Session-Id"
	DefaultSessionId                = "default"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5

	//labels
	LabelFuzzyCutoff      = 0.85
	LabelSimilarityCutoff = 0.92
	MaxTopicLabels        = 8

	EmbeddingOutputDimensionality int32 = 768
	LocalEmbeddingDimension             = 512
	CollectionPrefix                    = "quiz"
	EmbeddingBatchSize                  = 100

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 30 * time.Second
	WriteTimeout           = 5 * time.Minute
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//ingestion
	MaxUploadSize      = 32 << 20 //32mb
	IngestTimeout      = 5 * time.Minute
	IngestWaitTimeout  = 2 * time.Minute
	PageExtractTimeout = 10 * time.Second
	ChunkSize          = 1000
	ChunkOverlap       = 200

	//sessions
	SessionIdleTTL         = 2 * time.Hour
	SessionJanitorInterval = 10 * time.Minute

	//quiz
	MaxQuestionCount        = 50
	PromptExcerptLength     = 200
	FallbackExcerptLength   = 50
	EvaluationContextChunks = 3
	MaxParallelCompletions  = 4
	CompletionTimeout       = 60 * time.Second
	NeutralScore            = 3.0
	MinScore                = 0.0
	MaxScore                = 5.0
	StrengthThreshold       = 3.0
	MaxStrengths            = 2

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = ""
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1 //2-5 is preferred for prod according to documentation

	//llm
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIModelName      = "gpt-4o-mini"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	ModelTemperature     float32 = 0.6
	LLMRequestsPerSecond         = 5
	LLMBurst                     = 10
	BreakerMaxRequests           = 3
	BreakerInterval              = 60 * time.Second
	BreakerOpenTimeout           = 30 * time.Second
	BreakerTripFailures          = 5

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore       = 0
	RedisBatchStore     = 1
	RedisEmbeddingCache = 2

	//redis timeouts
	RedisJobStoreTTL       = 24 * time.Hour
	RedisBatchStoreTTL     = 24 * time.Hour
	RedisEmbeddingCacheTTL = 7 * 24 * time.Hour

	ServiceName = "quiz-api"
)

// deployment settings, filled by LoadEnvironment
var (
	IS_PROD = false

	RedisPassword string
	AuthToken     string
	NoAuthBypass  = true

	GoogleAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string

	//gemini | openai | none, empty picks whichever key is present
	LLMProviderName       string
	EmbeddingProviderName string

	AllowedOrigin    = "http://localhost:5173"
	UploadDir        = "uploads"
	QuizConfigPath   = "quiz.yaml"
	OTLPEndpoint     string
	RateLimitEnabled = false
	ListenAddr       = ServerListenAddr
)

// LoadEnvironment reads .env (if present) and the process environment.
func LoadEnvironment() {
	_ = godotenv.Load()

	IS_PROD = GetEnv("QUIZ_ENV", "dev") == "prod"

	RedisPassword = os.Getenv("REDIS_PASSWORD")
	AuthToken = os.Getenv("QUIZ_AUTH_TOKEN")
	NoAuthBypass = AuthToken == ""

	GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	LLMProviderName = os.Getenv("LLM_PROVIDER")
	EmbeddingProviderName = os.Getenv("EMBEDDING_PROVIDER")

	AllowedOrigin = GetEnv("CORS_ALLOWED_ORIGIN", AllowedOrigin)
	UploadDir = GetEnv("UPLOAD_DIR", UploadDir)
	QuizConfigPath = GetEnv("QUIZ_CONFIG", QuizConfigPath)
	OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	RateLimitEnabled = GetEnvBool("RATE_LIMIT_ENABLED", RateLimitEnabled)
	ListenAddr = GetEnv("LISTEN_ADDR", ListenAddr)
}

func GetEnv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func GetEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
