package gemini

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/customHttpClient"
	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
	"github.com/spevenexe/S25-NLP-project/internal/metrics"
	"github.com/spevenexe/S25-NLP-project/internal/rag/llm"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

const (
	roleUser  = "user"
	roleModel = "model"
)

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

// GetGeminiClient returns the shared Gemini client, or nil when it cannot be created.
func GetGeminiClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, modelName, apikey)
	})

	if geminiClient == nil {
		return nil
	}
	return geminiClient
}

func newGeminiClient(ctx context.Context, modelName string, apikey string) {
	if apikey == "" {
		logger.Warn("No Google API key, Gemini client not created")
		return
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		HTTPClient: customHttpClient.GetClient(),
	})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
		return
	}
	geminiClient = &llmClient{client: c, modelName: modelName, temperature: config.ModelTemperature}
	logger.Info("Gemini client created", "model", modelName)
}

func (c *llmClient) Complete(ctx context.Context, dialogue quizModel.Dialogue) (string, error) {
	log := logger.WithTrace(ctx)
	system, contents := toContents(dialogue)

	temperature := c.temperature
	contentConfig := &genai.GenerateContentConfig{Temperature: &temperature}
	if system != "" {
		contentConfig.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	start := time.Now()
	result, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, contentConfig)
	metrics.CaptureExecutionMetrics("gemini_completion", time.Since(start))
	if err != nil {
		log.Error("Gemini completion failed", "error", err)
		return "", err
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", quizModel.ErrEmptyCompletion
	}
	return text, nil
}

// toContents maps the dialogue onto Gemini's shape: system turns become the system
// instruction and assistant turns use the "model" role.
func toContents(dialogue quizModel.Dialogue) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(dialogue))
	for _, turn := range dialogue {
		switch turn.Role {
		case quizModel.RoleSystem:
			system = append(system, turn.Content)
		case quizModel.RoleAssistant:
			contents = append(contents, &genai.Content{Role: roleModel, Parts: []*genai.Part{{Text: turn.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: roleUser, Parts: []*genai.Part{{Text: turn.Content}}})
		}
	}
	return strings.Join(system, "\n"), contents
}
