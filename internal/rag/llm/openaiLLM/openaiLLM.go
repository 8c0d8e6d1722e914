package openaiLLM

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/customHttpClient"
	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
	"github.com/spevenexe/S25-NLP-project/internal/metrics"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
)

// Client talks to any OpenAI-compatible chat completions endpoint.
type Client struct {
	api         openai.Client
	model       string
	temperature float64
	logger      *logger_i.Logger
}

func NewOpenAIClient(apiKey string, baseURL string, model string) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(customHttpClient.GetClient()),
		option.WithMaxRetries(1),
	}
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		api:         openai.NewClient(opts...),
		model:       model,
		temperature: float64(config.ModelTemperature),
		logger:      logger_i.NewLogger("llm_openai"),
	}
}

func (c *Client) Complete(ctx context.Context, dialogue quizModel.Dialogue) (string, error) {
	if len(dialogue) == 0 {
		return "", errors.New("openai completion: empty dialogue")
	}
	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    toMessages(dialogue),
		Temperature: openai.Float(c.temperature),
	})
	metrics.CaptureExecutionMetrics("openai_completion", time.Since(start))
	if err != nil {
		c.logger.WithTrace(ctx).Error("OpenAI completion failed", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", quizModel.ErrEmptyCompletion
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", quizModel.ErrEmptyCompletion
	}
	return text, nil
}

func toMessages(dialogue quizModel.Dialogue) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(dialogue))
	for _, turn := range dialogue {
		switch turn.Role {
		case quizModel.RoleSystem:
			messages = append(messages, openai.SystemMessage(turn.Content))
		case quizModel.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	return messages
}
