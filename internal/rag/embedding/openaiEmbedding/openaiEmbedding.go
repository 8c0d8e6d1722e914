package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/spevenexe/S25-NLP-project/internal/customHttpClient"
	"github.com/spevenexe/S25-NLP-project/internal/metrics"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
)

// Client embeds text through any OpenAI-compatible /embeddings endpoint.
type Client struct {
	api    openai.Client
	model  string
	logger *logger_i.Logger
}

// NewOpenAIEmbedder builds a client. baseURL may point at a local server (LM Studio, Ollama, vLLM).
func NewOpenAIEmbedder(apiKey string, baseURL string, model string) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(customHttpClient.GetClient()),
		option.WithMaxRetries(2),
	}
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		api:    openai.NewClient(opts...),
		model:  model,
		logger: logger_i.NewLogger("openai_embedding"),
	}
}

func (c *Client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *Client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if len(chunks) == 0 {
		return [][]float32{}, nil
	}
	log := c.logger.WithTrace(ctx).With("batchSize", len(chunks))
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("openai_embedding", time.Since(start)) }()

	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: chunks},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		log.Error("Error getting embeddings", "error", err)
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	return toVectors(resp.Data, len(chunks))
}

// toVectors places each result by its index field; the API does not promise ordering.
func toVectors(data []openai.Embedding, want int) ([][]float32, error) {
	if len(data) != want {
		return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(data), want)
	}
	vectors := make([][]float32, want)
	for _, d := range data {
		idx := int(d.Index)
		if idx < 0 || idx >= want {
			return nil, fmt.Errorf("openai embeddings: index %d out of range", idx)
		}
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		vectors[idx] = vec
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, errors.New("openai embeddings: missing vector at position " + fmt.Sprint(i))
		}
	}
	return vectors, nil
}
