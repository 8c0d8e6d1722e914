package llm

import (
	"context"

	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
)

// Provider is the text generation capability. Complete returns the next assistant turn for the dialogue.
type Provider interface {
	Complete(ctx context.Context, dialogue quizModel.Dialogue) (string, error)
}

// Unavailable is used when no provider is configured; every call fails so callers fall back.
type Unavailable struct{}

func (Unavailable) Complete(ctx context.Context, dialogue quizModel.Dialogue) (string, error) {
	return "", quizModel.ErrProviderUnavailable
}
