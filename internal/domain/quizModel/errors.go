package quizModel

import "errors"

var (
	// ErrUnknownQuestionID signals an answer whose id is not in the current batch.
	ErrUnknownQuestionID = errors.New("unknown question id")
	// ErrDuplicateAnswerID signals two answers for the same question.
	ErrDuplicateAnswerID = errors.New("duplicate answer id")
	// ErrUnsupportedContentType signals an upload that is not a PDF.
	ErrUnsupportedContentType = errors.New("unsupported content type")
	// ErrQuestionCountTooLarge signals a request for more questions than allowed.
	ErrQuestionCountTooLarge = errors.New("question count too large")
	// ErrProviderUnavailable signals that no text generation capability is configured.
	ErrProviderUnavailable = errors.New("generation provider unavailable")
	// ErrEmptyCompletion signals a blank response from the generation capability.
	ErrEmptyCompletion = errors.New("empty completion")
)
