package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spevenexe/S25-NLP-project/internal/adapter"
	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
	"github.com/spevenexe/S25-NLP-project/internal/job"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
)

var logRH = logger_i.NewLogger("RequestHandler")

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response", "err", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, message string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(message, httpCode))
}

// writeServiceError maps pipeline errors onto HTTP codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	log := logRH.WithTrace(r.Context())
	if code >= http.StatusInternalServerError {
		log.Error("Request failed", "path", r.URL.Path, "err", err)
	} else {
		log.Warn("Rejected request", "path", r.URL.Path, "err", err)
	}
	WriteErrorResponse(w, code, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, quizModel.ErrUnknownQuestionID),
		errors.Is(err, quizModel.ErrDuplicateAnswerID),
		errors.Is(err, quizModel.ErrQuestionCountTooLarge),
		errors.Is(err, quizModel.ErrUnsupportedContentType):
		return http.StatusBadRequest
	case errors.Is(err, job.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, into any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(into)
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.WithTrace(ctx).Warn("context error", "err", ctx.Err())
		return false
	}
	return true
}

func traceFrom(ctx context.Context) string {
	trace, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	return trace
}

func sessionFrom(ctx context.Context) string {
	if id, ok := ctx.Value(config.SESSION_ID_KEY).(string); ok && id != "" {
		return id
	}
	return config.DefaultSessionId
}

// WithSession is how the middleware records the caller's session.
func WithSession(ctx context.Context, sessionId string) context.Context {
	return context.WithValue(ctx, config.SESSION_ID_KEY, sessionId)
}
