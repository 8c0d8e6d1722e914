package middleware

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/spevenexe/S25-NLP-project/internal/metrics"
	"github.com/spevenexe/S25-NLP-project/internal/telemetry"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
	"go.opentelemetry.io/otel/attribute"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

// Wrap runs the request pipeline (trace, session, auth, rate limit) before next and records the outcome.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if !handleBadRequest(re) {
			metrics.HttpRequestsTotal.WithLabelValues(routePattern(r), strconv.Itoa(rec.Status)).Inc()
			return
		}
		ctx, span := telemetry.StartServerSpan(re.req.Context(), r.Method+" "+r.URL.Path)
		span.SetAttributes(attribute.String("http.trace_id", re.req.Header.Get("X-Trace-Id")))
		next(rec, re.req.WithContext(ctx))
		span.SetAttributes(attribute.Int("http.status_code", rec.Status))
		span.End()

		metrics.HttpRequestsTotal.WithLabelValues(routePattern(r), strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re.logger.Info("New request received", "method", re.req.Method, "path", re.req.URL.Path)

	for _, step := range []func(requestResponseStruct) requestResponseStruct{injectSession, authenticate, rateLimiter} {
		re = step(re)
		if re.badRequest.isBadRequest {
			return re
		}
	}
	return re
}

// routePattern keeps metric labels bounded, /status/{id} instead of one label per job.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
