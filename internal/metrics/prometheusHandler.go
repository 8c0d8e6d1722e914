package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of ingestion jobs waiting for a worker",
})

var dispatcherSignalCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "dispatcher_signal_total",
	Help: "How often the dispatcher has been signaled to start a worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var activeSessionCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "quiz_active_sessions",
	Help: "Number of live quiz sessions",
})

var questionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "quiz_question_outcomes_total",
	Help: "Generated questions labelled by outcome (success, fallback)",
}, []string{"outcome"})

var answerOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "quiz_answer_outcomes_total",
	Help: "Scored answers labelled by outcome (success, fallback, random)",
}, []string{"outcome"})

var embeddingCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "embedding_cache_total",
	Help: "Embedding cache lookups labelled by result (hit, miss)",
}, []string{"result"})

var breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "llm_breaker_state",
	Help: "Circuit breaker state per provider (0 closed, 1 half-open, 2 open)",
}, []string{"provider"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}

func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func SetActiveSessions(n int) {
	activeSessionCount.Set(float64(n))
}

func CaptureQuestionOutcome(outcome string) {
	questionOutcomes.WithLabelValues(outcome).Inc()
}

func CaptureAnswerOutcome(outcome string) {
	answerOutcomes.WithLabelValues(outcome).Inc()
}

func CaptureEmbeddingCache(result string, n int) {
	embeddingCacheTotal.WithLabelValues(result).Add(float64(n))
}

func SetBreakerState(provider string, state int) {
	breakerState.WithLabelValues(provider).Set(float64(state))
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "ingest_job_duration_seconds",
	Help:    "Total time spent processing an ingestion job.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60, 120},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
