package resilient

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"
	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/domain/quizModel"
	"github.com/spevenexe/S25-NLP-project/internal/metrics"
	"github.com/spevenexe/S25-NLP-project/internal/rag/llm"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

// Provider wraps another provider with a rate limiter and a circuit breaker.
// While the breaker is open calls fail at once, so the quiz pipeline falls back without waiting.
type Provider struct {
	name    string
	inner   llm.Provider
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	logger  *logger_i.Logger
}

type Settings struct {
	RequestsPerSecond float64
	Burst             int
	TripFailures      uint32
}

func DefaultSettings() Settings {
	return Settings{
		RequestsPerSecond: config.LLMRequestsPerSecond,
		Burst:             config.LLMBurst,
		TripFailures:      config.BreakerTripFailures,
	}
}

func New(name string, inner llm.Provider, s Settings) *Provider {
	logger := logger_i.NewLogger("llm_breaker").With("provider", name)
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: config.BreakerMaxRequests,
		Interval:    config.BreakerInterval,
		Timeout:     config.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.TripFailures
		},
		IsSuccessful: func(err error) bool {
			// a caller giving up is not the provider's fault
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "from", from.String(), "to", to.String())
			metrics.SetBreakerState(name, int(to))
		},
	})
	metrics.SetBreakerState(name, int(gobreaker.StateClosed))
	return &Provider{
		name:    name,
		inner:   inner,
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Limit(s.RequestsPerSecond), s.Burst),
		logger:  logger,
	}
}

func (p *Provider) Complete(ctx context.Context, dialogue quizModel.Dialogue) (string, error) {
	ctx, span := otel.Tracer(config.ServiceName).Start(ctx, "llm.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.provider", p.name),
		attribute.Int("llm.turns", len(dialogue)),
	)

	if err := p.limiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("llm.rate_limited", true))
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.inner.Complete(ctx, dialogue)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			span.SetAttributes(attribute.Bool("llm.circuit_open", true))
			p.logger.WithTrace(ctx).Debug("Breaker rejected completion call")
		}
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return result.(string), nil
}

func (p *Provider) State() gobreaker.State {
	return p.breaker.State()
}
