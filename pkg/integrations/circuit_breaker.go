package integrations

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/yair/media-stats/pkg/domain"
	"github.com/yair/media-stats/pkg/logging"
	"github.com/yair/media-stats/pkg/metrics"
)

// BreakerConfig tunes the breaker around an upstream source.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	MinRequests      uint32
	FailureThreshold float64
}

func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		MinRequests:      5,
		FailureThreshold: 0.6,
	}
}

// CircuitBreakerSource rejects calls while the upstream keeps failing at the
// transport or 5xx level. It never retries: each call reaches the wrapped
// source at most once.
type CircuitBreakerSource struct {
	source domain.TopArtistsSource
	cb     *gobreaker.CircuitBreaker[[]domain.Artist]
	name   string
}

func NewCircuitBreakerSource(source domain.TopArtistsSource, cfg BreakerConfig) *CircuitBreakerSource {
	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]domain.Artist](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &CircuitBreakerSource{source: source, cb: cb, name: cfg.Name}
}

func (s *CircuitBreakerSource) TopArtists(ctx context.Context, req domain.TopArtistsRequest) ([]domain.Artist, error) {
	artists, err := s.cb.Execute(func() ([]domain.Artist, error) {
		return s.source.TopArtists(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		logging.Ctx(ctx).Warn().Err(err).Str("breaker", s.name).Msg("upstream call rejected")
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	return artists, err
}

func (s *CircuitBreakerSource) State() gobreaker.State {
	return s.cb.State()
}

// isBreakerSuccess counts only outages against the breaker. Bad input and
// shape errors are the caller's problem, not the upstream's health.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var upstreamErr *domain.UpstreamError
	if !errors.As(err, &upstreamErr) {
		return false
	}
	switch upstreamErr.Kind {
	case domain.UpstreamTransport:
		return errors.Is(err, context.Canceled)
	case domain.UpstreamStatus:
		return upstreamErr.StatusCode < http.StatusInternalServerError
	default:
		return true
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
