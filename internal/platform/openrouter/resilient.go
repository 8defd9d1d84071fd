package openrouter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker"

	"github.com/tendevs/cards-api/internal/config"
	"github.com/tendevs/cards-api/internal/generation"
)

// completionClient is the surface the resilient decorator wraps. Client
// implements it; tests substitute a stub.
type completionClient interface {
	CreateCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// ResilientClient decorates a completionClient with retry and circuit
// breaking. The breaker sits outside the retry loop: one breaker "request" is
// one full completion attempt including all its retries, so a provider outage
// opens the circuit instead of multiplying retries.
type ResilientClient struct {
	inner    completionClient
	breaker  *gobreaker.CircuitBreaker
	retryCfg config.RetryConfig
	logger   *slog.Logger
}

// Ensure ResilientClient satisfies the interface it decorates.
var _ completionClient = (*ResilientClient)(nil)

// NewResilientClient wraps inner with retry/backoff and a circuit breaker.
// If logger is nil, the process default is used.
func NewResilientClient(
	inner completionClient,
	retryCfg config.RetryConfig,
	breakerCfg config.CircuitBreakerConfig,
	logger *slog.Logger,
) *ResilientClient {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "openrouter_resilient_client"))

	settings := gobreaker.Settings{
		Name:        "openrouter",
		MaxRequests: uint32(breakerCfg.HalfOpenMaxRequests),
		Interval:    time.Duration(breakerCfg.SlidingWindowSeconds) * time.Second,
		Timeout:     time.Duration(breakerCfg.OpenStateSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < uint32(breakerCfg.MinRequests) {
				return false
			}
			failureRate := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRate >= breakerCfg.FailureRateThreshold
		},
		// Only provider-health failures should move the breaker: a bad
		// request or bad credential says nothing about provider availability.
		IsSuccessful: func(err error) bool {
			return err == nil || !generation.IsRetryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &ResilientClient{
		inner:    inner,
		breaker:  gobreaker.NewCircuitBreaker(settings),
		retryCfg: retryCfg,
		logger:   log,
	}
}

// CreateCompletion implements completionClient. When the breaker is open the
// call fails fast with ErrUnavailable without touching the network.
func (r *ResilientClient) CreateCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	result, err := r.breaker.Execute(func() (any, error) {
		return r.callWithRetry(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			r.logger.Warn("provider call rejected by open circuit breaker")
			return nil, fmt.Errorf("%w: circuit breaker open", generation.ErrUnavailable)
		}
		return nil, err
	}
	return result.(*ChatCompletionResponse), nil
}

// callWithRetry runs the inner call under the retry policy. Transient and
// rate-limit errors are retried with exponential backoff; everything else
// fails immediately. A provider Retry-After hint stretches the next backoff
// when it exceeds the computed delay.
func (r *ResilientClient) callWithRetry(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	var resp *ChatCompletionResponse
	var rateLimitHint time.Duration
	attempt := 0

	err := retry.Do(ctx, r.newBackoff(&rateLimitHint), func(ctx context.Context) error {
		attempt++
		res, err := r.inner.CreateCompletion(ctx, req)
		if err != nil {
			rateLimitHint = 0
			var rle *generation.RateLimitError
			if errors.As(err, &rle) {
				rateLimitHint = rle.RetryAfter
			}

			if generation.IsRetryable(err) {
				r.logger.Warn("provider call failed, may retry",
					slog.Int("attempt", attempt),
					slog.String("error", err.Error()))
				return retry.RetryableError(err)
			}

			r.logger.Warn("provider call failed permanently",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			return err
		}

		resp = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// newBackoff builds the exponential backoff: initial delay grown by the
// configured multiplier, capped at the max delay, limited to maxAttempts
// total tries. The hint pointer lets the retried function feed the provider's
// Retry-After into the next delay.
func (r *ResilientClient) newBackoff(hint *time.Duration) retry.Backoff {
	next := time.Duration(r.retryCfg.InitialBackoffMs) * time.Millisecond
	maxDelay := time.Duration(r.retryCfg.MaxBackoffMs) * time.Millisecond

	var b retry.Backoff = retry.BackoffFunc(func() (time.Duration, bool) {
		delay := next
		next = time.Duration(float64(next) * r.retryCfg.Multiplier)
		if *hint > delay {
			delay = *hint
		}
		return delay, false
	})
	b = retry.WithCappedDuration(maxDelay, b)
	b = retry.WithMaxRetries(uint64(r.retryCfg.MaxAttempts-1), b)
	return b
}
