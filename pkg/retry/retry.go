// Package retry wraps a single asynchronous operation with a fixed-delay,
// bounded-attempt retry policy keyed off the transport error taxonomy.
package retry

import (
	"context"
	"time"

	"github.com/harmony-haven/haven-client/internal/logger"
	"github.com/harmony-haven/haven-client/pkg/httpclient"
)

const (
	DefaultMaxAttempts = 3
	DefaultDelay       = time.Second
)

// Policy reissues an operation on transient failures. The delay is fixed,
// not exponential; the backend's flakiness is short-lived by observation
// and a flat one-second pause recovers most of it.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Log         logger.Logger
}

// NewPolicy builds a policy with defaults substituted for non-positive values.
func NewPolicy(maxAttempts int, delay time.Duration, log logger.Logger) Policy {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return Policy{MaxAttempts: maxAttempts, Delay: delay, Log: logger.Ensure(log)}
}

// Operation is one attempt of the wrapped call.
type Operation[T any] func(ctx context.Context) (T, error)

// Do runs op until it succeeds, fails with a non-retryable error, or the
// attempt budget is spent. Only connection, timeout and server errors are
// retried. Retries may run on a different goroutine schedule than the
// caller; the terminal result is delivered exactly once.
func Do[T any](ctx context.Context, p Policy, op Operation[T]) (T, error) {
	var zero T
	log := logger.Ensure(p.Log)

	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	delay := p.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !httpclient.Retryable(err) {
			return zero, err
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}

		log.WarnObj("retrying after transient failure", "retry_meta", map[string]any{
			"attempt":      attempt,
			"max_attempts": maxAttempts,
			"delay":        delay.String(),
			"kind":         httpclient.KindOf(err).String(),
		})

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, httpclient.ClassifyTransportError(ctx.Err())
		case <-timer.C:
		}
	}

	return zero, lastErr
}
