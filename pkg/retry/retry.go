package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lensdl/pkg/config"
	errs "lensdl/pkg/errors"
	"lensdl/pkg/logger"
)

// Operation is one attempt of a retried call
type Operation func(ctx context.Context) error

// Policy describes how an operation is retried
type Policy struct {
	// MaxAttempts is the total number of attempts; values below 1 mean a single attempt
	MaxAttempts int
	// Backoff picks the delay before the next attempt
	Backoff BackoffStrategy
	// RateLimitBackoff, when set, replaces Backoff after a rate_limit error
	RateLimitBackoff BackoffStrategy
	// RetryIf decides whether an error is worth another attempt
	RetryIf func(error) bool
	// OnRetry is called before sleeping
	OnRetry func(attempt int, err error, delay time.Duration)
	Logger  logger.Logger
}

// DefaultPolicy returns three attempts with exponential backoff
func DefaultPolicy() *Policy {
	return &Policy{
		MaxAttempts:      3,
		Backoff:          DefaultExponentialBackoff(),
		RateLimitBackoff: DefaultRateLimitBackoff(),
		RetryIf:          DefaultRetryIf,
		Logger:           logger.GetLogger(),
	}
}

// FromConfig builds a Policy from the retry section of the configuration.
// A disabled section yields a single-attempt policy.
func FromConfig(cfg config.RetryConfig, log logger.Logger) *Policy {
	if !cfg.Enabled {
		return &Policy{MaxAttempts: 1, Backoff: &ConstantBackoff{}, RetryIf: DefaultRetryIf, Logger: log}
	}
	return &Policy{
		MaxAttempts: cfg.MaxAttempts,
		Backoff: &ExponentialBackoff{
			BaseDelay:    cfg.BaseDelay,
			MaxDelay:     cfg.MaxDelay,
			Multiplier:   cfg.Multiplier,
			JitterFactor: cfg.JitterFactor,
		},
		RateLimitBackoff: DefaultRateLimitBackoff(),
		RetryIf:          DefaultRetryIf,
		Logger:           log,
	}
}

// DefaultRetryIf retries typed errors whose type is retryable and any
// untyped error except context cancellation.
func DefaultRetryIf(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var typed *errs.Error
	if errors.As(err, &typed) {
		return errs.IsRetryable(typed.Type)
	}
	return true
}

// Do runs op until it succeeds, fails with a non-retryable error, runs
// out of attempts, or ctx is done.
func Do(ctx context.Context, op Operation, p *Policy) error {
	if p == nil {
		p = DefaultPolicy()
	}
	log := p.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	retryIf := p.RetryIf
	if retryIf == nil {
		retryIf = DefaultRetryIf
	}
	maxAttempts := max(p.MaxAttempts, 1)

	var lastErr error
	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			if attempt > 1 {
				log.DebugWithFields("operation succeeded after retry", map[string]interface{}{
					"attempt": attempt,
				})
			}
			return nil
		}
		lastErr = err

		if !retryIf(err) {
			return err
		}
		if attempt >= maxAttempts {
			if maxAttempts == 1 {
				return err
			}
			log.ErrorWithFields("max retry attempts exceeded", map[string]interface{}{
				"attempts":   attempt,
				"last_error": lastErr.Error(),
			})
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", maxAttempts, lastErr)
		}

		backoff := p.Backoff
		if p.RateLimitBackoff != nil && errs.TypeOf(err) == errs.ErrorTypeRateLimit {
			backoff = p.RateLimitBackoff
		}
		var delay time.Duration
		if backoff != nil {
			delay = backoff.NextDelay(attempt)
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err, delay)
		}
		log.WarnWithFields("retrying operation", map[string]interface{}{
			"attempt":      attempt,
			"error":        err.Error(),
			"delay_ms":     delay.Milliseconds(),
			"max_attempts": maxAttempts,
		})

		if err := Wait(ctx, delay); err != nil {
			return fmt.Errorf("retry cancelled: %w", err)
		}
	}
}

// DoWithResult is Do for operations that produce a value
func DoWithResult[T any](ctx context.Context, op func(ctx context.Context) (T, error), p *Policy) (T, error) {
	var result T
	err := Do(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	}, p)
	return result, err
}
