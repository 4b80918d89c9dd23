package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/richxcame/moto-showroom/pkg/logger"
	"go.uber.org/zap"
)

// ErrPermanent marks failures that must not be retried
var ErrPermanent = errors.New("permanent failure")

type permanentError struct {
	err error
}

func (e *permanentError) Error() string   { return e.err.Error() }
func (e *permanentError) Unwrap() []error { return []error{e.err, ErrPermanent} }

// Permanent wraps err so that Do gives up immediately
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// RetryConfig defines the configuration for retry behavior
type RetryConfig struct {
	// MaxAttempts counts the first try; values below 1 mean a single try
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
	// EnableJitter draws each wait uniformly from [0, backoff)
	EnableJitter bool
	// RetryableChecker decides which errors earn another attempt.
	// Nil retries everything except context errors.
	RetryableChecker func(error) bool
}

// SubmissionRetryConfig suits user-facing hand-offs where the client is waiting
func SubmissionRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        2 * time.Second,
		BackoffMultiplier: 2.0,
		EnableJitter:      true,
	}
}

// Do runs op until it succeeds, fails permanently, runs out of attempts or
// ctx ends, backing off exponentially in between. Attempts, backoffs and
// totals are recorded under name.
func Do(ctx context.Context, config RetryConfig, name string, op func(context.Context) error) error {
	attempts := max(config.MaxAttempts, 1)
	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			RecordRetryOperation(name, time.Since(start).Seconds(), attempt, false)
			return err
		}

		err := op(ctx)
		RecordRetryAttempt(name, err == nil)
		if err == nil {
			RecordRetryOperation(name, time.Since(start).Seconds(), attempt, true)
			if attempt > 1 {
				logger.InfoContext(ctx, "operation succeeded after retry",
					zap.String("operation", name),
					zap.Int("attempt", attempt),
				)
			}
			return nil
		}
		lastErr = err

		if !shouldRetry(err, config) {
			RecordRetryOperation(name, time.Since(start).Seconds(), attempt, false)
			return err
		}
		if attempt == attempts {
			break
		}

		backoff := calculateBackoff(attempt, config)
		RecordRetryBackoff(name, backoff.Seconds())
		logger.DebugContext(ctx, "retrying operation",
			zap.String("operation", name),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			RecordRetryOperation(name, time.Since(start).Seconds(), attempt, false)
			return ctx.Err()
		case <-timer.C:
		}
	}

	logger.WarnContext(ctx, "operation failed after all attempts",
		zap.String("operation", name),
		zap.Int("attempts", attempts),
		zap.Error(lastErr),
	)
	RecordRetryOperation(name, time.Since(start).Seconds(), attempts, false)
	return lastErr
}

// calculateBackoff returns initial * multiplier^(attempt-1), capped and jittered
func calculateBackoff(attempt int, config RetryConfig) time.Duration {
	backoff := float64(config.InitialBackoff) * math.Pow(config.BackoffMultiplier, float64(attempt-1))
	if config.MaxBackoff > 0 && backoff > float64(config.MaxBackoff) {
		backoff = float64(config.MaxBackoff)
	}

	d := time.Duration(backoff)
	if config.EnableJitter && d > 0 {
		d = time.Duration(rand.Int63n(int64(d)))
	}
	return d
}

func shouldRetry(err error, config RetryConfig) bool {
	if err == nil || errors.Is(err, ErrPermanent) {
		return false
	}
	if config.RetryableChecker != nil {
		return config.RetryableChecker(err)
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
