package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/richxcame/moto-showroom/pkg/resilience"
)

// Reply prefixes and dial failures that clear up on their own
var transientMarkers = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"pool timeout",
	"unexpected eof",
	"server closed",
	"loading",
	"busy",
	"tryagain",
	"masterdown",
	"clusterdown",
}

func commandRetryConfig(attempts int) resilience.RetryConfig {
	if attempts <= 0 {
		attempts = 1
	}
	return resilience.RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    25 * time.Millisecond,
		MaxBackoff:        500 * time.Millisecond,
		BackoffMultiplier: 2.0,
		EnableJitter:      true,
		RetryableChecker:  isTransient,
	}
}

// isTransient reports whether a command failure is worth another attempt.
// A missing key is an answer, not a failure.
func isTransient(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
