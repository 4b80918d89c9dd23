package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Checker is a health check function that returns an error if unhealthy
type Checker func() error

// Pinger is anything that can be pinged, e.g. the redis client wrapper
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckerConfig holds configuration for health checkers
type CheckerConfig struct {
	Timeout time.Duration
}

// DefaultCheckerConfig returns default configuration for health checkers
func DefaultCheckerConfig() CheckerConfig {
	return CheckerConfig{
		Timeout: 2 * time.Second,
	}
}

// RedisChecker returns a health check function for Redis
func RedisChecker(client Pinger) Checker {
	return PingChecker("redis", client, DefaultCheckerConfig())
}

// PingChecker pings a dependency with a timeout
func PingChecker(name string, client Pinger, cfg CheckerConfig) Checker {
	return func() error {
		if client == nil {
			return fmt.Errorf("%s client is nil", name)
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()

		if err := client.Ping(ctx); err != nil {
			return fmt.Errorf("%s ping failed: %w", name, err)
		}
		return nil
	}
}

// ConnectionChecker reports a dependency that exposes its connection state,
// such as the NATS event bus
func ConnectionChecker(name string, connected func() bool) Checker {
	return func() error {
		if !connected() {
			return fmt.Errorf("%s disconnected", name)
		}
		return nil
	}
}

// CachedChecker caches the result of a health check for a given duration.
// It is safe for concurrent probes.
type CachedChecker struct {
	mu         sync.Mutex
	checker    Checker
	cacheTTL   time.Duration
	lastCheck  time.Time
	lastResult error
	now        func() time.Time
}

// NewCachedChecker creates a new cached health checker
func NewCachedChecker(checker Checker, cacheTTL time.Duration) *CachedChecker {
	return &CachedChecker{
		checker:  checker,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Check runs the health check, using cached result if still valid
func (c *CachedChecker) Check() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !c.lastCheck.IsZero() && now.Sub(c.lastCheck) < c.cacheTTL {
		return c.lastResult
	}

	c.lastResult = c.checker()
	c.lastCheck = now
	return c.lastResult
}
