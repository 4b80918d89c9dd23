package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/richxcame/moto-showroom/pkg/logger"
	redisclient "github.com/richxcame/moto-showroom/pkg/redis"
	"go.uber.org/zap"
)

// ErrMiss is returned by Get when the key is absent or expired
var ErrMiss = errors.New("cache miss")

// Manager handles caching operations with JSON serialization
type Manager struct {
	redis redisclient.ClientInterface
}

// NewManager creates a new cache manager
func NewManager(redis redisclient.ClientInterface) *Manager {
	return &Manager{redis: redis}
}

// Get retrieves a cached value and unmarshals it into result
func (m *Manager) Get(ctx context.Context, key string, result interface{}) error {
	data, err := m.redis.GetString(ctx, key)
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(data), result); err != nil {
		return fmt.Errorf("failed to unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// Set marshals and caches a value with expiration
func (m *Manager) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return m.redis.SetWithExpiration(ctx, key, string(data), ttl)
}

// GetOrSet retrieves from cache or executes fn and caches the result.
// Cache failures never fail the call; fn's result is returned regardless.
func (m *Manager) GetOrSet(ctx context.Context, key string, ttl time.Duration, result interface{}, fn func() (interface{}, error)) (bool, error) {
	err := m.Get(ctx, key, result)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, ErrMiss) {
		logger.WarnContext(ctx, "cache read failed", zap.String("key", key), zap.Error(err))
	}

	data, err := fn()
	if err != nil {
		return false, err
	}

	if err := m.Set(ctx, key, data, ttl); err != nil {
		logger.WarnContext(ctx, "cache write failed", zap.String("key", key), zap.Error(err))
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return false, err
	}
	return false, json.Unmarshal(jsonData, result)
}

// Delete removes keys from cache
func (m *Manager) Delete(ctx context.Context, keys ...string) error {
	return m.redis.Delete(ctx, keys...)
}

// Touch extends the TTL of a key
func (m *Manager) Touch(ctx context.Context, key string, ttl time.Duration) error {
	return m.redis.Expire(ctx, key, ttl)
}

// CacheKeys defines common cache key patterns
type CacheKeys struct{}

var Keys = CacheKeys{}

// WizardSession returns the key for a wizard session of the given kind
func (k CacheKeys) WizardSession(kind, sessionID string) string {
	return fmt.Sprintf("wizard:%s:%s", kind, sessionID)
}

// FinanceQuote returns the key for a cached loan quote
func (k CacheKeys) FinanceQuote(principal float64, annualRate float64, months int) string {
	return fmt.Sprintf("finance:quote:%.2f:%.4f:%d", principal, annualRate, months)
}

// TTL defines common cache TTL durations
type CacheTTL struct{}

var TTL = CacheTTL{}

func (t CacheTTL) Short() time.Duration         { return 5 * time.Minute }
func (t CacheTTL) Medium() time.Duration        { return 15 * time.Minute }
func (t CacheTTL) WizardSession() time.Duration { return 2 * time.Hour }
