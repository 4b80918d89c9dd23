package redis

import (
	"context"
	"time"
)

// ClientInterface is the subset of Redis operations the cache layer uses
type ClientInterface interface {
	SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	Expire(ctx context.Context, key string, expiration time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

var _ ClientInterface = (*Client)(nil)
