package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/richxcame/moto-showroom/pkg/config"
	"github.com/richxcame/moto-showroom/pkg/resilience"
	"github.com/richxcame/moto-showroom/pkg/tracing"
)

const tracerName = "redis"

// Client wraps the Redis client. Key operations are traced and retried on
// transient failures.
type Client struct {
	*redis.Client
	retry resilience.RetryConfig
}

// NewRedisClient creates a new Redis client
func NewRedisClient(cfg *config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to connect to redis: %w", err)
	}

	return Wrap(client).WithRetry(cfg.RetryAttempts), nil
}

// Wrap adapts an existing go-redis client, e.g. one built by redismock.
// The result makes a single attempt per command.
func Wrap(client *redis.Client) *Client {
	return &Client{Client: client, retry: commandRetryConfig(1)}
}

// WithRetry returns a copy of c that makes up to attempts tries per command
func (c *Client) WithRetry(attempts int) *Client {
	return &Client{Client: c.Client, retry: commandRetryConfig(attempts)}
}

// SetWithExpiration sets a key-value pair with expiration
func (c *Client) SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.run(ctx, "set", key, func(ctx context.Context) error {
		return c.Set(ctx, key, value, expiration).Err()
	})
}

// GetString gets a string value by key. A missing key returns redis.Nil.
func (c *Client) GetString(ctx context.Context, key string) (string, error) {
	var value string
	err := c.run(ctx, "get", key, func(ctx context.Context) error {
		var err error
		value, err = c.Get(ctx, key).Result()
		return err
	})
	return value, err
}

// Delete deletes keys
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.run(ctx, "del", strings.Join(keys, " "), func(ctx context.Context) error {
		return c.Del(ctx, keys...).Err()
	})
}

// Expire sets an expiration on a key
func (c *Client) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return c.run(ctx, "expire", key, func(ctx context.Context) error {
		return c.Client.Expire(ctx, key, expiration).Err()
	})
}

// Ping checks connectivity, used by the readiness probe
func (c *Client) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// Close closes the Redis client
func (c *Client) Close() error {
	return c.Client.Close()
}

func (c *Client) run(ctx context.Context, command, key string, fn func(context.Context) error) error {
	return tracing.TraceRedisCommand(ctx, tracerName, command, key, func(ctx context.Context) error {
		return resilience.Do(ctx, c.retry, "redis."+command, fn)
	})
}
