package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockClient(t *testing.T) (*Client, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	return Wrap(db), mock
}

func TestClient_SetAndGet(t *testing.T) {
	client, mock := newMockClient(t)
	ctx := context.Background()

	mock.ExpectSet("wizard:test-rides:abc", "payload", 2*time.Hour).SetVal("OK")
	mock.ExpectGet("wizard:test-rides:abc").SetVal("payload")

	require.NoError(t, client.SetWithExpiration(ctx, "wizard:test-rides:abc", "payload", 2*time.Hour))
	value, err := client.GetString(ctx, "wizard:test-rides:abc")
	require.NoError(t, err)
	assert.Equal(t, "payload", value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_GetMissing(t *testing.T) {
	client, mock := newMockClient(t)
	client = client.WithRetry(3)

	mock.ExpectGet("missing").RedisNil()

	_, err := client.GetString(context.Background(), "missing")
	assert.ErrorIs(t, err, redis.Nil)
	assert.NoError(t, mock.ExpectationsWereMet(), "a missing key is not retried")
}

func TestClient_DeleteAndExpire(t *testing.T) {
	client, mock := newMockClient(t)
	ctx := context.Background()

	mock.ExpectDel("a", "b").SetVal(2)
	mock.ExpectExpire("c", time.Hour).SetVal(true)

	require.NoError(t, client.Delete(ctx, "a", "b"))
	require.NoError(t, client.Expire(ctx, "c", time.Hour))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_Ping(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectPing().SetErr(errors.New("connection refused"))
	assert.Error(t, client.Ping(context.Background()))
}

func TestClient_RetriesTransientErrors(t *testing.T) {
	client, mock := newMockClient(t)
	client = client.WithRetry(3)

	mock.ExpectGet("quote").SetErr(errors.New("i/o timeout"))
	mock.ExpectGet("quote").SetVal("cached")

	value, err := client.GetString(context.Background(), "quote")
	require.NoError(t, err)
	assert.Equal(t, "cached", value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_SingleAttemptByDefault(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectSet("k", "v", time.Minute).SetErr(errors.New("connection refused"))

	err := client.SetWithExpiration(context.Background(), "k", "v", time.Minute)
	assert.EqualError(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_GivesUpOnPermanentErrors(t *testing.T) {
	client, mock := newMockClient(t)
	client = client.WithRetry(3)

	mock.ExpectSet("k", "v", time.Minute).SetErr(errors.New("WRONGTYPE Operation against a key holding the wrong kind of value"))

	err := client.SetWithExpiration(context.Background(), "k", "v", time.Minute)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"key missing", redis.Nil, false},
		{"cancelled", context.Canceled, false},
		{"wrapped deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), false},
		{"connection refused", errors.New("dial tcp 127.0.0.1:6379: connection refused"), true},
		{"loading", errors.New("LOADING Redis is loading the dataset in memory"), true},
		{"wrong type", errors.New("WRONGTYPE Operation against a key"), false},
		{"auth", errors.New("NOAUTH Authentication required"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransient(tt.err))
		})
	}
}

func TestCommandRetryConfig(t *testing.T) {
	assert.Equal(t, 1, commandRetryConfig(0).MaxAttempts)
	assert.Equal(t, 4, commandRetryConfig(4).MaxAttempts)
	assert.NotNil(t, commandRetryConfig(1).RetryableChecker)
}
