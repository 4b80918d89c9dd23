package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(rps float64, burst int) (*Limiter, *time.Time) {
	l := New(rps, burst)
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestAllow_BurstThenReject(t *testing.T) {
	l, _ := newTestLimiter(1, 3)

	for i := 0; i < 3; i++ {
		res := l.Allow("10.0.0.1")
		require.True(t, res.Allowed, "request %d", i)
		assert.Equal(t, 3, res.Limit)
	}

	res := l.Allow("10.0.0.1")
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, res.RetryAfter, time.Second)
}

func TestAllow_IdentitiesAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, 1)

	assert.True(t, l.Allow("a").Allowed)
	assert.False(t, l.Allow("a").Allowed)
	assert.True(t, l.Allow("b").Allowed)
}

func TestAllow_Refills(t *testing.T) {
	l, now := newTestLimiter(2, 1)

	assert.True(t, l.Allow("a").Allowed)
	assert.False(t, l.Allow("a").Allowed)

	*now = now.Add(600 * time.Millisecond)
	assert.True(t, l.Allow("a").Allowed)
}

func TestAllow_EvictsIdleVisitors(t *testing.T) {
	l, now := newTestLimiter(1, 1)

	l.Allow("a")
	l.Allow("b")
	require.Equal(t, 2, l.Size())

	*now = now.Add(11 * time.Minute)
	l.Allow("c")
	assert.Equal(t, 1, l.Size())
}
