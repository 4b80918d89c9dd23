package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Result describes the outcome of a limiter evaluation
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per identity (usually the client IP).
// Buckets idle for longer than the idle window are evicted on access.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
	lastGC   time.Time
}

// New creates a limiter allowing rps sustained requests with the given burst
func New(rps float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

// Allow consumes one token for identity
func (l *Limiter) Allow(identity string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictIdle(now)

	v, ok := l.visitors[identity]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[identity] = v
	}
	v.lastSeen = now

	reservation := v.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return Result{Allowed: false, Limit: l.burst, RetryAfter: time.Second}
	}

	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return Result{Allowed: false, Limit: l.burst, RetryAfter: delay}
	}

	remaining := int(v.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: true, Limit: l.burst, Remaining: remaining}
}

// Size returns the number of tracked identities
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

func (l *Limiter) evictIdle(now time.Time) {
	if now.Sub(l.lastGC) < time.Minute {
		return
	}
	l.lastGC = now
	for id, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idle {
			delete(l.visitors, id)
		}
	}
}
