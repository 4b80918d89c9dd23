package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/richxcame/moto-showroom/internal/wizard"
	"github.com/richxcame/moto-showroom/pkg/cache"
	"github.com/richxcame/moto-showroom/pkg/logger"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("wizard session not found")

// Session is one visitor's run through a wizard
type Session struct {
	ID        string       `json:"id"`
	Kind      Kind         `json:"kind"`
	State     wizard.State `json:"state"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// SessionStore persists sessions between requests. Values come back as
// decoded JSON; callers restore them against the wizard definition. Both
// stores expire a session after ttl without reads or writes.
type SessionStore interface {
	Get(ctx context.Context, kind Kind, id string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, kind Kind, id string) error
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. Entries are stored encoded so a
// caller never shares state with the store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an in-process store. A zero ttl never expires.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, kind Kind, id string) (*Session, error) {
	key := cache.Keys.WizardSession(string(kind), id)

	m.mu.Lock()
	entry, ok := m.entries[key]
	switch {
	case ok && m.expired(entry):
		delete(m.entries, key)
		ok = false
	case ok && m.ttl > 0:
		entry.expiresAt = m.now().Add(m.ttl)
		m.entries[key] = entry
	}
	m.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	var sess Session
	if err := json.Unmarshal(entry.data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (m *MemoryStore) Save(_ context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}

	entry := memoryEntry{data: data}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.entries[cache.Keys.WizardSession(string(sess.Kind), sess.ID)] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, kind Kind, id string) error {
	m.mu.Lock()
	delete(m.entries, cache.Keys.WizardSession(string(kind), id))
	m.mu.Unlock()
	return nil
}

// Sweep drops expired sessions and returns how many were removed
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, entry := range m.entries {
		if m.expired(entry) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryStore) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt)
}

// RedisStore keeps sessions in redis as JSON under wizard:<kind>:<id>
type RedisStore struct {
	cache *cache.Manager
	ttl   time.Duration
}

// NewRedisStore creates a redis-backed store. A non-positive ttl uses the
// default wizard session TTL.
func NewRedisStore(manager *cache.Manager, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = cache.TTL.WizardSession()
	}
	return &RedisStore{cache: manager, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, kind Kind, id string) (*Session, error) {
	key := cache.Keys.WizardSession(string(kind), id)

	var sess Session
	err := r.cache.Get(ctx, key, &sess)
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	if err := r.cache.Touch(ctx, key, r.ttl); err != nil {
		logger.WarnContext(ctx, "failed to extend wizard session",
			zap.String("session_id", id),
			zap.Error(err),
		)
	}
	return &sess, nil
}

func (r *RedisStore) Save(ctx context.Context, sess *Session) error {
	if err := r.cache.Set(ctx, cache.Keys.WizardSession(string(sess.Kind), sess.ID), sess, r.ttl); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, kind Kind, id string) error {
	return r.cache.Delete(ctx, cache.Keys.WizardSession(string(kind), id))
}
