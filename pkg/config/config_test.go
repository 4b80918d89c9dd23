package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load("showroom")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "showroom", cfg.Server.ServiceName)
	assert.Equal(t, "strict", cfg.Catalog.LookupPolicy)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 3, cfg.Redis.RetryAttempts)
	assert.False(t, cfg.NATS.Enabled)
	assert.Equal(t, 1500*time.Millisecond, cfg.Booking.SubmitLatency())
	assert.Equal(t, 2*time.Hour, cfg.Booking.SessionTTL())
	assert.Equal(t, 36, cfg.Finance.DefaultTenureMonth)
	assert.InDelta(t, 9.5, cfg.Finance.DefaultAnnualRate, 0.0001)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins())
}

func TestLoadCustomValues(t *testing.T) {
	os.Clearenv()
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_LOOKUP_POLICY", "FALLBACK")
	t.Setenv("SUBMIT_LATENCY_MS", "0")
	t.Setenv("SUBMIT_RETRY_ATTEMPTS", "5")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("FINANCE_DEFAULT_RATE", "11.25")

	cfg, err := Load("showroom")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "fallback", cfg.Catalog.LookupPolicy)
	assert.Equal(t, time.Duration(0), cfg.Booking.SubmitLatency())
	assert.Equal(t, 5, cfg.Booking.SubmitRetryAttempts)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.RedisAddr())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins())
	assert.InDelta(t, 11.25, cfg.Finance.DefaultAnnualRate, 0.0001)
}

func TestLoadRejectsUnknownLookupPolicy(t *testing.T) {
	os.Clearenv()
	t.Setenv("CATALOG_LOOKUP_POLICY", "guess")

	_, err := Load("showroom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOG_LOOKUP_POLICY")
}

func TestLoadNormalizesInvalidNumbers(t *testing.T) {
	os.Clearenv()
	t.Setenv("SESSION_TTL_MINUTES", "-4")
	t.Setenv("SUBMIT_RETRY_ATTEMPTS", "0")
	t.Setenv("LEADS_RATE_LIMIT_RPS", "0")

	cfg, err := Load("showroom")
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Booking.SessionTTLMinutes)
	assert.Equal(t, 1, cfg.Booking.SubmitRetryAttempts)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestFinanceQuoteCacheTTL(t *testing.T) {
	assert.Equal(t, time.Duration(0), FinanceConfig{QuoteCacheMinutes: 0}.QuoteCacheTTL())
	assert.Equal(t, 15*time.Minute, FinanceConfig{QuoteCacheMinutes: 15}.QuoteCacheTTL())
}
