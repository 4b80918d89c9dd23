package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	NATS      NATSConfig
	RateLimit RateLimitConfig
	Catalog   CatalogConfig
	Booking   BookingConfig
	Finance   FinanceConfig
	Tracing   TracingConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ServiceName     string
	ReadTimeout     int
	WriteTimeout    int
	RequestTimeout  int    // seconds, applied per request by middleware
	ShutdownTimeout int    // seconds
	CORSOrigins     string // Comma-separated list of allowed origins
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	// RetryAttempts bounds attempts per command, including the first
	RetryAttempts int
}

// NATSConfig holds event bus configuration
type NATSConfig struct {
	Enabled    bool
	URL        string
	StreamName string
	MaxDeliver int
}

// RateLimitConfig holds per-client limits for lead capture endpoints
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

// CatalogConfig controls catalog lookups
type CatalogConfig struct {
	// LookupPolicy is "strict" (unknown ids are not found) or "fallback"
	// (unknown ids render the sample model).
	LookupPolicy string
}

// BookingConfig controls wizard sessions and lead submission
type BookingConfig struct {
	SessionTTLMinutes   int
	SubmitLatencyMillis int
	SubmitRetryAttempts int
}

// FinanceConfig holds estimator defaults
type FinanceConfig struct {
	DefaultAnnualRate  float64
	DefaultTenureMonth int
	QuoteCacheMinutes  int
}

// TracingConfig holds OpenTelemetry settings
type TracingConfig struct {
	Enabled        bool
	ServiceVersion string
	OTLPEndpoint   string
	SampleRate     float64
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			ServiceName:     serviceName,
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 10),
			RequestTimeout:  getEnvAsInt("REQUEST_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
			CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),

			RetryAttempts: getEnvAsInt("REDIS_RETRY_ATTEMPTS", 3),
		},
		NATS: NATSConfig{
			Enabled:    getEnvAsBool("NATS_ENABLED", false),
			URL:        getEnv("NATS_URL", "nats://localhost:4222"),
			StreamName: getEnv("NATS_STREAM", "SHOWROOM"),
			MaxDeliver: getEnvAsInt("NATS_MAX_DELIVER", 5),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("LEADS_RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getEnvAsFloat("LEADS_RATE_LIMIT_RPS", 5),
			Burst:             getEnvAsInt("LEADS_RATE_LIMIT_BURST", 20),
		},
		Catalog: CatalogConfig{
			LookupPolicy: strings.ToLower(getEnv("CATALOG_LOOKUP_POLICY", "strict")),
		},
		Booking: BookingConfig{
			SessionTTLMinutes:   getEnvAsInt("SESSION_TTL_MINUTES", 120),
			SubmitLatencyMillis: getEnvAsInt("SUBMIT_LATENCY_MS", 1500),
			SubmitRetryAttempts: getEnvAsInt("SUBMIT_RETRY_ATTEMPTS", 3),
		},
		Finance: FinanceConfig{
			DefaultAnnualRate:  getEnvAsFloat("FINANCE_DEFAULT_RATE", 9.5),
			DefaultTenureMonth: getEnvAsInt("FINANCE_DEFAULT_MONTHS", 36),
			QuoteCacheMinutes:  getEnvAsInt("FINANCE_QUOTE_CACHE_MINUTES", 15),
		},
		Tracing: TracingConfig{
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			SampleRate:     getEnvAsFloat("OTEL_TRACE_SAMPLE_RATE", 0),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Catalog.LookupPolicy {
	case "strict", "fallback":
	default:
		return fmt.Errorf("invalid CATALOG_LOOKUP_POLICY value: %q", c.Catalog.LookupPolicy)
	}

	if c.Booking.SessionTTLMinutes <= 0 {
		c.Booking.SessionTTLMinutes = 120
	}
	if c.Booking.SubmitLatencyMillis < 0 {
		c.Booking.SubmitLatencyMillis = 0
	}
	if c.Booking.SubmitRetryAttempts <= 0 {
		c.Booking.SubmitRetryAttempts = 1
	}
	if c.Finance.DefaultTenureMonth <= 0 {
		c.Finance.DefaultTenureMonth = 36
	}
	if c.Finance.DefaultAnnualRate < 0 {
		return fmt.Errorf("invalid FINANCE_DEFAULT_RATE value: %v", c.Finance.DefaultAnnualRate)
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		c.RateLimit.Enabled = false
	}
	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = 15
	}

	return nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// SessionTTL returns how long an idle wizard session is kept
func (c BookingConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// SubmitLatency returns the simulated submission delay
func (c BookingConfig) SubmitLatency() time.Duration {
	return time.Duration(c.SubmitLatencyMillis) * time.Millisecond
}

// QuoteCacheTTL returns the finance quote cache duration
func (c FinanceConfig) QuoteCacheTTL() time.Duration {
	if c.QuoteCacheMinutes <= 0 {
		return 0
	}
	return time.Duration(c.QuoteCacheMinutes) * time.Minute
}

// RequestTimeoutDuration returns the per-request timeout
func (c ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// AllowedOrigins splits CORSOrigins into a trimmed list
func (c ServerConfig) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
