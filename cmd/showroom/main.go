package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/richxcame/moto-showroom/internal/booking"
	"github.com/richxcame/moto-showroom/internal/catalog"
	"github.com/richxcame/moto-showroom/internal/finance"
	"github.com/richxcame/moto-showroom/internal/wizard"
	"github.com/richxcame/moto-showroom/pkg/cache"
	"github.com/richxcame/moto-showroom/pkg/common"
	"github.com/richxcame/moto-showroom/pkg/config"
	"github.com/richxcame/moto-showroom/pkg/errors"
	"github.com/richxcame/moto-showroom/pkg/eventbus"
	"github.com/richxcame/moto-showroom/pkg/health"
	"github.com/richxcame/moto-showroom/pkg/logger"
	"github.com/richxcame/moto-showroom/pkg/middleware"
	"github.com/richxcame/moto-showroom/pkg/ratelimit"
	redisclient "github.com/richxcame/moto-showroom/pkg/redis"
	"github.com/richxcame/moto-showroom/pkg/tracing"
	"go.uber.org/zap"
)

const (
	serviceName = "showroom-service"
	version     = "1.0.0"

	leadLogConsumer = "showroom-lead-log"
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	if err := logger.Init(cfg.Server.Environment, serviceName); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting showroom service",
		zap.String("service", serviceName),
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
	)

	// Initialize Sentry for error tracking
	sentryConfig := errors.DefaultSentryConfig(serviceName)
	sentryConfig.Release = version
	if err := errors.InitSentry(sentryConfig); err != nil {
		logger.Warn("Failed to initialize Sentry, continuing without error tracking", zap.Error(err))
	} else {
		defer errors.Flush(2 * time.Second)
		logger.Info("Sentry error tracking initialized successfully")
	}

	// Initialize OpenTelemetry tracer
	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.Config{
			ServiceName:    serviceName,
			ServiceVersion: cfg.Tracing.ServiceVersion,
			Environment:    cfg.Server.Environment,
			OTLPEndpoint:   cfg.Tracing.OTLPEndpoint,
			SampleRate:     cfg.Tracing.SampleRate,
			Enabled:        true,
		}, logger.Get())
		if err != nil {
			logger.Warn("Failed to initialize tracer, continuing without tracing", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					logger.Warn("Failed to shutdown tracer", zap.Error(err))
				}
			}()
			logger.Info("OpenTelemetry tracing initialized successfully")
		}
	}

	healthChecks := make(map[string]func() error)

	// Redis backs wizard sessions and the quote cache when enabled
	var cacheManager *cache.Manager
	if cfg.Redis.Enabled {
		redisClient, err := redisclient.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("Failed to close redis client", zap.Error(err))
			}
		}()
		cacheManager = cache.NewManager(redisClient)
		healthChecks["redis"] = health.NewCachedChecker(health.RedisChecker(redisClient), 5*time.Second).Check
		logger.Info("Connected to redis", zap.String("addr", cfg.Redis.RedisAddr()))
	}

	// NATS receives submitted leads when enabled
	var bus *eventbus.Bus
	if cfg.NATS.Enabled {
		busCfg := eventbus.DefaultConfig()
		busCfg.URL = cfg.NATS.URL
		busCfg.Name = serviceName
		busCfg.StreamName = cfg.NATS.StreamName
		busCfg.MaxDeliver = cfg.NATS.MaxDeliver

		bus, err = eventbus.New(busCfg)
		if err != nil {
			logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer bus.Close()

		if err := bus.Subscribe(rootCtx, eventbus.SubjectLeadsAll, leadLogConsumer, logLead); err != nil {
			logger.Warn("Failed to subscribe lead log", zap.Error(err))
		}
		healthChecks["nats"] = health.ConnectionChecker("nats", bus.Connected)
	}

	policy, err := catalog.ParseLookupPolicy(cfg.Catalog.LookupPolicy)
	if err != nil {
		logger.Fatal("Invalid catalog lookup policy", zap.Error(err))
	}
	store := catalog.DefaultStore()
	catalogService := catalog.NewService(store, policy)
	financeService := finance.NewService(store, cacheManager, cfg.Finance)

	ref := booking.NewReference(store)

	var sessions booking.SessionStore
	if cacheManager != nil {
		sessions = booking.NewRedisStore(cacheManager, cfg.Booking.SessionTTL())
	} else {
		memory := booking.NewMemoryStore(cfg.Booking.SessionTTL())
		go sweepSessions(rootCtx, memory)
		sessions = memory
	}

	var submitter wizard.Submitter = booking.NewLogSubmitter(cfg.Booking.SubmitLatency())
	if bus != nil {
		submitter = booking.NewEventSubmitter(bus, ref, cfg.Booking.SubmitRetryAttempts)
	}
	bookingService := booking.NewService(sessions, ref, submitter, nil)

	limiter := ratelimit.New(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	router := gin.New()
	router.Use(middleware.RecoveryWithSentry()) // Custom recovery with Sentry
	router.Use(middleware.SentryMiddleware())   // Sentry integration
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestTimeout(cfg.Server.RequestTimeoutDuration()))
	router.Use(middleware.RequestLogger(serviceName))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins()))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.SanitizeRequest())
	router.Use(middleware.Metrics())

	if cfg.Tracing.Enabled {
		router.Use(middleware.TracingMiddleware(serviceName))
	}

	// Add Sentry error handler (should be near the end of middleware chain)
	router.Use(middleware.ErrorHandler())

	// Health check endpoints
	router.GET("/healthz", common.LivenessProbe(serviceName, version))
	router.GET("/health/live", common.LivenessProbe(serviceName, version))
	router.GET("/health/ready", common.ReadinessProbe(serviceName, version, healthChecks))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	catalog.NewHandler(catalogService).RegisterRoutes(router)
	finance.NewHandler(financeService).RegisterRoutes(router)
	booking.NewHandler(bookingService).RegisterRoutes(router, middleware.RateLimit(limiter, cfg.RateLimit))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancelRoot()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// logLead writes every lead event to the service log
func logLead(ctx context.Context, event *eventbus.Event) error {
	var payload map[string]any
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		errors.CaptureErrorWithContext(ctx, err, map[string]interface{}{
			"event_id": event.ID,
			"type":     event.Type,
		})
		return err
	}
	logger.InfoContext(ctx, "lead received",
		zap.String("event_id", event.ID),
		zap.String("type", event.Type),
		zap.Any("submission_id", payload["submission_id"]),
		zap.Any("session_id", payload["session_id"]),
	)
	return nil
}

func sweepSessions(ctx context.Context, store *booking.MemoryStore) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				logger.Debug("expired wizard sessions removed", zap.Int("count", n))
			}
		}
	}
}
