package common

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string                 `json:"status"`
	Service   string                 `json:"service"`
	Version   string                 `json:"version"`
	Timestamp string                 `json:"timestamp"`
	Uptime    string                 `json:"uptime,omitempty"`
	Checks    map[string]CheckStatus `json:"checks,omitempty"`
}

// CheckStatus represents the status of a single health check
type CheckStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Timestamp string `json:"timestamp"`
}

var (
	startTime = time.Now()
)

// LivenessProbe returns a simple liveness check.
// It always returns 200 OK while the process is serving.
func LivenessProbe(serviceName, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "alive",
			Service:   serviceName,
			Version:   version,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Uptime:    time.Since(startTime).String(),
		})
	}
}

// ReadinessProbe runs the dependency checks in parallel and answers 503 if
// any of them fails.
func ReadinessProbe(serviceName, version string, checks map[string]func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now().UTC()
		results, healthy := runChecks(checks, now)

		status, statusCode := "ready", http.StatusOK
		if !healthy {
			status, statusCode = "not ready", http.StatusServiceUnavailable
		}

		c.JSON(statusCode, HealthResponse{
			Status:    status,
			Service:   serviceName,
			Version:   version,
			Timestamp: now.Format(time.RFC3339),
			Uptime:    time.Since(startTime).String(),
			Checks:    results,
		})
	}
}

func runChecks(checks map[string]func() error, now time.Time) (map[string]CheckStatus, bool) {
	type checkResult struct {
		name     string
		err      error
		duration time.Duration
	}

	resultChan := make(chan checkResult, len(checks))
	var wg sync.WaitGroup

	for name, checkFunc := range checks {
		wg.Add(1)
		go func(n string, cf func() error) {
			defer wg.Done()
			start := time.Now()
			err := cf()
			resultChan <- checkResult{name: n, err: err, duration: time.Since(start)}
		}(name, checkFunc)
	}

	wg.Wait()
	close(resultChan)

	results := make(map[string]CheckStatus, len(checks))
	healthy := true
	for result := range resultChan {
		status := CheckStatus{
			Status:    "healthy",
			Duration:  result.duration.String(),
			Timestamp: now.Format(time.RFC3339),
		}
		if result.err != nil {
			status.Status = "unhealthy"
			status.Message = result.err.Error()
			healthy = false
		}
		results[result.name] = status
	}

	return results, healthy
}
