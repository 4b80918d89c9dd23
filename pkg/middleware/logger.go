package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/moto-showroom/pkg/logger"
	"github.com/richxcame/moto-showroom/pkg/security"
	"github.com/richxcame/moto-showroom/pkg/tracing"
	"go.uber.org/zap"
)

const (
	maxLoggedPayload = 512
	redacted         = "[redacted]"
)

// Lead form fields that identify a customer or their bike
var redactedFields = map[string]bool{
	"firstName":          true,
	"lastName":           true,
	"email":              true,
	"phone":              true,
	"vin":                true,
	"registrationNumber": true,
}

// Paths polled by infrastructure; only their status line is logged
var quietPaths = map[string]bool{
	"/healthz":      true,
	"/health/live":  true,
	"/health/ready": true,
	"/metrics":      true,
}

type responseRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}

func (r *responseRecorder) WriteString(data string) (int, error) {
	r.body.WriteString(data)
	return r.ResponseWriter.WriteString(data)
}

// RequestLogger logs one line per request. Bodies are included with
// contact details redacted, except on probe and metrics paths.
func RequestLogger(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		quiet := quietPaths[path]

		var requestBody string
		recorder := &responseRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		if !quiet {
			requestBody = captureRequestBody(c)
			c.Writer = recorder
		}

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("service", serviceName),
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("route", c.FullPath()),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.Int("response_size", c.Writer.Size()),
		}
		if requestBody != "" {
			fields = append(fields, zap.String("request_body", requestBody))
		}
		if responseBody := redactPayload(recorder.body.Bytes()); responseBody != "" {
			fields = append(fields, zap.String("response_body", responseBody))
		}
		if traceID := tracing.TraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}

		reqLogger := logger.WithContext(c.Request.Context())
		switch {
		case len(c.Errors) > 0:
			fields = append(fields, zap.String("errors", c.Errors.String()))
			reqLogger.Error("Request completed with errors", fields...)
		case quiet:
			reqLogger.Debug("Request completed", fields...)
		default:
			reqLogger.Info("Request completed", fields...)
		}
	}
}

func captureRequestBody(c *gin.Context) string {
	if c.Request == nil || c.Request.Body == nil {
		return ""
	}

	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}

	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	return redactPayload(bodyBytes)
}

// redactPayload masks customer fields in JSON payloads, then flattens and
// caps the text for a single log line
func redactPayload(payload []byte) string {
	if len(payload) == 0 {
		return ""
	}

	var doc interface{}
	if json.Unmarshal(payload, &doc) == nil {
		redactValue(doc)
		if masked, err := json.Marshal(doc); err == nil {
			payload = masked
		}
	}

	text := security.SanitizeString(security.StripHTMLTags(string(payload)))
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > maxLoggedPayload {
		text = text[:maxLoggedPayload] + "...(truncated)"
	}
	return text
}

func redactValue(v interface{}) {
	switch node := v.(type) {
	case map[string]interface{}:
		for key, child := range node {
			if redactedFields[key] {
				node[key] = redacted
				continue
			}
			redactValue(child)
		}
	case []interface{}:
		for _, child := range node {
			redactValue(child)
		}
	}
}
