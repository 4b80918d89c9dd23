package common

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/richxcame/moto-showroom/pkg/logger"
	"go.uber.org/zap"
)

// HandleServiceError handles service errors with consistent patterns.
// Returns true if an error was handled (and response was sent), false otherwise.
//
// Usage:
//
//	result, err := h.service.DoSomething(ctx, req)
//	if HandleServiceError(c, err, "failed to do something") {
//	    return
//	}
func HandleServiceError(c *gin.Context, err error, fallbackMessage string) bool {
	if err == nil {
		return false
	}

	if appErr, ok := AsAppError(err); ok {
		if appErr.Code >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		AppErrorResponse(c, appErr)
		return true
	}

	logger.ErrorContext(c.Request.Context(), fallbackMessage,
		zap.Error(err),
	)
	_ = c.Error(err)

	ErrorResponse(c, http.StatusInternalServerError, fallbackMessage)
	return true
}

// ParseUUIDParam parses a UUID from a URL parameter.
// Returns the UUID and true on success, or sends an error response and returns false on failure.
func ParseUUIDParam(c *gin.Context, paramName, displayName string) (uuid.UUID, bool) {
	paramValue := c.Param(paramName)
	if paramValue == "" {
		ErrorResponse(c, http.StatusBadRequest, displayName+" is required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(paramValue)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid "+displayName)
		return uuid.Nil, false
	}

	return id, true
}

// BindJSON binds JSON request body and sends error response on failure.
// Returns true on success, false on failure (response already sent).
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// QueryInt reads an optional integer query parameter. An absent parameter
// yields def; a malformed one sends 400 and returns false.
func QueryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return value, true
}

// QueryFloat reads an optional float query parameter.
func QueryFloat(c *gin.Context, name string, def float64) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return value, true
}
