package common_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/richxcame/moto-showroom/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(method, target string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if body != "" {
		c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
	} else {
		c.Request = httptest.NewRequest(method, target, nil)
	}
	return c, w
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		fallbackMsg    string
		expectHandled  bool
		expectStatus   int
		expectContains string
	}{
		{
			name:          "nil error returns false",
			err:           nil,
			fallbackMsg:   "failed",
			expectHandled: false,
		},
		{
			name:           "AppError is handled",
			err:            common.NewNotFoundError("bike not found", nil),
			fallbackMsg:    "failed to get bike",
			expectHandled:  true,
			expectStatus:   http.StatusNotFound,
			expectContains: "bike not found",
		},
		{
			name:           "wrapped AppError is handled",
			err:            fmt.Errorf("lookup: %w", common.NewBadRequestError("invalid id", nil)),
			fallbackMsg:    "failed",
			expectHandled:  true,
			expectStatus:   http.StatusBadRequest,
			expectContains: "invalid id",
		},
		{
			name:           "regular error uses fallback",
			err:            errors.New("redis down"),
			fallbackMsg:    "failed to load session",
			expectHandled:  true,
			expectStatus:   http.StatusInternalServerError,
			expectContains: "failed to load session",
		},
		{
			name:           "validation error carries fields",
			err:            common.NewValidationError("step is incomplete", map[string]string{"email": "Please enter a valid email address"}),
			fallbackMsg:    "failed",
			expectHandled:  true,
			expectStatus:   http.StatusUnprocessableEntity,
			expectContains: "Please enter a valid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext(http.MethodGet, "/test", "")

			handled := common.HandleServiceError(c, tt.err, tt.fallbackMsg)
			assert.Equal(t, tt.expectHandled, handled)

			if tt.expectHandled {
				assert.Equal(t, tt.expectStatus, w.Code)
				assert.Contains(t, w.Body.String(), tt.expectContains)
			}
		})
	}
}

func TestParseUUIDParam(t *testing.T) {
	valid := uuid.New()

	tests := []struct {
		name       string
		value      string
		expectOK   bool
		expectCode int
	}{
		{"valid uuid", valid.String(), true, http.StatusOK},
		{"empty", "", false, http.StatusBadRequest},
		{"malformed", "not-a-uuid", false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext(http.MethodGet, "/test", "")
			c.Params = gin.Params{{Key: "id", Value: tt.value}}

			id, ok := common.ParseUUIDParam(c, "id", "session ID")
			assert.Equal(t, tt.expectOK, ok)
			if tt.expectOK {
				assert.Equal(t, valid, id)
			} else {
				assert.Equal(t, tt.expectCode, w.Code)
			}
		})
	}
}

func TestBindJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name" binding:"required"`
	}

	t.Run("valid body", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "/test", `{"name":"Rebel 500"}`)
		var p payload
		require.True(t, common.BindJSON(c, &p))
		assert.Equal(t, "Rebel 500", p.Name)
	})

	t.Run("invalid body", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/test", `{"name":`)
		var p payload
		assert.False(t, common.BindJSON(c, &p))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestQueryIntAndFloat(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/test?months=24&rate=9.5", "")

	months, ok := common.QueryInt(c, "months", 36)
	require.True(t, ok)
	assert.Equal(t, 24, months)

	rate, ok := common.QueryFloat(c, "rate", 0)
	require.True(t, ok)
	assert.InDelta(t, 9.5, rate, 0.0001)

	missing, ok := common.QueryInt(c, "down_payment", 7)
	require.True(t, ok)
	assert.Equal(t, 7, missing)

	c, w := newContext(http.MethodGet, "/test?months=two", "")
	_, ok = common.QueryInt(c, "months", 36)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReadinessProbe(t *testing.T) {
	t.Run("all checks healthy", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "/health/ready", "")
		common.ReadinessProbe("showroom", "1.0.0", map[string]func() error{
			"redis": func() error { return nil },
		})(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ready"`)
	})

	t.Run("failing check", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "/health/ready", "")
		common.ReadinessProbe("showroom", "1.0.0", map[string]func() error{
			"redis": func() error { return nil },
			"nats":  func() error { return errors.New("not connected") },
		})(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "not connected")
	})
}
