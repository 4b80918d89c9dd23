package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/moto-showroom/pkg/security"
)

const maxSanitizedBodySize = 1 << 20 // 1 MB

// SanitizeRequest strips markup and control characters from query parameters
// and JSON string values before handlers bind them. Line breaks in JSON
// strings are kept.
func SanitizeRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		sanitizeQueryParams(c)
		sanitizeJSONBody(c)
		c.Next()
	}
}

func sanitizeQueryParams(c *gin.Context) {
	query := c.Request.URL.Query()
	changed := false

	for key, values := range query {
		for i, value := range values {
			sanitized := security.SanitizeText(value, 0)
			if sanitized != value {
				query[key][i] = sanitized
				changed = true
			}
		}
	}

	if changed {
		c.Request.URL.RawQuery = query.Encode()
	}
}

func sanitizeJSONBody(c *gin.Context) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return
	}

	if !strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		return
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSanitizedBodySize))
	if err != nil {
		resetRequestBody(c, nil)
		return
	}

	var payload interface{}
	if len(bodyBytes) == 0 || json.Unmarshal(bodyBytes, &payload) != nil {
		resetRequestBody(c, bodyBytes)
		return
	}

	sanitizeJSONValue(&payload)

	sanitizedBytes, err := json.Marshal(payload)
	if err != nil {
		resetRequestBody(c, bodyBytes)
		return
	}

	resetRequestBody(c, sanitizedBytes)
}

func resetRequestBody(c *gin.Context, body []byte) {
	if body == nil {
		c.Request.Body = http.NoBody
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
	c.Request.ContentLength = int64(len(body))
}

func sanitizeJSONValue(value *interface{}) {
	switch v := (*value).(type) {
	case string:
		*value = security.SanitizeMultiline(v, 0)
	case []interface{}:
		for i := range v {
			item := v[i]
			sanitizeJSONValue(&item)
			v[i] = item
		}
	case map[string]interface{}:
		for key, item := range v {
			sanitizeJSONValue(&item)
			v[key] = item
		}
	}
}
