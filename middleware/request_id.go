package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"
	// ContextRequestIDKey is where the id is stored on the gin context.
	ContextRequestIDKey = "request_id"
)

// RequestID reuses a sane inbound X-Request-ID or generates a uuid, and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
