package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/orkg/license-service/internal/shared/id"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID tags each request with an ID, reusing a well-formed one sent by
// the caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid, ok := id.ParseRequestID(c.GetHeader(RequestIDHeader))
		if !ok {
			rid = id.NewRequestID()
		}
		c.Set(requestIDKey, rid.String())
		c.Header(RequestIDHeader, rid.String())
		c.Next()
	}
}

// GetRequestID returns the ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
