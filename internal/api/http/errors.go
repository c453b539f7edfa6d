package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orkg/license-service/internal/domain/license"
	"github.com/orkg/license-service/internal/infrastructure/resilience"
)

// statusFor maps resolution errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, license.ErrInvalidURI), errors.Is(err, license.ErrUnsupportedURI):
		return http.StatusBadRequest
	case errors.Is(err, license.ErrLicenseNotFound):
		return http.StatusNotFound
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrTooManyRequests):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		// The provider that owned the URI failed upstream
		return http.StatusBadGateway
	}
}

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":     msg,
		"status":    status,
		"path":      c.Request.URL.Path,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
