package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orkg/license-service/internal/domain/dispatch"
	"github.com/orkg/license-service/internal/domain/license"
	"github.com/orkg/license-service/internal/infrastructure/monitoring"
	"github.com/orkg/license-service/internal/providers/cached"
	"go.uber.org/zap"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// LicenseService is the part of license.Service the handlers need.
type LicenseService interface {
	Determine(ctx context.Context, rawURI string) (license.Information, error)
	Providers() []dispatch.Descriptor
	Provider(id string) (license.Provider, bool)
}

// answerCache is implemented by providers wrapped in the cache decorator.
type answerCache interface {
	Stats() cached.Stats
	Flush()
}

// Handlers contains all HTTP handlers
type Handlers struct {
	service LicenseService
	metrics *monitoring.Metrics
	timeout time.Duration
	logger  *zap.Logger
}

// NewHandlers creates a new handler set. A zero timeout leaves request
// deadlines to the client.
func NewHandlers(service LicenseService, metrics *monitoring.Metrics, timeout time.Duration, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{service: service, metrics: metrics, timeout: timeout, logger: logger}
}

// Register mounts the license API on router.
func (h *Handlers) Register(router gin.IRouter) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	api := router.Group("/api/licenses")
	api.GET("", h.Determine)
	api.POST("", h.DetermineJSON)
	api.GET("/providers", h.ListProviders)
	api.DELETE("/cache", h.FlushCaches)
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "ORKG License Service",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":    "healthy",
		"providers": len(h.service.Providers()),
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.GetSnapshot()
	}
	if caches := h.caches(); len(caches) > 0 {
		stats := make(map[string]cached.Stats, len(caches))
		for id, cache := range caches {
			stats[id] = cache.Stats()
		}
		body["caches"] = stats
	}
	c.JSON(http.StatusOK, body)
}

// FlushCaches drops every memoised provider answer.
func (h *Handlers) FlushCaches(c *gin.Context) {
	caches := h.caches()
	flushed := []string{}
	for _, d := range h.service.Providers() {
		if cache, ok := caches[d.ID]; ok {
			cache.Flush()
			flushed = append(flushed, d.ID)
		}
	}
	h.logger.Info("Provider caches flushed", zap.Strings("providers", flushed))
	c.JSON(http.StatusOK, gin.H{"flushed": flushed})
}

func (h *Handlers) caches() map[string]answerCache {
	out := make(map[string]answerCache)
	for _, d := range h.service.Providers() {
		p, ok := h.service.Provider(d.ID)
		if !ok {
			continue
		}
		if cache, ok := p.(answerCache); ok {
			out[d.ID] = cache
		}
	}
	return out
}

// Determine resolves the license of the resource named by ?uri=.
func (h *Handlers) Determine(c *gin.Context) {
	uri, ok := c.GetQuery("uri")
	if !ok {
		respondError(c, http.StatusBadRequest, "query parameter 'uri' is required")
		return
	}
	h.determine(c, uri)
}

// DetermineJSON is Determine with the URI in a JSON body.
func (h *Handlers) DetermineJSON(c *gin.Context) {
	var req struct {
		URI string `json:"uri" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	h.determine(c, req.URI)
}

func (h *Handlers) determine(c *gin.Context, uri string) {
	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	info, err := h.service.Determine(ctx, uri)
	if err != nil {
		_ = c.Error(err)
		respondError(c, statusFor(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, info)
}

// ListProviders lists the provider chain in dispatch order.
func (h *Handlers) ListProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"providers": h.service.Providers(),
	})
}
