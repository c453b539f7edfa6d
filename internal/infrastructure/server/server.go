package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	apihttp "github.com/orkg/license-service/internal/api/http"
	"github.com/orkg/license-service/internal/api/middleware"
	"github.com/orkg/license-service/internal/domain/license"
	"github.com/orkg/license-service/internal/infrastructure/config"
	"github.com/orkg/license-service/internal/infrastructure/logging"
	"github.com/orkg/license-service/internal/infrastructure/monitoring"
	"github.com/orkg/license-service/internal/infrastructure/tracing"
	"github.com/orkg/license-service/internal/providers"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	config  *config.Config
	logger  *logging.Logger
	metrics *monitoring.Metrics
	tracing *tracing.Provider
	service *license.Service
	router  *gin.Engine
	http    *http.Server
}

// NewServer builds the provider chain and the router described by cfg.
// A nil logger is built from the logging settings in cfg.
func NewServer(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		var err error
		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
	}

	logger.Info("Initializing license service",
		zap.String("addr", cfg.Addr()),
		zap.Strings("providers", cfg.Providers.Order),
	)

	metrics := monitoring.NewMetrics()

	tp, err := tracing.NewProvider(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("create tracer: %w", err)
	}
	if tp.Enabled() {
		logger.Info("Tracing enabled", zap.String("exporter", cfg.Tracing.Exporter))
	}

	registry, err := providers.BuildRegistry(cfg, providers.Deps{
		Logger:   logger.Named("providers").Logger,
		Observer: metrics,
	})
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("build providers: %w", err)
	}
	metrics.SetProviders(registry.Len())
	if registry.Len() == 0 {
		logger.Warn("No providers registered; every URI will be unsupported")
	}

	service := license.NewService(registry, logger.Logger).
		WithMetrics(metrics).
		WithTracer(tp.Tracer())

	s := &Server{
		config:  cfg,
		logger:  logger,
		metrics: metrics,
		tracing: tp,
		service: service,
	}
	s.router = s.newRouter()
	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	for _, d := range service.Providers() {
		logger.Info("Provider registered", zap.String("id", d.ID), zap.String("description", d.Description))
	}
	logger.Info("Server initialized successfully")
	return s, nil
}

func (s *Server) newRouter() *gin.Engine {
	if !s.config.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Recovery(s.logger.Logger))
	router.Use(middleware.RequestID())
	router.Use(tracing.HTTPMiddleware(s.tracing.Tracer()))
	router.Use(monitoring.Middleware(s.metrics))
	router.Use(middleware.AccessLog(s.logger.Named("http").Logger, "/health", "/metrics"))
	router.Use(middleware.CORS(middleware.CORSFromConfig(s.config.CORS)))
	if s.config.RateLimit.Enabled {
		s.logger.Info("Rate limiting enabled",
			zap.Int("rps", s.config.RateLimit.RequestsPerSecond),
			zap.Int("burst", s.config.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitFromConfig(s.config.RateLimit)))
	}

	handlers := apihttp.NewHandlers(s.service, s.metrics, s.config.Server.RequestTimeout, s.logger.Logger)
	handlers.Register(router)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	return router
}

// Handler returns the root handler with response compression applied.
func (s *Server) Handler() http.Handler {
	return gzhttp.GzipHandler(s.router)
}

// Service returns the license service the routes are bound to.
func (s *Server) Service() *license.Service {
	return s.service
}

// Run starts the HTTP server and blocks until it stops. A server stopped
// through Shutdown returns nil.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests, then flushes traces and logs.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP shutdown failed", zap.Error(err))
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := s.tracing.Shutdown(ctx); err != nil {
		s.logger.Error("Tracer shutdown failed", zap.Error(err))
		errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
	}

	_ = s.logger.Sync()
	return errors.Join(errs...)
}
