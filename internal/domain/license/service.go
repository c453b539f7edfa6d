package license

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/orkg/license-service/internal/domain/dispatch"
)

// Outcome labels used for metrics and logs.
const (
	OutcomeFound       = "found"
	OutcomeNotFound    = "not_found"
	OutcomeUnsupported = "unsupported"
	OutcomeError       = "error"
)

// Recorder receives one observation per resolution.
type Recorder interface {
	RecordResolution(providerID, outcome string, duration time.Duration)
}

// Service answers license queries through the provider chain.
type Service struct {
	resolver *dispatch.Resolver[*url.URL, string]
	logger   *zap.Logger
	tracer   trace.Tracer
	recorder Recorder
}

// NewService creates a service over registry and logs the provider order.
func NewService(registry *Registry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		resolver: dispatch.NewResolver(registry),
		logger:   logger.Named("license"),
		tracer:   noop.NewTracerProvider().Tracer("license"),
	}
	s.logger.Info("License providers registered",
		zap.Strings("providers", s.resolver.Registry().IDs()),
	)
	return s
}

// WithMetrics attaches a metrics recorder.
func (s *Service) WithMetrics(r Recorder) *Service {
	s.recorder = r
	return s
}

// WithTracer attaches a tracer.
func (s *Service) WithTracer(t trace.Tracer) *Service {
	if t != nil {
		s.tracer = t
	}
	return s
}

// Providers lists the chain in dispatch order.
func (s *Service) Providers() []dispatch.Descriptor {
	return s.resolver.Registry().Descriptors()
}

// Provider returns the registered provider with the given ID.
func (s *Service) Provider(id string) (Provider, bool) {
	return s.resolver.Registry().Get(id)
}

// Determine resolves the license of rawURI.
func (s *Service) Determine(ctx context.Context, rawURI string) (Information, error) {
	ctx, span := s.tracer.Start(ctx, "license.Determine")
	defer span.End()

	uri, err := ParseURI(rawURI)
	if err != nil {
		span.SetStatus(codes.Error, "invalid uri")
		return Information{}, err
	}
	span.SetAttributes(attribute.String("license.uri", uri.String()))

	start := time.Now()
	result, err := s.resolver.Resolve(ctx, uri)
	elapsed := time.Since(start)

	if err == nil {
		span.SetAttributes(
			attribute.String("license.provider", result.ProviderID),
			attribute.String("license.id", result.Value),
		)
		s.record(result.ProviderID, OutcomeFound, elapsed)
		return Information{ProviderID: result.ProviderID, License: result.Value}, nil
	}

	var notFound *dispatch.NotFoundError
	switch {
	case errors.Is(err, dispatch.ErrNoCapableProvider):
		s.record("", OutcomeUnsupported, elapsed)
		s.logger.Debug("No provider for URI", zap.String("uri", uri.String()))
		return Information{}, &UnsupportedURIError{URI: uri.String()}

	case errors.As(err, &notFound):
		span.SetAttributes(attribute.String("license.provider", notFound.ProviderID))
		s.record(notFound.ProviderID, OutcomeNotFound, elapsed)
		s.logger.Debug("License not found",
			zap.String("uri", uri.String()),
			zap.String("provider", notFound.ProviderID),
		)
		return Information{}, &NotFoundError{URI: uri.String(), ProviderID: notFound.ProviderID}

	default:
		providerID := result.ProviderID
		span.SetAttributes(attribute.String("license.provider", providerID))
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider failure")
		s.record(providerID, OutcomeError, elapsed)
		s.logger.Warn("License provider failed",
			zap.String("uri", uri.String()),
			zap.String("provider", providerID),
			zap.Error(err),
		)
		return Information{}, fmt.Errorf("provider %q: %w", providerID, err)
	}
}

func (s *Service) record(providerID, outcome string, d time.Duration) {
	if s.recorder != nil {
		s.recorder.RecordResolution(providerID, outcome, d)
	}
}
