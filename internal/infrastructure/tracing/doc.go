/*
Package tracing wires OpenTelemetry into the license service.

# Overview

NewProvider builds an SDK tracer provider from config.TracingConfig with one
of three exporters: "stdout", "otlp" (gRPC) or "none". When tracing is
disabled the provider hands out a no-op tracer, so callers never need to
check.

HTTPMiddleware starts one server span per request, continues incoming W3C
traceparent headers and returns the trace ID in X-Trace-ID.

# Usage

	tp, err := tracing.NewProvider(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer tp.Shutdown(ctx)

	router.Use(tracing.HTTPMiddleware(tp.Tracer()))
	service := license.NewService(registry, logger).WithTracer(tp.Tracer())
*/
package tracing
