/*
Package monitoring provides Prometheus metrics for the license service.

# Overview

Each Metrics value owns a private registry, so several instances can coexist
(tests, the CLI) without duplicate-registration panics.

# Metrics

- license_http_requests_total{method,route,status}
- license_http_request_duration_seconds{method,route}
- license_resolutions_total{provider,outcome}
- license_resolution_duration_seconds{provider}
- license_providers_registered
- license_upstream_calls_total{client,status}
- license_circuit_breaker_state{breaker}

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	service := license.NewService(registry, logger).WithMetrics(metrics)
*/
package monitoring
