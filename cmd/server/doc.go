// Package main is the entry point for the ORKG license service.
//
// The service answers "which license applies to the resource behind this
// URI?" by handing the URI to the first configured provider that can handle
// it (GitHub, GitLab, curated rules, or license links on web pages).
//
// Configuration:
//   - Environment variables (12-factor), see internal/infrastructure/config
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -rules /etc/license/rules.yaml
//
//	# Development mode (colored logs, debug level)
//	./server -dev -log-level debug
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
