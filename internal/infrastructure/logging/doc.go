// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Example Usage:
//
//	logger, err := logging.New(cfg.Logging)
//	logger.Info("Server starting", zap.String("addr", cfg.Addr()))
//	logger.Error("Provider failed", zap.String("provider", "github"), zap.Error(err))
package logging
