package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/orkg/license-service/internal/infrastructure/config"
)

// ServiceName is attached to every production log line.
const ServiceName = "license-service"

// Logger is the service logger. Components take the embedded *zap.Logger.
type Logger struct {
	*zap.Logger
}

// New builds a logger from the LOG_LEVEL and LOG_DEV settings. An empty
// level means debug in development and info otherwise. Output goes to
// stdout unless paths are given.
func New(cfg config.LogConfig, paths ...string) (*Logger, error) {
	level, err := levelFor(cfg)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		paths = []string{"stdout"}
	}

	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.MessageKey = "message"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zc.InitialFields = map[string]interface{}{"service": ServiceName}
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = paths
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &Logger{Logger: logger}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Named returns a child logger scoped to a component.
func (l *Logger) Named(name string) *Logger {
	return &Logger{Logger: l.Logger.Named(name)}
}

func levelFor(cfg config.LogConfig) (zapcore.Level, error) {
	if cfg.Level == "" {
		if cfg.Development {
			return zapcore.DebugLevel, nil
		}
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	return level, nil
}
