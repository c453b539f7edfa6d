package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/orkg/license-service/internal/infrastructure/config"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LogConfig
		wantLevel zapcore.Level
	}{
		{name: "production default", cfg: config.LogConfig{}, wantLevel: zapcore.InfoLevel},
		{name: "development default", cfg: config.LogConfig{Development: true}, wantLevel: zapcore.DebugLevel},
		{name: "explicit warn", cfg: config.LogConfig{Level: "warn"}, wantLevel: zapcore.WarnLevel},
		{name: "explicit level wins in development", cfg: config.LogConfig{Level: "error", Development: true}, wantLevel: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.wantLevel-1))
			}
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestProductionLinesCarryServiceName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")

	logger, err := New(config.LogConfig{Level: "info"}, path)
	require.NoError(t, err)
	logger.Named("providers").Info("Provider registered")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"service":"license-service"`)
	assert.Contains(t, string(data), `"logger":"providers"`)
	assert.Contains(t, string(data), `"message":"Provider registered"`)
}

func TestNopAndNamed(t *testing.T) {
	logger := NewNop().Named("license")
	assert.NotNil(t, logger.Logger)
	assert.NotPanics(t, func() { logger.Info("ignored") })
}
