package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	// Providers
	assert.Equal(t, []string{"github", "gitlab", "static", "webpage"}, cfg.Providers.Order)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.APIURL)
	assert.Equal(t, []string{"gitlab.com"}, cfg.GitLab.Hosts)
	assert.Empty(t, cfg.Static.RulesFile)
	assert.Empty(t, cfg.Webpage.Hosts)

	require.NoError(t, cfg.Validate())
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                "9000",
		"HOST":                "127.0.0.1",
		"LOG_LEVEL":           "debug",
		"LOG_DEV":             "true",
		"RATE_LIMIT_RPS":      "500",
		"RATE_LIMIT_ENABLED":  "false",
		"PROVIDERS":           " Static , github ",
		"GITHUB_TOKEN":        "secret",
		"GITLAB_HOSTS":        "gitlab.com,git.tib.eu",
		"STATIC_RULES_FILE":   "/etc/licenses/rules.yaml",
		"WEBPAGE_HOSTS":       "*.zenodo.org,zenodo.org",
		"CACHE_TTL":           "5m",
		"HTTP_CLIENT_TIMEOUT": "3s",
		"TRACING_ENABLED":     "true",
		"TRACING_EXPORTER":    "otlp",
		"TRACING_SAMPLE_RATE": "0.25",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"static", "github"}, cfg.Providers.Order)
	assert.Equal(t, "secret", cfg.GitHub.Token)
	assert.Equal(t, []string{"gitlab.com", "git.tib.eu"}, cfg.GitLab.Hosts)
	assert.Equal(t, "/etc/licenses/rules.yaml", cfg.Static.RulesFile)
	assert.Equal(t, []string{"*.zenodo.org", "zenodo.org"}, cfg.Webpage.Hosts)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 3*time.Second, cfg.HTTPClient.Timeout)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "otlp", cfg.Tracing.Exporter)
	assert.InDelta(t, 0.25, cfg.Tracing.SampleRate, 1e-9)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown provider", key: "PROVIDERS", value: "github,orcid"},
		{name: "duplicate provider", key: "PROVIDERS", value: "github,github"},
		{name: "bad duration", key: "CACHE_TTL", value: "soon"},
		{name: "negative retries", key: "HTTP_CLIENT_RETRIES", value: "-1"},
		{name: "sample rate out of range", key: "TRACING_SAMPLE_RATE", value: "2"},
		{name: "unknown exporter", key: "TRACING_EXPORTER", value: "zipkin"},
		{name: "zero page size", key: "WEBPAGE_MAX_BYTES", value: "0"},
		{name: "retry wait below minimum", key: "HTTP_CLIENT_RETRY_WAIT_MAX", value: "100ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)

			// LoadOrDefault falls back instead of failing
			assert.Equal(t, Default(), LoadOrDefault())
		})
	}
}

func TestLoggingConfig(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		dev       string
		wantLevel string
		wantDev   bool
	}{
		{name: "default values", wantLevel: "info", wantDev: false},
		{name: "debug level", level: "debug", wantLevel: "debug", wantDev: false},
		{name: "development mode", dev: "true", wantLevel: "info", wantDev: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.level != "" {
				t.Setenv("LOG_LEVEL", tt.level)
			}
			if tt.dev != "" {
				t.Setenv("LOG_DEV", tt.dev)
			}

			cfg := LoadOrDefault()

			assert.Equal(t, tt.wantLevel, cfg.Logging.Level)
			assert.Equal(t, tt.wantDev, cfg.Logging.Development)
		})
	}
}

func TestValidateAllowsEmptyProviderOrder(t *testing.T) {
	cfg := Default()
	cfg.Providers.Order = nil
	assert.NoError(t, cfg.Validate())
}
