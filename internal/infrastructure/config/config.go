package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Provider names accepted in PROVIDERS.
const (
	ProviderGitHub  = "github"
	ProviderGitLab  = "gitlab"
	ProviderStatic  = "static"
	ProviderWebpage = "webpage"
)

// KnownProviders lists every provider the service can build.
var KnownProviders = []string{ProviderGitHub, ProviderGitLab, ProviderStatic, ProviderWebpage}

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Logging    LogConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
	HTTPClient HTTPClientConfig
	Cache      CacheConfig
	Providers  ProvidersConfig
	GitHub     GitHubConfig
	GitLab     GitLabConfig
	Static     StaticConfig
	Webpage    WebpageConfig
	Tracing    TracingConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8000"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"20s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds inbound rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CORSConfig holds allowed origins.
type CORSConfig struct {
	AllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
}

// HTTPClientConfig tunes outbound calls made by providers.
type HTTPClientConfig struct {
	Timeout           time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"10s"`
	Retries           int           `envconfig:"HTTP_CLIENT_RETRIES" default:"2"`
	RequestsPerSecond float64       `envconfig:"HTTP_CLIENT_RPS" default:"0"`
	UserAgent         string        `envconfig:"HTTP_CLIENT_USER_AGENT" default:"orkg-license-service/1.0"`
	RetryWaitMin      time.Duration `envconfig:"HTTP_CLIENT_RETRY_WAIT_MIN" default:"200ms"`
	RetryWaitMax      time.Duration `envconfig:"HTTP_CLIENT_RETRY_WAIT_MAX" default:"2s"`
	BreakerFailures   uint32        `envconfig:"HTTP_CLIENT_BREAKER_FAILURES" default:"5"`
	BreakerTimeout    time.Duration `envconfig:"HTTP_CLIENT_BREAKER_TIMEOUT" default:"30s"`
}

// CacheConfig controls memoisation of provider answers. A zero TTL disables it.
type CacheConfig struct {
	TTL             time.Duration `envconfig:"CACHE_TTL" default:"1h"`
	CleanupInterval time.Duration `envconfig:"CACHE_CLEANUP_INTERVAL" default:"10m"`
}

// ProvidersConfig holds the dispatch order.
type ProvidersConfig struct {
	Order []string `envconfig:"PROVIDERS" default:"github,gitlab,static,webpage"`
}

// GitHubConfig configures the GitHub provider.
type GitHubConfig struct {
	APIURL string `envconfig:"GITHUB_API_URL" default:"https://api.github.com"`
	Token  string `envconfig:"GITHUB_TOKEN"`
}

// GitLabConfig configures the GitLab provider.
type GitLabConfig struct {
	APIURL string   `envconfig:"GITLAB_API_URL" default:"https://gitlab.com"`
	Hosts  []string `envconfig:"GITLAB_HOSTS" default:"gitlab.com"`
	Token  string   `envconfig:"GITLAB_TOKEN"`
}

// StaticConfig points at the rules file. An empty path disables the provider.
type StaticConfig struct {
	RulesFile string `envconfig:"STATIC_RULES_FILE"`
}

// WebpageConfig configures the HTML provider. No hosts disables it.
type WebpageConfig struct {
	Hosts    []string `envconfig:"WEBPAGE_HOSTS"`
	MaxBytes int64    `envconfig:"WEBPAGE_MAX_BYTES" default:"2097152"`
}

// TracingConfig configures OpenTelemetry.
type TracingConfig struct {
	Enabled     bool    `envconfig:"TRACING_ENABLED" default:"false"`
	Exporter    string  `envconfig:"TRACING_EXPORTER" default:"stdout"`
	Endpoint    string  `envconfig:"TRACING_OTLP_ENDPOINT" default:"localhost:4317"`
	SampleRate  float64 `envconfig:"TRACING_SAMPLE_RATE" default:"1.0"`
	ServiceName string  `envconfig:"TRACING_SERVICE_NAME" default:"license-service"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  20 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
		HTTPClient: HTTPClientConfig{
			Timeout:         10 * time.Second,
			Retries:         2,
			UserAgent:       "orkg-license-service/1.0",
			RetryWaitMin:    200 * time.Millisecond,
			RetryWaitMax:    2 * time.Second,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Cache: CacheConfig{
			TTL:             time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		Providers: ProvidersConfig{
			Order: []string{ProviderGitHub, ProviderGitLab, ProviderStatic, ProviderWebpage},
		},
		GitHub: GitHubConfig{
			APIURL: "https://api.github.com",
		},
		GitLab: GitLabConfig{
			APIURL: "https://gitlab.com",
			Hosts:  []string{"gitlab.com"},
		},
		Webpage: WebpageConfig{
			MaxBytes: 2 << 20,
		},
		Tracing: TracingConfig{
			Exporter:    "stdout",
			Endpoint:    "localhost:4317",
			SampleRate:  1.0,
			ServiceName: "license-service",
		},
	}
}

// Validate checks cross-field rules envconfig cannot express.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Providers.Order))
	for _, name := range c.Providers.Order {
		if !isKnownProvider(name) {
			return fmt.Errorf("unknown provider %q (known: %s)", name, strings.Join(KnownProviders, ", "))
		}
		if seen[name] {
			return fmt.Errorf("provider %q listed twice", name)
		}
		seen[name] = true
	}

	if c.HTTPClient.Timeout < 0 || c.HTTPClient.RetryWaitMin < 0 || c.Cache.TTL < 0 || c.Server.ShutdownTimeout < 0 || c.Server.RequestTimeout < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	if c.HTTPClient.RetryWaitMax < c.HTTPClient.RetryWaitMin {
		return fmt.Errorf("HTTP_CLIENT_RETRY_WAIT_MAX must not be below HTTP_CLIENT_RETRY_WAIT_MIN")
	}
	if c.HTTPClient.Retries < 0 {
		return fmt.Errorf("HTTP_CLIENT_RETRIES must not be negative")
	}
	if c.Webpage.MaxBytes <= 0 {
		return fmt.Errorf("WEBPAGE_MAX_BYTES must be positive")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("TRACING_SAMPLE_RATE must be between 0 and 1")
	}
	switch c.Tracing.Exporter {
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("unsupported tracing exporter %q", c.Tracing.Exporter)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func (c *Config) normalize() {
	order := make([]string, 0, len(c.Providers.Order))
	for _, name := range c.Providers.Order {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			order = append(order, name)
		}
	}
	c.Providers.Order = order
}

func isKnownProvider(name string) bool {
	for _, known := range KnownProviders {
		if name == known {
			return true
		}
	}
	return false
}
