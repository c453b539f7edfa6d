package providers

import (
	"fmt"
	"net/url"

	"github.com/orkg/license-service/internal/domain/license"
	"github.com/orkg/license-service/internal/infrastructure/config"
	"github.com/orkg/license-service/internal/infrastructure/httpclient"
	"github.com/orkg/license-service/internal/providers/cached"
	"github.com/orkg/license-service/internal/providers/github"
	"github.com/orkg/license-service/internal/providers/gitlab"
	"github.com/orkg/license-service/internal/providers/static"
	"github.com/orkg/license-service/internal/providers/webpage"
	"go.uber.org/zap"
)

// Deps carries the shared collaborators providers are built with.
type Deps struct {
	Logger   *zap.Logger
	Observer httpclient.Observer
}

// Build creates the providers named in cfg.Providers.Order, in that order.
// Providers without the configuration they need are skipped with a log line.
func Build(cfg *config.Config, deps Deps) ([]license.Provider, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	out := make([]license.Provider, 0, len(cfg.Providers.Order))
	for _, name := range cfg.Providers.Order {
		p, err := build(name, cfg, deps, logger)
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", name, err)
		}
		if p == nil {
			logger.Info("Provider skipped: not configured", zap.String("provider", name))
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// BuildRegistry builds the providers and freezes them into a registry.
func BuildRegistry(cfg *config.Config, deps Deps) (*license.Registry, error) {
	ps, err := Build(cfg, deps)
	if err != nil {
		return nil, err
	}
	return license.NewRegistry(ps...)
}

func build(name string, cfg *config.Config, deps Deps, logger *zap.Logger) (license.Provider, error) {
	client := func() *httpclient.Client {
		opts := httpclient.OptionsFromConfig(name, cfg.HTTPClient)
		opts.Logger = logger
		opts.Observer = deps.Observer
		return httpclient.New(opts)
	}

	switch name {
	case config.ProviderGitHub:
		return withCache(github.New(client(), cfg.GitHub, logger), cfg.Cache, logger), nil

	case config.ProviderGitLab:
		if len(cfg.GitLab.Hosts) == 0 {
			return nil, nil
		}
		return withCache(gitlab.New(client(), cfg.GitLab, logger), cfg.Cache, logger), nil

	case config.ProviderStatic:
		if cfg.Static.RulesFile == "" {
			return nil, nil
		}
		p, err := static.FromFile(cfg.Static.RulesFile)
		if err != nil {
			return nil, err
		}
		return p, nil

	case config.ProviderWebpage:
		if len(cfg.Webpage.Hosts) == 0 {
			return nil, nil
		}
		p, err := webpage.New(client(), cfg.Webpage, logger)
		if err != nil {
			return nil, err
		}
		return withCache(p, cfg.Cache, logger), nil
	}

	return nil, fmt.Errorf("unknown provider")
}

// withCache wraps remote providers; a zero TTL disables caching.
func withCache(p license.Provider, cfg config.CacheConfig, logger *zap.Logger) license.Provider {
	if cfg.TTL <= 0 {
		return p
	}
	return cached.Wrap(p, (*url.URL).String, cfg.TTL, cfg.CleanupInterval, logger)
}
