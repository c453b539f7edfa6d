package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orkg/license-service/internal/domain/license"
	"github.com/orkg/license-service/internal/infrastructure/config"
	"github.com/orkg/license-service/internal/infrastructure/logging"
	"github.com/orkg/license-service/internal/providers"
)

type options struct {
	rules     string
	providers []string
	logLevel  string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "licensectl",
		Short: "Determine the license of resources behind URIs",
		Long: `licensectl runs the license provider chain locally.

Configuration is read from the same environment variables as the server
(GITHUB_TOKEN, GITLAB_HOSTS, STATIC_RULES_FILE, ...). Flags override them.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&opts.rules, "rules", "r", "", "static rules file (yaml, toml or json)")
	root.PersistentFlags().StringSliceVarP(&opts.providers, "providers", "p", nil, "provider order, e.g. --providers static,github")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(newResolveCmd(opts), newProvidersCmd(opts))
	return root
}

// service builds the license service from the environment plus flags.
func (o *options) service() (*license.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.rules != "" {
		cfg.Static.RulesFile = o.rules
	}
	if len(o.providers) > 0 {
		cfg.Providers.Order = cfg.Providers.Order[:0]
		for _, name := range o.providers {
			cfg.Providers.Order = append(cfg.Providers.Order, strings.ToLower(strings.TrimSpace(name)))
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger, err := logging.New(config.LogConfig{Level: o.logLevel}, "stderr")
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	registry, err := providers.BuildRegistry(cfg, providers.Deps{Logger: logger.Logger})
	if err != nil {
		return nil, err
	}
	return license.NewService(registry, logger.Logger), nil
}
