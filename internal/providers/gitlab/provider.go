package gitlab

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/orkg/license-service/internal/domain/license"
	"github.com/orkg/license-service/internal/infrastructure/config"
	"github.com/orkg/license-service/internal/infrastructure/httpclient"
	"go.uber.org/zap"
)

// ID is the provider identifier reported in answers.
const ID = "gitlab"

type projectPayload struct {
	License *struct {
		Key      string `json:"key"`
		Name     string `json:"name"`
		Nickname string `json:"nickname"`
	} `json:"license"`
}

// Provider reads the license GitLab detected for a project.
type Provider struct {
	client *httpclient.Client
	hosts  map[string]bool
	logger *zap.Logger
}

// New creates the provider for the configured GitLab hosts.
func New(client *httpclient.Client, cfg config.GitLabConfig, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	client.SetBaseURL(strings.TrimRight(cfg.APIURL, "/"))
	if cfg.Token != "" {
		client.SetHeader("PRIVATE-TOKEN", cfg.Token)
	}

	hosts := make(map[string]bool, len(cfg.Hosts))
	for _, h := range cfg.Hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts[h] = true
		}
	}
	return &Provider{client: client, hosts: hosts, logger: logger.Named(ID)}
}

func (p *Provider) ID() string { return ID }

func (p *Provider) Description() string {
	return "License detected by GitLab for projects on configured GitLab hosts"
}

func (p *Provider) CanProcess(u *url.URL) bool {
	_, ok := p.project(u)
	return ok
}

func (p *Provider) Resolve(ctx context.Context, u *url.URL) (string, bool, error) {
	path, ok := p.project(u)
	if !ok {
		return "", false, nil
	}

	var payload projectPayload
	resp, err := p.client.Get(ctx, "/api/v4/projects/{id}", func(r *resty.Request) {
		r.SetPathParam("id", path).
			SetQueryParam("license", "true").
			SetResult(&payload)
	})
	if err != nil {
		return "", false, err
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound || code == http.StatusGone:
		p.logger.Debug("Project not visible", zap.String("project", path))
		return "", false, nil
	case code != http.StatusOK:
		return "", false, &httpclient.StatusError{Client: ID, Code: code}
	}

	if payload.License == nil || strings.TrimSpace(payload.License.Key) == "" {
		return "", false, nil
	}
	return license.NormalizeSPDX(payload.License.Key), true, nil
}

// project returns the namespaced project path, e.g. "group/sub/project".
// Segments after "/-/" address pages inside the project.
func (p *Provider) project(u *url.URL) (string, bool) {
	if u == nil || !p.hosts[strings.ToLower(u.Hostname())] {
		return "", false
	}

	var parts []string
	for _, s := range license.PathSegments(u) {
		if s == "-" {
			break
		}
		parts = append(parts, s)
	}
	if len(parts) < 2 {
		return "", false
	}
	parts[len(parts)-1] = strings.TrimSuffix(parts[len(parts)-1], ".git")
	if parts[len(parts)-1] == "" {
		return "", false
	}
	return strings.Join(parts, "/"), true
}
