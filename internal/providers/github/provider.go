package github

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
const ID = "github"

// noAssertion is what GitHub reports when it cannot classify a license file.
const noAssertion = "NOASSERTION"

// First path segments that are GitHub pages rather than owners.
var reserved = map[string]bool{
	"about": true, "apps": true, "collections": true, "explore": true,
	"features": true, "marketplace": true, "notifications": true, "orgs": true,
	"settings": true, "sponsors": true, "topics": true, "trending": true,
}

type licensePayload struct {
	License struct {
		Key    string `json:"key"`
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
}

// Provider reads the license GitHub detected for a repository.
type Provider struct {
	client *httpclient.Client
	logger *zap.Logger
}

// New creates the provider. The client's base URL is set to the API URL.
func New(client *httpclient.Client, cfg config.GitHubConfig, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	client.SetBaseURL(strings.TrimRight(cfg.APIURL, "/"))
	client.SetHeader("Accept", "application/vnd.github+json")
	client.SetHeader("X-GitHub-Api-Version", "2022-11-28")
	if cfg.Token != "" {
		client.SetBearerAuth(cfg.Token)
	}
	return &Provider{client: client, logger: logger.Named(ID)}
}

func (p *Provider) ID() string { return ID }

func (p *Provider) Description() string {
	return "License detected by GitHub for github.com repositories"
}

func (p *Provider) CanProcess(u *url.URL) bool {
	_, _, ok := repository(u)
	return ok
}

func (p *Provider) Resolve(ctx context.Context, u *url.URL) (string, bool, error) {
	owner, repo, ok := repository(u)
	if !ok {
		return "", false, nil
	}

	var payload licensePayload
	resp, err := p.client.Get(ctx, "/repos/{owner}/{repo}/license", func(r *resty.Request) {
		r.SetPathParams(map[string]string{"owner": owner, "repo": repo}).SetResult(&payload)
	})
	if err != nil {
		return "", false, err
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound || code == http.StatusGone:
		p.logger.Debug("Repository has no license", zap.String("owner", owner), zap.String("repo", repo))
		return "", false, nil
	case code != http.StatusOK:
		return "", false, &httpclient.StatusError{Client: ID, Code: code}
	}

	id := strings.TrimSpace(payload.License.SPDXID)
	if id == "" || id == noAssertion {
		return "", false, nil
	}
	return id, true, nil
}

// repository extracts owner and repo from a github.com URL.
func repository(u *url.URL) (owner, repo string, ok bool) {
	if u == nil {
		return "", "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host != "github.com" {
		return "", "", false
	}
	segments := license.PathSegments(u)
	if len(segments) < 2 || reserved[strings.ToLower(segments[0])] {
		return "", "", false
	}
	repo = strings.TrimSuffix(segments[1], ".git")
	if repo == "" {
		return "", "", false
	}
	return segments[0], repo, true
}
