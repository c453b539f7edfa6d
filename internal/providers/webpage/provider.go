package webpage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-resty/resty/v2"
	"github.com/orkg/license-service/internal/infrastructure/config"
	"github.com/orkg/license-service/internal/infrastructure/httpclient"
	"go.uber.org/zap"
)

// ID is the provider identifier reported in answers.
const ID = "webpage"

// Provider reads license statements embedded in HTML landing pages.
type Provider struct {
	client   *httpclient.Client
	hosts    []string
	maxBytes int64
	logger   *zap.Logger
}

// New creates the provider for pages on hosts matching cfg.Hosts patterns.
func New(client *httpclient.Client, cfg config.WebpageConfig, logger *zap.Logger) (*Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	hosts := make([]string, 0, len(cfg.Hosts))
	for _, h := range cfg.Hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		if !doublestar.ValidatePattern(h) {
			return nil, fmt.Errorf("invalid webpage host pattern %q", h)
		}
		hosts = append(hosts, h)
	}

	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}

	client.SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")
	return &Provider{client: client, hosts: hosts, maxBytes: maxBytes, logger: logger.Named(ID)}, nil
}

func (p *Provider) ID() string { return ID }

func (p *Provider) Description() string {
	return "License links and metadata in HTML pages on " + strings.Join(p.hosts, ", ")
}

func (p *Provider) CanProcess(u *url.URL) bool {
	if u == nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, pattern := range p.hosts {
		if doublestar.MatchUnvalidated(pattern, host) {
			return true
		}
	}
	return false
}

func (p *Provider) Resolve(ctx context.Context, u *url.URL) (string, bool, error) {
	resp, err := p.client.Get(ctx, u.String(), func(r *resty.Request) {
		r.SetDoNotParseResponse(true)
	})
	if err != nil {
		return "", false, err
	}
	body := resp.RawBody()
	defer body.Close()

	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound || code == http.StatusGone:
		return "", false, nil
	case code < 200 || code >= 300:
		return "", false, &httpclient.StatusError{Client: ID, Code: code}
	}

	data, err := io.ReadAll(io.LimitReader(body, p.maxBytes))
	if err != nil {
		return "", false, fmt.Errorf("read page: %w", err)
	}
	if !isHTML(data) {
		p.logger.Debug("Page is not HTML", zap.String("uri", u.String()))
		return "", false, nil
	}

	id, ok := extract(u, decode(data, resp.Header().Get("Content-Type")))
	if !ok {
		p.logger.Debug("No license statement on page", zap.String("uri", u.String()))
	}
	return id, ok, nil
}
