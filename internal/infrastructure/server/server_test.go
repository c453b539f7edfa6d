package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/orkg/license-service/internal/infrastructure/config"
	"github.com/orkg/license-service/internal/infrastructure/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rules = `
rules:
  - pattern: "orkg.org/resource/**"
    license: CC-BY-SA-4.0
  - pattern: "orkg.org/**"
    license: ""
`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rules), 0o600))

	cfg := config.Default()
	cfg.Logging.Development = true
	cfg.Providers.Order = []string{config.ProviderStatic}
	cfg.Static.RulesFile = path
	cfg.RateLimit.Enabled = false
	cfg.Tracing.Enabled = true
	cfg.Tracing.Exporter = "none"

	s, err := NewServer(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.tracing.Shutdown(context.Background()) })
	return s
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestServerResolvesThroughChain(t *testing.T) {
	s := newTestServer(t)

	target := "/api/licenses?uri=" + url.QueryEscape("https://orkg.org/resource/R123")
	w := serve(s, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"provider_id": "static", "license": "CC-BY-SA-4.0"}, body)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	w = serve(s, httptest.NewRequest(http.MethodGet, "/api/licenses?uri="+url.QueryEscape("https://orkg.org/about"), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/api/licenses?uri="+url.QueryEscape("https://github.com/a/b"), nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServerListsProviders(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/api/licenses/providers", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"static"`)
	assert.Len(t, s.Service().Providers(), 1)
}

func TestServerExposesMetrics(t *testing.T) {
	s := newTestServer(t)
	serve(s, httptest.NewRequest(http.MethodGet, "/api/licenses?uri="+url.QueryEscape("https://orkg.org/resource/R1"), nil))

	w := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "license_providers_registered 1")
	assert.Contains(t, w.Body.String(), `license_resolutions_total{outcome="found",provider="static"} 1`)
}

func TestServerCompressesLargeResponses(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := serve(s, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	w = serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Empty(t, w.Header().Get("Content-Encoding"))
}

func TestNewServerRejectsBrokenRules(t *testing.T) {
	cfg := config.Default()
	cfg.Providers.Order = []string{config.ProviderStatic}
	cfg.Static.RulesFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewServer(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `provider "static"`)
}

func TestShutdownWithoutRun(t *testing.T) {
	s := newTestServer(t)
	assert.NoError(t, s.Shutdown(context.Background()))
}
