package webpage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/orkg/license-service/internal/infrastructure/config"
	"github.com/orkg/license-service/internal/infrastructure/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func newTestProvider(t *testing.T, maxBytes int64, handler http.HandlerFunc) (*Provider, *url.URL) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := httpclient.New(httpclient.Options{Name: ID, Timeout: 2 * time.Second})
	p, err := New(client, config.WebpageConfig{Hosts: []string{"127.0.0.1"}, MaxBytes: maxBytes}, nil)
	require.NoError(t, err)
	return p, mustURL(t, server.URL+"/record/42")
}

func servePage(contentType, page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(page))
	}
}

func TestCanProcess(t *testing.T) {
	p, err := New(httpclient.New(httpclient.Options{Name: ID}), config.WebpageConfig{
		Hosts: []string{"zenodo.org", "*.figshare.com"},
	}, nil)
	require.NoError(t, err)

	assert.True(t, p.CanProcess(mustURL(t, "https://zenodo.org/records/1")))
	assert.True(t, p.CanProcess(mustURL(t, "https://data.figshare.com/articles/2")))
	assert.False(t, p.CanProcess(mustURL(t, "https://figshare.com/articles/2")))
	assert.False(t, p.CanProcess(mustURL(t, "https://orkg.org/")))
	assert.False(t, p.CanProcess(mustURL(t, "ftp://zenodo.org/records/1")))
}

func TestNewRejectsBadPattern(t *testing.T) {
	_, err := New(httpclient.New(httpclient.Options{Name: ID}), config.WebpageConfig{Hosts: []string{"[bad"}}, nil)
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		wantFound bool
		want      string
	}{
		{
			name:      "rel license anchor",
			page:      `<!DOCTYPE html><html><body><a rel="license" href="https://creativecommons.org/licenses/by/4.0/">CC BY</a></body></html>`,
			wantFound: true,
			want:      "CC-BY-4.0",
		},
		{
			name:      "rel license link with several rel values",
			page:      `<!DOCTYPE html><html><head><link rel="license noopener" href="https://opensource.org/licenses/MIT"></head><body></body></html>`,
			wantFound: true,
			want:      "MIT",
		},
		{
			name:      "anchor label when url is unknown",
			page:      `<!DOCTYPE html><html><body><a rel="license" href="/terms">Apache-2.0</a></body></html>`,
			wantFound: true,
			want:      "Apache-2.0",
		},
		{
			name:      "dublin core metadata",
			page:      `<!DOCTYPE html><html><head><meta name="DC.rights" content="https://creativecommons.org/publicdomain/zero/1.0/"></head><body></body></html>`,
			wantFound: true,
			want:      "CC0-1.0",
		},
		{
			name:      "highwire metadata with a name",
			page:      `<!DOCTYPE html><html><head><meta name="citation_license" content="MIT"></head><body></body></html>`,
			wantFound: true,
			want:      "MIT",
		},
		{
			name:      "no statement",
			page:      `<!DOCTYPE html><html><body><p>All rights reserved.</p></body></html>`,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, u := newTestProvider(t, 1<<20, servePage("text/html; charset=utf-8", tt.page))

			got, found, err := p.Resolve(context.Background(), u)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveNonHTML(t *testing.T) {
	p, u := newTestProvider(t, 1<<20, servePage("application/json", `{"license":"MIT"}`))

	_, found, err := p.Resolve(context.Background(), u)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolveLegacyCharset(t *testing.T) {
	page := `<!DOCTYPE html><html><head><title>Données</title></head><body>` +
		`<a rel="license" href="https://creativecommons.org/licenses/by-sa/4.0/">Licence</a></body></html>`
	encoded, err := charmap.ISO8859_1.NewEncoder().String(page)
	require.NoError(t, err)

	p, u := newTestProvider(t, 1<<20, servePage("text/html", encoded))

	got, found, err := p.Resolve(context.Background(), u)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "CC-BY-SA-4.0", got)
}

func TestDeclaredCharset(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{name: "meta charset", page: `<html><head><meta charset="windows-1251"></head></html>`, want: "windows-1251"},
		{name: "http-equiv", page: `<html><head><meta http-equiv="Content-Type" content="text/html; charset=ISO-8859-2"></head></html>`, want: "ISO-8859-2"},
		{name: "none", page: `<html><head><title>x</title></head></html>`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, declaredCharset([]byte(tt.page)))
		})
	}
}

func TestDecodeUsesDeclaredCharsetBeforeGuessing(t *testing.T) {
	page := `<html><head><meta charset="windows-1251"><title>Лицензия</title></head>` +
		`<body><p>Данные доступны по лицензии</p></body></html>`
	encoded, err := charmap.Windows1251.NewEncoder().String(page)
	require.NoError(t, err)

	decoded := string(decode([]byte(encoded), "text/html"))
	assert.Contains(t, decoded, "Лицензия")
	assert.Contains(t, decoded, "Данные доступны по лицензии")
}

func TestDecodeHeaderCharsetWins(t *testing.T) {
	page := `<html><head><meta charset="windows-1251"></head><body>Données</body></html>`
	encoded, err := charmap.ISO8859_1.NewEncoder().String(page)
	require.NoError(t, err)

	assert.Contains(t, string(decode([]byte(encoded), "text/html; charset=iso-8859-1")), "Données")
}

func TestResolveTruncatesLargePages(t *testing.T) {
	padding := make([]byte, 4096)
	for i := range padding {
		padding[i] = ' '
	}
	page := `<!DOCTYPE html><html><body>` + string(padding) +
		`<a rel="license" href="https://opensource.org/licenses/MIT">MIT</a></body></html>`
	p, u := newTestProvider(t, 1024, servePage("text/html; charset=utf-8", page))

	_, found, err := p.Resolve(context.Background(), u)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolveStatus(t *testing.T) {
	p, u := newTestProvider(t, 1<<20, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/record/42" {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.WriteHeader(http.StatusForbidden)
	})

	_, found, err := p.Resolve(context.Background(), u)
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = p.Resolve(context.Background(), mustURL(t, u.Scheme+"://"+u.Host+"/other"))
	var statusErr *httpclient.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.Code)
}
