package license

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// MaxURILength bounds the accepted input.
const MaxURILength = 2048

// ParseURI validates raw and returns it as an absolute http(s) URL.
func ParseURI(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return nil, &InvalidURIError{URI: raw, Reason: "uri is required"}
	case len(raw) > MaxURILength:
		return nil, &InvalidURIError{URI: excerpt(raw, 64), Reason: "uri is too long"}
	case !utf8.ValidString(raw):
		return nil, &InvalidURIError{URI: raw, Reason: "uri is not valid UTF-8"}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, &InvalidURIError{URI: raw, Reason: "malformed uri"}
	}
	if !u.IsAbs() {
		return nil, &InvalidURIError{URI: raw, Reason: "uri must be absolute"}
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, &InvalidURIError{URI: raw, Reason: "scheme must be http or https"}
	}
	if u.Hostname() == "" {
		return nil, &InvalidURIError{URI: raw, Reason: "uri has no host"}
	}

	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)
	return u, nil
}

// excerpt shortens s to at most n bytes without splitting a character.
func excerpt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// PathSegments splits the URI path into its non-empty segments.
func PathSegments(u *url.URL) []string {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
