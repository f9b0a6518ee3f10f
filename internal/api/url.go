// Package api canonicalises GitHub server URLs and derives the REST API base
// URL for both github.com and GitHub Enterprise Server.
package api

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DotcomServerURL is the canonical github.com server URL.
	DotcomServerURL = "https://github.com"

	dotcomAPIURL = "https://api.github.com"
)

// CanonicalServerURL normalises a GitHub server URL: an empty input means
// github.com, a missing scheme defaults to https, the host is lowercased, and
// any path or trailing slash is dropped.
func CanonicalServerURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DotcomServerURL, nil
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid GitHub server URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid GitHub server URL %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid GitHub server URL %q: no host", raw)
	}
	return u.Scheme + "://" + strings.ToLower(u.Host), nil
}

// APIURL returns the REST API base URL for a canonical server URL: the hosted
// endpoint for github.com, the /api/v3 prefix for GitHub Enterprise Server.
func APIURL(serverURL string) string {
	if serverURL == DotcomServerURL {
		return dotcomAPIURL
	}
	return serverURL + "/api/v3"
}
