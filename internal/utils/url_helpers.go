package utils

import (
	"net/http"
	"net/url"
	"strings"
)

// URLFromRequest returns the scheme and host the client used to reach the
// server. X-Forwarded-Proto and X-Forwarded-Host from a reverse proxy take
// precedence over the connection itself.
func URLFromRequest(r *http.Request) *url.URL {
	u := &url.URL{
		Scheme: "http",
		Host:   r.Host,
	}
	if v := r.Header.Get("X-Forwarded-Host"); v != "" {
		u.Host = v
	}
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}
	return u
}

// BaseURL parses a configured public URL, falling back to the request's
// own origin when publicURL is empty or invalid.
func BaseURL(publicURL string, r *http.Request) *url.URL {
	if publicURL != "" {
		if u, err := url.Parse(strings.TrimRight(publicURL, "/")); err == nil && u.Scheme != "" && u.Host != "" {
			return u
		}
	}
	return URLFromRequest(r)
}

// AbsoluteURL resolves ref against base. Empty refs, absolute URLs and data
// URIs are returned unchanged, as is everything when base is nil.
func AbsoluteURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || base == nil {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil || parsed.IsAbs() {
		return ref
	}
	return base.ResolveReference(parsed).String()
}
