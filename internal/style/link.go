package style

import (
	"net/url"
	"strings"

	"github.com/rmitchellscott/bannermaster/internal/banner"
)

// UTM holds the optional tracking parameters appended to click-through URLs.
type UTM struct {
	Source   string
	Medium   string
	Campaign string
}

// UTMFrom extracts the tracking parameters of s.
func UTMFrom(s banner.Settings) UTM {
	return UTM{Source: s.UtmSource, Medium: s.UtmMedium, Campaign: s.UtmCampaign}
}

// ResolveLink normalizes raw into an absolute URL and appends the non-empty
// UTM parameters in source, medium, campaign order. An empty raw URL yields "".
func ResolveLink(raw string, utm UTM) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if !hasScheme(raw) {
		raw = "https://" + strings.TrimPrefix(raw, "//")
	}

	fragment := ""
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw, fragment = raw[:i], raw[i:]
	}

	var params []string
	for _, p := range []struct{ key, value string }{
		{"utm_source", utm.Source},
		{"utm_medium", utm.Medium},
		{"utm_campaign", utm.Campaign},
	} {
		if v := strings.TrimSpace(p.value); v != "" {
			params = append(params, p.key+"="+url.QueryEscape(v))
		}
	}
	if len(params) == 0 {
		return raw + fragment
	}

	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
		if strings.HasSuffix(raw, "?") || strings.HasSuffix(raw, "&") {
			sep = ""
		}
	}
	return raw + sep + strings.Join(params, "&") + fragment
}

// ClickTarget is the whole-banner click-through URL, or "" when the banner
// is not clickable or has no URL.
func ClickTarget(s banner.Settings) string {
	if !s.IsClickable {
		return ""
	}
	return ResolveLink(s.ClickURL, UTMFrom(s))
}

// CTATarget is the call-to-action URL with the same normalization rules.
func CTATarget(s banner.Settings) string {
	return ResolveLink(s.CtaURL, UTMFrom(s))
}

// hasScheme reports whether raw names its own scheme, either hierarchical
// ("ftp://host") or an opaque link scheme. "example.com:8080" has none.
func hasScheme(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return false
	}
	if strings.HasPrefix(raw[len(u.Scheme)+1:], "//") {
		return true
	}
	switch u.Scheme {
	case "mailto", "tel", "sms":
		return true
	}
	return false
}
