// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package partition

import (
	"net/url"
	"strings"
)

// NormalizeURL canonicalises a profile URL for duplicate checks: https is
// assumed when no scheme is given, scheme and host are lower-cased, and the
// trailing slash, query, and fragment are dropped. Values that do not parse
// to a host are returned trimmed.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	withScheme := trimmed
	if !strings.Contains(withScheme, "://") {
		withScheme = "https://" + withScheme
	}

	u, err := url.Parse(withScheme)
	if err != nil || u.Host == "" {
		return trimmed
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	u.RawPath = ""
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	return u.String()
}
