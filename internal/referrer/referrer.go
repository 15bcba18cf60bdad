// Package referrer extracts a canonical host from a free-form referrer URL.
package referrer

import "net/url"

// Domain returns the host part of raw when it parses as an absolute URL,
// and the empty string otherwise. The caller keeps the original referrer
// value verbatim.
func Domain(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
