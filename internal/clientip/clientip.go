// Package clientip determines the originating client address of a request,
// looking through proxy forwarding headers before falling back to the
// transport peer.
package clientip

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// headerOrder is the proxy header precedence. The first non-empty value
// wins. X-Forwarded-For may carry a chain; the leftmost entry is the
// original client per convention.
var headerOrder = []string{"X-Forwarded-For", "X-Real-IP"}

// Resolve returns the client IP for a request. A non-empty override (the
// --ip development flag) short-circuits header inspection entirely. The
// result must parse as an IPv4 or IPv6 literal.
func Resolve(r *http.Request, override string) (net.IP, error) {
	if override != "" {
		return parse(override)
	}

	for _, header := range headerOrder {
		v := r.Header.Get(header)
		if header == "X-Forwarded-For" {
			v = firstForwardedFor(v)
		}
		if v != "" {
			return parse(v)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid peer address %q: %w", r.RemoteAddr, err)
	}
	return parse(host)
}

// firstForwardedFor takes the left prefix of a comma-separated
// X-Forwarded-For chain.
func firstForwardedFor(v string) string {
	if sep := strings.Index(v, ","); sep != -1 {
		v = v[:sep]
	}
	return strings.TrimSpace(v)
}

func parse(s string) (net.IP, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return nil, fmt.Errorf("could not parse IP: %s", s)
	}
	return ip, nil
}
