package lockout

import (
	"net"
	"net/http"
	"strings"
)

// NormalizeAddress collapses IPv6-mapped IPv4 notation (::ffff:a.b.c.d)
// to plain IPv4 so the same origin always maps to the same key.
// Unparseable input is returned as-is.
func NormalizeAddress(addr string) string {
	ip := net.ParseIP(addr)
	if ip == nil {
		return strings.TrimPrefix(addr, "::ffff:")
	}
	if v4 := ip.To4(); v4 != nil {
		return v4.String()
	}
	return ip.String()
}

// ClientAddress extracts the normalized client address from a request:
// the leftmost X-Forwarded-For entry when a proxy is trusted, otherwise
// the connection's remote address.
func ClientAddress(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first := strings.TrimSpace(strings.Split(xff, ",")[0])
			if first != "" {
				return NormalizeAddress(first)
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return NormalizeAddress(r.RemoteAddr)
	}
	return NormalizeAddress(host)
}
