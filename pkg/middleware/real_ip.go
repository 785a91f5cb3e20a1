package middleware

import (
	"net"
	"net/http"
	"strings"
)

// trustedProxies holds the peers whose forwarding headers are believed.
type trustedProxies struct {
	nets []*net.IPNet
	ips  []net.IP
}

func parseTrustedProxies(entries []string) trustedProxies {
	var t trustedProxies
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			if _, ipnet, err := net.ParseCIDR(entry); err == nil {
				t.nets = append(t.nets, ipnet)
			}
			continue
		}
		if ip := net.ParseIP(entry); ip != nil {
			t.ips = append(t.ips, ip)
		}
	}
	return t
}

func (t trustedProxies) empty() bool {
	return len(t.nets) == 0 && len(t.ips) == 0
}

func (t trustedProxies) contains(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, ipnet := range t.nets {
		if ipnet.Contains(ip) {
			return true
		}
	}
	for _, trusted := range t.ips {
		if trusted.Equal(ip) {
			return true
		}
	}
	return false
}

// forwardedFor returns the client address reported by a trusted peer, or ""
// when the peer is not trusted or reports nothing usable. X-Forwarded-For is
// read from the right, so entries a client prepends are never picked while a
// closer untrusted hop exists.
func (t trustedProxies) forwardedFor(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !t.contains(net.ParseIP(peer)) {
		return ""
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			ip := net.ParseIP(strings.TrimSpace(hops[i]))
			if ip == nil {
				return ""
			}
			if !t.contains(ip) || i == 0 {
				return ip.String()
			}
		}
	}

	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String()
	}
	return ""
}

// RealIP replaces RemoteAddr with the forwarded client address, but only for
// requests arriving from a trusted proxy. Without trusted proxies the socket
// peer is kept, so a client cannot choose its own rate-limit key.
func RealIP(trusted []string) func(http.Handler) http.Handler {
	proxies := parseTrustedProxies(trusted)

	return func(next http.Handler) http.Handler {
		if proxies.empty() {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ip := proxies.forwardedFor(r); ip != "" {
				r.RemoteAddr = ip
			}
			next.ServeHTTP(w, r)
		})
	}
}
