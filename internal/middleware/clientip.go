package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"nextblog/internal/client"
)

// LoopbackProxies are the peers trusted by default: the frontend reaches
// the API over loopback.
var LoopbackProxies = []string{"127.0.0.0/8", "::1/128"}

// ProxyTrust resolves a request's client address. X-Forwarded-For and
// X-Real-IP are honoured only when the connecting peer is inside one of
// the trusted prefixes; anything else could be set by the client itself.
type ProxyTrust struct {
	prefixes []netip.Prefix
}

// NewProxyTrust parses CIDR prefixes or bare addresses.
func NewProxyTrust(cidrs []string) (*ProxyTrust, error) {
	p := &ProxyTrust{}
	for _, s := range cidrs {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(s); err == nil {
			p.prefixes = append(p.prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: not an address or CIDR prefix", s)
		}
		p.prefixes = append(p.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return p, nil
}

// trusts reports whether ip belongs to a trusted proxy.
func (p *ProxyTrust) trusts(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range p.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the address of the client behind r. For a trusted peer
// the X-Forwarded-For chain is walked right to left and the first hop that
// is not itself a trusted proxy wins.
func (p *ProxyTrust) ClientIP(r *http.Request) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(peer); err == nil {
		peer = host
	}
	if p == nil || !p.trusts(peer) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if !p.trusts(hop) || i == 0 {
				return hop
			}
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return peer
}

// ForwardClientIP stores the resolved client address in the request
// context, where the API client picks it up and sends it on as
// X-Forwarded-For.
func ForwardClientIP(p *ProxyTrust) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := client.WithForwardedFor(r.Context(), p.ClientIP(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
