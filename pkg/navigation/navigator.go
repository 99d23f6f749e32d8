package navigation

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Navigator loads a new document at target, replacing the current one.
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(target string)

func (f NavigatorFunc) Navigate(target string) {
	f(target)
}

// RedirectNavigator navigates by answering the current request with a
// 303 See Other, so the browser performs a full page load of the target.
type RedirectNavigator struct {
	Writer  http.ResponseWriter
	Request *http.Request
}

func (n RedirectNavigator) Navigate(target string) {
	if target == "" {
		target = "/"
	}
	http.Redirect(n.Writer, n.Request, target, http.StatusSeeOther)
}

// Target joins origin and path without any normalisation.
func Target(origin, path string) string {
	return origin + path
}

// Origin returns scheme://host[:port] of the request as this server received
// it. X-Forwarded-* headers are ignored; OriginResolver honours them for
// trusted proxies.
func Origin(r *http.Request) string {
	return resolveOrigin(r, false)
}

// OriginResolver resolves request origins. X-Forwarded-Proto and
// X-Forwarded-Host are only read when the peer address belongs to one of the
// trusted proxies. A nil resolver trusts nobody.
type OriginResolver struct {
	trusted []netip.Prefix
}

// NewOriginResolver accepts proxy addresses as IPs or CIDR ranges.
func NewOriginResolver(proxies []string) (*OriginResolver, error) {
	resolver := &OriginResolver{}
	for _, proxy := range proxies {
		proxy = strings.TrimSpace(proxy)
		if proxy == "" {
			continue
		}

		if strings.Contains(proxy, "/") {
			prefix, err := netip.ParsePrefix(proxy)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", proxy, err)
			}
			resolver.trusted = append(resolver.trusted, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", proxy, err)
		}
		addr = addr.Unmap()
		resolver.trusted = append(resolver.trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return resolver, nil
}

func (o *OriginResolver) Origin(r *http.Request) string {
	return resolveOrigin(r, o.trusts(r))
}

func (o *OriginResolver) trusts(r *http.Request) bool {
	if o == nil || r == nil || len(o.trusted) == 0 {
		return false
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()

	for _, prefix := range o.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func resolveOrigin(r *http.Request, forwarded bool) string {
	host := requestHost(r, forwarded)
	if host == "" {
		return ""
	}
	return requestScheme(r, forwarded) + "://" + host
}

func requestScheme(r *http.Request, forwarded bool) string {
	if r == nil {
		return ""
	}

	if forwarded {
		if proto := strings.ToLower(firstHeaderValue(r.Header.Get("X-Forwarded-Proto"))); proto == "http" || proto == "https" {
			return proto
		}
	}

	if r.TLS != nil {
		return "https"
	}

	if r.URL != nil && r.URL.Scheme != "" {
		return strings.ToLower(r.URL.Scheme)
	}

	return "http"
}

func requestHost(r *http.Request, forwarded bool) string {
	if r == nil {
		return ""
	}

	if forwarded {
		if host := firstHeaderValue(r.Header.Get("X-Forwarded-Host")); host != "" {
			return host
		}
	}

	if r.Host != "" {
		return r.Host
	}

	if r.URL != nil {
		return r.URL.Host
	}

	return ""
}

func firstHeaderValue(value string) string {
	parts := strings.Split(value, ",")
	return strings.TrimSpace(parts[0])
}
