package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	cacheadapter "github.com/zatekoja/symptomatch/backend/internal/adapters/cache"
	"github.com/zatekoja/symptomatch/backend/internal/domain/providers"
	"github.com/zatekoja/symptomatch/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/symptomatch/backend/pkg/errors"
)

// RateLimiter caps requests per client IP in fixed windows, counting through
// a CacheProvider so that limits are shared between replicas when Redis is
// configured.
type RateLimiter struct {
	cache   providers.CacheProvider
	name    string
	limit   int
	window  int
	proxies TrustedProxies
	metrics *observability.Metrics
}

// NewRateLimiter creates a limiter allowing limit requests per windowSeconds.
// A nil cache falls back to an in-process counter. metrics may be nil.
func NewRateLimiter(cache providers.CacheProvider, name string, limit, windowSeconds int, metrics *observability.Metrics) *RateLimiter {
	if cache == nil {
		cache = cacheadapter.NewMemoryAdapter()
	}
	return &RateLimiter{
		cache:   cache,
		name:    name,
		limit:   limit,
		window:  windowSeconds,
		metrics: metrics,
	}
}

// TrustProxies makes the limiter key on the client reported by proxies
// instead of the TCP peer.
func (l *RateLimiter) TrustProxies(proxies TrustedProxies) *RateLimiter {
	l.proxies = proxies
	return l
}

// Middleware returns the rate limiting handler. A limit of zero or less
// disables limiting.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	if l.limit <= 0 || l.window <= 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ratelimit:" + l.name + ":" + l.proxies.ClientIP(r)

		count, err := l.cache.Increment(r.Context(), key, l.window)
		if err != nil {
			// Fail open on cache errors.
			zerolog.Ctx(r.Context()).Warn().Err(err).Str("limiter", l.name).Msg("Rate limit check failed")
			next.ServeHTTP(w, r)
			return
		}

		if count > int64(l.limit) {
			observability.RecordRateLimited(r.Context(), l.metrics, l.name)
			limited := apperrors.NewRateLimitedError("rate limit exceeded")
			w.Header().Set("Retry-After", strconv.Itoa(l.window))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(apperrors.HTTPStatus(limited))
			json.NewEncoder(w).Encode(map[string]string{"error": limited.Message})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// TrustedProxies lists the peers whose forwarding headers are believed. The
// zero value trusts nobody, so the client is always the TCP peer.
type TrustedProxies struct {
	prefixes []netip.Prefix
}

// ParseTrustedProxies accepts IP addresses and CIDR ranges.
func ParseTrustedProxies(entries []string) (TrustedProxies, error) {
	var proxies TrustedProxies
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return TrustedProxies{}, apperrors.NewValidationErrorf("invalid trusted proxy %q: %v", entry, err)
			}
			proxies.prefixes = append(proxies.prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return TrustedProxies{}, apperrors.NewValidationErrorf("invalid trusted proxy %q: %v", entry, err)
		}
		addr = addr.Unmap()
		proxies.prefixes = append(proxies.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return proxies, nil
}

func (p TrustedProxies) trusts(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range p.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the originating client address. Forwarding headers are
// read only when the TCP peer is a trusted proxy; X-Forwarded-For is walked
// right to left and the first untrusted hop is the client.
func (p TrustedProxies) ClientIP(r *http.Request) string {
	peer := remoteHost(r)
	peerAddr, err := netip.ParseAddr(peer)
	if err != nil || !p.trusts(peerAddr) {
		return peer
	}

	var hops []string
	for _, value := range r.Header.Values("X-Forwarded-For") {
		for _, hop := range strings.Split(value, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
	}
	if len(hops) > 0 {
		client := peer
		for i := len(hops) - 1; i >= 0; i-- {
			addr, err := netip.ParseAddr(hops[i])
			if err != nil {
				break
			}
			client = addr.Unmap().String()
			if !p.trusts(addr) {
				break
			}
		}
		return client
	}

	if realIP, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return realIP.Unmap().String()
	}
	return peer
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
