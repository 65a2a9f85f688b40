package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/zatekoja/symptomatch/backend/internal/domain/providers"
	"github.com/zatekoja/symptomatch/backend/internal/infrastructure/observability"
)

// CacheMiddleware stores 200 GET responses of the directory endpoints in the
// cache provider, keyed by path and canonical query.
type CacheMiddleware struct {
	cache      providers.CacheProvider
	ttlSeconds int
	metrics    *observability.Metrics
}

// cachedResponse is what goes into the cache for one response.
type cachedResponse struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// NewCacheMiddleware creates a response cache with one TTL for every route it
// wraps. metrics may be nil.
func NewCacheMiddleware(cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics) *CacheMiddleware {
	return &CacheMiddleware{
		cache:      cache,
		ttlSeconds: ttlSeconds,
		metrics:    metrics,
	}
}

// Middleware wraps next; a nil cache or a non-positive TTL disables it.
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	if m.cache == nil || m.ttlSeconds <= 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		key := responseCacheKey(r)

		if entry, ok := m.lookup(r, key); ok {
			observability.RecordCacheHit(ctx, m.metrics, "http")
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", entry.ContentType)
			w.WriteHeader(http.StatusOK)
			w.Write(entry.Body)
			return
		}

		observability.RecordCacheMiss(ctx, m.metrics, "http")
		w.Header().Set("X-Cache", "MISS")

		tee := &teeWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(tee, r)

		if tee.status != http.StatusOK || tee.body.Len() == 0 {
			return
		}
		data, err := json.Marshal(cachedResponse{
			ContentType: w.Header().Get("Content-Type"),
			Body:        tee.body.Bytes(),
		})
		if err == nil {
			err = m.cache.Set(ctx, key, data, m.ttlSeconds)
		}
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("path", r.URL.Path).Msg("Failed to cache response")
		}
	})
}

func (m *CacheMiddleware) lookup(r *http.Request, key string) (cachedResponse, bool) {
	var entry cachedResponse

	data, err := m.cache.Get(r.Context(), key)
	if err != nil {
		return entry, false
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Discarding corrupt cached response")
		return entry, false
	}
	return entry, true
}

// responseCacheKey hashes the path and the query re-encoded with sorted keys,
// so parameter order does not split the cache.
func responseCacheKey(r *http.Request) string {
	sum := sha256.Sum256([]byte(r.URL.Path + "?" + r.URL.Query().Encode()))
	return "http:response:" + hex.EncodeToString(sum[:])
}

// teeWriter passes the response through while keeping a copy of the body.
type teeWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (t *teeWriter) WriteHeader(status int) {
	if t.wroteHeader {
		return
	}
	t.status = status
	t.wroteHeader = true
	t.ResponseWriter.WriteHeader(status)
}

func (t *teeWriter) Write(p []byte) (int, error) {
	if !t.wroteHeader {
		t.WriteHeader(http.StatusOK)
	}
	t.body.Write(p)
	return t.ResponseWriter.Write(p)
}
