package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

var gzipPool = sync.Pool{
	New: func() any { return gzip.NewWriter(io.Discard) },
}

// gzipWriter holds back the status line until the first body write so it can
// decide whether the response gets Content-Encoding: gzip. Responses that
// carry no body go out untouched.
type gzipWriter struct {
	http.ResponseWriter
	gz          *gzip.Writer
	status      int
	wroteHeader bool
	passthrough bool
}

func (w *gzipWriter) WriteHeader(code int) {
	if code < http.StatusOK {
		w.ResponseWriter.WriteHeader(code)
		return
	}
	if w.wroteHeader {
		return
	}
	w.status = code
	w.wroteHeader = true
}

func (w *gzipWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.gz == nil && !w.passthrough {
		w.start()
	}
	if w.passthrough {
		return w.ResponseWriter.Write(p)
	}
	return w.gz.Write(p)
}

func (w *gzipWriter) start() {
	if !bodyAllowed(w.status) {
		w.passthrough = true
		w.ResponseWriter.WriteHeader(w.status)
		return
	}

	h := w.Header()
	h.Set("Content-Encoding", "gzip")
	h.Del("Content-Length")
	w.ResponseWriter.WriteHeader(w.status)

	w.gz = gzipPool.Get().(*gzip.Writer)
	w.gz.Reset(w.ResponseWriter)
}

// finish flushes the gzip trailer, or the held status when nothing was written.
func (w *gzipWriter) finish() {
	if w.gz != nil {
		w.gz.Close()
		gzipPool.Put(w.gz)
		w.gz = nil
		return
	}
	if w.wroteHeader && !w.passthrough {
		w.ResponseWriter.WriteHeader(w.status)
	}
}

func bodyAllowed(status int) bool {
	return status >= http.StatusOK && status != http.StatusNoContent && status != http.StatusNotModified
}

// Compression gzips response bodies for clients that advertise gzip support.
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")
		if r.Method == http.MethodHead || !acceptsGzip(r) {
			next.ServeHTTP(w, r)
			return
		}

		gw := &gzipWriter{ResponseWriter: w}
		defer gw.finish()
		next.ServeHTTP(gw, r)
	})
}

func acceptsGzip(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(enc), ";")
		if strings.EqualFold(name, "gzip") {
			return true
		}
	}
	return false
}

// browserCachePolicies maps read-only route prefixes to Cache-Control values.
var browserCachePolicies = []struct {
	prefix string
	value  string
}{
	{"/api/specialists", "public, max-age=300, must-revalidate"},
	{"/api/doctors", "public, max-age=120, must-revalidate"},
}

// CacheControl lets browsers keep catalogue reads briefly. Classifications
// and everything else are marked no-store.
func CacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value := "no-store"
		if r.Method == http.MethodGet {
			for _, p := range browserCachePolicies {
				if strings.HasPrefix(r.URL.Path, p.prefix) {
					value = p.value
					break
				}
			}
		}
		w.Header().Set("Cache-Control", value)

		next.ServeHTTP(w, r)
	})
}
