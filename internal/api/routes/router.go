package routes

import (
	"net/http"

	"github.com/zatekoja/symptomatch/backend/internal/api/handlers"
	"github.com/zatekoja/symptomatch/backend/internal/api/middleware"
	"github.com/zatekoja/symptomatch/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	matchHandler     *handlers.MatchHandler
	directoryHandler *handlers.DirectoryHandler
	healthHandler    *handlers.HealthHandler

	rateLimiter     *middleware.RateLimiter
	cacheMiddleware *middleware.CacheMiddleware
	allowedOrigins  []string
	metrics         *observability.Metrics
}

// NewRouter creates a new router. rateLimiter, cacheMiddleware and metrics
// may be nil.
func NewRouter(
	matchHandler *handlers.MatchHandler,
	directoryHandler *handlers.DirectoryHandler,
	healthHandler *handlers.HealthHandler,
	rateLimiter *middleware.RateLimiter,
	cacheMiddleware *middleware.CacheMiddleware,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		matchHandler:     matchHandler,
		directoryHandler: directoryHandler,
		healthHandler:    healthHandler,
		rateLimiter:      rateLimiter,
		cacheMiddleware:  cacheMiddleware,
		allowedOrigins:   allowedOrigins,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Classification endpoints are rate limited per client
	r.mux.Handle("POST /api/match", r.limited(r.matchHandler.Match))
	r.mux.Handle("POST /api/recommendations", r.limited(r.matchHandler.Recommend))

	// Directory endpoints
	r.mux.Handle("GET /api/specialists", r.cached(r.directoryHandler.ListSpecialists))
	r.mux.Handle("GET /api/doctors", r.cached(r.directoryHandler.ListDoctors))

	// Apply middleware, innermost first
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CacheControl(handler)
	handler = middleware.Compression(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}

func (r *Router) limited(h http.HandlerFunc) http.Handler {
	if r.rateLimiter == nil {
		return h
	}
	return r.rateLimiter.Middleware(h)
}

func (r *Router) cached(h http.HandlerFunc) http.Handler {
	if r.cacheMiddleware == nil {
		return h
	}
	return r.cacheMiddleware.Middleware(h)
}
