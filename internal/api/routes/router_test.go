package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/symptomatch/backend/internal/adapters/cache"
	"github.com/zatekoja/symptomatch/backend/internal/adapters/directory"
	"github.com/zatekoja/symptomatch/backend/internal/api/handlers"
	"github.com/zatekoja/symptomatch/backend/internal/api/middleware"
	"github.com/zatekoja/symptomatch/backend/internal/api/routes"
	"github.com/zatekoja/symptomatch/backend/internal/application/services"
	"github.com/zatekoja/symptomatch/backend/internal/lexicon"
)

func newServer(t *testing.T, matchLimit int) http.Handler {
	t.Helper()

	lex := lexicon.MustDefault()
	matcher, err := services.NewSpecialistMatcher(lex, services.DefaultMatcherConfig())
	require.NoError(t, err)
	repo, err := directory.NewEmbeddedAdapter()
	require.NoError(t, err)

	svc := services.NewDoctorService(matcher, lex, repo, nil)
	store := cache.NewMemoryAdapter()

	router := routes.NewRouter(
		handlers.NewMatchHandler(svc),
		handlers.NewDirectoryHandler(svc),
		handlers.NewHealthHandler(map[string]handlers.HealthCheck{
			"directory": func(ctx context.Context) error { return nil },
		}),
		middleware.NewRateLimiter(store, "match", matchLimit, 60, nil),
		middleware.NewCacheMiddleware(store, 60, nil),
		[]string{"*"},
		nil,
	)
	return router.SetupRoutes()
}

func TestRouter_Routes(t *testing.T) {
	server := newServer(t, 20)

	tests := []struct {
		method string
		target string
		body   string
		status int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodPost, "/api/match", `{"text":"fever and cough"}`, http.StatusOK},
		{http.MethodPost, "/api/recommendations", `{"text":"fever and cough"}`, http.StatusOK},
		{http.MethodGet, "/api/specialists", "", http.StatusOK},
		{http.MethodGet, "/api/doctors?specialty=Dentist", "", http.StatusOK},
		{http.MethodGet, "/api/match", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestRouter_MatchIsRateLimited(t *testing.T) {
	server := newServer(t, 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/match", strings.NewReader(`{"text":"toothache"}`))
		req.RemoteAddr = "203.0.113.9:4000"
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRouter_ClassificationsAreNotCached(t *testing.T) {
	server := newServer(t, 20)

	req := httptest.NewRequest(http.MethodPost, "/api/match", strings.NewReader(`{"text":"skin rash"}`))
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Empty(t, w.Header().Get("X-Cache"))
}

func TestRouter_Preflight(t *testing.T) {
	server := newServer(t, 20)

	req := httptest.NewRequest(http.MethodOptions, "/api/match", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
