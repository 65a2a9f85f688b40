package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/symptomatch/backend/internal/adapters/directory"
	"github.com/zatekoja/symptomatch/backend/internal/api/handlers"
	"github.com/zatekoja/symptomatch/backend/internal/application/services"
	"github.com/zatekoja/symptomatch/backend/internal/domain/entities"
	"github.com/zatekoja/symptomatch/backend/internal/lexicon"
	apperrors "github.com/zatekoja/symptomatch/backend/pkg/errors"
)

func newDoctorService(t *testing.T) *services.DoctorService {
	t.Helper()
	lex := lexicon.MustDefault()
	matcher, err := services.NewSpecialistMatcher(lex, services.DefaultMatcherConfig())
	require.NoError(t, err)
	repo, err := directory.NewEmbeddedAdapter()
	require.NoError(t, err)
	return services.NewDoctorService(matcher, lex, repo, nil)
}

// MockDirectoryService is a mock implementation of DirectoryService
type MockDirectoryService struct {
	mock.Mock
}

func (m *MockDirectoryService) Catalogue(ctx context.Context) ([]entities.SpecialistSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.SpecialistSummary), args.Error(1)
}

func (m *MockDirectoryService) Doctors(ctx context.Context, specialty, query string) ([]entities.Doctor, error) {
	args := m.Called(ctx, specialty, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Doctor), args.Error(1)
}

func post(t *testing.T, h http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func TestMatchHandler_Match(t *testing.T) {
	handler := handlers.NewMatchHandler(newDoctorService(t))

	tests := []struct {
		name       string
		body       string
		kind       string
		specialist string
		percent    float64
	}{
		{"code mixed", `{"text":"pet mein dard"}`, "matched", "Gastroenterologist", 90},
		{"emergency", `{"text":"heart attack"}`, "emergency", "Emergency", 100},
		{"too short", `{"text":"hi"}`, "unmatched", "", 0},
		{"missing text", `{}`, "unmatched", "", 0},
		{"dentist", `{"text":"tooth pain and cavity"}`, "matched", "Dentist", 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, handler.Match, "/api/match", tt.body)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			got := decode[map[string]any](t, w)
			assert.Equal(t, tt.kind, got["kind"])
			if tt.specialist == "" {
				assert.NotContains(t, got, "specialist")
			} else {
				assert.Equal(t, tt.specialist, got["specialist"])
			}
			assert.Equal(t, tt.percent, got["confidence_percent"])
		})
	}
}

func TestMatchHandler_Match_UnmatchedReason(t *testing.T) {
	handler := handlers.NewMatchHandler(newDoctorService(t))

	w := post(t, handler.Match, "/api/match", `{"text":"xyz unknown"}`)
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[map[string]any](t, w)
	assert.Equal(t, "no_clear_match", got["reason"])
}

func TestMatchHandler_Match_BadPayload(t *testing.T) {
	handler := handlers.NewMatchHandler(newDoctorService(t))

	w := post(t, handler.Match, "/api/match", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request payload", decode[map[string]string](t, w)["error"])
}

func TestMatchHandler_Match_BodyTooLarge(t *testing.T) {
	handler := handlers.NewMatchHandler(newDoctorService(t))

	body := `{"text":"` + strings.Repeat("a", 5000) + `"}`
	w := post(t, handler.Match, "/api/match", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "request body too large", decode[map[string]string](t, w)["error"])
}

func TestMatchHandler_Recommend(t *testing.T) {
	handler := handlers.NewMatchHandler(newDoctorService(t))

	w := post(t, handler.Recommend, "/api/recommendations", `{"text":"skin rash and itching"}`)
	require.Equal(t, http.StatusOK, w.Code)

	rec := decode[entities.Recommendation](t, w)
	assert.Equal(t, "Dermatologist", rec.Match.Specialist)
	assert.False(t, rec.Fallback)
	require.Len(t, rec.Doctors, 1)
	assert.Equal(t, "Dr. Neaha Gupta", rec.Doctors[0].Name)
}

func TestMatchHandler_Recommend_Emergency(t *testing.T) {
	handler := handlers.NewMatchHandler(newDoctorService(t))

	w := post(t, handler.Recommend, "/api/recommendations", `{"text":"bahut khoon beh raha hai"}`)
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[map[string]any](t, w)
	assert.Equal(t, "emergency", got["match"].(map[string]any)["kind"])
	assert.Equal(t, []any{}, got["doctors"])
}

func TestDirectoryHandler_ListSpecialists(t *testing.T) {
	handler := handlers.NewDirectoryHandler(newDoctorService(t))

	req := httptest.NewRequest(http.MethodGet, "/api/specialists", nil)
	w := httptest.NewRecorder()
	handler.ListSpecialists(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Specialists []entities.SpecialistSummary `json:"specialists"`
		Count       int                          `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, 6, got.Count)
	assert.Equal(t, "General Physician", got.Specialists[0].Name)
}

func TestDirectoryHandler_ListDoctors(t *testing.T) {
	handler := handlers.NewDirectoryHandler(newDoctorService(t))

	tests := []struct {
		target string
		status int
		count  float64
	}{
		{"/api/doctors", http.StatusOK, 5},
		{"/api/doctors?specialty=Dentist", http.StatusOK, 1},
		{"/api/doctors?q=dr.", http.StatusOK, 5},
		{"/api/doctors?specialty=Orthopedist", http.StatusOK, 0},
		{"/api/doctors?specialty=Astrologer", http.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()
			handler.ListDoctors(w, req)

			require.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				got := decode[map[string]any](t, w)
				assert.Equal(t, tt.count, got["count"])
				assert.NotNil(t, got["doctors"])
			}
		})
	}
}

func TestDirectoryHandler_InternalErrorIsHidden(t *testing.T) {
	boom := apperrors.NewInternalError("failed to query doctors", errors.New("password authentication failed"))
	svc := new(MockDirectoryService)
	svc.On("Doctors", mock.Anything, "", "").Return(nil, boom)
	handler := handlers.NewDirectoryHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/doctors", nil)
	w := httptest.NewRecorder()
	handler.ListDoctors(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", decode[map[string]string](t, w)["error"])
	svc.AssertExpectations(t)
}

func TestDirectoryHandler_PassesFilters(t *testing.T) {
	svc := new(MockDirectoryService)
	svc.On("Doctors", mock.Anything, "Dentist", "aditi").Return(nil, nil)
	svc.On("Catalogue", mock.Anything).Return([]entities.SpecialistSummary{{Name: "Dentist", Icon: "🦷", DoctorCount: 1}}, nil)
	handler := handlers.NewDirectoryHandler(svc)

	w := httptest.NewRecorder()
	handler.ListDoctors(w, httptest.NewRequest(http.MethodGet, "/api/doctors?specialty=Dentist&q=aditi", nil))
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[map[string]any](t, w)
	assert.Equal(t, float64(0), got["count"])
	assert.Equal(t, []any{}, got["doctors"])

	w = httptest.NewRecorder()
	handler.ListSpecialists(w, httptest.NewRequest(http.MethodGet, "/api/specialists", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode[map[string]any](t, w)["count"])

	svc.AssertExpectations(t)
}

func TestHealthHandler(t *testing.T) {
	healthy := handlers.NewHealthHandler(map[string]handlers.HealthCheck{
		"directory": func(ctx context.Context) error { return nil },
	})
	w := httptest.NewRecorder()
	healthy.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, w)["status"])

	degraded := handlers.NewHealthHandler(map[string]handlers.HealthCheck{
		"directory": func(ctx context.Context) error { return nil },
		"redis":     func(ctx context.Context) error { return errors.New("dial tcp: refused") },
	})
	w = httptest.NewRecorder()
	degraded.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	got := decode[map[string]any](t, w)
	assert.Equal(t, "degraded", got["status"])
	assert.Equal(t, "dial tcp: refused", got["checks"].(map[string]any)["redis"])
}
