package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/symptomatch/backend/internal/domain/entities"
)

// DirectoryService defines the doctor directory operations used by the handler.
type DirectoryService interface {
	Catalogue(ctx context.Context) ([]entities.SpecialistSummary, error)
	Doctors(ctx context.Context, specialty, query string) ([]entities.Doctor, error)
}

// DirectoryHandler serves the specialist catalogue and doctor listings.
type DirectoryHandler struct {
	service DirectoryService
}

// NewDirectoryHandler creates a new directory handler.
func NewDirectoryHandler(service DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// ListSpecialists handles GET /api/specialists
func (h *DirectoryHandler) ListSpecialists(w http.ResponseWriter, r *http.Request) {
	specialists, err := h.service.Catalogue(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"specialists": specialists,
		"count":       len(specialists),
	})
}

// ListDoctors handles GET /api/doctors?specialty=&q=
func (h *DirectoryHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	doctors, err := h.service.Doctors(r.Context(), query.Get("specialty"), query.Get("q"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if doctors == nil {
		doctors = []entities.Doctor{}
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"doctors": doctors,
		"count":   len(doctors),
	})
}
