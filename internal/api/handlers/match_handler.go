package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/zatekoja/symptomatch/backend/internal/domain/entities"
)

// MatchService defines the classification operations used by the handler.
type MatchService interface {
	Classify(ctx context.Context, text string) entities.MatchResult
	Recommend(ctx context.Context, text string) (*entities.Recommendation, error)
}

// MatchHandler serves symptom classification.
type MatchHandler struct {
	service MatchService
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(service MatchService) *MatchHandler {
	return &MatchHandler{service: service}
}

type matchRequest struct {
	Text string `json:"text"`
}

// Match handles POST /api/match
func (h *MatchHandler) Match(w http.ResponseWriter, r *http.Request) {
	var payload matchRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result := h.service.Classify(r.Context(), payload.Text)
	logMatch(r.Context(), result)

	respondWithJSON(w, http.StatusOK, result)
}

// Recommend handles POST /api/recommendations
func (h *MatchHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var payload matchRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	rec, err := h.service.Recommend(r.Context(), payload.Text)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	logMatch(r.Context(), rec.Match)

	respondWithJSON(w, http.StatusOK, rec)
}

// logMatch records the outcome only; patient text stays out of the logs.
func logMatch(ctx context.Context, result entities.MatchResult) {
	zerolog.Ctx(ctx).Debug().
		Str("kind", string(result.Kind)).
		Str("specialist", result.Specialist).
		Float64("confidence", result.Confidence).
		Str("reason", string(result.Reason)).
		Msg("Symptoms classified")
}
