package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/zatekoja/symptomatch/backend/internal/domain/entities"
	"github.com/zatekoja/symptomatch/backend/internal/domain/repositories"
	"github.com/zatekoja/symptomatch/backend/internal/infrastructure/observability"
	"github.com/zatekoja/symptomatch/backend/internal/lexicon"
	apperrors "github.com/zatekoja/symptomatch/backend/pkg/errors"
)

// Classifier maps free text to a specialist suggestion.
type Classifier interface {
	Classify(input string) entities.MatchResult
}

// DoctorService turns symptom classifications into doctor recommendations.
type DoctorService struct {
	classifier Classifier
	lexicon    *lexicon.Lexicon
	repo       repositories.DoctorRepository
	metrics    *observability.Metrics
}

// NewDoctorService creates a new doctor service. metrics may be nil.
func NewDoctorService(classifier Classifier, lex *lexicon.Lexicon, repo repositories.DoctorRepository, metrics *observability.Metrics) *DoctorService {
	return &DoctorService{
		classifier: classifier,
		lexicon:    lex,
		repo:       repo,
		metrics:    metrics,
	}
}

// Classify runs the classifier and records the outcome.
func (s *DoctorService) Classify(ctx context.Context, text string) entities.MatchResult {
	ctx, span := observability.StartSpan(ctx, "DoctorService.Classify")
	defer span.End()

	result := s.classifier.Classify(text)
	observability.RecordClassification(ctx, s.metrics, string(result.Kind), result.Specialist)
	return result
}

// Recommend classifies text and picks the doctors to show for it. Emergencies
// never list doctors. When nothing matches, the directory is searched with
// the raw text instead and Fallback is set.
func (s *DoctorService) Recommend(ctx context.Context, text string) (*entities.Recommendation, error) {
	ctx, span := observability.StartSpan(ctx, "DoctorService.Recommend")
	defer span.End()

	match := s.Classify(ctx, text)
	rec := &entities.Recommendation{Match: match, Doctors: []entities.Doctor{}}

	var (
		doctors []entities.Doctor
		err     error
	)
	switch match.Kind {
	case entities.MatchKindEmergency:
		return rec, nil
	case entities.MatchKindMatched:
		doctors, err = s.repo.ListBySpecialty(ctx, match.Specialist)
	default:
		rec.Fallback = true
		doctors, err = s.repo.Search(ctx, strings.TrimSpace(text))
	}
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	if doctors != nil {
		rec.Doctors = doctors
	}
	return rec, nil
}

// Catalogue lists every specialist category in lexicon order with the number
// of doctors practising it.
func (s *DoctorService) Catalogue(ctx context.Context) ([]entities.SpecialistSummary, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, s.lexicon.Len())
	for _, d := range doctors {
		counts[d.Specialty]++
	}

	summaries := make([]entities.SpecialistSummary, 0, s.lexicon.Len())
	for category := range s.lexicon.All() {
		summaries = append(summaries, entities.SpecialistSummary{
			Name:        category.Name,
			Icon:        category.Icon,
			DoctorCount: counts[category.Name],
		})
	}
	return summaries, nil
}

// Doctors lists the directory, optionally narrowed to one specialty and/or a
// search term. An unknown specialty is a not-found error.
func (s *DoctorService) Doctors(ctx context.Context, specialty, query string) ([]entities.Doctor, error) {
	specialty = strings.TrimSpace(specialty)
	query = strings.TrimSpace(query)

	switch {
	case specialty == "" && query == "":
		return s.repo.List(ctx)
	case specialty == "":
		return s.repo.Search(ctx, query)
	}

	if _, ok := s.lexicon.Lookup(specialty); !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("unknown specialist %q", specialty))
	}

	doctors, err := s.repo.ListBySpecialty(ctx, specialty)
	if err != nil || query == "" {
		return doctors, err
	}

	needle := strings.ToLower(query)
	filtered := make([]entities.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}
