package repositories

import (
	"context"

	"github.com/zatekoja/symptomatch/backend/internal/domain/entities"
)

// DoctorRepository reads the doctor directory. Results are ordered by rating
// (highest first), then name.
type DoctorRepository interface {
	// List returns every doctor.
	List(ctx context.Context) ([]entities.Doctor, error)

	// ListBySpecialty returns doctors whose specialty equals specialty exactly.
	ListBySpecialty(ctx context.Context, specialty string) ([]entities.Doctor, error)

	// Search returns doctors whose name or specialty contains term, ignoring case.
	Search(ctx context.Context, term string) ([]entities.Doctor, error)
}
