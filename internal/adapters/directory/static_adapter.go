// Package directory provides the built-in doctor directory used when no
// database backend is configured.
package directory

import (
	"cmp"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/zatekoja/symptomatch/backend/internal/domain/entities"
	"github.com/zatekoja/symptomatch/backend/internal/domain/repositories"
)

//go:embed doctors.json
var embeddedDoctors []byte

// StaticAdapter serves an immutable in-memory doctor list.
type StaticAdapter struct {
	doctors []entities.Doctor
}

// NewStaticAdapter creates a directory over doctors. The slice is copied.
func NewStaticAdapter(doctors []entities.Doctor) repositories.DoctorRepository {
	sorted := slices.Clone(doctors)
	slices.SortStableFunc(sorted, compareDoctors)
	return &StaticAdapter{doctors: sorted}
}

// NewEmbeddedAdapter creates a directory over the seed doctors shipped in the binary.
func NewEmbeddedAdapter() (repositories.DoctorRepository, error) {
	doctors, err := SeedDoctors()
	if err != nil {
		return nil, err
	}
	return NewStaticAdapter(doctors), nil
}

// SeedDoctors returns the embedded seed doctors.
func SeedDoctors() ([]entities.Doctor, error) {
	var doctors []entities.Doctor
	if err := json.Unmarshal(embeddedDoctors, &doctors); err != nil {
		return nil, fmt.Errorf("failed to parse embedded doctors: %w", err)
	}
	return doctors, nil
}

// List returns every doctor.
func (a *StaticAdapter) List(ctx context.Context) ([]entities.Doctor, error) {
	return slices.Clone(a.doctors), nil
}

// ListBySpecialty returns doctors with exactly this specialty.
func (a *StaticAdapter) ListBySpecialty(ctx context.Context, specialty string) ([]entities.Doctor, error) {
	return a.filter(func(d entities.Doctor) bool {
		return d.Specialty == specialty
	}), nil
}

// Search matches term against name and specialty, ignoring case.
func (a *StaticAdapter) Search(ctx context.Context, term string) ([]entities.Doctor, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []entities.Doctor{}, nil
	}
	return a.filter(func(d entities.Doctor) bool {
		return strings.Contains(strings.ToLower(d.Name), term) ||
			strings.Contains(strings.ToLower(d.Specialty), term)
	}), nil
}

func (a *StaticAdapter) filter(keep func(entities.Doctor) bool) []entities.Doctor {
	out := make([]entities.Doctor, 0)
	for _, d := range a.doctors {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

func compareDoctors(a, b entities.Doctor) int {
	if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}
