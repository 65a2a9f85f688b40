package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/zatekoja/symptomatch/backend/internal/domain/entities"
	"github.com/zatekoja/symptomatch/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/symptomatch/backend/pkg/errors"
)

const doctorsTable = "doctors"

var doctorColumns = []any{
	"id", "name", "specialty", "rating", "experience_years", "fee", "currency", "verified",
}

// SQLClient is a database connection together with its goqu dialect name.
// Both postgres.Client and sqlite.Client satisfy it.
type SQLClient interface {
	DB() *sql.DB
	Dialect() string
}

// DoctorAdapter implements DoctorRepository over a SQL database
type DoctorAdapter struct {
	client SQLClient
	db     *goqu.Database
}

// NewDoctorAdapter creates a new doctor adapter
func NewDoctorAdapter(client SQLClient) repositories.DoctorRepository {
	return &DoctorAdapter{
		client: client,
		db:     goqu.New(client.Dialect(), client.DB()),
	}
}

// List returns every doctor
func (a *DoctorAdapter) List(ctx context.Context) ([]entities.Doctor, error) {
	return a.query(ctx, a.selectDoctors())
}

// ListBySpecialty returns doctors with exactly this specialty
func (a *DoctorAdapter) ListBySpecialty(ctx context.Context, specialty string) ([]entities.Doctor, error) {
	return a.query(ctx, a.selectDoctors().Where(goqu.Ex{"specialty": specialty}))
}

// Search matches term against name and specialty, ignoring case
func (a *DoctorAdapter) Search(ctx context.Context, term string) ([]entities.Doctor, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []entities.Doctor{}, nil
	}

	pattern := "%" + escapeLike(term) + "%"
	return a.query(ctx, a.selectDoctors().Where(goqu.Or(
		lowerLike("name", pattern),
		lowerLike("specialty", pattern),
	)))
}

func (a *DoctorAdapter) selectDoctors() *goqu.SelectDataset {
	return a.db.Select(doctorColumns...).
		From(doctorsTable).
		Order(goqu.C("rating").Desc(), goqu.C("name").Asc()).
		Prepared(true)
}

func (a *DoctorAdapter) query(ctx context.Context, ds *goqu.SelectDataset) ([]entities.Doctor, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build doctor query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query doctors", err)
	}
	defer rows.Close()

	doctors := make([]entities.Doctor, 0)
	for rows.Next() {
		var d entities.Doctor
		err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.Specialty,
			&d.Rating,
			&d.ExperienceYears,
			&d.Fee,
			&d.Currency,
			&d.Verified,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan doctor", err)
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate doctors", err)
	}

	return doctors, nil
}

// lowerLike builds LOWER(col) LIKE pattern with backslash as the escape
// character, which both Postgres and SQLite accept.
func lowerLike(col, pattern string) exp.LiteralExpression {
	return goqu.L(`LOWER(?) LIKE ? ESCAPE '\'`, goqu.C(col), pattern)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
