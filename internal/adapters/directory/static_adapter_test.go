package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/symptomatch/backend/internal/domain/entities"
)

func names(doctors []entities.Doctor) []string {
	out := make([]string, len(doctors))
	for i, d := range doctors {
		out[i] = d.Name
	}
	return out
}

func TestEmbeddedAdapter_ListOrderedByRating(t *testing.T) {
	repo, err := NewEmbeddedAdapter()
	require.NoError(t, err)

	doctors, err := repo.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Dr. Rahul Verma",
		"Dr. Aditi Sharma",
		"Dr. Amit Patel",
		"Dr. Neaha Gupta",
		"Dr. Priya Singh",
	}, names(doctors))
}

func TestStaticAdapter_ListBySpecialtyIsExact(t *testing.T) {
	repo, err := NewEmbeddedAdapter()
	require.NoError(t, err)
	ctx := context.Background()

	doctors, err := repo.ListBySpecialty(ctx, "Dentist")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr. Aditi Sharma"}, names(doctors))

	doctors, err = repo.ListBySpecialty(ctx, "dentist")
	require.NoError(t, err)
	assert.Empty(t, doctors)
	assert.NotNil(t, doctors)
}

func TestStaticAdapter_Search(t *testing.T) {
	repo, err := NewEmbeddedAdapter()
	require.NoError(t, err)
	ctx := context.Background()

	doctors, err := repo.Search(ctx, "  CARDIO ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr. Rahul Verma"}, names(doctors))

	doctors, err = repo.Search(ctx, "sharma")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr. Aditi Sharma"}, names(doctors))

	doctors, err = repo.Search(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, doctors)
}

func TestStaticAdapter_TiesOrderedByName(t *testing.T) {
	repo := NewStaticAdapter([]entities.Doctor{
		{ID: "b", Name: "Dr. B", Rating: 4.0},
		{ID: "a", Name: "Dr. A", Rating: 4.0},
		{ID: "c", Name: "Dr. C", Rating: 4.5},
	})

	doctors, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr. C", "Dr. A", "Dr. B"}, names(doctors))
}

func TestStaticAdapter_ListReturnsCopy(t *testing.T) {
	repo, err := NewEmbeddedAdapter()
	require.NoError(t, err)
	ctx := context.Background()

	doctors, err := repo.List(ctx)
	require.NoError(t, err)
	doctors[0].Name = "changed"

	again, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Rahul Verma", again[0].Name)
}
