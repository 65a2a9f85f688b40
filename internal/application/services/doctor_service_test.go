package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/exemplar"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zatekoja/symptomatch/backend/internal/adapters/directory"
	"github.com/zatekoja/symptomatch/backend/internal/domain/entities"
	"github.com/zatekoja/symptomatch/backend/internal/infrastructure/observability"
	"github.com/zatekoja/symptomatch/backend/internal/lexicon"
	apperrors "github.com/zatekoja/symptomatch/backend/pkg/errors"
)

func newTestDoctorService(t *testing.T) *DoctorService {
	t.Helper()
	repo, err := directory.NewEmbeddedAdapter()
	require.NoError(t, err)
	return NewDoctorService(newTestMatcher(t), lexicon.MustDefault(), repo, nil)
}

type failingRepository struct{ err error }

func (r failingRepository) List(ctx context.Context) ([]entities.Doctor, error) {
	return nil, r.err
}

func (r failingRepository) ListBySpecialty(ctx context.Context, specialty string) ([]entities.Doctor, error) {
	return nil, r.err
}

func (r failingRepository) Search(ctx context.Context, term string) ([]entities.Doctor, error) {
	return nil, r.err
}

func doctorNames(doctors []entities.Doctor) []string {
	out := make([]string, len(doctors))
	for i, d := range doctors {
		out[i] = d.Name
	}
	return out
}

func TestRecommend_MatchedListsSpecialty(t *testing.T) {
	s := newTestDoctorService(t)

	rec, err := s.Recommend(context.Background(), "tooth pain and cavity")
	require.NoError(t, err)

	assert.Equal(t, "Dentist", rec.Match.Specialist)
	assert.False(t, rec.Fallback)
	assert.Equal(t, []string{"Dr. Aditi Sharma"}, doctorNames(rec.Doctors))
}

func TestRecommend_EmergencyListsNoDoctors(t *testing.T) {
	s := newTestDoctorService(t)

	rec, err := s.Recommend(context.Background(), "blood pressure is high")
	require.NoError(t, err)

	assert.True(t, rec.Match.IsEmergency())
	assert.False(t, rec.Fallback)
	assert.NotNil(t, rec.Doctors)
	assert.Empty(t, rec.Doctors)
}

func TestRecommend_UnmatchedFallsBackToSearch(t *testing.T) {
	s := newTestDoctorService(t)

	rec, err := s.Recommend(context.Background(), "  Physician ")
	require.NoError(t, err)

	assert.Equal(t, entities.MatchKindUnmatched, rec.Match.Kind)
	assert.Equal(t, entities.ReasonNoClearMatch, rec.Match.Reason)
	assert.True(t, rec.Fallback)
	assert.Equal(t, []string{"Dr. Priya Singh"}, doctorNames(rec.Doctors))
}

func TestRecommend_TooShortSearchesNothingUseful(t *testing.T) {
	s := newTestDoctorService(t)

	rec, err := s.Recommend(context.Background(), "   ")
	require.NoError(t, err)

	assert.Equal(t, entities.ReasonInputTooShort, rec.Match.Reason)
	assert.True(t, rec.Fallback)
	assert.Empty(t, rec.Doctors)
}

func TestRecommend_RepositoryError(t *testing.T) {
	boom := apperrors.NewInternalError("failed to query doctors", errors.New("db down"))
	s := NewDoctorService(newTestMatcher(t), lexicon.MustDefault(), failingRepository{err: boom}, nil)

	_, err := s.Recommend(context.Background(), "skin rash")
	assert.ErrorIs(t, err, boom)

	// Emergencies never touch the directory.
	rec, err := s.Recommend(context.Background(), "heart attack")
	require.NoError(t, err)
	assert.True(t, rec.Match.IsEmergency())
}

func TestCatalogue_CountsDoctorsInLexiconOrder(t *testing.T) {
	s := newTestDoctorService(t)

	summaries, err := s.Catalogue(context.Background())
	require.NoError(t, err)

	want := []entities.SpecialistSummary{
		{Name: "General Physician", Icon: "🌡️", DoctorCount: 1},
		{Name: "Gastroenterologist", Icon: "🤢", DoctorCount: 1},
		{Name: "Cardiologist", Icon: "❤️", DoctorCount: 1},
		{Name: "Dermatologist", Icon: "🧴", DoctorCount: 1},
		{Name: "Dentist", Icon: "🦷", DoctorCount: 1},
		{Name: "Orthopedist", Icon: "🦴", DoctorCount: 0},
	}
	assert.Equal(t, want, summaries)
}

func TestDoctors_Filters(t *testing.T) {
	s := newTestDoctorService(t)
	ctx := context.Background()

	all, err := s.Doctors(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	bySpecialty, err := s.Doctors(ctx, "Cardiologist", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr. Rahul Verma"}, doctorNames(bySpecialty))

	both, err := s.Doctors(ctx, "Cardiologist", "priya")
	require.NoError(t, err)
	assert.Empty(t, both)

	byQuery, err := s.Doctors(ctx, "", "gupta")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr. Neaha Gupta"}, doctorNames(byQuery))
}

func TestDoctors_UnknownSpecialty(t *testing.T) {
	s := newTestDoctorService(t)

	_, err := s.Doctors(context.Background(), "Astrologer", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestClassify_MetricRecordedUnderClassifySpan(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithExemplarFilter(exemplar.AlwaysOnFilter),
	)
	metrics, err := observability.NewMetrics(provider.Meter("test"))
	require.NoError(t, err)

	repo, err := directory.NewEmbeddedAdapter()
	require.NoError(t, err)
	svc := NewDoctorService(newTestMatcher(t), lexicon.MustDefault(), repo, metrics)

	svc.Classify(context.Background(), "pet mein dard")

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "DoctorService.Classify", ended[0].Name())
	spanID := ended[0].SpanContext().SpanID()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "symptomatch.classification.count" {
				continue
			}
			found = true
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			require.Len(t, sum.DataPoints, 1)
			require.NotEmpty(t, sum.DataPoints[0].Exemplars)
			assert.Equal(t, spanID[:], sum.DataPoints[0].Exemplars[0].SpanID)
		}
	}
	assert.True(t, found, "classification counter not collected")
}
