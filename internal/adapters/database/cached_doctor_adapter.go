package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/symptomatch/backend/internal/domain/entities"
	"github.com/zatekoja/symptomatch/backend/internal/domain/providers"
	"github.com/zatekoja/symptomatch/backend/internal/domain/repositories"
	"github.com/zatekoja/symptomatch/backend/internal/infrastructure/observability"
)

// CachedDoctorAdapter wraps a DoctorRepository with caching
type CachedDoctorAdapter struct {
	adapter repositories.DoctorRepository
	cache   providers.CacheProvider
	ttl     int
	metrics *observability.Metrics
}

// NewCachedDoctorAdapter creates a new cached doctor adapter. ttlSeconds
// applies to every cached list. metrics may be nil.
func NewCachedDoctorAdapter(adapter repositories.DoctorRepository, cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics) repositories.DoctorRepository {
	return &CachedDoctorAdapter{
		adapter: adapter,
		cache:   cache,
		ttl:     ttlSeconds,
		metrics: metrics,
	}
}

// Cache key generators
func doctorsListCacheKey() string {
	return "doctors:all"
}

func doctorsSpecialtyCacheKey(specialty string) string {
	return fmt.Sprintf("doctors:specialty:%s", specialty)
}

func doctorsSearchCacheKey(term string) string {
	return fmt.Sprintf("doctors:search:%s", strings.ToLower(strings.TrimSpace(term)))
}

// List returns every doctor with caching
func (a *CachedDoctorAdapter) List(ctx context.Context) ([]entities.Doctor, error) {
	return a.cached(ctx, doctorsListCacheKey(), func() ([]entities.Doctor, error) {
		return a.adapter.List(ctx)
	})
}

// ListBySpecialty returns doctors with this specialty with caching
func (a *CachedDoctorAdapter) ListBySpecialty(ctx context.Context, specialty string) ([]entities.Doctor, error) {
	return a.cached(ctx, doctorsSpecialtyCacheKey(specialty), func() ([]entities.Doctor, error) {
		return a.adapter.ListBySpecialty(ctx, specialty)
	})
}

// Search matches term against name and specialty with caching
func (a *CachedDoctorAdapter) Search(ctx context.Context, term string) ([]entities.Doctor, error) {
	return a.cached(ctx, doctorsSearchCacheKey(term), func() ([]entities.Doctor, error) {
		return a.adapter.Search(ctx, term)
	})
}

func (a *CachedDoctorAdapter) cached(ctx context.Context, key string, load func() ([]entities.Doctor, error)) ([]entities.Doctor, error) {
	cached, err := a.cache.Get(ctx, key)
	switch {
	case err == nil:
		var doctors []entities.Doctor
		if err := json.Unmarshal(cached, &doctors); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "doctors")
			return doctors, nil
		}
		// If unmarshal fails, continue to fetch from the directory
		log.Warn().Err(err).Str("key", key).Msg("Failed to unmarshal cached doctors")
	case !errors.Is(err, providers.ErrCacheMiss):
		log.Warn().Err(err).Str("key", key).Msg("Doctor cache read failed")
	}
	observability.RecordCacheMiss(ctx, a.metrics, "doctors")

	doctors, err := load()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(doctors); err == nil {
		if err := a.cache.Set(ctx, key, data, a.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to cache doctors")
		}
	}

	return doctors, nil
}
