package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zatekoja/symptomatch/backend/internal/domain/providers"
	redisclient "github.com/zatekoja/symptomatch/backend/internal/infrastructure/clients/redis"
	apperrors "github.com/zatekoja/symptomatch/backend/pkg/errors"
)

// RedisAdapter implements the CacheProvider interface using Redis
type RedisAdapter struct {
	client *redisclient.Client
}

// NewRedisAdapter creates a new Redis cache adapter
func NewRedisAdapter(client *redisclient.Client) providers.CacheProvider {
	return &RedisAdapter{client: client}
}

func (a *RedisAdapter) rdb() *redis.Client {
	return a.client.Client()
}

// ttl converts seconds to a Redis expiration; zero or less means none.
func ttl(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// Get retrieves a value; a missing key yields providers.ErrCacheMiss
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := a.rdb().Get(ctx, a.client.Key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, providers.ErrCacheMiss
	case err != nil:
		return nil, apperrors.NewExternalError("failed to get from cache", err)
	}
	return value, nil
}

// Set stores a value with an expiration in seconds
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	if err := a.rdb().Set(ctx, a.client.Key(key), value, ttl(expirationSeconds)).Err(); err != nil {
		return apperrors.NewExternalError("failed to set in cache", err)
	}
	return nil
}

// Delete removes a value from cache
func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.rdb().Del(ctx, a.client.Key(key)).Err(); err != nil {
		return apperrors.NewExternalError("failed to delete from cache", err)
	}
	return nil
}

// Increment bumps a counter in one MULTI/EXEC. The expiry is set only when the
// key has none (EXPIRE NX, Redis 7+), so the window starts at the first hit.
func (a *RedisAdapter) Increment(ctx context.Context, key string, expirationSeconds int) (int64, error) {
	k := a.client.Key(key)

	pipe := a.rdb().TxPipeline()
	incr := pipe.Incr(ctx, k)
	if expiration := ttl(expirationSeconds); expiration > 0 {
		pipe.ExpireNX(ctx, k, expiration)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, apperrors.NewExternalError("failed to increment counter", err)
	}
	return incr.Val(), nil
}
