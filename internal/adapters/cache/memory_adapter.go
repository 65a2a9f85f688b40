package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/zatekoja/symptomatch/backend/internal/domain/providers"
)

// MemoryAdapter is an in-process CacheProvider used when Redis is not
// configured. Expired entries are dropped lazily on access and by Sweep.
type MemoryAdapter struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     []byte
	counter   int64
	expiresAt time.Time
}

// NewMemoryAdapter creates an empty in-memory cache.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

var _ providers.CacheProvider = (*MemoryAdapter)(nil)

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.live(key)
	if !ok || e.value == nil {
		return nil, providers.ErrCacheMiss
	}
	return slices.Clone(e.value), nil
}

// Set stores a value in cache with expiration
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries[key] = memoryEntry{
		value:     slices.Clone(value),
		expiresAt: a.expiry(expirationSeconds),
	}
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.entries, key)
	return nil
}

// Increment bumps a counter, starting its expiry window on first use
func (a *MemoryAdapter) Increment(ctx context.Context, key string, expirationSeconds int) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.live(key)
	if !ok {
		e = memoryEntry{expiresAt: a.expiry(expirationSeconds)}
	}
	e.counter++
	e.value = nil
	a.entries[key] = e
	return e.counter, nil
}

// Sweep removes every expired entry.
func (a *MemoryAdapter) Sweep() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for key := range a.entries {
		a.live(key)
	}
}

// StartSweeper runs Sweep every interval until ctx is done.
func (a *MemoryAdapter) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Sweep()
		}
	}
}

// live returns the entry for key, deleting it if expired. Callers hold mu.
func (a *MemoryAdapter) live(key string) (memoryEntry, bool) {
	e, ok := a.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expiresAt.IsZero() && !a.now().Before(e.expiresAt) {
		delete(a.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

func (a *MemoryAdapter) expiry(seconds int) time.Time {
	if seconds <= 0 {
		return time.Time{}
	}
	return a.now().Add(time.Duration(seconds) * time.Second)
}
