package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryStateRepository is the in-process fallback when Redis is not
// available. Entries are only evicted lazily, which is fine for the
// short windows these keys live.
type MemoryStateRepository struct {
	mu          sync.Mutex
	rateLimits  map[string]*rateLimitEntry
	submissions map[string]time.Time
}

func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{
		rateLimits:  make(map[string]*rateLimitEntry),
		submissions: make(map[string]time.Time),
	}
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryStateRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	entry, ok := r.rateLimits[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &rateLimitEntry{count: 1, expiresAt: now.Add(window)}
		r.rateLimits[key] = entry
	} else {
		entry.count++
	}

	return entry.count <= limit, nil
}

func (r *MemoryStateRepository) ClaimSubmission(ctx context.Context, key string, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if expiresAt, ok := r.submissions[key]; ok && now.Before(expiresAt) {
		return false, nil
	}
	r.submissions[key] = now.Add(window)
	return true, nil
}

func (r *MemoryStateRepository) ReleaseSubmission(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.submissions, key)
	return nil
}
