package repository

import (
	"context"
	"sync/atomic"
	"time"

	"achihouse/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverStateRepository routes to the primary (Redis) repository and
// falls back to the in-memory one when the primary errors. After a
// failure the primary is retried at most once a minute.
type FailoverStateRepository struct {
	primary   domain.StateRepository
	fallback  domain.StateRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverStateRepository(primary, fallback domain.StateRepository, logger *zerolog.Logger) *FailoverStateRepository {
	return &FailoverStateRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverStateRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary state repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck = time.Now()
}

func (r *FailoverStateRepository) shouldRetryPrimary() bool {
	return r.isDown.Load() && time.Since(r.lastCheck) > time.Minute
}

func (r *FailoverStateRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, key, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	} else if r.shouldRetryPrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, key, limit, window)
		if err == nil {
			r.isDown.Store(false)
			return allowed, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.CheckRateLimit(ctx, key, limit, window)
}

func (r *FailoverStateRepository) ClaimSubmission(ctx context.Context, key string, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		ok, err := r.primary.ClaimSubmission(ctx, key, window)
		if err == nil {
			return ok, nil
		}
		r.markDown(err)
	} else if r.shouldRetryPrimary() {
		ok, err := r.primary.ClaimSubmission(ctx, key, window)
		if err == nil {
			r.isDown.Store(false)
			return ok, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.ClaimSubmission(ctx, key, window)
}

func (r *FailoverStateRepository) ReleaseSubmission(ctx context.Context, key string) error {
	if !r.isDown.Load() {
		err := r.primary.ReleaseSubmission(ctx, key)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.ReleaseSubmission(ctx, key)
}
