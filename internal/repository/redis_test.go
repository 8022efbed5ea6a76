package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStateRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	repo := NewRedisStateRepository(client)
	ctx := context.Background()

	t.Run("RateLimitWithinLimit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			allowed, err := repo.CheckRateLimit(ctx, "1.2.3.4", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}
	})

	t.Run("RateLimitExceeded", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			_, err := repo.CheckRateLimit(ctx, "5.6.7.8", 2, time.Minute)
			require.NoError(t, err)
		}
		allowed, err := repo.CheckRateLimit(ctx, "5.6.7.8", 2, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("RateLimitResetsAfterWindow", func(t *testing.T) {
		allowed, err := repo.CheckRateLimit(ctx, "9.9.9.9", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)

		s.FastForward(61 * time.Second)

		allowed, err = repo.CheckRateLimit(ctx, "9.9.9.9", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("ClaimSubmission", func(t *testing.T) {
		ok, err := repo.ClaimSubmission(ctx, "0985310238:2025-12-25:19:30", 10*time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ClaimSubmission(ctx, "0985310238:2025-12-25:19:30", 10*time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ClaimExpiresAfterWindow", func(t *testing.T) {
		ok, err := repo.ClaimSubmission(ctx, "0911111111:2025-12-26:18:00", 10*time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		s.FastForward(11 * time.Minute)

		ok, err = repo.ClaimSubmission(ctx, "0911111111:2025-12-26:18:00", 10*time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("ReleaseSubmission", func(t *testing.T) {
		ok, err := repo.ClaimSubmission(ctx, "0922222222:2025-12-27:12:00", 10*time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, repo.ReleaseSubmission(ctx, "0922222222:2025-12-27:12:00"))

		ok, err = repo.ClaimSubmission(ctx, "0922222222:2025-12-27:12:00", 10*time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("NilClient", func(t *testing.T) {
		nilRepo := NewRedisStateRepository(nil)
		_, err := nilRepo.CheckRateLimit(ctx, "x", 1, time.Minute)
		assert.Error(t, err)
		_, err = nilRepo.ClaimSubmission(ctx, "x", time.Minute)
		assert.Error(t, err)
	})
}
