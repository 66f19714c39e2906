package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/tripauth/domain"
)

func newTestLimiter(t *testing.T, cfg Config) (*FixedWindowLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewFixedWindowLimiter(client, "test", cfg), mr
}

func TestFixedWindowLimiter_Consume(t *testing.T) {
	lim, _ := newTestLimiter(t, Config{Points: 5, Duration: 30 * time.Second, BlockDuration: 30 * time.Second})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, lim.Consume(ctx, "203.0.113.7"), "consumption %d within budget", i+1)
	}

	err := lim.Consume(ctx, "203.0.113.7")
	assert.True(t, errors.Is(err, domain.ErrRateLimited), "sixth consumption should be rejected, got %v", err)
}

func TestFixedWindowLimiter_KeysAreIndependent(t *testing.T) {
	lim, _ := newTestLimiter(t, Config{Points: 1, Duration: time.Minute, BlockDuration: time.Minute})
	ctx := context.Background()

	require.NoError(t, lim.Consume(ctx, "a"))
	require.ErrorIs(t, lim.Consume(ctx, "a"), domain.ErrRateLimited)
	assert.NoError(t, lim.Consume(ctx, "b"), "a separate key has its own budget")
}

func TestFixedWindowLimiter_RecoversAfterWindow(t *testing.T) {
	lim, mr := newTestLimiter(t, Config{Points: 2, Duration: 30 * time.Second, BlockDuration: 30 * time.Second})
	ctx := context.Background()

	require.NoError(t, lim.Consume(ctx, "k"))
	require.NoError(t, lim.Consume(ctx, "k"))
	require.ErrorIs(t, lim.Consume(ctx, "k"), domain.ErrRateLimited)

	mr.FastForward(31 * time.Second)

	assert.NoError(t, lim.Consume(ctx, "k"), "budget should recover once the penalty elapses")
}

func TestFixedWindowLimiter_BlockDurationExtendsPenalty(t *testing.T) {
	lim, mr := newTestLimiter(t, Config{Points: 1, Duration: 10 * time.Second, BlockDuration: 60 * time.Second})
	ctx := context.Background()

	require.NoError(t, lim.Consume(ctx, "k"))
	require.ErrorIs(t, lim.Consume(ctx, "k"), domain.ErrRateLimited)

	// Past the original window but inside the penalty
	mr.FastForward(20 * time.Second)
	require.ErrorIs(t, lim.Consume(ctx, "k"), domain.ErrRateLimited)

	mr.FastForward(61 * time.Second)
	assert.NoError(t, lim.Consume(ctx, "k"))
}

func TestFixedWindowLimiter_UnavailableBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	lim := NewFixedWindowLimiter(client, "test", Config{Points: 5, Duration: time.Minute, BlockDuration: time.Minute})

	mr.Close()
	client.Close()

	err := lim.Consume(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrRateLimited), "backend failure must not masquerade as a rejection")
}
