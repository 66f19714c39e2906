package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/tripauth/domain"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestVerificationRepository_SaveAndFind(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewVerificationRepository(client)
	ctx := context.Background()

	session := &domain.VerificationSession{UserID: 42, OTPHash: "$2a$12$fake"}
	require.NoError(t, repo.Save(ctx, "vid-1", session, 15*time.Minute))

	got, err := repo.Find(ctx, "vid-1")
	require.NoError(t, err)
	assert.Equal(t, uint(42), got.UserID)
	assert.Equal(t, "$2a$12$fake", got.OTPHash)
}

func TestVerificationRepository_FindMissing(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewVerificationRepository(client)

	_, err := repo.Find(context.Background(), "never-existed")
	assert.ErrorIs(t, err, domain.ErrVerificationNotFound)
}

func TestVerificationRepository_ExpiresWithTTL(t *testing.T) {
	client, mr := newTestRedis(t)
	repo := NewVerificationRepository(client)
	ctx := context.Background()

	session := &domain.VerificationSession{UserID: 42, OTPHash: "h"}
	require.NoError(t, repo.Save(ctx, "vid-1", session, 15*time.Minute))

	mr.FastForward(16 * time.Minute)

	_, err := repo.Find(ctx, "vid-1")
	assert.ErrorIs(t, err, domain.ErrVerificationNotFound, "expired session must be indistinguishable from a missing one")
}

func TestVerificationRepository_Delete(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewVerificationRepository(client)
	ctx := context.Background()

	session := &domain.VerificationSession{UserID: 42, OTPHash: "h"}
	require.NoError(t, repo.Save(ctx, "vid-1", session, time.Minute))
	require.NoError(t, repo.Delete(ctx, "vid-1"))

	_, err := repo.Find(ctx, "vid-1")
	assert.ErrorIs(t, err, domain.ErrVerificationNotFound)
}

func TestVerificationRepository_SessionsAreIndependent(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewVerificationRepository(client)
	ctx := context.Background()

	// Concurrent logins for the same user produce independent sessions
	require.NoError(t, repo.Save(ctx, "vid-a", &domain.VerificationSession{UserID: 42, OTPHash: "ha"}, time.Minute))
	require.NoError(t, repo.Save(ctx, "vid-b", &domain.VerificationSession{UserID: 42, OTPHash: "hb"}, time.Minute))

	require.NoError(t, repo.Delete(ctx, "vid-a"))

	got, err := repo.Find(ctx, "vid-b")
	require.NoError(t, err)
	assert.Equal(t, "hb", got.OTPHash)
}
