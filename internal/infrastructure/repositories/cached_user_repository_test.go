package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/tripauth/domain"
	"github.com/you/tripauth/internal/mocks"
)

func seedUser() *domain.User {
	return &domain.User{
		ID:           42,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$12$fake",
		IsActive:     true,
	}
}

func TestCachedUserRepository_ReadThrough(t *testing.T) {
	client, _ := newTestRedis(t)

	calls := 0
	inner := mocks.NewMockUserRepository()
	inner.FindByIdentifierFunc = func(ctx context.Context, identifier string) (*domain.User, error) {
		calls++
		return seedUser(), nil
	}

	repo := NewCachedUserRepository(inner, client, time.Hour)
	ctx := context.Background()

	first, err := repo.FindByIdentifier(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint(42), first.ID)
	assert.Equal(t, 1, calls, "miss goes to the authoritative store")

	second, err := repo.FindByIdentifier(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.PasswordHash, second.PasswordHash)
	assert.Equal(t, 1, calls, "hit must not reach the authoritative store")
}

func TestCachedUserRepository_MissOnUnknownUser(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewCachedUserRepository(mocks.NewMockUserRepository(), client, time.Hour)

	_, err := repo.FindByIdentifier(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCachedUserRepository_EntryExpires(t *testing.T) {
	client, mr := newTestRedis(t)

	calls := 0
	inner := mocks.NewMockUserRepository()
	inner.FindByIdentifierFunc = func(ctx context.Context, identifier string) (*domain.User, error) {
		calls++
		return seedUser(), nil
	}

	repo := NewCachedUserRepository(inner, client, time.Hour)
	ctx := context.Background()

	_, err := repo.FindByIdentifier(ctx, "alice")
	require.NoError(t, err)

	mr.FastForward(61 * time.Minute)

	_, err = repo.FindByIdentifier(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "expired entry should fall back to the store")
}

func TestCachedUserRepository_UpdateInvalidates(t *testing.T) {
	client, _ := newTestRedis(t)

	stored := seedUser()
	inner := mocks.NewMockUserRepository()
	inner.FindByIdentifierFunc = func(ctx context.Context, identifier string) (*domain.User, error) {
		u := *stored
		return &u, nil
	}
	inner.UpdateFunc = func(ctx context.Context, user *domain.User) error {
		stored = user
		return nil
	}

	repo := NewCachedUserRepository(inner, client, time.Hour)
	ctx := context.Background()

	_, err := repo.FindByIdentifier(ctx, "alice")
	require.NoError(t, err)

	updated := seedUser()
	updated.PasswordHash = "$2a$12$new"
	require.NoError(t, repo.Update(ctx, updated))

	got, err := repo.FindByIdentifier(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "$2a$12$new", got.PasswordHash, "stale hash must not be served after an update")
}

func TestCachedUserRepository_SurvivesCacheOutage(t *testing.T) {
	client, mr := newTestRedis(t)

	inner := mocks.NewMockUserRepository()
	inner.FindByIdentifierFunc = func(ctx context.Context, identifier string) (*domain.User, error) {
		return seedUser(), nil
	}

	repo := NewCachedUserRepository(inner, client, time.Hour)

	mr.Close()

	got, err := repo.FindByIdentifier(context.Background(), "alice")
	require.NoError(t, err, "cache outage must degrade to the authoritative store")
	assert.Equal(t, uint(42), got.ID)
}
