package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/tripauth/domain"
)

// CachedUserRepository decorates a UserRepository with a Redis read-through
// cache on identifier lookups. Entries expire after the configured TTL; the
// cache is a performance layer only, never authoritative.
type CachedUserRepository struct {
	inner  domain.UserRepository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCachedUserRepository creates the caching decorator
func NewCachedUserRepository(inner domain.UserRepository, client *redis.Client, ttl time.Duration) domain.UserRepository {
	return &CachedUserRepository{
		inner:  inner,
		client: client,
		prefix: "user:",
		ttl:    ttl,
	}
}

// FindByIdentifier checks the cache first and falls back to the inner
// repository, populating the cache on a miss. Cache errors degrade to the
// authoritative store instead of failing the lookup.
func (r *CachedUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	key := r.prefix + identifier

	data, err := r.client.Get(ctx, key).Result()
	if err == nil {
		var cached domain.CachedUser
		if jsonErr := json.Unmarshal([]byte(data), &cached); jsonErr == nil {
			return &domain.User{
				ID:           cached.ID,
				Username:     cached.Username,
				Email:        cached.Email,
				PasswordHash: cached.PasswordHash,
				IsActive:     cached.IsActive,
			}, nil
		}
		// Corrupt entry, drop it and fall through
		r.client.Del(ctx, key)
	}

	// Miss, corrupt entry, or cache unavailable: the authoritative store answers
	user, err := r.inner.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(domain.CachedUser{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		IsActive:     user.IsActive,
	})
	if err == nil {
		r.client.Set(ctx, key, encoded, r.ttl)
	}

	return user, nil
}

// Create implements domain.UserRepository
func (r *CachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.inner.Create(ctx, user)
}

// FindByID implements domain.UserRepository
func (r *CachedUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.inner.FindByID(ctx, id)
}

// Exists implements domain.UserRepository
func (r *CachedUserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return r.inner.Exists(ctx, id)
}

// Update writes through to the inner repository and invalidates both lookup
// keys so a password change is not served from a stale entry.
func (r *CachedUserRepository) Update(ctx context.Context, user *domain.User) error {
	if err := r.inner.Update(ctx, user); err != nil {
		return err
	}
	r.client.Del(ctx, r.prefix+user.Username, r.prefix+user.Email)
	return nil
}
