package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/tripauth/domain"
)

// VerificationRepositoryImpl implements domain.VerificationRepository using
// Redis. Records expire automatically via TTL and are deleted explicitly on
// successful redemption so a code cannot be replayed.
type VerificationRepositoryImpl struct {
	client *redis.Client
	prefix string
}

// NewVerificationRepository creates a new verification session repository
func NewVerificationRepository(client *redis.Client) domain.VerificationRepository {
	return &VerificationRepositoryImpl{
		client: client,
		prefix: "verifyId:",
	}
}

// Save implements domain.VerificationRepository
func (r *VerificationRepositoryImpl) Save(ctx context.Context, verifyID string, session *domain.VerificationSession, ttl time.Duration) error {
	key := r.prefix + verifyID
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal verification session: %w", err)
	}

	return r.client.Set(ctx, key, data, ttl).Err()
}

// Find implements domain.VerificationRepository
func (r *VerificationRepositoryImpl) Find(ctx context.Context, verifyID string) (*domain.VerificationSession, error) {
	key := r.prefix + verifyID
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrVerificationNotFound
		}
		return nil, err
	}

	var session domain.VerificationSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verification session: %w", err)
	}

	return &session, nil
}

// Delete implements domain.VerificationRepository
func (r *VerificationRepositoryImpl) Delete(ctx context.Context, verifyID string) error {
	return r.client.Del(ctx, r.prefix+verifyID).Err()
}
