package mocks

import (
	"context"
	"time"

	"github.com/you/tripauth/domain"
)

// MockVerificationRepository implements domain.VerificationRepository for testing
type MockVerificationRepository struct {
	SaveFunc   func(ctx context.Context, verifyID string, session *domain.VerificationSession, ttl time.Duration) error
	FindFunc   func(ctx context.Context, verifyID string) (*domain.VerificationSession, error)
	DeleteFunc func(ctx context.Context, verifyID string) error
}

// NewMockVerificationRepository creates a new MockVerificationRepository
func NewMockVerificationRepository() *MockVerificationRepository {
	return &MockVerificationRepository{}
}

// Save stores a verification session
func (m *MockVerificationRepository) Save(ctx context.Context, verifyID string, session *domain.VerificationSession, ttl time.Duration) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, verifyID, session, ttl)
	}
	// Default behavior: success
	return nil
}

// Find loads a verification session
func (m *MockVerificationRepository) Find(ctx context.Context, verifyID string) (*domain.VerificationSession, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, verifyID)
	}
	// Default behavior: not found
	return nil, domain.ErrVerificationNotFound
}

// Delete removes a verification session
func (m *MockVerificationRepository) Delete(ctx context.Context, verifyID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, verifyID)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.VerificationRepository = (*MockVerificationRepository)(nil)
