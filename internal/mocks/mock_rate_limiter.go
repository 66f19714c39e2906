package mocks

import (
	"context"

	"github.com/you/tripauth/domain"
)

// MockRateLimiter implements domain.RateLimiter for testing
type MockRateLimiter struct {
	ConsumeFunc func(ctx context.Context, key string) error
}

// NewMockRateLimiter creates a new MockRateLimiter
func NewMockRateLimiter() *MockRateLimiter {
	return &MockRateLimiter{}
}

// Consume takes one point for the key
func (m *MockRateLimiter) Consume(ctx context.Context, key string) error {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, key)
	}
	// Default behavior: always allowed
	return nil
}

// Compile-time interface compliance verification
var _ domain.RateLimiter = (*MockRateLimiter)(nil)
