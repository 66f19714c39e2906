package mocks

import (
	"context"

	"github.com/you/tripauth/domain"
)

// MockOTPService implements domain.OTPService for testing
type MockOTPService struct {
	IssueFunc  func(ctx context.Context, userID uint) (string, string, error)
	RedeemFunc func(ctx context.Context, verifyID, code string) (uint, error)
}

// NewMockOTPService creates a new MockOTPService
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// Issue creates a fake verification challenge
func (m *MockOTPService) Issue(ctx context.Context, userID uint) (string, string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, userID)
	}
	return "verify-id", "123456", nil
}

// Redeem consumes a fake verification challenge
func (m *MockOTPService) Redeem(ctx context.Context, verifyID, code string) (uint, error) {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, verifyID, code)
	}
	// Default behavior: not found
	return 0, domain.ErrVerificationNotFound
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
