package mocks

import (
	"context"

	"github.com/you/tripauth/domain"
)

// MockAuthService implements domain.AuthService for testing
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, username, email, password, clientIP string) (*domain.VerificationChallenge, error)
	InitiateLoginFunc  func(ctx context.Context, identifier, password, clientIP string) (*domain.VerificationChallenge, error)
	VerifyLoginFunc    func(ctx context.Context, verifyID, otp string) (*domain.TokenPair, error)
	RefreshFunc        func(ctx context.Context, refreshToken string) (string, uint, error)
	GetUserProfileFunc func(ctx context.Context, userID uint) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register delegates to RegisterFunc
func (m *MockAuthService) Register(ctx context.Context, username, email, password, clientIP string) (*domain.VerificationChallenge, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, username, email, password, clientIP)
	}
	return &domain.VerificationChallenge{VerifyID: "verify-id", Email: email}, nil
}

// InitiateLogin delegates to InitiateLoginFunc
func (m *MockAuthService) InitiateLogin(ctx context.Context, identifier, password, clientIP string) (*domain.VerificationChallenge, error) {
	if m.InitiateLoginFunc != nil {
		return m.InitiateLoginFunc(ctx, identifier, password, clientIP)
	}
	return &domain.VerificationChallenge{VerifyID: "verify-id", Email: "user@example.com"}, nil
}

// VerifyLogin delegates to VerifyLoginFunc
func (m *MockAuthService) VerifyLogin(ctx context.Context, verifyID, otp string) (*domain.TokenPair, error) {
	if m.VerifyLoginFunc != nil {
		return m.VerifyLoginFunc(ctx, verifyID, otp)
	}
	return &domain.TokenPair{AccessToken: "access_1", RefreshToken: "refresh_1"}, nil
}

// Refresh delegates to RefreshFunc
func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (string, uint, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return "access_1", 1, nil
}

// GetUserProfile delegates to GetUserProfileFunc
func (m *MockAuthService) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return &domain.User{ID: userID, Username: "user", Email: "user@example.com", IsActive: true}, nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
