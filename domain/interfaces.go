package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Update(ctx context.Context, user *User) error
}

// VerificationRepository defines storage for pending OTP verification sessions
type VerificationRepository interface {
	Save(ctx context.Context, verifyID string, session *VerificationSession, ttl time.Duration) error
	Find(ctx context.Context, verifyID string) (*VerificationSession, error)
	Delete(ctx context.Context, verifyID string) error
}

// AuthService defines the two-phase authentication business logic
type AuthService interface {
	Register(ctx context.Context, username, email, password, clientIP string) (*VerificationChallenge, error)
	InitiateLogin(ctx context.Context, identifier, password, clientIP string) (*VerificationChallenge, error)
	VerifyLogin(ctx context.Context, verifyID, otp string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (newAccessToken string, userID uint, err error)
	GetUserProfile(ctx context.Context, userID uint) (*User, error)
}

// OTPService defines one-time-code issuance and redemption
type OTPService interface {
	Issue(ctx context.Context, userID uint) (verifyID, code string, err error)
	Redeem(ctx context.Context, verifyID, code string) (uint, error)
}

// PasswordService defines adaptive hashing, shared by passwords and OTP codes
type PasswordService interface {
	Hash(plain string) (string, error)
	Verify(hashed, plain string) bool
}

// TokenService defines signed session token operations
type TokenService interface {
	GenerateAccessToken(userID uint) (string, error)
	GenerateRefreshToken(userID uint) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
}

// NotificationService defines delivery of verification codes to users
type NotificationService interface {
	SendOTPEmail(ctx context.Context, to, code string) error
}

// RateLimiter consumes one point for the given consumer key, returning
// ErrRateLimited once the window budget is exhausted
type RateLimiter interface {
	Consume(ctx context.Context, key string) error
}

// AuditLogger records security-relevant flow events
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent)
}
