package domain

import "time"

// User represents a traveler account on the platform
type User struct {
	ID           uint
	Username     string
	Email        string
	PasswordHash string `gorm:"column:password"`
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CachedUser is the subset of User kept in the lookup cache. It is a
// read-avoidance copy, never a source of truth.
type CachedUser struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	IsActive     bool   `json:"is_active"`
}

// VerificationSession is the ephemeral record created after a successful
// password check and consumed by OTP verification. Only the bcrypt hash of
// the code is stored.
type VerificationSession struct {
	UserID  uint   `json:"user_id"`
	OTPHash string `json:"otp_hash"`
}

// VerificationChallenge is returned to the client after the first login phase
type VerificationChallenge struct {
	VerifyID string
	Email    string
}

// TokenPair represents the two signed session tokens minted on successful
// OTP verification
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenClaims represents validated JWT token claims
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"typ"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Token type discriminators carried in the "typ" claim
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)
