package domain

import "errors"

// Flow errors
var (
	ErrRateLimited         = errors.New("too many requests")
	ErrBadRequest          = errors.New("malformed request")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidOTP          = errors.New("invalid otp code")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotificationFailure = errors.New("failed to deliver verification code")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserInactive      = errors.New("user account is inactive")
)

// Verification errors
var (
	ErrVerificationNotFound = errors.New("verification session not found")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)
