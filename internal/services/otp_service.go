package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/you/tripauth/domain"
)

const (
	otpRangeSize = 900000
	otpRangeMin  = 100000
)

// OTPServiceImpl implements domain.OTPService. Codes are hashed with the same
// adaptive scheme as passwords before persisting; the plaintext only exists in
// the notification email.
type OTPServiceImpl struct {
	verificationRepo domain.VerificationRepository
	passwordSvc      domain.PasswordService
	ttl              time.Duration
}

// NewOTPService creates a new OTP service
func NewOTPService(verificationRepo domain.VerificationRepository, passwordSvc domain.PasswordService, ttl time.Duration) domain.OTPService {
	return &OTPServiceImpl{
		verificationRepo: verificationRepo,
		passwordSvc:      passwordSvc,
		ttl:              ttl,
	}
}

// Issue creates a verification session for userID and returns its opaque id
// together with the plaintext code for delivery
func (s *OTPServiceImpl) Issue(ctx context.Context, userID uint) (string, string, error) {
	code, err := generateCode()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate OTP code: %w", err)
	}

	verifyID := uuid.NewString()

	hash, err := s.passwordSvc.Hash(code)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash OTP code: %w", err)
	}

	session := &domain.VerificationSession{
		UserID:  userID,
		OTPHash: hash,
	}
	if err := s.verificationRepo.Save(ctx, verifyID, session, s.ttl); err != nil {
		return "", "", fmt.Errorf("failed to store verification session: %w", err)
	}

	return verifyID, code, nil
}

// Redeem checks code against the pending session and, on success, deletes the
// session so the code is single-use. An absent or expired session maps to
// ErrVerificationNotFound; a wrong code to ErrInvalidOTP.
func (s *OTPServiceImpl) Redeem(ctx context.Context, verifyID, code string) (uint, error) {
	session, err := s.verificationRepo.Find(ctx, verifyID)
	if err != nil {
		return 0, err
	}

	if !s.passwordSvc.Verify(session.OTPHash, code) {
		return 0, domain.ErrInvalidOTP
	}

	if err := s.verificationRepo.Delete(ctx, verifyID); err != nil {
		// The session stays redeemable until its TTL; better to report than
		// to issue tokens twice silently
		return 0, fmt.Errorf("failed to consume verification session: %w", err)
	}

	return session.UserID, nil
}

// generateCode draws a uniformly distributed 6-digit code. crypto/rand's
// Int rejects out-of-range draws, so no value in [100000, 999999] is favored.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpRangeSize))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpRangeMin, 10), nil
}
