package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/you/tripauth/domain"
)

// AuthServiceImpl implements domain.AuthService, orchestrating the two-phase
// login sequence: credential check, OTP challenge, OTP verification, token
// issuance.
type AuthServiceImpl struct {
	userRepo     domain.UserRepository
	passwordSvc  domain.PasswordService
	tokenSvc     domain.TokenService
	otpSvc       domain.OTPService
	notifySvc    domain.NotificationService
	loginLimiter  domain.RateLimiter
	emailLimiter  domain.RateLimiter
	verifyLimiter domain.RateLimiter
	audit         domain.AuditLogger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
	notifySvc domain.NotificationService,
	loginLimiter domain.RateLimiter,
	emailLimiter domain.RateLimiter,
	verifyLimiter domain.RateLimiter,
	audit domain.AuditLogger,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		passwordSvc:   passwordSvc,
		tokenSvc:      tokenSvc,
		otpSvc:        otpSvc,
		notifySvc:     notifySvc,
		loginLimiter:  loginLimiter,
		emailLimiter:  emailLimiter,
		verifyLimiter: verifyLimiter,
		audit:         audit,
	}
}

// Register implements domain.AuthService. Sign-up shares the sign-in limiter
// and finishes through the same OTP verification as login.
func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password, clientIP string) (*domain.VerificationChallenge, error) {
	if err := s.loginLimiter.Consume(ctx, clientIP); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.FindByIdentifier(ctx, username); err == nil && existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}
	if existing, err := s.userRepo.FindByIdentifier(ctx, email); err == nil && existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	hashedPassword, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.UserRegistrationEvent).
		WithUser(user.ID, user.Email).WithIP(clientIP))

	return s.challenge(ctx, user, clientIP)
}

// InitiateLogin implements domain.AuthService. Unknown identifiers and wrong
// passwords both map to ErrInvalidCredentials so the response never reveals
// which half was wrong.
func (s *AuthServiceImpl) InitiateLogin(ctx context.Context, identifier, password, clientIP string) (*domain.VerificationChallenge, error) {
	if err := s.loginLimiter.Consume(ctx, clientIP); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.LoginFailureEvent).
				WithIP(clientIP).WithError(domain.ErrInvalidCredentials))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.LoginFailureEvent).
			WithUser(user.ID, user.Email).WithIP(clientIP).WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	challenge, err := s.challenge(ctx, user, clientIP)
	if err != nil {
		return nil, err
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.LoginInitiatedEvent).
		WithUser(user.ID, user.Email).WithIP(clientIP).WithVerifyID(challenge.VerifyID))

	return challenge, nil
}

// challenge issues an OTP for user and emails it. The email-send limiter is
// keyed by the recipient address. A notification failure aborts the flow; the
// already-written session is undiscoverable without the emailed code.
func (s *AuthServiceImpl) challenge(ctx context.Context, user *domain.User, clientIP string) (*domain.VerificationChallenge, error) {
	if err := s.emailLimiter.Consume(ctx, user.Email); err != nil {
		return nil, err
	}

	verifyID, code, err := s.otpSvc.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.OTPIssuedEvent).
		WithUser(user.ID, user.Email).WithIP(clientIP).WithVerifyID(verifyID))

	if err := s.notifySvc.SendOTPEmail(ctx, user.Email, code); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotificationFailure, err)
	}

	return &domain.VerificationChallenge{
		VerifyID: verifyID,
		Email:    user.Email,
	}, nil
}

// VerifyLogin implements domain.AuthService. An absent session (expired or
// never issued) maps to ErrUnauthorized; a wrong code to ErrInvalidOTP. The
// session is consumed on success, so a captured code cannot be replayed.
func (s *AuthServiceImpl) VerifyLogin(ctx context.Context, verifyID, otp string) (*domain.TokenPair, error) {
	if err := s.verifyLimiter.Consume(ctx, verifyID); err != nil {
		return nil, err
	}

	userID, err := s.otpSvc.Redeem(ctx, verifyID, otp)
	if err != nil {
		if errors.Is(err, domain.ErrVerificationNotFound) {
			return nil, domain.ErrUnauthorized
		}
		if errors.Is(err, domain.ErrInvalidOTP) {
			s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.OTPVerifyFailureEvent).
				WithVerifyID(verifyID).WithError(err))
			return nil, err
		}
		return nil, err
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokenSvc.GenerateRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.LoginVerifiedEvent).
		WithUser(userID, "").WithVerifyID(verifyID))

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh implements domain.AuthService: a valid refresh token for a user who
// still exists yields a fresh access token.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (string, uint, error) {
	claims, err := s.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", 0, domain.ErrTokenInvalid
	}

	exists, err := s.userRepo.Exists(ctx, claims.UserID)
	if err != nil {
		return "", 0, fmt.Errorf("failed to check user existence: %w", err)
	}
	if !exists {
		return "", 0, domain.ErrUserNotFound
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(claims.UserID)
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.TokenRefreshEvent).
		WithUser(claims.UserID, ""))

	return accessToken, claims.UserID, nil
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}
