package handlers

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/tripauth/domain"
	"github.com/you/tripauth/internal/http/cookies"
	"github.com/you/tripauth/internal/http/middleware"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
	cookies cookies.Writer
	logger  *zap.Logger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, cw cookies.Writer, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		authSvc: authSvc,
		cookies: cw,
		logger:  logger,
	}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the first login phase
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// VerifyRequest represents the OTP verification phase
type VerifyRequest struct {
	OTP string `json:"otp" binding:"required,len=6,numeric"`
}

// clientIP resolves the caller address from the first X-Forwarded-For entry,
// falling back to the raw connection address
func clientIP(c *gin.Context) (string, error) {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first, nil
		}
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil || host == "" {
		return "", domain.ErrBadRequest
	}
	return host, nil
}

// Login handles the first phase: credential check and OTP challenge
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ip, err := clientIP(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not determine client address"})
		return
	}

	challenge, err := h.authSvc.InitiateLogin(c.Request.Context(), req.Identifier, req.Password, ip)
	if err != nil {
		h.writeFlowError(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"verifyId": challenge.VerifyID,
			"email":    challenge.Email,
		},
	})
}

// Register handles sign-up; the account still has to pass OTP verification
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ip, err := clientIP(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not determine client address"})
		return
	}

	challenge, err := h.authSvc.Register(c.Request.Context(), req.Username, req.Email, req.Password, ip)
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
			return
		}
		h.writeFlowError(c, err, "Registration failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"verifyId": challenge.VerifyID,
			"email":    challenge.Email,
		},
	})
}

// Verify handles the second phase: OTP redemption and token issuance. Tokens
// leave only as cookies.
func (h *AuthHandlers) Verify(c *gin.Context) {
	verifyID := c.Param("verifyId")
	if verifyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing verification id"})
		return
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.authSvc.VerifyLogin(c.Request.Context(), verifyID, req.OTP)
	if err != nil {
		h.writeFlowError(c, err, "Verification failed")
		return
	}

	h.cookies.SetAccess(c, tokens.AccessToken)
	h.cookies.SetRefresh(c, tokens.RefreshToken)

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"message": "Login successful",
		},
	})
}

// Me handles getting the caller's profile (requires authentication)
func (h *AuthHandlers) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	user, err := h.authSvc.GetUserProfile(c.Request.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"created_at": user.CreatedAt,
		},
	})
}

// Logout clears both session cookies (requires authentication)
func (h *AuthHandlers) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Logged out successfully",
		},
	})
}

// writeFlowError converts flow controller errors into user-safe responses.
// Internal detail never reaches the client.
func (h *AuthHandlers) writeFlowError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, try again later"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, domain.ErrInvalidOTP):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid verification code"})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Verification session expired or not found"})
	case errors.Is(err, domain.ErrUserInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
	case errors.Is(err, domain.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed request"})
	case errors.Is(err, domain.ErrNotificationFailure):
		h.logger.Error("otp email delivery failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not deliver verification code"})
	default:
		h.logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
