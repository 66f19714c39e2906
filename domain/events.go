package domain

import "time"

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Login flow events
	LoginInitiatedEvent AuditEventType = "LOGIN_INITIATED"
	LoginFailureEvent   AuditEventType = "LOGIN_FAILED"
	LoginVerifiedEvent  AuditEventType = "LOGIN_VERIFIED"

	// OTP events
	OTPIssuedEvent        AuditEventType = "OTP_ISSUED"
	OTPVerifyFailureEvent AuditEventType = "OTP_VERIFICATION_FAILED"

	// Account events
	UserRegistrationEvent AuditEventType = "USER_REGISTERED"
	TokenRefreshEvent     AuditEventType = "TOKEN_REFRESHED"
)

// AuditEvent represents a security-relevant event in the authentication flow
type AuditEvent struct {
	EventType AuditEventType `json:"event_type"`
	UserID    uint           `json:"user_id,omitempty"`
	Email     string         `json:"email,omitempty"`
	IPAddress string         `json:"ip_address,omitempty"`
	VerifyID  string         `json:"verify_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Success   bool           `json:"success"`
	ErrorMsg  string         `json:"error_msg,omitempty"`
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Success:   true,
	}
}

// WithUser sets the subject user
func (e *AuditEvent) WithUser(userID uint, email string) *AuditEvent {
	e.UserID = userID
	e.Email = email
	return e
}

// WithIP sets the client address
func (e *AuditEvent) WithIP(ip string) *AuditEvent {
	e.IPAddress = ip
	return e
}

// WithVerifyID sets the verification session identifier
func (e *AuditEvent) WithVerifyID(id string) *AuditEvent {
	e.VerifyID = id
	return e
}

// WithError marks the event as failed
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}
