package mocks

import (
	"context"
	"sync"

	"github.com/you/tripauth/domain"
)

// MockNotificationService implements domain.NotificationService for testing.
// Sent messages are recorded so tests can assert on delivery.
type MockNotificationService struct {
	SendOTPEmailFunc func(ctx context.Context, to, code string) error

	mu   sync.Mutex
	sent []SentEmail
}

// SentEmail records a delivered OTP email
type SentEmail struct {
	To   string
	Code string
}

// NewMockNotificationService creates a new MockNotificationService
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendOTPEmail delivers (records) an OTP email
func (m *MockNotificationService) SendOTPEmail(ctx context.Context, to, code string) error {
	if m.SendOTPEmailFunc != nil {
		return m.SendOTPEmailFunc(ctx, to, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentEmail{To: to, Code: code})
	return nil
}

// Sent returns a copy of the recorded deliveries
func (m *MockNotificationService) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.sent))
	copy(out, m.sent)
	return out
}

// Compile-time interface compliance verification
var _ domain.NotificationService = (*MockNotificationService)(nil)
