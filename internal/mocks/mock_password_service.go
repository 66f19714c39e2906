package mocks

import "github.com/you/tripauth/domain"

// MockPasswordService implements domain.PasswordService for testing
type MockPasswordService struct {
	HashFunc   func(plain string) (string, error)
	VerifyFunc func(hashed, plain string) bool
}

// NewMockPasswordService creates a new MockPasswordService
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

// Hash hashes a plaintext value
func (m *MockPasswordService) Hash(plain string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(plain)
	}
	// Default behavior: deterministic marker hash
	return "hashed_" + plain, nil
}

// Verify compares a hash against a plaintext value
func (m *MockPasswordService) Verify(hashed, plain string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashed, plain)
	}
	// Default behavior: match the marker scheme used by Hash
	return hashed == "hashed_"+plain
}

// Compile-time interface compliance verification
var _ domain.PasswordService = (*MockPasswordService)(nil)
