package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	hash, err := svc.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, svc.Verify(hash, "correct horse battery staple"))
	assert.False(t, svc.Verify(hash, "wrong"))
	assert.False(t, svc.Verify(hash, ""))
}

func TestPasswordService_HashesAreSalted(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	a, err := svc.Hash("same-input")
	require.NoError(t, err)
	b, err := svc.Hash("same-input")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestPasswordService_SixDigitCodes(t *testing.T) {
	// OTP codes go through the same primitive as passwords
	svc := NewPasswordService(bcrypt.MinCost)

	hash, err := svc.Hash("654321")
	require.NoError(t, err)
	assert.True(t, svc.Verify(hash, "654321"))
	assert.False(t, svc.Verify(hash, "654322"))
}

func TestPasswordService_OutOfRangeCostFallsBack(t *testing.T) {
	svc := NewPasswordService(99)

	hash, err := svc.Hash("pw")
	require.NoError(t, err)
	assert.True(t, svc.Verify(hash, "pw"))
}
