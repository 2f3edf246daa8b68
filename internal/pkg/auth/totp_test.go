// internal/pkg/auth/totp_test.go
package auth

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	manager := NewTOTPManager(testConfig())

	secret, url, err := manager.GenerateSecret("sales@example.com")
	require.NoError(t, err)

	assert.NotEmpty(t, secret)
	assert.Contains(t, url, "otpauth://totp/")
	assert.Contains(t, url, "sales%40example.com")
}

func TestVerifyCode(t *testing.T) {
	manager := NewTOTPManager(testConfig())

	secret, _, err := manager.GenerateSecret("sales@example.com")
	require.NoError(t, err)

	fixed := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = time.Now }()

	code, err := totp.GenerateCode(secret, fixed)
	require.NoError(t, err)

	assert.True(t, manager.VerifyCode(secret, code))
	assert.False(t, manager.VerifyCode(secret, "000000"))
	assert.False(t, manager.VerifyCode(secret, "not-a-code"))
}

func TestVerifyCodeToleratesOneStepDrift(t *testing.T) {
	manager := NewTOTPManager(testConfig())

	secret, _, err := manager.GenerateSecret("sales@example.com")
	require.NoError(t, err)

	fixed := time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = time.Now }()

	// The previous 30-second step is still accepted
	previous, err := totp.GenerateCode(secret, fixed.Add(-30*time.Second))
	require.NoError(t, err)
	assert.True(t, manager.VerifyCode(secret, previous))

	// Two steps back is not
	stale, err := totp.GenerateCode(secret, fixed.Add(-60*time.Second))
	require.NoError(t, err)
	assert.False(t, manager.VerifyCode(secret, stale))
}
