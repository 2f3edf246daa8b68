// internal/pkg/auth/totp.go
package auth

import (
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/your-org/erp-backend/internal/config"
)

// overridable in tests
var timeNow = time.Now

// TOTPManager handles time-based one-time password operations for 2FA
type TOTPManager struct {
	config *config.Config
}

// NewTOTPManager creates a new TOTP manager
func NewTOTPManager(cfg *config.Config) *TOTPManager {
	return &TOTPManager{
		config: cfg,
	}
}

// GenerateSecret creates a new TOTP secret for an account and returns the
// secret plus the otpauth:// URL the authenticator app enrolls with
func (t *TOTPManager) GenerateSecret(email string) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      t.config.App.Name,
		AccountName: email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate TOTP secret: %w", err)
	}

	return key.Secret(), key.URL(), nil
}

// VerifyCode checks a 6-digit code against the stored secret.
// A one-step window absorbs clock drift between server and phone.
func (t *TOTPManager) VerifyCode(secret, code string) bool {
	ok, err := totp.ValidateCustom(code, secret, timeNow(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return ok
}
