// internal/pkg/auth/jwt_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/erp-backend/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "ERP Test"
	cfg.JWT.Secret = "test-secret-key-that-is-long-enough-for-hmac"
	cfg.JWT.AccessTokenExpiry = 15 * time.Minute
	cfg.JWT.PendingTokenTTL = 5 * time.Minute
	cfg.Security.BcryptCost = 4
	return cfg
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateAccessToken(42, "sales@example.com", "sales")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "sales@example.com", claims.Email)
	assert.Equal(t, "sales", claims.Role)
	assert.Equal(t, "access", claims.TokenType)
}

func TestPendingTokenCarriesNoRole(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GeneratePendingToken(7, "finance@example.com")
	require.NoError(t, err)

	claims, err := manager.ValidatePendingToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint(7), claims.UserID)
	assert.Empty(t, claims.Role)
	assert.Equal(t, "twofactor", claims.TokenType)
}

func TestTokenTypeEnforcement(t *testing.T) {
	manager := NewJWTManager(testConfig())

	pending, err := manager.GeneratePendingToken(7, "finance@example.com")
	require.NoError(t, err)
	access, err := manager.GenerateAccessToken(7, "finance@example.com", "finance")
	require.NoError(t, err)

	// A pending token never opens a protected route
	_, err = manager.ValidateAccessToken(pending)
	assert.Error(t, err)

	// An access token never completes the 2FA step
	_, err = manager.ValidatePendingToken(access)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	manager := NewJWTManager(testConfig())
	token, err := manager.GenerateAccessToken(1, "a@example.com", "client")
	require.NoError(t, err)

	otherCfg := testConfig()
	otherCfg.JWT.Secret = "a-completely-different-secret-of-sufficient-length"
	other := NewJWTManager(otherCfg)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader("abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader(""))
	assert.Empty(t, ExtractTokenFromHeader("Bearer "))
}
