// internal/pkg/auth/password_test.go
package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	manager := NewPasswordManager(testConfig())

	hash, err := manager.HashPassword("Str0ng!Pass")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Str0ng!Pass", hash)

	assert.NoError(t, manager.VerifyPassword("Str0ng!Pass", hash))
	assert.Error(t, manager.VerifyPassword("Wr0ng!Pass", hash))
}

func TestValidatePasswordPolicy(t *testing.T) {
	manager := NewPasswordManager(testConfig())

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Str0ng!Pass", false},
		{"too short", "S7!a", true},
		{"no uppercase", "str0ng!pass", true},
		{"no lowercase", "STR0NG!PASS", true},
		{"no number", "Strong!Pass", true},
		{"no special", "Str0ngPass9", true},
		{"sequential letters", "N9!abcQvt", true},
		{"sequential numbers", "N8!123Qvt", true},
		{"repeating characters", "N9!aaaQvt", true},
		{"common word", "Password9!x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := manager.ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
