// internal/domain/user/service.go
package user

import (
	"fmt"
	"time"

	"github.com/your-org/erp-backend/internal/config"
	"github.com/your-org/erp-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	totpManager     *auth.TOTPManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
		totpManager:     auth.NewTOTPManager(cfg),
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Role            Role   `json:"role" binding:"required"`
}

// LoginRequest represents user login data. The role must match the account
// so a client token can never open a staff session.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     Role   `json:"role" binding:"required"`
}

// AuthResponse represents authentication response. When the account has
// 2FA enabled the access token is withheld and a short-lived pending token
// is returned instead.
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token,omitempty"`
	PendingToken string `json:"pending_token,omitempty"`
	Requires2FA  bool   `json:"requires_2fa"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
}

// TwoFactorSetupResponse carries the enrollment material for an
// authenticator app
type TwoFactorSetupResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

// Register creates a new user account, subject to the per-role limits
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	// Validate password confirmation
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match")
	}

	if !IsValidRole(req.Role) {
		return nil, fmt.Errorf("invalid role: %s", req.Role)
	}

	// Enforce the per-role account cap
	if limit, ok := s.config.Registration.RoleLimits[string(req.Role)]; ok {
		var count int64
		if err := s.db.Model(&User{}).Where("role = ?", req.Role).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count existing accounts: %w", err)
		}
		if count >= int64(limit) {
			return nil, fmt.Errorf("registration limit reached for role %s", req.Role)
		}
	}

	// Check if user already exists
	var existingUser User
	result := s.db.Where("email = ?", req.Email).First(&existingUser)
	if result.Error == nil {
		return nil, fmt.Errorf("user with this email already exists")
	}

	// Hash password
	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Create new user
	newUser := User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     req.Role,
		IsActive: true,
	}

	if err := s.db.Create(&newUser).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(newUser.ID, newUser.Email, string(newUser.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	// Update last login
	now := time.Now().UTC()
	newUser.LastLoginAt = &now
	s.db.Save(&newUser)

	// Clear password from response
	newUser.Password = ""

	return &AuthResponse{
		User:        &newUser,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// Login authenticates a user. Accounts with 2FA enabled get a pending
// token and must complete the code step before receiving access.
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	// Find user by email
	var u User
	result := s.db.Where("email = ? AND is_active = ?", req.Email, true).First(&u)
	if result.Error != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	// Verify password
	if err := s.passwordManager.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	// The login form's role must match the account
	if u.Role != req.Role {
		return nil, fmt.Errorf("invalid email or password")
	}

	u.Password = ""

	if u.TwoFactorEnabled {
		pendingToken, err := s.jwtManager.GeneratePendingToken(u.ID, u.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to generate pending token: %w", err)
		}
		return &AuthResponse{
			User:         &u,
			PendingToken: pendingToken,
			Requires2FA:  true,
		}, nil
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	// Update last login
	now := time.Now().UTC()
	s.db.Model(&User{}).Where("id = ?", u.ID).Update("last_login_at", now)

	return &AuthResponse{
		User:        &u,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// Setup2FA generates a fresh TOTP secret for the account. The secret is
// stored immediately but 2FA only turns on after a successful Verify2FA.
func (s *Service) Setup2FA(userID uint) (*TwoFactorSetupResponse, error) {
	var u User
	if err := s.db.Where("id = ? AND is_active = ?", userID, true).First(&u).Error; err != nil {
		return nil, fmt.Errorf("user not found")
	}

	secret, url, err := s.totpManager.GenerateSecret(u.Email)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&u).Update("two_factor_secret", secret).Error; err != nil {
		return nil, fmt.Errorf("failed to store 2FA secret: %w", err)
	}

	return &TwoFactorSetupResponse{
		Secret:     secret,
		OTPAuthURL: url,
	}, nil
}

// Verify2FA confirms the enrollment code and enables 2FA on the account
func (s *Service) Verify2FA(userID uint, code string) error {
	var u User
	if err := s.db.Where("id = ? AND is_active = ?", userID, true).First(&u).Error; err != nil {
		return fmt.Errorf("user not found")
	}

	if u.TwoFactorSecret == "" {
		return fmt.Errorf("2FA setup has not been started")
	}

	if !s.totpManager.VerifyCode(u.TwoFactorSecret, code) {
		return fmt.Errorf("invalid verification code")
	}

	if err := s.db.Model(&u).Update("two_factor_enabled", true).Error; err != nil {
		return fmt.Errorf("failed to enable 2FA: %w", err)
	}
	return nil
}

// VerifyLogin2FA completes a pending login with a TOTP code and issues the
// real access token
func (s *Service) VerifyLogin2FA(pendingToken, code string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidatePendingToken(pendingToken)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired pending token")
	}

	var u User
	if err := s.db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&u).Error; err != nil {
		return nil, fmt.Errorf("user not found")
	}

	if !u.TwoFactorEnabled || u.TwoFactorSecret == "" {
		return nil, fmt.Errorf("2FA is not enabled for this account")
	}

	if !s.totpManager.VerifyCode(u.TwoFactorSecret, code) {
		return nil, fmt.Errorf("invalid verification code")
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := time.Now().UTC()
	s.db.Model(&User{}).Where("id = ?", u.ID).Update("last_login_at", now)

	u.Password = ""
	return &AuthResponse{
		User:        &u,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// Disable2FA turns 2FA off after verifying the account password
func (s *Service) Disable2FA(userID uint, password string) error {
	var u User
	if err := s.db.Where("id = ? AND is_active = ?", userID, true).First(&u).Error; err != nil {
		return fmt.Errorf("user not found")
	}

	if err := s.passwordManager.VerifyPassword(password, u.Password); err != nil {
		return fmt.Errorf("password is incorrect")
	}

	err := s.db.Model(&u).Updates(map[string]interface{}{
		"two_factor_enabled": false,
		"two_factor_secret":  "",
	}).Error
	if err != nil {
		return fmt.Errorf("failed to disable 2FA: %w", err)
	}
	return nil
}

// GetProfile gets user profile by ID
func (s *Service) GetProfile(userID uint) (*User, error) {
	var u User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&u)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found")
	}

	// Clear password
	u.Password = ""

	return &u, nil
}

// ChangePassword changes user password after verifying current password
func (s *Service) ChangePassword(userID uint, currentPassword, newPassword string) error {
	// Find user
	var u User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&u)
	if result.Error != nil {
		return fmt.Errorf("user not found")
	}

	// Verify current password
	if err := s.passwordManager.VerifyPassword(currentPassword, u.Password); err != nil {
		return fmt.Errorf("current password is incorrect")
	}

	// Hash new password
	hashedPassword, err := s.passwordManager.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	// Update password
	if err := s.db.Model(&u).Update("password", hashedPassword).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves user by email
func (s *Service) GetUserByEmail(email string) (*User, error) {
	var u User
	result := s.db.Where("email = ?", email).First(&u)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found")
	}

	// Clear password
	u.Password = ""
	return &u, nil
}
