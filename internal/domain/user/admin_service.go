// internal/domain/user/admin_service.go
package user

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/your-org/erp-backend/internal/config"
	"gorm.io/gorm"
)

// AdminService handles the developer's user management operations
type AdminService struct {
	db     *gorm.DB
	config *config.Config
}

// NewAdminService creates a new admin user service
func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{
		db:     db,
		config: cfg,
	}
}

// UserListRequest represents user list query parameters
type UserListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Search    string `form:"search"`
	Status    string `form:"status"` // active, inactive, all
	Role      string `form:"role"`
	SortBy    string `form:"sort_by,default=created_at"`
	SortOrder string `form:"sort_order,default=desc"`
}

// UserListResponse represents user list with pagination
type UserListResponse struct {
	Users      []User `json:"users"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// UserUpdateRequest represents the fields a developer may change on an
// account
type UserUpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *Role   `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// UserExportRequest represents user export parameters
type UserExportRequest struct {
	Format string `form:"format,default=csv"` // csv, json
	Status string `form:"status"`
	Role   string `form:"role"`
}

// GetUsers retrieves users with filtering and pagination
func (s *AdminService) GetUsers(req *UserListRequest) (*UserListResponse, error) {
	var users []User
	var total int64

	query := s.buildFilterQuery(req.Search, req.Status, req.Role)

	// Get total count
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	// Apply sorting
	orderClause := req.SortBy
	if req.SortOrder == "desc" {
		orderClause += " DESC"
	} else {
		orderClause += " ASC"
	}
	query = query.Order(orderClause)

	// Apply pagination
	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}

	for i := range users {
		users[i].Password = ""
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &UserListResponse{
		Users:      users,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateUser changes account fields, keeping role limits intact
func (s *AdminService) UpdateUser(userID uint, req *UserUpdateRequest) (*User, error) {
	var u User
	if err := s.db.First(&u, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found")
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = strings.ToLower(*req.Email)
	}
	if req.Role != nil && *req.Role != u.Role {
		if !IsValidRole(*req.Role) {
			return nil, fmt.Errorf("invalid role: %s", *req.Role)
		}
		if u.Role == RoleDeveloper {
			if err := s.ensureNotLastDeveloper(userID); err != nil {
				return nil, err
			}
		}
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		if !*req.IsActive && u.Role == RoleDeveloper {
			if err := s.ensureNotLastDeveloper(userID); err != nil {
				return nil, err
			}
		}
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&u).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	s.db.First(&u, userID)
	u.Password = ""
	return &u, nil
}

// DeleteUser removes an account. The last remaining developer cannot be
// deleted, otherwise nobody could administer the system.
func (s *AdminService) DeleteUser(userID uint, actingUserID uint) error {
	var u User
	if err := s.db.First(&u, userID).Error; err != nil {
		return fmt.Errorf("user not found")
	}

	if userID == actingUserID {
		return fmt.Errorf("cannot delete your own account")
	}

	if u.Role == RoleDeveloper {
		if err := s.ensureNotLastDeveloper(userID); err != nil {
			return err
		}
	}

	if err := s.db.Delete(&u).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ensureNotLastDeveloper rejects changes that would leave no active
// developer account
func (s *AdminService) ensureNotLastDeveloper(excludeID uint) error {
	var count int64
	s.db.Model(&User{}).
		Where("role = ? AND is_active = ? AND id != ?", RoleDeveloper, true, excludeID).
		Count(&count)
	if count == 0 {
		return fmt.Errorf("cannot remove the last developer account")
	}
	return nil
}

// ExportUsers exports users data
func (s *AdminService) ExportUsers(req *UserExportRequest) ([]byte, string, error) {
	query := s.buildFilterQuery("", req.Status, req.Role)

	var users []User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, "", fmt.Errorf("failed to retrieve users for export: %w", err)
	}

	switch req.Format {
	case "csv":
		return s.generateCSVExport(users)
	case "json":
		return s.generateJSONExport(users)
	default:
		return nil, "", fmt.Errorf("unsupported export format: %s", req.Format)
	}
}

// buildFilterQuery applies the shared list/export filters
func (s *AdminService) buildFilterQuery(search, status, role string) *gorm.DB {
	query := s.db.Model(&User{})

	if search != "" {
		searchTerm := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", searchTerm, searchTerm)
	}

	if status != "" && status != "all" {
		if status == "active" {
			query = query.Where("is_active = ?", true)
		} else if status == "inactive" {
			query = query.Where("is_active = ?", false)
		}
	}

	if role != "" && role != "all" {
		query = query.Where("role = ?", role)
	}

	return query
}

// generateCSVExport generates CSV export
func (s *AdminService) generateCSVExport(users []User) ([]byte, string, error) {
	var records [][]string

	headers := []string{
		"ID", "Name", "Email", "Role", "Is Active", "2FA Enabled", "Created At", "Last Login",
	}
	records = append(records, headers)

	for _, u := range users {
		record := []string{
			strconv.Itoa(int(u.ID)),
			u.Name,
			u.Email,
			string(u.Role),
			strconv.FormatBool(u.IsActive),
			strconv.FormatBool(u.TwoFactorEnabled),
			u.CreatedAt.Format("2006-01-02 15:04:05"),
		}

		if u.LastLoginAt != nil {
			record = append(record, u.LastLoginAt.Format("2006-01-02 15:04:05"))
		} else {
			record = append(record, "Never")
		}

		records = append(records, record)
	}

	var csvData strings.Builder
	writer := csv.NewWriter(&csvData)

	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, "", fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to write CSV: %w", err)
	}

	filename := fmt.Sprintf("users_export_%s.csv", time.Now().Format("2006-01-02_15-04-05"))
	return []byte(csvData.String()), filename, nil
}

// generateJSONExport generates JSON export
func (s *AdminService) generateJSONExport(users []User) ([]byte, string, error) {
	var exportData []interface{}

	for _, u := range users {
		u.Password = ""
		exportData = append(exportData, map[string]interface{}{
			"id":            u.ID,
			"name":          u.Name,
			"email":         u.Email,
			"role":          u.Role,
			"is_active":     u.IsActive,
			"2fa_enabled":   u.TwoFactorEnabled,
			"created_at":    u.CreatedAt,
			"last_login_at": u.LastLoginAt,
		})
	}

	jsonData, err := json.MarshalIndent(map[string]interface{}{
		"exported_at": time.Now(),
		"total_users": len(users),
		"users":       exportData,
	}, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	filename := fmt.Sprintf("users_export_%s.json", time.Now().Format("2006-01-02_15-04-05"))
	return jsonData, filename, nil
}
