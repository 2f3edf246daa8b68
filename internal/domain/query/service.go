// internal/domain/query/service.go
package query

import (
	"fmt"

	"github.com/your-org/erp-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles customer query business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new query service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// SubmitRequest represents an incoming customer query
type SubmitRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	Message       string `json:"message" binding:"required"`
}

// RespondRequest represents a staff reply to a pending query
type RespondRequest struct {
	Reply string `json:"reply" binding:"required"`
}

// Stats summarizes the query workload
type Stats struct {
	Total       int64 `json:"total"`
	Pending     int64 `json:"pending"`
	AutoReplied int64 `json:"auto_replied"`
	Manual      int64 `json:"manual"`
}

// Submit stores a new query and tries to answer it automatically, first
// from the canned topics, then by reusing a similar past manual answer
func (s *Service) Submit(req *SubmitRequest) (*CustomerQuery, error) {
	q := CustomerQuery{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Message:       req.Message,
		Status:        StatusPending,
	}

	if reply, ok := MatchCannedReply(req.Message); ok {
		q.Reply = reply
		q.Status = StatusComplete
		q.ResponseType = ResponseAuto
	} else {
		// Reuse answers from the most recent manually handled queries
		var answered []CustomerQuery
		if err := s.db.Where("response_type = ? AND reply <> ''", ResponseManual).
			Order("updated_at DESC").
			Limit(50).
			Find(&answered).Error; err == nil {
			if reply, ok := MatchPastReply(req.Message, answered); ok {
				q.Reply = reply
				q.Status = StatusComplete
				q.ResponseType = ResponseAuto
			}
		}
	}

	if err := s.db.Create(&q).Error; err != nil {
		return nil, fmt.Errorf("failed to store query: %w", err)
	}

	return &q, nil
}

// ListByEmail retrieves a customer's own queries, newest first
func (s *Service) ListByEmail(email string) ([]CustomerQuery, error) {
	var queries []CustomerQuery
	if err := s.db.Where("customer_email = ?", email).
		Order("created_at DESC").
		Find(&queries).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve queries: %w", err)
	}
	return queries, nil
}

// List retrieves all queries, newest first
func (s *Service) List() ([]CustomerQuery, error) {
	var queries []CustomerQuery
	if err := s.db.Order("created_at DESC").Find(&queries).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve queries: %w", err)
	}
	return queries, nil
}

// ListPending retrieves queries still waiting for a staff reply
func (s *Service) ListPending() ([]CustomerQuery, error) {
	var queries []CustomerQuery
	if err := s.db.Where("status = ?", StatusPending).
		Order("created_at ASC").
		Find(&queries).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve pending queries: %w", err)
	}
	return queries, nil
}

// Respond records a staff reply and completes the query
func (s *Service) Respond(id uint, req *RespondRequest) (*CustomerQuery, error) {
	var q CustomerQuery
	if err := s.db.Where("id = ?", id).First(&q).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("query not found")
		}
		return nil, fmt.Errorf("failed to find query: %w", err)
	}

	if err := s.db.Model(&q).Updates(map[string]interface{}{
		"reply":         req.Reply,
		"status":        StatusComplete,
		"response_type": ResponseManual,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to record reply: %w", err)
	}

	s.db.First(&q, q.ID)
	return &q, nil
}

// GetStats summarizes the query workload
func (s *Service) GetStats() (*Stats, error) {
	var stats Stats

	if err := s.db.Model(&CustomerQuery{}).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count queries: %w", err)
	}
	s.db.Model(&CustomerQuery{}).Where("status = ?", StatusPending).Count(&stats.Pending)
	s.db.Model(&CustomerQuery{}).Where("response_type = ?", ResponseAuto).Count(&stats.AutoReplied)
	s.db.Model(&CustomerQuery{}).Where("response_type = ?", ResponseManual).Count(&stats.Manual)

	return &stats, nil
}
