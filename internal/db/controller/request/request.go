// Package request provides the persistence operations for service
// requests: creation, newest-first listing and status updates.
package request

import (
	"errors"

	"gorm.io/gorm"

	"github.com/somulo1/Internal-Service-Request-Tracking-System/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Store provides CRUD access to service requests.
type Store struct {
	db *gorm.DB
}

// New creates a request store.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &Store{db: db}, nil
}

// Insert persists a new request with status Pending and returns its ID.
// Field presence is validated by the caller; this layer only persists.
func (s *Store) Insert(requesterName, department, category, description string) (uint64, error) {
	req := &models.Request{
		RequesterName: requesterName,
		Department:    department,
		Category:      category,
		Description:   description,
		Status:        models.StatusPending,
	}

	if result := s.db.Create(req); result.Error != nil {
		return 0, result.Error
	}

	return req.ID, nil
}

// ListAll returns every request, newest first. The id tie-breaker keeps
// the order stable when two requests share a creation timestamp.
func (s *Store) ListAll() ([]models.Request, error) {
	var requests []models.Request

	result := s.db.Order("created_at DESC, id DESC").Find(&requests)
	if result.Error != nil {
		return nil, result.Error
	}

	return requests, nil
}

// UpdateStatus overwrites the status of the request with the given id.
// It reports found=false when no such request exists, without error, so
// callers can distinguish "updated" from "not found". Any status string
// is accepted; the lifecycle set in models is advisory only.
func (s *Store) UpdateStatus(id uint64, status string) (bool, error) {
	result := s.db.Model(&models.Request{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
