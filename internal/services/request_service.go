package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/safasahar/backend/internal/models"
	"gorm.io/gorm"
)

type RequestService struct {
	db *gorm.DB
}

func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{db: db}
}

// CreateSpecialRequest stores a one-off pickup request. Submission is
// open to anyone; ownership is tracked by email.
func (s *RequestService) CreateSpecialRequest(request *models.SpecialRequest) error {
	return s.db.Create(request).Error
}

// GetSpecialRequestsByEmail retrieves a resident's own pickup requests
// with any attached invoice
func (s *RequestService) GetSpecialRequestsByEmail(email string) ([]*models.SpecialRequest, error) {
	var requests []*models.SpecialRequest
	err := s.db.Preload("Invoice").
		Where("email = ?", email).
		Order("submitted_at DESC").
		Find(&requests).Error
	return requests, err
}

// GetAllSpecialRequests retrieves all pickup requests for staff, newest first
func (s *RequestService) GetAllSpecialRequests(offset, limit int) ([]*models.SpecialRequest, int64, error) {
	var requests []*models.SpecialRequest
	var total int64

	if err := s.db.Model(&models.SpecialRequest{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := s.db.Preload("Invoice").Order("submitted_at DESC").
		Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// GetSpecialRequestByID retrieves a single pickup request
func (s *RequestService) GetSpecialRequestByID(requestID uuid.UUID) (*models.SpecialRequest, error) {
	var request models.SpecialRequest
	if err := s.db.Preload("Invoice").First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpecialRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

// UpdateSpecialRequestStatus sets the staff-visible status of a request
func (s *RequestService) UpdateSpecialRequestStatus(requestID uuid.UUID, status string) error {
	result := s.db.Model(&models.SpecialRequest{}).Where("id = ?", requestID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSpecialRequestNotFound
	}
	return nil
}

// CreateCompostRequest stores a compost collection request
func (s *RequestService) CreateCompostRequest(request *models.CompostRequest) error {
	return s.db.Create(request).Error
}

// GetAllCompostRequests retrieves compost requests for staff, newest first
func (s *RequestService) GetAllCompostRequests(offset, limit int) ([]*models.CompostRequest, int64, error) {
	var requests []*models.CompostRequest
	var total int64

	if err := s.db.Model(&models.CompostRequest{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := s.db.Order("submitted_at DESC").
		Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// DeleteCompostRequest deletes a compost request
func (s *RequestService) DeleteCompostRequest(requestID uuid.UUID) error {
	result := s.db.Delete(&models.CompostRequest{}, requestID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("compost request not found")
	}
	return nil
}
