package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/safasahar/backend/internal/config"
	"github.com/safasahar/backend/internal/models"
	"github.com/safasahar/backend/pkg/crypto"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrResetRequestNotFound  = errors.New("password reset request not found")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
)

const temporaryPasswordLength = 12

type PasswordResetService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewPasswordResetService(db *gorm.DB, cfg *config.Config) *PasswordResetService {
	return &PasswordResetService{db: db, cfg: cfg}
}

// RequestReset opens a reset request for the user with the given email.
// If a pending request already exists this is a no-op and the existing
// request is returned with created=false.
func (s *PasswordResetService) RequestReset(email string) (*models.PasswordResetRequest, bool, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrUserNotFound
		}
		return nil, false, err
	}

	var existing models.PasswordResetRequest
	err := s.db.Where("user_id = ? AND status = ?", user.ID, models.ResetStatusPending).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	request := &models.PasswordResetRequest{
		UserID: user.ID,
		Status: models.ResetStatusPending,
	}

	// The partial unique index on (user_id) where status='pending' closes
	// the race between the read above and this insert.
	if err := s.db.Create(request).Error; err != nil {
		return nil, false, err
	}

	return request, true, nil
}

// Approve transitions a request to approved, generates a temporary
// password and immediately sets it as the user's live password. The
// temporary password is returned to the admin as the only delivery
// channel. Re-approving an already decided request regenerates the
// temporary password.
func (s *PasswordResetService) Approve(requestID uuid.UUID) (*models.PasswordResetRequest, string, error) {
	var request models.PasswordResetRequest
	if err := s.db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrResetRequestNotFound
		}
		return nil, "", err
	}

	tempPassword := crypto.GenerateRandomPassword(temporaryPasswordLength)
	hashedPassword, err := crypto.HashPassword(tempPassword, s.cfg.BcryptCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()

	tx := s.db.Begin()

	if err := tx.Model(&models.User{}).Where("id = ?", request.UserID).Update("password", hashedPassword).Error; err != nil {
		tx.Rollback()
		return nil, "", err
	}

	request.Status = models.ResetStatusApproved
	request.TemporaryPassword = tempPassword
	request.ApprovedAt = &now
	if err := tx.Save(&request).Error; err != nil {
		tx.Rollback()
		return nil, "", err
	}

	tx.Commit()
	return &request, tempPassword, nil
}

// Reject transitions a request to rejected with no password side effect
func (s *PasswordResetService) Reject(requestID uuid.UUID) (*models.PasswordResetRequest, error) {
	var request models.PasswordResetRequest
	if err := s.db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResetRequestNotFound
		}
		return nil, err
	}

	request.Status = models.ResetStatusRejected
	if err := s.db.Save(&request).Error; err != nil {
		return nil, err
	}

	return &request, nil
}

// VerifyToken reports whether a token is redeemable: it must belong to an
// approved, unused request. Does not mutate state, safe to poll.
func (s *PasswordResetService) VerifyToken(token uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.PasswordResetRequest{}).
		Where("token = ? AND status = ? AND used = ?", token, models.ResetStatusApproved, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ResetWithToken consumes an approved token and sets the user-chosen
// password. Unknown, unapproved and already-used tokens are deliberately
// indistinguishable to the caller.
func (s *PasswordResetService) ResetWithToken(token uuid.UUID, newPassword string) error {
	if newPassword == "" {
		return errors.New("new password is required")
	}

	var request models.PasswordResetRequest
	err := s.db.Where("token = ? AND status = ? AND used = ?", token, models.ResetStatusApproved, false).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}

	hashedPassword, err := crypto.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	tx := s.db.Begin()

	if err := tx.Model(&models.User{}).Where("id = ?", request.UserID).Update("password", hashedPassword).Error; err != nil {
		tx.Rollback()
		return err
	}

	// Guard on used=false so two concurrent redemptions cannot both win
	result := tx.Model(&models.PasswordResetRequest{}).
		Where("id = ? AND used = ?", request.ID, false).
		Update("used", true)
	if result.Error != nil {
		tx.Rollback()
		return result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return ErrInvalidOrExpiredToken
	}

	tx.Commit()
	return nil
}

// GetAllRequests retrieves reset requests for the admin screen, newest first
func (s *PasswordResetService) GetAllRequests(offset, limit int) ([]*models.PasswordResetRequest, int64, error) {
	var requests []*models.PasswordResetRequest
	var total int64

	if err := s.db.Model(&models.PasswordResetRequest{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := s.db.Preload("User").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}
