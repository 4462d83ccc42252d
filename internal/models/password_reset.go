package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Password reset request statuses
const (
	ResetStatusPending  = "pending"
	ResetStatusApproved = "approved"
	ResetStatusRejected = "rejected"
)

// PasswordResetRequest tracks the admin-approved password reset workflow.
// The token is an unguessable capability handed to the requesting user;
// it becomes redeemable once an admin approves the request and is burned
// on first use.
type PasswordResetRequest struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	// Partial unique index: a user can have at most one pending request.
	UserID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_reset_one_pending,where:status = 'pending'" json:"user_id"`
	Token             uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	Status            string     `gorm:"not null;default:'pending'" json:"status"` // pending, approved, rejected
	TemporaryPassword string     `json:"temporary_password,omitempty"`
	ApprovedAt        *time.Time `json:"approved_at,omitempty"`
	Used              bool       `gorm:"default:false" json:"used"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (p *PasswordResetRequest) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Token == uuid.Nil {
		p.Token = uuid.New()
	}
	return nil
}
