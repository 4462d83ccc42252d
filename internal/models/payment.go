package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Monthly payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Invoice statuses
const (
	InvoiceStatusPending    = "pending"
	InvoiceStatusProcessing = "processing"
	InvoiceStatusPaid       = "paid"
)

// PaymentSettings is a singleton row holding the current fee schedule.
// It is lazily created with defaults on first read; amount computations
// always read the current row, never a historical snapshot.
type PaymentSettings struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	MonthlyFee decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"monthly_fee"`
	PerKgRate  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"per_kg_rate"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (s *PaymentSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// MonthlyPayment is a recurring collection-fee payment attempt.
type MonthlyPayment struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Month           time.Time       `gorm:"type:date;not null" json:"month"`
	Status          string          `gorm:"not null;default:'pending'" json:"status"` // pending, completed, failed
	TransactionUUID string          `gorm:"uniqueIndex;not null" json:"transaction_uuid"`
	EsewaRefID      string          `json:"esewa_ref_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (m *MonthlyPayment) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Invoice is a weight-based charge tied one-to-one to a special pickup
// request. A fresh transaction uuid is issued whenever the amount changes
// so in-flight gateway attempts against the old amount cannot complete.
type Invoice struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SpecialRequestID uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"special_request_id"`
	Amount           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	WeightKg         decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"weight_kg"`
	PerKgRate        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"per_kg_rate"`
	Status           string          `gorm:"not null;default:'pending'" json:"status"` // pending, processing, paid
	TransactionUUID  string          `gorm:"uniqueIndex" json:"transaction_uuid"`
	EsewaRefID       string          `json:"esewa_ref_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Relations
	SpecialRequest SpecialRequest `gorm:"foreignKey:SpecialRequestID" json:"special_request,omitempty"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.TransactionUUID == "" {
		i.TransactionUUID = uuid.NewString()
	}
	return nil
}
