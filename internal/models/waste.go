package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Schedule struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Ward          int       `gorm:"not null" json:"ward"`
	CollectionDay string    `gorm:"not null" json:"collection_day"` // e.g. "Monday"
	WasteType     string    `gorm:"not null" json:"waste_type"`     // e.g. "General Waste"
	Time          string    `gorm:"not null" json:"time"`           // Format: "HH:MM"
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s *Schedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type WasteType struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	ColorCode   string    `gorm:"type:varchar(7)" json:"color_code"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (w *WasteType) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

type CollectionDay struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *CollectionDay) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type Ward struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	WardNumber  int       `gorm:"uniqueIndex;not null" json:"ward_number"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (w *Ward) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// SpecialRequest is a one-off pickup request from a resident. It is
// submitted without an account and tied back to a user by email, which
// is also how invoices are scoped to their owner.
type SpecialRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Email         string    `gorm:"index;not null" json:"email"`
	Address       string    `gorm:"type:text;not null" json:"address"`
	Reason        string    `gorm:"type:text" json:"reason"`
	PreferredDate time.Time `gorm:"type:date;not null" json:"preferred_date"`
	PreferredTime string    `gorm:"not null" json:"preferred_time"` // Format: "HH:MM"
	Status        string    `gorm:"not null;default:'Pending'" json:"status"`
	SubmittedAt   time.Time `gorm:"autoCreateTime" json:"submitted_at"`

	// Relations
	Invoice *Invoice `gorm:"foreignKey:SpecialRequestID" json:"invoice,omitempty"`
}

func (r *SpecialRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type CompostRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Contact     string    `gorm:"not null" json:"contact"`
	Location    string    `gorm:"not null" json:"location"`
	WasteType   string    `gorm:"not null" json:"waste_type"`
	Quantity    string    `gorm:"not null" json:"quantity"`
	Message     string    `gorm:"type:text" json:"message,omitempty"`
	SubmittedAt time.Time `gorm:"autoCreateTime" json:"submitted_at"`
}

func (r *CompostRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
