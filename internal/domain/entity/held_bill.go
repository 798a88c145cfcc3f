package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/billing"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HeldBill is an invoice parked for later. Payload is the exact snapshot submitted on hold.
type HeldBill struct {
	ID              uuid.UUID                           `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID      *uuid.UUID                          `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerSummary string                              `gorm:"size:255" json:"customer_summary"`
	Payload         datatypes.JSONType[billing.Payload] `json:"payload"`
	Total           decimal.Decimal                     `gorm:"type:numeric(12,2);not null" json:"total"`
	CreatedBy       uuid.UUID                           `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt       time.Time                           `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time                           `gorm:"index" json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new held bill
func (h *HeldBill) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the HeldBill model
func (HeldBill) TableName() string {
	return "held_bills"
}
