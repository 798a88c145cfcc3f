package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer represents a salon client and their running balances
type Customer struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	Gender         string          `gorm:"size:20" json:"gender,omitempty"`
	Phone          string          `gorm:"size:20;not null;uniqueIndex" json:"phone"`
	Address        *string         `gorm:"type:text" json:"address,omitempty"`
	Birthday       *time.Time      `gorm:"type:date" json:"birthday,omitempty"`
	Anniversary    *time.Time      `gorm:"type:date" json:"anniversary,omitempty"`
	AdvanceBalance decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"advance_balance"`
	Dues           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"dues"`
	WalletBalance  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"wallet_balance"`
	LoyaltyPoints  int             `gorm:"not null" json:"loyalty_points"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Bills []Bill `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
