package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Coupon is a discount code that can be applied to an invoice
type Coupon struct {
	ID          uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	Code        string              `gorm:"size:50;not null;uniqueIndex" json:"code"`
	Type        enum.DiscountType   `gorm:"not null" json:"type"`
	Value       decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"value"`
	MaxDiscount decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"max_discount"`
	ValidUntil  *time.Time          `json:"valid_until,omitempty"`
	Active      bool                `gorm:"not null" json:"active"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	DeletedAt   gorm.DeletedAt      `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new coupon
func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Coupon model
func (Coupon) TableName() string {
	return "coupons"
}

// IsUsable reports whether the coupon can be applied at t
func (c *Coupon) IsUsable(t time.Time) bool {
	return c.Active && (c.ValidUntil == nil || !t.After(*c.ValidUntil))
}
