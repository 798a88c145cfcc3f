package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogItem is a sellable service, product or membership/package
type CatalogItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Kind      enum.ItemType   `gorm:"not null;index" json:"kind"`
	Name      string          `gorm:"size:255;not null;index" json:"name"`
	Code      *string         `gorm:"size:50" json:"code,omitempty"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	TaxRate   decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"tax_rate"`
	Active    bool            `gorm:"not null" json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new catalog item
func (c *CatalogItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CatalogItem model
func (CatalogItem) TableName() string {
	return "catalog_items"
}

// Staff is an artist that line items are attributed to
type Staff struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Phone     *string        `gorm:"size:50" json:"phone,omitempty"`
	Active    bool           `gorm:"not null" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new staff member
func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Staff model
func (Staff) TableName() string {
	return "staff"
}
