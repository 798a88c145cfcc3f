package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceSettings holds a user's receipt rendering toggles
type InvoiceSettings struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Header
	ShowLogo         bool `json:"show_logo"`
	ShowDateTime     bool `json:"show_date_time"`
	ShowClientMobile bool `json:"show_client_mobile"`

	// Lines
	ShowArtist   bool `json:"show_artist"`
	ShowGST      bool `json:"show_gst"`
	ShowDiscount bool `json:"show_discount"`

	// Footer
	ShowPaymentMethod bool   `json:"show_payment_method"`
	ShowLoyalty       bool   `json:"show_loyalty"`
	ShowWallet        bool   `json:"show_wallet"`
	ShowNotes         bool   `json:"show_notes"`
	Notes             string `gorm:"type:text" json:"notes"`
}

// DefaultInvoiceSettings returns the toggles used before a user saves any
func DefaultInvoiceSettings(userID uuid.UUID) *InvoiceSettings {
	return &InvoiceSettings{
		UserID:            userID,
		ShowLogo:          true,
		ShowDateTime:      true,
		ShowClientMobile:  true,
		ShowArtist:        true,
		ShowGST:           true,
		ShowDiscount:      true,
		ShowPaymentMethod: true,
	}
}

// BeforeCreate generates a UUID before creating new settings
func (s *InvoiceSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceSettings model
func (InvoiceSettings) TableName() string {
	return "invoice_settings"
}
