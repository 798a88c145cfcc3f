package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CreateDraftRequest opens a draft; omitted fields take the configured tax policy
type CreateDraftRequest struct {
	ApplyTax *bool         `json:"apply_tax"`
	TaxType  *enum.TaxType `json:"tax_type"`
}

// AddItemRequest represents a new line item
type AddItemRequest struct {
	Type           enum.ItemType     `json:"type"`
	Name           string            `json:"name" binding:"max=255"`
	CatalogID      *uuid.UUID        `json:"catalog_id"`
	Qty            int               `json:"qty" binding:"min=0"`
	UnitPrice      *decimal.Decimal  `json:"unit_price"`
	DiscountValue  decimal.Decimal   `json:"discount_value"`
	DiscountType   enum.DiscountType `json:"discount_type"`
	TaxRatePercent *decimal.Decimal  `json:"tax_rate"`
	StaffIDs       []uuid.UUID       `json:"staff_ids"`
}

// UpdateItemRequest represents a line edit; nil fields are unchanged
type UpdateItemRequest struct {
	Type           *enum.ItemType     `json:"type"`
	Name           *string            `json:"name" binding:"omitempty,max=255"`
	Qty            *int               `json:"qty" binding:"omitempty,min=0"`
	UnitPrice      *decimal.Decimal   `json:"unit_price"`
	DiscountValue  *decimal.Decimal   `json:"discount_value"`
	DiscountType   *enum.DiscountType `json:"discount_type"`
	TaxRatePercent *decimal.Decimal   `json:"tax_rate"`
	StaffIDs       []uuid.UUID        `json:"staff_ids"`
}

// ApplyCouponRequest applies a coupon by code
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required,max=64"`
}

// AmountRequest carries a single money value such as the extra discount or adjusted total
type AmountRequest struct {
	Value decimal.Decimal `json:"value"`
}

// TaxModeRequest switches the draft's tax policy
type TaxModeRequest struct {
	ApplyTax bool         `json:"apply_tax"`
	TaxType  enum.TaxType `json:"tax_type"`
}

// AddPaymentRequest records a tender
type AddPaymentRequest struct {
	Mode      string          `json:"mode" binding:"required,max=32"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference" binding:"max=255"`
}

// DraftCustomerRequest edits the draft's customer. CustomerID attaches a stored
// customer; Phone triggers a lookup; the other fields are manual edits.
type DraftCustomerRequest struct {
	CustomerID  *uuid.UUID `json:"customer_id"`
	Phone       *string    `json:"phone" binding:"omitempty,max=20"`
	Name        *string    `json:"name" binding:"omitempty,max=255"`
	Gender      *string    `json:"gender" binding:"omitempty,max=20"`
	Address     *string    `json:"address"`
	Birthday    *string    `json:"birthday"`
	Anniversary *string    `json:"anniversary"`
}

// ReferralRequest records a referral code
type ReferralRequest struct {
	Code string `json:"code" binding:"max=64"`
}
