package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/salonbill-api/internal/domain/billing"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Bill is a finalized invoice
type Bill struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNo        string                      `gorm:"size:100;unique;not null" json:"invoice_no"`
	CustomerID       uuid.UUID                   `gorm:"type:uuid;not null;index" json:"customer_id"`
	CouponCodes      datatypes.JSONSlice[string] `json:"coupon_codes"`
	ReferralCode     string                      `gorm:"size:50" json:"referral_code,omitempty"`
	SubTotal         decimal.Decimal             `gorm:"type:numeric(12,2);not null" json:"sub_total"`
	CouponDiscount   decimal.Decimal             `gorm:"type:numeric(12,2);not null" json:"coupon_discount"`
	Discount         decimal.Decimal             `gorm:"type:numeric(12,2);not null" json:"discount"`
	TotalGST         decimal.Decimal             `gorm:"type:numeric(12,2);not null" json:"total_gst"`
	Total            decimal.Decimal             `gorm:"type:numeric(12,2);not null" json:"total"`
	PaymentMode      string                      `gorm:"size:20;not null" json:"payment_mode"`
	PaymentAmount    decimal.Decimal             `gorm:"type:numeric(12,2);not null" json:"payment_amount"`
	AdvanceUsed      decimal.Decimal             `gorm:"type:numeric(12,2);not null" json:"advance_used"`
	Dues             decimal.Decimal             `gorm:"type:numeric(12,2);not null" json:"dues"`
	BillingTimestamp time.Time                   `gorm:"not null;index" json:"billing_timestamp"`
	ApplyTax         bool                        `gorm:"not null" json:"apply_tax"`
	InclusiveTax     bool                        `gorm:"not null" json:"inclusive_tax"`
	CreatedBy        uuid.UUID                   `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
	DeletedAt        gorm.DeletedAt              `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []BillItem    `gorm:"foreignKey:BillID" json:"items,omitempty"`
	Payments []BillPayment `gorm:"foreignKey:BillID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// ToPayload rebuilds the snapshot the bill was saved from
func (b *Bill) ToPayload() *billing.Payload {
	customerID := b.CustomerID
	codes := []string(b.CouponCodes)
	if codes == nil {
		codes = []string{}
	}
	return &billing.Payload{
		CustomerID:   &customerID,
		CouponCode:   lo.FirstOrEmpty(codes),
		CouponCodes:  codes,
		ReferralCode: b.ReferralCode,
		Items: lo.Map(b.Items, func(i BillItem, _ int) billing.PayloadItem {
			id := i.CatalogItemID
			return billing.PayloadItem{
				LineNo:        i.LineNo,
				Type:          i.Type,
				ID:            &id,
				StaffID:       i.StaffID,
				Qty:           i.Qty,
				Price:         i.Price,
				DiscountType:  i.DiscountType,
				DiscountValue: i.DiscountValue,
				CGST:          i.CGST,
				SGST:          i.SGST,
			}
		}),
		Discount:      b.Discount,
		PaymentMode:   b.PaymentMode,
		PaymentAmount: b.PaymentAmount,
		Payments: lo.Map(b.Payments, func(p BillPayment, _ int) billing.PayloadPayment {
			return billing.PayloadPayment{
				Mode:             p.Mode.String(),
				Amount:           p.Amount,
				Reference:        p.Reference,
				PaymentTimestamp: p.PaymentTimestamp,
			}
		}),
		BillingTimestamp: b.BillingTimestamp,
		TaxMode:          &billing.TaxMode{ApplyTax: b.ApplyTax, Inclusive: b.InclusiveTax},
	}
}

// BillItem is one line of a bill after duplicate lines were folded
type BillItem struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	BillID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"bill_id"`
	LineNo        int               `gorm:"not null" json:"line_no"`
	Type          enum.ItemType     `gorm:"not null" json:"type"`
	CatalogItemID uuid.UUID         `gorm:"type:uuid;not null;index" json:"catalog_item_id"`
	StaffID       *uuid.UUID        `gorm:"type:uuid;index" json:"staff_id,omitempty"`
	Qty           int               `gorm:"not null" json:"qty"`
	Price         decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"price"`
	DiscountType  enum.DiscountType `gorm:"not null" json:"discount_type"`
	DiscountValue decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"discount_value"`
	CGST          decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"cgst"`
	SGST          decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"sgst"`

	// Relationships
	CatalogItem *CatalogItem `gorm:"foreignKey:CatalogItemID" json:"catalog_item,omitempty"`
	Staff       *Staff       `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
}

// BeforeCreate generates a UUID before creating a new bill item
func (i *BillItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}

// BillPayment is one tender recorded on a bill, including any advance absorbed
type BillPayment struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	BillID           uuid.UUID        `gorm:"type:uuid;not null;index" json:"bill_id"`
	Mode             enum.PaymentMode `gorm:"size:20;not null" json:"mode"`
	Amount           decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"amount"`
	Reference        string           `gorm:"size:100" json:"reference,omitempty"`
	PaymentTimestamp time.Time        `gorm:"not null" json:"payment_timestamp"`
}

// BeforeCreate generates a UUID before creating a new bill payment
func (p *BillPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillPayment model
func (BillPayment) TableName() string {
	return "bill_payments"
}
