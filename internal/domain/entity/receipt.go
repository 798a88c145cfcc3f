package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the salon header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
	ShowLogo  bool   `json:"show_logo"`
}

// ReceiptItem represents a single line on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Artist    string          `json:"artist,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	GST       decimal.Decimal `json:"gst"`
	Total     decimal.Decimal `json:"total"`
}

// ReceiptPayment is one tender line on a receipt.
type ReceiptPayment struct {
	Mode   string          `json:"mode"`
	Amount decimal.Decimal `json:"amount"`
}

// Receipt is a value object composed from a saved bill at print time.
// Empty optional fields are left out of the printout.
type Receipt struct {
	Header         ReceiptHeader    `json:"header"`
	InvoiceNo      string           `json:"invoice_no"`
	Date           string           `json:"date,omitempty"`
	Customer       string           `json:"customer,omitempty"`
	CustomerPhone  string           `json:"customer_phone,omitempty"`
	Items          []ReceiptItem    `json:"items"`
	SubTotal       decimal.Decimal  `json:"sub_total"`
	CGST           decimal.Decimal  `json:"cgst"`
	SGST           decimal.Decimal  `json:"sgst"`
	ShowGST        bool             `json:"show_gst"`
	CouponDiscount decimal.Decimal  `json:"coupon_discount"`
	Discount       decimal.Decimal  `json:"discount"`
	ShowDiscount   bool             `json:"show_discount"`
	Total          decimal.Decimal  `json:"total"`
	Payments       []ReceiptPayment `json:"payments,omitempty"`
	AdvanceUsed    decimal.Decimal  `json:"advance_used"`
	Paid           decimal.Decimal  `json:"paid"`
	Due            decimal.Decimal  `json:"due"`
	WalletBalance  *decimal.Decimal `json:"wallet_balance,omitempty"`
	LoyaltyPoints  *int             `json:"loyalty_points,omitempty"`
	Notes          string           `json:"notes,omitempty"`
}
