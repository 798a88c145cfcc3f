package request

// CreateCustomerRequest represents a customer creation request.
// Dates are YYYY-MM-DD.
type CreateCustomerRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Gender      string  `json:"gender" binding:"max=20"`
	Phone       string  `json:"phone" binding:"required,max=20"`
	Address     *string `json:"address"`
	Birthday    *string `json:"birthday"`
	Anniversary *string `json:"anniversary"`
}

// UpdateInvoiceSettingsRequest represents a partial update of the receipt toggles
type UpdateInvoiceSettingsRequest struct {
	ShowLogo          *bool   `json:"show_logo"`
	ShowGST           *bool   `json:"show_gst"`
	ShowArtist        *bool   `json:"show_artist"`
	ShowLoyalty       *bool   `json:"show_loyalty"`
	ShowWallet        *bool   `json:"show_wallet"`
	ShowPaymentMethod *bool   `json:"show_payment_method"`
	ShowDateTime      *bool   `json:"show_date_time"`
	ShowClientMobile  *bool   `json:"show_client_mobile"`
	ShowDiscount      *bool   `json:"show_discount"`
	ShowNotes         *bool   `json:"show_notes"`
	Notes             *string `json:"notes" binding:"omitempty,max=500"`
}

// BillFilterRequest represents bill list filter parameters. Dates are YYYY-MM-DD.
type BillFilterRequest struct {
	Search     string `form:"search"`
	CustomerID string `form:"customer_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
