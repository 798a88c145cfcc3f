package billing

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	phonePattern   = regexp.MustCompile(`^[+]?\d{10,15}$`)
	phoneStrip     = regexp.MustCompile(`[\s\-().]`)
	summaryPattern = regexp.MustCompile(`^\s*(.*?)\s*\(\s*([^()]*?)\s*\)\s*$`)
)

// CustomerRef is the customer attached to a draft: either an existing record
// (ID set, balances live) or the details of a customer to be created on save.
type CustomerRef struct {
	ID            *uuid.UUID      `json:"id,omitempty"`
	Name          string          `json:"name"`
	Gender        string          `json:"gender,omitempty"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address,omitempty"`
	Birthday      *time.Time      `json:"birthday,omitempty"`
	Anniversary   *time.Time      `json:"anniversary,omitempty"`
	AdvanceAmount decimal.Decimal `json:"advance_amount"`
	Dues          decimal.Decimal `json:"dues"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	LoyaltyPoints int             `json:"loyalty_points"`
}

// Existing reports whether the customer is a stored record.
func (c CustomerRef) Existing() bool {
	return c.ID != nil && *c.ID != uuid.Nil
}

// NormalizePhone strips separators so "+91 98765-43210" and "+919876543210" match.
func NormalizePhone(phone string) string {
	return phoneStrip.ReplaceAllString(strings.TrimSpace(phone), "")
}

// ValidPhone reports whether phone is 10-15 digits with an optional leading +.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}

// ValidateCustomer checks identity of a customer that has no stored record yet.
func ValidateCustomer(c CustomerRef) error {
	if c.Existing() {
		return nil
	}
	var details []string
	if strings.TrimSpace(c.Name) == "" {
		details = append(details, "name is required")
	}
	switch {
	case strings.TrimSpace(c.Phone) == "":
		details = append(details, "phone is required")
	case !ValidPhone(c.Phone):
		details = append(details, fmt.Sprintf("phone %q must be 10-15 digits with an optional leading +", c.Phone))
	}
	if len(details) > 0 {
		return invalid(ErrInvalidCustomer, details...)
	}
	return nil
}

// CustomerSummary renders the "Name (phone)" label stored with held bills.
func CustomerSummary(name, phone string) string {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, phone)
}

// ParseCustomerSummary splits a "Name (phone)" label. A label without a
// parenthesised part is returned as the name alone.
func ParseCustomerSummary(s string) (name, phone string, ok bool) {
	if m := summaryPattern.FindStringSubmatch(s); m != nil {
		return m[1], m[2], m[1] != "" || m[2] != ""
	}
	name = strings.TrimSpace(s)
	return name, "", name != ""
}
