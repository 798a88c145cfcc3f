package billing

import (
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// AdvancePaymentID identifies the synthetic advance entry in AllPayments.
const AdvancePaymentID = "advance"

// PersistedModeSplit is the stored payment_mode of a bill paid with several tenders.
const PersistedModeSplit = "split"

// Payment is one tender recorded against the draft.
type Payment struct {
	ID        string           `json:"id"`
	Mode      enum.PaymentMode `json:"mode"`
	Amount    decimal.Decimal  `json:"amount"`
	Reference string           `json:"reference,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// AllPayments returns the explicit payments followed by the customer's advance, if any.
func AllPayments(payments []Payment, advance decimal.Decimal) []Payment {
	all := make([]Payment, 0, len(payments)+1)
	all = append(all, payments...)
	if advance.IsPositive() {
		all = append(all, Payment{ID: AdvancePaymentID, Mode: enum.PaymentModeAdvance, Amount: advance})
	}
	return all
}

// AdvanceApplied is the part of the advance balance the invoice absorbs: never more
// than what explicit payments leave unpaid, so surplus credit stays with the customer.
func AdvanceApplied(advance, calculatedTotal, explicitPaid decimal.Decimal) decimal.Decimal {
	return decimal.Min(max0(advance), max0(calculatedTotal.Sub(explicitPaid)))
}

// TotalPaid sums payment amounts.
func TotalPaid(payments []Payment) decimal.Decimal {
	return lo.Reduce(payments, func(acc decimal.Decimal, p Payment, _ int) decimal.Decimal {
		return acc.Add(p.Amount)
	}, decimal.Zero)
}

// Dues is what remains unpaid of calculatedTotal, never negative.
func Dues(calculatedTotal, totalPaid decimal.Decimal) decimal.Decimal {
	return max0(calculatedTotal.Sub(totalPaid))
}

// NormalizePaymentMode maps free-text tender names onto the closed mode set.
// Unrecognized text is treated as cash.
func NormalizePaymentMode(text string) enum.PaymentMode {
	s := strings.ToLower(strings.TrimSpace(text))
	switch {
	case s == "" || s == "none":
		return enum.PaymentModeNone
	case strings.Contains(s, "advance"):
		return enum.PaymentModeAdvance
	case strings.Contains(s, "upi"), strings.Contains(s, "gpay"), strings.Contains(s, "phonepe"), strings.Contains(s, "paytm"):
		return enum.PaymentModeUPI
	case strings.Contains(s, "wallet"), strings.Contains(s, "loyalty"):
		return enum.PaymentModeWallet
	case strings.Contains(s, "card"), strings.Contains(s, "credit"), strings.Contains(s, "debit"):
		return enum.PaymentModeCard
	}
	return enum.PaymentModeCash
}

// PersistedPaymentMode is the bill-level payment_mode string for a set of payments.
func PersistedPaymentMode(payments []Payment) string {
	switch len(payments) {
	case 0:
		return enum.PaymentModeNone.String()
	case 1:
		return payments[0].Mode.String()
	default:
		return PersistedModeSplit
	}
}
