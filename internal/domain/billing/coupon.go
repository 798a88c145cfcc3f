package billing

import (
	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Coupon is read-only reference data applied to a draft.
type Coupon struct {
	ID          uuid.UUID         `json:"id"`
	Code        string            `json:"code"`
	Type        enum.DiscountType `json:"type"`
	Value       decimal.Decimal   `json:"value"`
	MaxDiscount *decimal.Decimal  `json:"max_discount,omitempty"`
}

// Discount is what this coupon alone takes off subtotal.
func (c Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	var disc decimal.Decimal
	if c.Type == enum.DiscountTypePercent {
		disc = percentOf(subtotal, c.Value)
	} else {
		disc = c.Value
	}
	disc = max0(disc)
	if c.MaxDiscount != nil && c.MaxDiscount.IsPositive() && disc.GreaterThan(*c.MaxDiscount) {
		disc = *c.MaxDiscount
	}
	return disc
}

// CouponDiscount sums every coupon's capped discount and clamps the sum to [0, subtotal].
func CouponDiscount(subtotal decimal.Decimal, coupons []Coupon) decimal.Decimal {
	subtotal = max0(subtotal)
	sum := decimal.Zero
	for _, c := range coupons {
		sum = sum.Add(c.Discount(subtotal))
	}
	return clamp(sum, decimal.Zero, subtotal)
}

// ReconcileExtra treats the extra discount as the edited side of the pair.
func ReconcileExtra(base, extra decimal.Decimal) (extraDiscount, adjustTotal decimal.Decimal) {
	base = max0(base)
	extraDiscount = clamp(extra, decimal.Zero, base)
	adjustTotal = clamp(base.Sub(extraDiscount), decimal.Zero, base)
	return extraDiscount, adjustTotal
}

// ReconcileAdjust treats the adjusted total as the edited side of the pair.
func ReconcileAdjust(base, adjust decimal.Decimal) (extraDiscount, adjustTotal decimal.Decimal) {
	base = max0(base)
	adjustTotal = clamp(adjust, decimal.Zero, base)
	extraDiscount = clamp(base.Sub(adjustTotal), decimal.Zero, base)
	return extraDiscount, adjustTotal
}
