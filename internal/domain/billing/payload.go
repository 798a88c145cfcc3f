package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Purpose selects hold or save rules for BuildPayload.
type Purpose int

const (
	PurposeHold Purpose = iota
	PurposeSave
)

// Payload is the snapshot submitted on hold and save, and read back on load.
type Payload struct {
	CustomerID       *uuid.UUID       `json:"customer_id,omitempty"`
	Customer         *PayloadCustomer `json:"customer,omitempty"`
	CouponCode       string           `json:"coupon_code"`
	CouponCodes      []string         `json:"coupon_codes"`
	ReferralCode     string           `json:"referral_code"`
	Items            []PayloadItem    `json:"items"`
	Discount         decimal.Decimal  `json:"discount"`
	PaymentMode      string           `json:"payment_mode"`
	PaymentAmount    decimal.Decimal  `json:"payment_amount"`
	Payments         []PayloadPayment `json:"payments"`
	BillingTimestamp time.Time        `json:"billing_timestamp"`
	// TaxMode is the policy the snapshot was priced under
	TaxMode *TaxMode `json:"tax_mode,omitempty"`
}

// PayloadCustomer carries a customer that has no stored record yet.
type PayloadCustomer struct {
	Name        string     `json:"name"`
	Gender      string     `json:"gender"`
	ContactNo   string     `json:"contact_no"`
	Address     string     `json:"address"`
	Birthday    *time.Time `json:"birthday,omitempty"`
	Anniversary *time.Time `json:"anniversary,omitempty"`
}

// PayloadItem is one serialized line. Price is the per-unit display price.
type PayloadItem struct {
	LineNo        int               `json:"line_no"`
	Type          enum.ItemType     `json:"type"`
	ID            *uuid.UUID        `json:"id"`
	StaffID       *uuid.UUID        `json:"staff_id"`
	Qty           int               `json:"qty"`
	Price         decimal.Decimal   `json:"price"`
	DiscountType  enum.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal   `json:"discount_value"`
	CGST          decimal.Decimal   `json:"cgst"`
	SGST          decimal.Decimal   `json:"sgst"`
}

// PayloadPayment is one serialized tender.
type PayloadPayment struct {
	Mode             string          `json:"mode"`
	Amount           decimal.Decimal `json:"amount"`
	Reference        string          `json:"reference,omitempty"`
	PaymentTimestamp time.Time       `json:"payment_timestamp"`
}

// BuildPayload serializes the draft. Both purposes require a valid customer;
// save also requires every item to be resolved and folds duplicate lines.
func BuildPayload(d *Draft, purpose Purpose, now time.Time) (*Payload, error) {
	if len(d.Items) == 0 {
		return nil, ErrEmptyInvoice
	}
	if err := ValidateCustomer(d.Customer); err != nil {
		return nil, err
	}
	if purpose == PurposeSave {
		if err := checkResolved(d.Items); err != nil {
			return nil, err
		}
	}

	t := Recompute(d)
	items := make([]PayloadItem, len(d.Items))
	for i, item := range d.Items {
		cgst, sgst := SplitGST(t.Lines[i].TaxAmount)
		pi := PayloadItem{
			LineNo:        i + 1,
			Type:          item.Type,
			StaffID:       item.PrimaryStaff(),
			Qty:           max(item.Qty, 0),
			Price:         DisplayUnitPrice(item, d.TaxMode),
			DiscountType:  item.DiscountType,
			DiscountValue: Round2(max0(item.DiscountValue)),
			CGST:          cgst,
			SGST:          sgst,
		}
		if item.Resolved() {
			pi.ID = lo.ToPtr(item.CatalogID)
		}
		items[i] = pi
	}
	if purpose == PurposeSave {
		items = DedupItems(items, lo.Map(t.Lines, func(l LineAmounts, _ int) decimal.Decimal { return l.DiscountAmount }))
	}

	payments := lo.Map(t.Payments, func(p Payment, _ int) PayloadPayment {
		ts := p.Timestamp
		if ts.IsZero() {
			ts = now
		}
		return PayloadPayment{
			Mode:             p.Mode.String(),
			Amount:           Round2(p.Amount),
			Reference:        p.Reference,
			PaymentTimestamp: ts.UTC(),
		}
	})

	codes := lo.Map(d.Coupons, func(c Coupon, _ int) string { return c.Code })
	p := &Payload{
		CouponCode:       lo.FirstOrEmpty(codes),
		CouponCodes:      codes,
		ReferralCode:     d.ReferralCode,
		Items:            items,
		Discount:         Round2(t.ExtraDiscount),
		PaymentMode:      PersistedPaymentMode(t.Payments),
		PaymentAmount:    Round2(t.TotalPaid),
		Payments:         payments,
		BillingTimestamp: now.UTC(),
		TaxMode:          lo.ToPtr(d.TaxMode),
	}
	if d.Customer.Existing() {
		p.CustomerID = lo.ToPtr(*d.Customer.ID)
	} else {
		p.Customer = &PayloadCustomer{
			Name:        strings.TrimSpace(d.Customer.Name),
			Gender:      d.Customer.Gender,
			ContactNo:   NormalizePhone(d.Customer.Phone),
			Address:     d.Customer.Address,
			Birthday:    d.Customer.Birthday,
			Anniversary: d.Customer.Anniversary,
		}
	}
	return p, nil
}

func checkResolved(items []LineItem) error {
	var details []string
	for i, item := range items {
		if item.Resolved() {
			continue
		}
		name := item.Name
		if strings.TrimSpace(name) == "" {
			name = fallbackName(item.Type, i)
		}
		details = append(details, fmt.Sprintf("line %d: %s %q", i+1, item.Type, name))
	}
	if len(details) > 0 {
		return invalid(ErrUnresolvedItems, details...)
	}
	return nil
}

type dedupKey struct {
	catalogID uuid.UUID
	staffID   uuid.UUID
}

// DedupItems folds lines sharing (catalog id, staff id) into the first such line,
// summing quantity, cgst and sgst, then renumbers from 1. discounts holds each
// line's computed discount amount. Flat discounts add up and equal percentages
// carry over; any other mix becomes a flat discount of the summed amounts.
func DedupItems(items []PayloadItem, discounts []decimal.Decimal) []PayloadItem {
	out := make([]PayloadItem, 0, len(items))
	amounts := make([]decimal.Decimal, 0, len(items))
	seen := make(map[dedupKey]int, len(items))
	for i, it := range items {
		amount := lineDiscountAt(it, discounts, i)
		key := dedupKey{catalogID: lo.FromPtr(it.ID), staffID: lo.FromPtr(it.StaffID)}
		pos, ok := seen[key]
		if !ok || it.ID == nil {
			seen[key] = len(out)
			out = append(out, it)
			amounts = append(amounts, amount)
			continue
		}
		merged := &out[pos]
		merged.Qty += it.Qty
		merged.CGST = merged.CGST.Add(it.CGST)
		merged.SGST = merged.SGST.Add(it.SGST)
		amounts[pos] = amounts[pos].Add(amount)
		switch {
		case merged.DiscountType == enum.DiscountTypeFlat && it.DiscountType == enum.DiscountTypeFlat:
			merged.DiscountValue = merged.DiscountValue.Add(it.DiscountValue)
		case merged.DiscountType == enum.DiscountTypePercent && it.DiscountType == enum.DiscountTypePercent &&
			merged.DiscountValue.Equal(it.DiscountValue):
		default:
			merged.DiscountType = enum.DiscountTypeFlat
			merged.DiscountValue = Round2(amounts[pos])
		}
	}
	for i := range out {
		out[i].LineNo = i + 1
	}
	return out
}

// lineDiscountAt is the discount amount of items[i]; without a computed amount
// only a flat discount is known.
func lineDiscountAt(it PayloadItem, discounts []decimal.Decimal, i int) decimal.Decimal {
	if i < len(discounts) {
		return discounts[i]
	}
	if it.DiscountType == enum.DiscountTypeFlat {
		return it.DiscountValue
	}
	return decimal.Zero
}

// Summary returns the customer_summary label for a payload.
func (p *Payload) Summary(c CustomerRef) string {
	if p.Customer != nil {
		return CustomerSummary(p.Customer.Name, p.Customer.ContactNo)
	}
	return CustomerSummary(c.Name, c.Phone)
}
