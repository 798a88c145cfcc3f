package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/samber/lo"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Draft is the working invoice. Every mutating command re-settles the
// extra discount / adjust total pair so that ExtraDiscount+AdjustTotal
// always equals the current coupon-adjusted, tax-inclusive base.
type Draft struct {
	ID            string            `json:"id"`
	State         enum.InvoiceState `json:"state"`
	Items         []LineItem        `json:"items"`
	Customer      CustomerRef       `json:"customer"`
	Coupons       []Coupon          `json:"coupons"`
	ExtraDiscount decimal.Decimal   `json:"extra_discount"`
	AdjustTotal   decimal.Decimal   `json:"adjust_total"`
	TaxMode       TaxMode           `json:"tax_mode"`
	Payments      []Payment         `json:"payments"`
	AdvanceAmount decimal.Decimal   `json:"advance_amount"`
	ReferralCode  string            `json:"referral_code,omitempty"`
	HeldBillID    *uuid.UUID        `json:"held_bill_id,omitempty"`
	SourceBillID  *uuid.UUID        `json:"source_bill_id,omitempty"`
	BillID        *uuid.UUID        `json:"bill_id,omitempty"`
	// AdvanceClearedFor is the customer whose advance was cleared on this draft
	AdvanceClearedFor *uuid.UUID `json:"advance_cleared_for,omitempty"`

	idGen func() string
}

// NewDraft starts an empty invoice. idGen defaults to ULIDs.
func NewDraft(mode TaxMode, idGen func() string) *Draft {
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	return &Draft{
		ID:            idGen(),
		State:         enum.InvoiceStateDraft,
		Items:         []LineItem{},
		Coupons:       []Coupon{},
		Payments:      []Payment{},
		ExtraDiscount: decimal.Zero,
		AdjustTotal:   decimal.Zero,
		AdvanceAmount: decimal.Zero,
		TaxMode:       mode,
		idGen:         idGen,
	}
}

// ItemPatch carries the fields of a line item edit; nil fields are unchanged.
type ItemPatch struct {
	Type           *enum.ItemType
	Name           *string
	Qty            *int
	UnitPrice      *decimal.Decimal
	DiscountValue  *decimal.Decimal
	DiscountType   *enum.DiscountType
	TaxRatePercent *decimal.Decimal
	StaffIDs       []uuid.UUID
}

// AddItem appends an item, resolving its name against catalog when it has no catalog id yet.
func (d *Draft) AddItem(item LineItem, catalog *Catalog) (LineItem, error) {
	if err := d.beginEdit(); err != nil {
		return LineItem{}, err
	}
	if item.ID == "" {
		item.ID = d.idGen()
	}
	if item.Qty == 0 {
		item.Qty = 1
	}
	if !item.Resolved() && item.Name != "" {
		applyResolution(&item, catalog)
	}
	d.Items = append(d.Items, item)
	d.settle()
	return item, nil
}

// UpdateItem applies a field edit. A name or type change re-resolves the catalog
// entry and overwrites price and tax on success; other edits keep manual values.
func (d *Draft) UpdateItem(id string, patch ItemPatch, catalog *Catalog) (LineItem, error) {
	if err := d.beginEdit(); err != nil {
		return LineItem{}, err
	}
	_, idx, ok := lo.FindIndexOf(d.Items, func(i LineItem) bool { return i.ID == id })
	if !ok {
		return LineItem{}, ErrItemNotFound
	}
	item := d.Items[idx]

	renamed := false
	if patch.Type != nil && *patch.Type != item.Type {
		item.Type = *patch.Type
		renamed = true
	}
	if patch.Name != nil && *patch.Name != item.Name {
		item.Name = *patch.Name
		renamed = true
	}
	if patch.Qty != nil {
		item.Qty = *patch.Qty
	}
	if patch.DiscountValue != nil {
		item.DiscountValue = *patch.DiscountValue
	}
	if patch.DiscountType != nil {
		item.DiscountType = *patch.DiscountType
	}
	if patch.TaxRatePercent != nil {
		item.TaxRatePercent = *patch.TaxRatePercent
	}
	if patch.StaffIDs != nil {
		item.StaffIDs = patch.StaffIDs
	}
	if patch.UnitPrice != nil {
		item.UnitPrice = *patch.UnitPrice
		item.IsLoadedSnapshot = false
	}
	if renamed {
		item.IsLoadedSnapshot = false
		item.CatalogID = uuid.Nil
		applyResolution(&item, catalog)
	}

	d.Items[idx] = item
	d.settle()
	return item, nil
}

func applyResolution(item *LineItem, catalog *Catalog) {
	entry, err := catalog.Resolve(item.Type, item.Name)
	if err != nil {
		return
	}
	item.CatalogID = entry.ID
	item.UnitPrice = entry.UnitPrice
	item.TaxRatePercent = entry.TaxRatePercent
}

// RemoveItem deletes a line.
func (d *Draft) RemoveItem(id string) error {
	if err := d.beginEdit(); err != nil {
		return err
	}
	if !lo.ContainsBy(d.Items, func(i LineItem) bool { return i.ID == id }) {
		return ErrItemNotFound
	}
	d.Items = lo.Reject(d.Items, func(i LineItem, _ int) bool { return i.ID == id })
	d.settle()
	return nil
}

// ApplyCoupon adds a coupon; applying the same coupon twice is a no-op.
func (d *Draft) ApplyCoupon(c Coupon) error {
	if err := d.beginEdit(); err != nil {
		return err
	}
	if !lo.ContainsBy(d.Coupons, func(x Coupon) bool { return x.ID == c.ID }) {
		d.Coupons = append(d.Coupons, c)
	}
	d.settle()
	return nil
}

// RemoveCoupon drops an applied coupon by id.
func (d *Draft) RemoveCoupon(id uuid.UUID) error {
	if err := d.beginEdit(); err != nil {
		return err
	}
	d.Coupons = lo.Reject(d.Coupons, func(c Coupon, _ int) bool { return c.ID == id })
	d.settle()
	return nil
}

// SetExtraDiscount edits the extra discount; the adjusted total follows.
func (d *Draft) SetExtraDiscount(v decimal.Decimal) error {
	if err := d.beginEdit(); err != nil {
		return err
	}
	d.ExtraDiscount, d.AdjustTotal = ReconcileExtra(Recompute(d).BaseInclTax, v)
	return nil
}

// SetAdjustTotal edits the adjusted total; the extra discount follows.
func (d *Draft) SetAdjustTotal(v decimal.Decimal) error {
	if err := d.beginEdit(); err != nil {
		return err
	}
	d.ExtraDiscount, d.AdjustTotal = ReconcileAdjust(Recompute(d).BaseInclTax, v)
	return nil
}

// SetTaxMode switches the invoice tax policy.
func (d *Draft) SetTaxMode(mode TaxMode) error {
	if err := d.beginEdit(); err != nil {
		return err
	}
	d.TaxMode = mode
	d.settle()
	return nil
}

// AddPayment records a tender. Advance cannot be added by hand; it comes from the customer.
func (d *Draft) AddPayment(p Payment) (Payment, error) {
	if err := d.beginEdit(); err != nil {
		return Payment{}, err
	}
	if !p.Amount.IsPositive() {
		return Payment{}, invalid(ErrInvalidPayment, "amount must be greater than zero")
	}
	if p.Mode == enum.PaymentModeAdvance || p.Mode == enum.PaymentModeNone {
		return Payment{}, invalid(ErrInvalidPayment, fmt.Sprintf("mode %s cannot be recorded as a payment", p.Mode))
	}
	if p.ID == "" {
		p.ID = d.idGen()
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}
	d.Payments = append(d.Payments, p)
	return p, nil
}

// RemovePayment deletes an explicit payment. The advance entry is only removed by ClearAdvance.
func (d *Draft) RemovePayment(id string) error {
	if err := d.beginEdit(); err != nil {
		return err
	}
	if id == AdvancePaymentID {
		return invalid(ErrInvalidPayment, "advance can only be removed by clearing the customer's advance")
	}
	if !lo.ContainsBy(d.Payments, func(p Payment) bool { return p.ID == id }) {
		return ErrPaymentNotFound
	}
	d.Payments = lo.Reject(d.Payments, func(p Payment, _ int) bool { return p.ID == id })
	return nil
}

// ClearAdvance zeroes the advance absorbed into this invoice.
func (d *Draft) ClearAdvance() error {
	if err := d.beginEdit(); err != nil {
		return err
	}
	d.AdvanceAmount = decimal.Zero
	d.Customer.AdvanceAmount = decimal.Zero
	if d.Customer.ID != nil {
		d.AdvanceClearedFor = lo.ToPtr(*d.Customer.ID)
	}
	return nil
}

// SetCustomer attaches a customer and takes its advance balance as the live advance.
func (d *Draft) SetCustomer(c CustomerRef) error {
	if err := d.beginEdit(); err != nil {
		return err
	}
	d.Customer = c
	d.AdvanceAmount = max0(c.AdvanceAmount)
	return nil
}

// SetReferralCode records the referral code passed through to the bill.
func (d *Draft) SetReferralCode(code string) error {
	if err := d.beginEdit(); err != nil {
		return err
	}
	d.ReferralCode = code
	return nil
}

// Totals recomputes the derived values.
func (d *Draft) Totals() Totals {
	return Recompute(d)
}

// CheckInvariants verifies the extra discount / adjusted total coupling.
func (d *Draft) CheckInvariants() error {
	base := Recompute(d).BaseInclTax
	inRange := func(v decimal.Decimal) bool {
		return !v.IsNegative() && v.LessThanOrEqual(base)
	}
	if !d.ExtraDiscount.Add(d.AdjustTotal).Equal(base) || !inRange(d.ExtraDiscount) || !inRange(d.AdjustTotal) {
		return invalid(ErrReconciliationViolation, fmt.Sprintf("extra %s + adjust %s != base %s",
			d.ExtraDiscount, d.AdjustTotal, base))
	}
	return nil
}

func (d *Draft) settle() {
	d.ExtraDiscount, d.AdjustTotal = ReconcileExtra(Recompute(d).BaseInclTax, d.ExtraDiscount)
}
