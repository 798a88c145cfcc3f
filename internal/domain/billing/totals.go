package billing

import (
	"github.com/shopspring/decimal"
)

// Totals is everything derived from a draft. It is recomputed from scratch
// after every command and never stored.
type Totals struct {
	Lines            []LineAmounts   `json:"lines"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ItemDiscount     decimal.Decimal `json:"item_discount"`
	TotalGST         decimal.Decimal `json:"total_gst"`
	CGST             decimal.Decimal `json:"cgst"`
	SGST             decimal.Decimal `json:"sgst"`
	TotalBeforeExtra decimal.Decimal `json:"total_before_extra"`
	CouponDiscount   decimal.Decimal `json:"coupon_discount"`
	BaseInclTax      decimal.Decimal `json:"base_incl_tax"`
	ExtraDiscount    decimal.Decimal `json:"extra_discount"`
	AdjustTotal      decimal.Decimal `json:"adjust_total"`
	CalculatedTotal  decimal.Decimal `json:"calculated_total"`
	Payments         []Payment       `json:"payments"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	Dues             decimal.Decimal `json:"dues"`
}

// Recompute derives totals from the draft's inputs. It does not modify d.
func Recompute(d *Draft) Totals {
	t := Totals{
		Lines:            make([]LineAmounts, len(d.Items)),
		Subtotal:         decimal.Zero,
		ItemDiscount:     decimal.Zero,
		TotalGST:         decimal.Zero,
		CGST:             decimal.Zero,
		SGST:             decimal.Zero,
		TotalBeforeExtra: decimal.Zero,
	}
	for i, item := range d.Items {
		line := CalculateLine(item, d.TaxMode)
		t.Lines[i] = line
		t.Subtotal = t.Subtotal.Add(line.BasePrice)
		t.ItemDiscount = t.ItemDiscount.Add(line.DiscountAmount)
		t.TotalGST = t.TotalGST.Add(line.TaxAmount)
		t.TotalBeforeExtra = t.TotalBeforeExtra.Add(line.Total)
		// summed per line so the summary matches the stored item halves
		cgst, sgst := SplitGST(line.TaxAmount)
		t.CGST = t.CGST.Add(cgst)
		t.SGST = t.SGST.Add(sgst)
	}

	t.CouponDiscount = CouponDiscount(t.Subtotal, d.Coupons)
	t.BaseInclTax = max0(t.TotalBeforeExtra.Sub(t.CouponDiscount))
	t.ExtraDiscount, t.AdjustTotal = ReconcileExtra(t.BaseInclTax, d.ExtraDiscount)
	t.CalculatedTotal = max0(t.TotalBeforeExtra.Sub(t.ExtraDiscount))

	advance := AdvanceApplied(d.AdvanceAmount, t.CalculatedTotal, TotalPaid(d.Payments))
	t.Payments = AllPayments(d.Payments, advance)
	t.TotalPaid = TotalPaid(t.Payments)
	t.Dues = Dues(t.CalculatedTotal, t.TotalPaid)
	return t
}

// Rounded returns the totals with every money value rounded to 2 decimals.
func (t Totals) Rounded() Totals {
	r := t
	r.Lines = make([]LineAmounts, len(t.Lines))
	for i, l := range t.Lines {
		r.Lines[i] = LineAmounts{
			BasePrice:      Round2(l.BasePrice),
			BaseExcl:       Round2(l.BaseExcl),
			BaseIncl:       Round2(l.BaseIncl),
			DiscountAmount: Round2(l.DiscountAmount),
			TaxAmount:      Round2(l.TaxAmount),
			Total:          Round2(l.Total),
		}
	}
	for _, v := range []*decimal.Decimal{
		&r.Subtotal, &r.ItemDiscount, &r.TotalGST, &r.CGST, &r.SGST, &r.TotalBeforeExtra,
		&r.CouponDiscount, &r.BaseInclTax, &r.ExtraDiscount, &r.AdjustTotal,
		&r.CalculatedTotal, &r.TotalPaid, &r.Dues,
	} {
		*v = Round2(*v)
	}
	r.Payments = make([]Payment, len(t.Payments))
	for i, p := range t.Payments {
		p.Amount = Round2(p.Amount)
		r.Payments[i] = p
	}
	return r
}
