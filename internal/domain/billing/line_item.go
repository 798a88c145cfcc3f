package billing

import (
	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// LineItem is one billable row of a working invoice.
type LineItem struct {
	ID             string            `json:"id"`
	Type           enum.ItemType     `json:"type"`
	Name           string            `json:"name"`
	CatalogID      uuid.UUID         `json:"catalog_id"`
	Qty            int               `json:"qty"`
	UnitPrice      decimal.Decimal   `json:"unit_price"`
	DiscountValue  decimal.Decimal   `json:"discount_value"`
	DiscountType   enum.DiscountType `json:"discount_type"`
	TaxRatePercent decimal.Decimal   `json:"tax_rate_percent"`
	StaffIDs       []uuid.UUID       `json:"staff_ids"`
	// IsLoadedSnapshot pins UnitPrice as the tax-inclusive price it was saved with.
	IsLoadedSnapshot bool `json:"is_loaded_snapshot"`
}

// Resolved reports whether the item is bound to a catalog entry.
func (i LineItem) Resolved() bool {
	return i.CatalogID != uuid.Nil
}

// PrimaryStaff is the staff member the line is attributed to on save.
func (i LineItem) PrimaryStaff() *uuid.UUID {
	if len(i.StaffIDs) == 0 || i.StaffIDs[0] == uuid.Nil {
		return nil
	}
	id := i.StaffIDs[0]
	return &id
}

// LineAmounts holds the computed money values of one line.
type LineAmounts struct {
	BasePrice      decimal.Decimal `json:"base_price"`
	BaseExcl       decimal.Decimal `json:"base_excl"`
	BaseIncl       decimal.Decimal `json:"base_incl"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
}

// CalculateLine prices one item under the invoice tax mode.
// Tax is taken on the pre-discount base and the discount is subtracted last.
func CalculateLine(item LineItem, mode TaxMode) LineAmounts {
	if item.Qty <= 0 {
		return LineAmounts{}
	}

	base := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Qty)))
	discount := lineDiscount(base, item)

	if !mode.ApplyTax || !item.TaxRatePercent.IsPositive() {
		return LineAmounts{
			BasePrice:      base,
			BaseExcl:       base,
			BaseIncl:       base,
			DiscountAmount: discount,
			TaxAmount:      decimal.Zero,
			Total:          max0(base.Sub(discount)),
		}
	}

	if item.IsLoadedSnapshot && !mode.Inclusive {
		// stored snapshot prices carry tax; price the line on its net base
		base, _ = ExtractInclusive(base, item.TaxRatePercent)
		discount = lineDiscount(base, item)
	}

	out := LineAmounts{BasePrice: base, DiscountAmount: discount}
	if mode.Inclusive {
		out.BaseIncl = base
		out.BaseExcl, out.TaxAmount = ExtractInclusive(base, item.TaxRatePercent)
	} else {
		out.BaseExcl = base
		out.BaseIncl, out.TaxAmount = AddExclusive(base, item.TaxRatePercent)
	}
	out.Total = max0(base.Add(out.TaxAmount).Sub(discount))
	return out
}

func lineDiscount(base decimal.Decimal, item LineItem) decimal.Decimal {
	value := max0(item.DiscountValue)
	if item.DiscountType == enum.DiscountTypePercent {
		return percentOf(base, value)
	}
	return value
}

// DisplayUnitPrice is the per-unit price written to a snapshot: the tax-inclusive
// price whenever tax applies, otherwise the unit price as entered. Loaded
// snapshot lines keep the price they were saved with.
func DisplayUnitPrice(item LineItem, mode TaxMode) decimal.Decimal {
	if !mode.ApplyTax || !item.TaxRatePercent.IsPositive() || mode.Inclusive || item.IsLoadedSnapshot {
		return Round2(item.UnitPrice)
	}
	gross, _ := AddExclusive(item.UnitPrice, item.TaxRatePercent)
	return Round2(gross)
}
