package billing

import "github.com/shopspring/decimal"

// DefaultGSTRate is used when a stored line carries no usable tax split.
var DefaultGSTRate = decimal.NewFromInt(18)

// TaxMode is the invoice-wide tax policy.
type TaxMode struct {
	ApplyTax  bool `json:"apply_tax"`
	Inclusive bool `json:"inclusive"`
}

// ExtractInclusive splits a tax-inclusive gross amount into its net base and tax.
func ExtractInclusive(gross, ratePercent decimal.Decimal) (net, tax decimal.Decimal) {
	if !ratePercent.IsPositive() {
		return gross, decimal.Zero
	}
	net = gross.Div(decimal.NewFromInt(1).Add(ratePercent.Div(hundred)))
	return net, gross.Sub(net)
}

// AddExclusive adds tax on top of a net amount.
func AddExclusive(net, ratePercent decimal.Decimal) (gross, tax decimal.Decimal) {
	if !ratePercent.IsPositive() {
		return net, decimal.Zero
	}
	tax = percentOf(net, ratePercent)
	return net.Add(tax), tax
}

// SplitGST halves a tax amount into CGST and SGST, each rounded to 2 decimals.
func SplitGST(tax decimal.Decimal) (cgst, sgst decimal.Decimal) {
	half := Round2(tax.Div(decimal.NewFromInt(2)))
	return half, half
}

// RecoverTaxRate derives a GST rate from a stored line: price is the per-unit
// tax-inclusive price, cgst/sgst are line totals across qty units.
// Falls back to DefaultGSTRate when either half is missing.
func RecoverTaxRate(price, cgst, sgst decimal.Decimal, qty int) decimal.Decimal {
	if !cgst.IsPositive() || !sgst.IsPositive() {
		return DefaultGSTRate
	}
	if qty <= 0 {
		qty = 1
	}
	perUnitTax := cgst.Add(sgst).Div(decimal.NewFromInt(int64(qty)))
	net := price.Sub(perUnitTax)
	if !net.IsPositive() {
		return DefaultGSTRate
	}
	return Round2(perUnitTax.Div(net).Mul(hundred))
}
