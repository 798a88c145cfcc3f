package billing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// RestoreOptions supplies the live state a snapshot is rebuilt against.
type RestoreOptions struct {
	Catalog *Catalog
	// Coupons are the coupons matching the payload's coupon codes.
	Coupons []Coupon
	// Customer is the live customer record, when it could be fetched.
	Customer *CustomerRef
	// TaxMode applies to snapshots that carry no tax mode of their own.
	TaxMode TaxMode
	// CustomerSummary is the "Name (phone)" fallback stored with held bills.
	CustomerSummary string
	IDGen           func() string
	SourceBillID    *uuid.UUID
}

// RestoreDraft rebuilds a working draft from a held or saved snapshot.
// Lines come back as loaded snapshots so their stored price is kept as-is,
// and advance payments are dropped so only the live advance applies.
func RestoreDraft(p *Payload, opts RestoreOptions) *Draft {
	mode := opts.TaxMode
	if p.TaxMode != nil {
		mode = *p.TaxMode
	}
	d := NewDraft(mode, opts.IDGen)
	d.SourceBillID = opts.SourceBillID
	d.ReferralCode = p.ReferralCode

	for i, pi := range p.Items {
		item := LineItem{
			ID:               d.idGen(),
			Type:             pi.Type,
			Name:             fallbackName(pi.Type, i),
			Qty:              pi.Qty,
			UnitPrice:        pi.Price,
			DiscountValue:    pi.DiscountValue,
			DiscountType:     pi.DiscountType,
			TaxRatePercent:   RecoverTaxRate(pi.Price, pi.CGST, pi.SGST, pi.Qty),
			IsLoadedSnapshot: true,
		}
		if pi.ID != nil {
			item.CatalogID = *pi.ID
			if name, ok := opts.Catalog.NameByID(pi.Type, *pi.ID); ok {
				item.Name = name
			}
		}
		if pi.StaffID != nil {
			item.StaffIDs = []uuid.UUID{*pi.StaffID}
		}
		d.Items = append(d.Items, item)
	}

	d.Coupons = lo.UniqBy(opts.Coupons, func(c Coupon) uuid.UUID { return c.ID })

	d.Payments = lo.FilterMap(p.Payments, func(pp PayloadPayment, _ int) (Payment, bool) {
		mode := NormalizePaymentMode(pp.Mode)
		if mode == enum.PaymentModeAdvance || mode == enum.PaymentModeNone || !pp.Amount.IsPositive() {
			return Payment{}, false
		}
		return Payment{
			ID:        d.idGen(),
			Mode:      mode,
			Amount:    pp.Amount,
			Reference: pp.Reference,
			Timestamp: pp.PaymentTimestamp,
		}, true
	})

	d.Customer = restoreCustomer(p, opts)
	d.AdvanceAmount = max0(d.Customer.AdvanceAmount)

	d.ExtraDiscount = p.Discount
	d.settle()
	return d
}

func restoreCustomer(p *Payload, opts RestoreOptions) CustomerRef {
	if opts.Customer != nil {
		return *opts.Customer
	}
	c := CustomerRef{
		AdvanceAmount: decimal.Zero,
		Dues:          decimal.Zero,
		WalletBalance: decimal.Zero,
	}
	if p.CustomerID != nil {
		c.ID = lo.ToPtr(*p.CustomerID)
	}
	if p.Customer != nil {
		c.Name = p.Customer.Name
		c.Gender = p.Customer.Gender
		c.Phone = p.Customer.ContactNo
		c.Address = p.Customer.Address
		c.Birthday = p.Customer.Birthday
		c.Anniversary = p.Customer.Anniversary
		return c
	}
	if name, phone, ok := ParseCustomerSummary(opts.CustomerSummary); ok {
		c.Name, c.Phone = name, phone
	}
	return c
}

func fallbackName(t enum.ItemType, index int) string {
	return fmt.Sprintf("%s %d", t, index+1)
}
