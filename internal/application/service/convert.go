package service

import (
	"github.com/samber/lo"
	"github.com/sangkips/salonbill-api/internal/domain/billing"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

func toCustomerRef(c *entity.Customer) billing.CustomerRef {
	id := c.ID
	return billing.CustomerRef{
		ID:            &id,
		Name:          c.Name,
		Gender:        c.Gender,
		Phone:         c.Phone,
		Address:       lo.FromPtr(c.Address),
		Birthday:      c.Birthday,
		Anniversary:   c.Anniversary,
		AdvanceAmount: c.AdvanceBalance,
		Dues:          c.Dues,
		WalletBalance: c.WalletBalance,
		LoyaltyPoints: c.LoyaltyPoints,
	}
}

func toCoupon(c entity.Coupon) billing.Coupon {
	coupon := billing.Coupon{
		ID:    c.ID,
		Code:  c.Code,
		Type:  c.Type,
		Value: c.Value,
	}
	if c.MaxDiscount.Valid {
		coupon.MaxDiscount = lo.ToPtr(c.MaxDiscount.Decimal)
	}
	return coupon
}

func toCatalog(items []entity.CatalogItem) *billing.Catalog {
	catalog := billing.NewCatalog()
	for _, item := range items {
		catalog.Add(item.Kind, billing.CatalogEntry{
			ID:             item.ID,
			Name:           item.Name,
			UnitPrice:      item.Price,
			TaxRatePercent: item.TaxRate,
		})
	}
	return catalog
}

// newCustomerEntity builds the record created on save for a walk-in customer
func newCustomerEntity(ref billing.CustomerRef) *entity.Customer {
	c := &entity.Customer{
		Name:           ref.Name,
		Gender:         ref.Gender,
		Phone:          billing.NormalizePhone(ref.Phone),
		Birthday:       ref.Birthday,
		Anniversary:    ref.Anniversary,
		AdvanceBalance: decimal.Zero,
		Dues:           decimal.Zero,
		WalletBalance:  decimal.Zero,
	}
	if ref.Address != "" {
		c.Address = lo.ToPtr(ref.Address)
	}
	return c
}
