package database

import (
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedDefaultData inserts a starter catalog, staff list and coupons. Rows that
// already exist by name or code are left alone.
func SeedDefaultData(db *gorm.DB, log *zap.Logger) error {
	gst18 := decimal.NewFromInt(18)
	catalog := []entity.CatalogItem{
		{Kind: enum.ItemTypeService, Name: "Haircut", Price: decimal.NewFromInt(500), TaxRate: gst18, Active: true},
		{Kind: enum.ItemTypeService, Name: "Hair Spa", Price: decimal.NewFromInt(1500), TaxRate: gst18, Active: true},
		{Kind: enum.ItemTypeService, Name: "Facial", Price: decimal.NewFromInt(1200), TaxRate: gst18, Active: true},
		{Kind: enum.ItemTypeService, Name: "Manicure", Price: decimal.NewFromInt(800), TaxRate: gst18, Active: true},
		{Kind: enum.ItemTypeProduct, Name: "Shampoo", Price: decimal.NewFromInt(350), TaxRate: decimal.NewFromInt(12), Active: true},
		{Kind: enum.ItemTypeProduct, Name: "Hair Serum", Price: decimal.NewFromInt(650), TaxRate: gst18, Active: true},
		{Kind: enum.ItemTypeMembership, Name: "Gold Membership", Price: decimal.NewFromInt(5000), TaxRate: gst18, Active: true},
	}
	for i := range catalog {
		if err := db.Where("kind = ? AND name = ?", catalog[i].Kind, catalog[i].Name).
			FirstOrCreate(&catalog[i]).Error; err != nil {
			log.Warn("failed to seed catalog item", zap.String("name", catalog[i].Name), zap.Error(err))
		}
	}

	staff := []entity.Staff{
		{Name: "Asha", Active: true},
		{Name: "Ravi", Active: true},
		{Name: "Meera", Active: true},
	}
	for i := range staff {
		if err := db.Where("name = ?", staff[i].Name).FirstOrCreate(&staff[i]).Error; err != nil {
			log.Warn("failed to seed staff", zap.String("name", staff[i].Name), zap.Error(err))
		}
	}

	coupons := []entity.Coupon{
		{Code: "WELCOME10", Type: enum.DiscountTypePercent, Value: decimal.NewFromInt(10),
			MaxDiscount: decimal.NewNullDecimal(decimal.NewFromInt(200)), Active: true},
		{Code: "FLAT100", Type: enum.DiscountTypeFlat, Value: decimal.NewFromInt(100), Active: true},
	}
	for i := range coupons {
		if err := db.Where("code = ?", coupons[i].Code).FirstOrCreate(&coupons[i]).Error; err != nil {
			log.Warn("failed to seed coupon", zap.String("code", coupons[i].Code), zap.Error(err))
		}
	}

	log.Info("default data seeded",
		zap.Int("catalog_items", len(catalog)),
		zap.Int("staff", len(staff)),
		zap.Int("coupons", len(coupons)),
	)
	return nil
}
