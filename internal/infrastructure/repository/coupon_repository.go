package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	domainRepo "github.com/sangkips/salonbill-api/internal/domain/repository"
	"gorm.io/gorm"
)

type couponRepository struct {
	db *gorm.DB
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db *gorm.DB) domainRepo.CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(ctx context.Context, coupon *entity.Coupon) error {
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	return r.db.WithContext(ctx).Create(coupon).Error
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	var coupon entity.Coupon
	err := r.db.WithContext(ctx).
		First(&coupon, "code = ?", strings.ToUpper(strings.TrimSpace(code))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &coupon, err
}

func (r *couponRepository) GetByCodes(ctx context.Context, codes []string) ([]entity.Coupon, error) {
	var coupons []entity.Coupon
	normalized := lo.Uniq(lo.FilterMap(codes, func(c string, _ int) (string, bool) {
		c = strings.ToUpper(strings.TrimSpace(c))
		return c, c != ""
	}))
	if len(normalized) == 0 {
		return coupons, nil
	}
	err := r.db.WithContext(ctx).Where("code IN ?", normalized).Find(&coupons).Error
	return coupons, err
}

func (r *couponRepository) ListActive(ctx context.Context, at time.Time) ([]entity.Coupon, error) {
	var coupons []entity.Coupon
	err := r.db.WithContext(ctx).
		Scopes(ActiveScope).
		Where("valid_until IS NULL OR valid_until >= ?", at).
		Order("code ASC").
		Find(&coupons).Error
	return coupons, err
}
