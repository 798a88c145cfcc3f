package service

import (
	"context"
	"time"

	"github.com/sangkips/salonbill-api/internal/domain/entity"
	"github.com/sangkips/salonbill-api/internal/domain/repository"
	"github.com/sangkips/salonbill-api/pkg/apperror"
)

// CouponService looks up discount coupons
type CouponService struct {
	couponRepo repository.CouponRepository
	now        func() time.Time
}

// NewCouponService creates a new coupon service
func NewCouponService(couponRepo repository.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo, now: time.Now}
}

// GetByCode returns a coupon that can be applied right now
func (s *CouponService) GetByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, apperror.NewNotFoundError("Coupon")
	}
	if !coupon.IsUsable(s.now()) {
		return nil, apperror.NewAppError(422, "Coupon "+coupon.Code+" is no longer valid")
	}
	return coupon, nil
}

// ListActive returns every coupon usable now
func (s *CouponService) ListActive(ctx context.Context) ([]entity.Coupon, error) {
	return s.couponRepo.ListActive(ctx, s.now())
}
