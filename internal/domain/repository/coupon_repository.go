package repository

import (
	"context"
	"time"

	"github.com/sangkips/salonbill-api/internal/domain/entity"
)

// CouponRepository defines the interface for coupon data operations
type CouponRepository interface {
	Create(ctx context.Context, coupon *entity.Coupon) error
	// GetByCode matches case-insensitively
	GetByCode(ctx context.Context, code string) (*entity.Coupon, error)
	GetByCodes(ctx context.Context, codes []string) ([]entity.Coupon, error)
	ListActive(ctx context.Context, at time.Time) ([]entity.Coupon, error)
}
