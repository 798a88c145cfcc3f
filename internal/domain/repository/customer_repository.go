package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	"github.com/sangkips/salonbill-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	// GetByPhone looks a customer up by normalized phone number
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	// ClearAdvance zeroes the stored advance balance
	ClearAdvance(ctx context.Context, id uuid.UUID) error
}

// CustomerAdjustment is a change applied to a customer's balances together with a bill write
type CustomerAdjustment struct {
	CustomerID   uuid.UUID
	AdvanceDelta decimal.Decimal
	DuesDelta    decimal.Decimal
}

// IsZero reports whether the adjustment changes nothing
func (a CustomerAdjustment) IsZero() bool {
	return a.AdvanceDelta.IsZero() && a.DuesDelta.IsZero()
}
