package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	"github.com/sangkips/salonbill-api/pkg/pagination"
)

// BillRepository defines the interface for finalized bill operations.
// Writes apply the customer adjustments in the same transaction.
type BillRepository interface {
	// Create assigns the next invoice number and stores the bill with its lines
	Create(ctx context.Context, bill *entity.Bill, adjust ...CustomerAdjustment) error
	// Replace overwrites an existing bill, replacing its lines and payments
	Replace(ctx context.Context, bill *entity.Bill, adjust ...CustomerAdjustment) error
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	List(ctx context.Context, params *BillFilterParams) ([]entity.Bill, int64, error)
}

// BillFilterParams contains filtering parameters for bill queries
type BillFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// HeldBillRepository defines the interface for held bill operations
type HeldBillRepository interface {
	Create(ctx context.Context, held *entity.HeldBill) error
	Update(ctx context.Context, held *entity.HeldBill) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.HeldBill, error)
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.HeldBill, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteOlderThan removes held bills last updated before cutoff
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
