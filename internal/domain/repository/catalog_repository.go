package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
)

// CatalogRepository defines the interface for catalog data operations
type CatalogRepository interface {
	Create(ctx context.Context, item *entity.CatalogItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CatalogItem, error)
	// ListActive returns active entries, optionally restricted to one kind
	ListActive(ctx context.Context, kind *enum.ItemType) ([]entity.CatalogItem, error)
}

// StaffRepository defines the interface for staff data operations
type StaffRepository interface {
	Create(ctx context.Context, staff *entity.Staff) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Staff, error)
	ListActive(ctx context.Context) ([]entity.Staff, error)
}
