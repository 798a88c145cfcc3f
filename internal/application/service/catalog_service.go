package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/salonbill-api/internal/domain/billing"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/sangkips/salonbill-api/internal/domain/repository"
	"github.com/sangkips/salonbill-api/pkg/apperror"
)

// CatalogService serves the priced catalog and the staff list
type CatalogService struct {
	catalogRepo repository.CatalogRepository
	staffRepo   repository.StaffRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalogRepo repository.CatalogRepository, staffRepo repository.StaffRepository) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		staffRepo:   staffRepo,
	}
}

// LoadCatalog builds the resolver used by drafts from every active entry
func (s *CatalogService) LoadCatalog(ctx context.Context) (*billing.Catalog, error) {
	items, err := s.catalogRepo.ListActive(ctx, nil)
	if err != nil {
		return nil, apperror.NewTransportError("load catalog", err)
	}
	return toCatalog(items), nil
}

// ListItems returns active entries, optionally for one kind
func (s *CatalogService) ListItems(ctx context.Context, kind *enum.ItemType) ([]entity.CatalogItem, error) {
	if kind != nil {
		k := kind.CatalogKind()
		kind = &k
	}
	return s.catalogRepo.ListActive(ctx, kind)
}

// ListStaff returns active staff
func (s *CatalogService) ListStaff(ctx context.Context) ([]entity.Staff, error) {
	return s.staffRepo.ListActive(ctx)
}

// CheckStaff fails when any of ids is not a known staff member
func (s *CatalogService) CheckStaff(ctx context.Context, ids []uuid.UUID) error {
	ids = lo.Uniq(lo.Filter(ids, func(id uuid.UUID, _ int) bool { return id != uuid.Nil }))
	if len(ids) == 0 {
		return nil
	}
	staff, err := s.staffRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(staff) != len(ids) {
		return apperror.NewNotFoundError("Staff")
	}
	return nil
}
