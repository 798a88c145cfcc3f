package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	domainRepo "github.com/sangkips/salonbill-api/internal/domain/repository"
	"gorm.io/gorm"
)

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) domainRepo.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) Create(ctx context.Context, item *entity.CatalogItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *catalogRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CatalogItem, error) {
	var item entity.CatalogItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *catalogRepository) ListActive(ctx context.Context, kind *enum.ItemType) ([]entity.CatalogItem, error) {
	var items []entity.CatalogItem
	query := r.db.WithContext(ctx).Scopes(ActiveScope)
	if kind != nil {
		query = query.Where("kind = ?", *kind)
	}
	err := query.Order("kind ASC, name ASC").Find(&items).Error
	return items, err
}

type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *gorm.DB) domainRepo.StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, staff *entity.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *staffRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error) {
	var staff entity.Staff
	err := r.db.WithContext(ctx).First(&staff, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &staff, err
}

func (r *staffRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Staff, error) {
	var staff []entity.Staff
	if len(ids) == 0 {
		return staff, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&staff).Error
	return staff, err
}

func (r *staffRepository) ListActive(ctx context.Context) ([]entity.Staff, error) {
	var staff []entity.Staff
	err := r.db.WithContext(ctx).Scopes(ActiveScope).Order("name ASC").Find(&staff).Error
	return staff, err
}
