package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	domainRepo "github.com/sangkips/salonbill-api/internal/domain/repository"
	"github.com/sangkips/salonbill-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "phone = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Scopes(SearchScope(search, "name", "phone"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&customers).Error

	return customers, total, err
}

func (r *customerRepository) ClearAdvance(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Customer{}).
		Where("id = ?", id).
		Update("advance_balance", decimal.Zero).Error
}

func applyAdjustments(tx *gorm.DB, adjustments []domainRepo.CustomerAdjustment) error {
	for _, adjust := range adjustments {
		if err := applyAdjustment(tx, adjust); err != nil {
			return err
		}
	}
	return nil
}

// applyAdjustment moves a customer's balances by the given deltas inside tx.
// The advance balance never goes below zero.
func applyAdjustment(tx *gorm.DB, adjust domainRepo.CustomerAdjustment) error {
	if adjust.CustomerID == uuid.Nil || adjust.IsZero() {
		return nil
	}
	var customer entity.Customer
	if err := tx.First(&customer, "id = ?", adjust.CustomerID).Error; err != nil {
		return err
	}
	advance := customer.AdvanceBalance.Add(adjust.AdvanceDelta)
	if advance.IsNegative() {
		advance = decimal.Zero
	}
	return tx.Model(&customer).Updates(map[string]interface{}{
		"advance_balance": advance,
		"dues":            customer.Dues.Add(adjust.DuesDelta),
	}).Error
}
