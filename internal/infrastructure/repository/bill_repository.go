package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	domainRepo "github.com/sangkips/salonbill-api/internal/domain/repository"
	"github.com/sangkips/salonbill-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// invoiceNoAttempts bounds retries when two saves race for the same invoice number
const invoiceNoAttempts = 5

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) Create(ctx context.Context, bill *entity.Bill, adjust ...domainRepo.CustomerAdjustment) error {
	var err error
	for attempt := 0; attempt < invoiceNoAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			invoiceNo, err := nextInvoiceNo(tx, bill.BillingTimestamp, attempt)
			if err != nil {
				return err
			}
			bill.InvoiceNo = invoiceNo
			if err := tx.Create(bill).Error; err != nil {
				return err
			}
			return applyAdjustments(tx, adjust)
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return err
}

// nextInvoiceNo numbers bills per billing day: INV-20240131-0001
func nextInvoiceNo(tx *gorm.DB, at time.Time, offset int) (string, error) {
	prefix := fmt.Sprintf("INV-%s-", at.UTC().Format("20060102"))
	var count int64
	if err := tx.Unscoped().Model(&entity.Bill{}).
		Where("invoice_no LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1+int64(offset)), nil
}

func (r *billRepository) Replace(ctx context.Context, bill *entity.Bill, adjust ...domainRepo.CustomerAdjustment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bill_id = ?", bill.ID).Delete(&entity.BillItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("bill_id = ?", bill.ID).Delete(&entity.BillPayment{}).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(bill).Error; err != nil {
			return err
		}
		for i := range bill.Items {
			bill.Items[i].ID = uuid.Nil
			bill.Items[i].BillID = bill.ID
		}
		for i := range bill.Payments {
			bill.Payments[i].ID = uuid.Nil
			bill.Payments[i].BillID = bill.ID
		}
		if len(bill.Items) > 0 {
			if err := tx.Omit(clause.Associations).Create(&bill.Items).Error; err != nil {
				return err
			}
		}
		if len(bill.Payments) > 0 {
			if err := tx.Create(&bill.Payments).Error; err != nil {
				return err
			}
		}
		return applyAdjustments(tx, adjust)
	})
}

func (r *billRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		Preload("Items.CatalogItem").
		Preload("Items.Staff").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payment_timestamp ASC") }).
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) List(ctx context.Context, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Scopes(
			SearchScope(params.Search, "invoice_no"),
			DateRangeScope("billing_timestamp", params.StartDate, params.EndDate),
		)
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order("billing_timestamp DESC").
		Find(&bills).Error

	return bills, total, err
}

type heldBillRepository struct {
	db *gorm.DB
}

// NewHeldBillRepository creates a new held bill repository
func NewHeldBillRepository(db *gorm.DB) domainRepo.HeldBillRepository {
	return &heldBillRepository{db: db}
}

func (r *heldBillRepository) Create(ctx context.Context, held *entity.HeldBill) error {
	return r.db.WithContext(ctx).Create(held).Error
}

func (r *heldBillRepository) Update(ctx context.Context, held *entity.HeldBill) error {
	return r.db.WithContext(ctx).Save(held).Error
}

func (r *heldBillRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.HeldBill, error) {
	var held entity.HeldBill
	err := r.db.WithContext(ctx).First(&held, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &held, err
}

func (r *heldBillRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.HeldBill, int64, error) {
	var held []entity.HeldBill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.HeldBill{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("updated_at DESC").
		Find(&held).Error

	return held, total, err
}

func (r *heldBillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.HeldBill{}, "id = ?", id).Error
}

func (r *heldBillRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("updated_at < ?", cutoff).Delete(&entity.HeldBill{})
	return res.RowsAffected, res.Error
}
