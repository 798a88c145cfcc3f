package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/salonbill-api/internal/domain/billing"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/sangkips/salonbill-api/internal/domain/repository"
	"github.com/sangkips/salonbill-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/salonbill-api/internal/infrastructure/repository"
	"github.com/sangkips/salonbill-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	userID    uuid.UUID
	drafts    *DraftStore
	catalog   *CatalogService
	customers *CustomerService
	coupons   *CouponService
	settings  *SettingsService
	billing   *BillingService

	customerRepo repository.CustomerRepository
	heldRepo     repository.HeldBillRepository
	billRepo     repository.BillRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewSQLiteDB(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedDefaultData(db, zap.NewNop()))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	env := &testEnv{
		db:           db,
		userID:       uuid.New(),
		drafts:       NewDraftStore(),
		customerRepo: infraRepo.NewCustomerRepository(db),
		heldRepo:     infraRepo.NewHeldBillRepository(db),
		billRepo:     infraRepo.NewBillRepository(db),
	}
	couponRepo := infraRepo.NewCouponRepository(db)
	env.catalog = NewCatalogService(infraRepo.NewCatalogRepository(db), infraRepo.NewStaffRepository(db))
	env.customers = NewCustomerService(env.customerRepo)
	env.coupons = NewCouponService(couponRepo)
	env.settings = NewSettingsService(infraRepo.NewSettingsRepository(db))
	env.billing = NewBillingService(
		env.drafts, env.catalog, env.coupons,
		env.customerRepo, couponRepo, env.heldRepo, env.billRepo,
		BillingOptions{
			TaxMode:     billing.TaxMode{ApplyTax: true},
			HeldBillTTL: 24 * time.Hour,
		},
		zap.NewNop(),
	)
	var seq atomic.Int64
	env.billing.idGen = func() string { return fmt.Sprintf("id-%d", seq.Add(1)) }
	return env
}

func (e *testEnv) catalogItem(t *testing.T, name string) entity.CatalogItem {
	t.Helper()
	var item entity.CatalogItem
	require.NoError(t, e.db.Where("name = ?", name).First(&item).Error)
	return item
}

func (e *testEnv) staff(t *testing.T, name string) entity.Staff {
	t.Helper()
	var s entity.Staff
	require.NoError(t, e.db.Where("name = ?", name).First(&s).Error)
	return s
}

func (e *testEnv) createCustomer(t *testing.T, name, phone string, advance, dues int64) *entity.Customer {
	t.Helper()
	c := &entity.Customer{
		Name:           name,
		Phone:          phone,
		AdvanceBalance: decimal.NewFromInt(advance),
		Dues:           decimal.NewFromInt(dues),
		WalletBalance:  decimal.NewFromInt(150),
		LoyaltyPoints:  40,
	}
	require.NoError(t, e.customerRepo.Create(context.Background(), c))
	return c
}

func (e *testEnv) reloadCustomer(t *testing.T, id uuid.UUID) *entity.Customer {
	t.Helper()
	c, err := e.customerRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

// newDraftWith opens a draft for a walk-in customer holding the named catalog entries
func (e *testEnv) newDraftWith(t *testing.T, names ...string) *DraftView {
	t.Helper()
	ctx := context.Background()
	v, err := e.billing.NewDraft(ctx, &NewDraftInput{UserID: e.userID})
	require.NoError(t, err)

	v, err = e.billing.UpdateCustomerField(e.userID, v.ID, billing.FieldName, "Priya Nair")
	require.NoError(t, err)
	v, err = e.billing.SetCustomerPhone(ctx, e.userID, v.ID, "+91 98765 43210")
	require.NoError(t, err)

	for _, name := range names {
		item := e.catalogItem(t, name)
		v, err = e.billing.AddItem(ctx, &AddItemInput{
			UserID:    e.userID,
			DraftID:   v.ID,
			Type:      item.Kind,
			CatalogID: &item.ID,
			Qty:       1,
		})
		require.NoError(t, err)
	}
	return v
}

func requireAppError(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code, appErr.Message)
	return appErr
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func paymentOf(payments []billing.Payment, mode enum.PaymentMode) (billing.Payment, bool) {
	return lo.Find(payments, func(p billing.Payment) bool { return p.Mode == mode })
}
