package service

import (
	"context"
	"net/http"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/billing"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/sangkips/salonbill-api/internal/domain/repository"
	"github.com/sangkips/salonbill-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var invoiceNoPattern = regexp.MustCompile(`^INV-\d{8}-\d{4}$`)

func TestHoldLoadAndSave(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	v := env.newDraftWith(t, "Haircut", "Shampoo")
	// 500 + 18% and 350 + 12%
	assert.True(t, v.Summary.CalculatedTotal.Equal(dec("982")), v.Summary.CalculatedTotal.String())

	held, err := env.billing.Hold(ctx, env.userID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStateHeld, held.Draft.State)
	require.NotNil(t, held.Draft.HeldBillID)
	assert.Equal(t, held.HeldBill.ID, *held.Draft.HeldBillID)
	assert.True(t, held.HeldBill.Total.Equal(dec("982")))

	name, phone, ok := billing.ParseCustomerSummary(held.HeldBill.CustomerSummary)
	require.True(t, ok)
	assert.Equal(t, "Priya Nair", name)
	assert.Equal(t, "+919876543210", phone)

	loaded, err := env.billing.LoadHeld(ctx, env.userID, held.HeldBill.ID)
	require.NoError(t, err)
	assert.NotEqual(t, v.ID, loaded.ID)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "Haircut", loaded.Items[0].Name)
	assert.Equal(t, "Shampoo", loaded.Items[1].Name)
	assert.Equal(t, "Priya Nair", loaded.Customer.Name)
	require.NotNil(t, loaded.HeldBillID)
	assert.True(t, loaded.Summary.CalculatedTotal.Equal(dec("982")), loaded.Summary.CalculatedTotal.String())

	// holding the loaded draft again updates the same record
	again, err := env.billing.Hold(ctx, env.userID, loaded.ID)
	require.NoError(t, err)
	assert.Equal(t, held.HeldBill.ID, again.HeldBill.ID)
	list, err := env.billing.ListHeld(ctx, pagination.DefaultPagination())
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Pagination.Total)

	saved, err := env.billing.Save(ctx, env.userID, loaded.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStateFinalized, saved.Draft.State)
	assert.Nil(t, saved.Draft.HeldBillID)
	assert.Regexp(t, invoiceNoPattern, saved.Bill.InvoiceNo)
	assert.True(t, saved.Bill.Total.Equal(dec("982")))
	assert.True(t, saved.Bill.Dues.Equal(dec("982")))
	assert.Len(t, saved.Bill.Items, 2)

	_, err = env.billing.GetHeld(ctx, held.HeldBill.ID)
	requireAppError(t, err, http.StatusNotFound)

	customer, err := env.customerRepo.GetByPhone(ctx, "+919876543210")
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, customer.ID, saved.Bill.CustomerID)
	assert.True(t, customer.Dues.Equal(dec("982")))
}

func TestSaveFoldsDuplicateLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	v := env.newDraftWith(t, "Haircut", "Haircut", "Facial")
	saved, err := env.billing.Save(ctx, env.userID, v.ID)
	require.NoError(t, err)

	require.Len(t, saved.Bill.Items, 2)
	assert.Equal(t, 2, saved.Bill.Items[0].Qty)
	assert.Equal(t, "Haircut", saved.Bill.Items[0].CatalogItem.Name)
	assert.Equal(t, 1, saved.Bill.Items[1].Qty)
}

func TestSaveNumbersInvoicesPerDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		v := env.newDraftWith(t, "Manicure")
		saved, err := env.billing.Save(ctx, env.userID, v.ID)
		require.NoError(t, err)
		assert.Regexp(t, invoiceNoPattern, saved.Bill.InvoiceNo)
		assert.False(t, seen[saved.Bill.InvoiceNo], "duplicate %s", saved.Bill.InvoiceNo)
		seen[saved.Bill.InvoiceNo] = true
	}

	bills, err := env.billing.ListBills(ctx, &repository.BillFilterParams{Pagination: pagination.DefaultPagination()})
	require.NoError(t, err)
	assert.Equal(t, int64(3), bills.Pagination.Total)
}

func TestSaveAppliesAdvanceAndDues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Kavya", "9000000001", 300, 0)

	v, err := env.billing.NewDraft(ctx, &NewDraftInput{UserID: env.userID})
	require.NoError(t, err)
	v, err = env.billing.SelectCustomer(ctx, env.userID, v.ID, customer.ID)
	require.NoError(t, err)
	haircut := env.catalogItem(t, "Haircut")
	_, err = env.billing.AddItem(ctx, &AddItemInput{UserID: env.userID, DraftID: v.ID, Type: haircut.Kind, CatalogID: &haircut.ID})
	require.NoError(t, err)
	v, err = env.billing.AddPayment(&AddPaymentInput{UserID: env.userID, DraftID: v.ID, Mode: "cash", Amount: dec("200")})
	require.NoError(t, err)

	assert.True(t, v.Summary.TotalPaid.Equal(dec("500")))
	assert.True(t, v.Summary.Dues.Equal(dec("90")))
	_, ok := paymentOf(v.Summary.Payments, enum.PaymentModeAdvance)
	assert.True(t, ok)

	saved, err := env.billing.Save(ctx, env.userID, v.ID)
	require.NoError(t, err)
	assert.True(t, saved.Bill.AdvanceUsed.Equal(dec("300")))
	assert.True(t, saved.Bill.Dues.Equal(dec("90")))
	assert.True(t, saved.Bill.PaymentAmount.Equal(dec("500")))
	assert.Equal(t, billing.PersistedModeSplit, saved.Bill.PaymentMode)
	assert.Len(t, saved.Bill.Payments, 2)

	after := env.reloadCustomer(t, customer.ID)
	assert.True(t, after.AdvanceBalance.IsZero(), after.AdvanceBalance.String())
	assert.True(t, after.Dues.Equal(dec("90")), after.Dues.String())
}

func TestEditBillUpdatesInPlace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Kavya", "9000000001", 300, 0)

	v, err := env.billing.NewDraft(ctx, &NewDraftInput{UserID: env.userID})
	require.NoError(t, err)
	_, err = env.billing.SelectCustomer(ctx, env.userID, v.ID, customer.ID)
	require.NoError(t, err)
	haircut := env.catalogItem(t, "Haircut")
	_, err = env.billing.AddItem(ctx, &AddItemInput{UserID: env.userID, DraftID: v.ID, Type: haircut.Kind, CatalogID: &haircut.ID})
	require.NoError(t, err)
	_, err = env.billing.AddPayment(&AddPaymentInput{UserID: env.userID, DraftID: v.ID, Mode: "cash", Amount: dec("200")})
	require.NoError(t, err)
	first, err := env.billing.Save(ctx, env.userID, v.ID)
	require.NoError(t, err)

	edit, err := env.billing.EditBill(ctx, env.userID, first.Bill.ID)
	require.NoError(t, err)
	require.NotNil(t, edit.SourceBillID)
	assert.Equal(t, first.Bill.ID, *edit.SourceBillID)
	// the bill's own advance is available again
	assert.True(t, edit.AdvanceAmount.Equal(dec("300")), edit.AdvanceAmount.String())
	assert.True(t, edit.Summary.CalculatedTotal.Equal(dec("590")), edit.Summary.CalculatedTotal.String())
	assert.True(t, edit.Summary.Dues.Equal(dec("90")))

	cash, ok := paymentOf(edit.Payments, enum.PaymentModeCash)
	require.True(t, ok)
	_, err = env.billing.RemovePayment(env.userID, edit.ID, cash.ID)
	require.NoError(t, err)
	edit, err = env.billing.AddPayment(&AddPaymentInput{UserID: env.userID, DraftID: edit.ID, Mode: "Debit card", Amount: dec("290")})
	require.NoError(t, err)
	assert.True(t, edit.Summary.Dues.IsZero())

	second, err := env.billing.Save(ctx, env.userID, edit.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Bill.ID, second.Bill.ID)
	assert.Equal(t, first.Bill.InvoiceNo, second.Bill.InvoiceNo)
	assert.True(t, second.Bill.Dues.IsZero())
	require.Len(t, second.Bill.Payments, 2)

	var count int64
	require.NoError(t, env.db.Model(&entity.Bill{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	after := env.reloadCustomer(t, customer.ID)
	assert.True(t, after.AdvanceBalance.IsZero(), after.AdvanceBalance.String())
	assert.True(t, after.Dues.IsZero(), after.Dues.String())
}

func TestEditBillMovesBalancesToNewCustomer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.createCustomer(t, "Kavya", "9000000001", 0, 0)
	second := env.createCustomer(t, "Arjun", "9000000002", 0, 0)

	v, err := env.billing.NewDraft(ctx, &NewDraftInput{UserID: env.userID})
	require.NoError(t, err)
	_, err = env.billing.SelectCustomer(ctx, env.userID, v.ID, first.ID)
	require.NoError(t, err)
	haircut := env.catalogItem(t, "Haircut")
	_, err = env.billing.AddItem(ctx, &AddItemInput{UserID: env.userID, DraftID: v.ID, Type: haircut.Kind, CatalogID: &haircut.ID})
	require.NoError(t, err)
	saved, err := env.billing.Save(ctx, env.userID, v.ID)
	require.NoError(t, err)
	assert.True(t, env.reloadCustomer(t, first.ID).Dues.Equal(dec("590")))

	edit, err := env.billing.EditBill(ctx, env.userID, saved.Bill.ID)
	require.NoError(t, err)
	_, err = env.billing.SelectCustomer(ctx, env.userID, edit.ID, second.ID)
	require.NoError(t, err)
	_, err = env.billing.Save(ctx, env.userID, edit.ID)
	require.NoError(t, err)

	assert.True(t, env.reloadCustomer(t, first.ID).Dues.IsZero())
	assert.True(t, env.reloadCustomer(t, second.ID).Dues.Equal(dec("590")))
}

func TestReopenSavesSameBill(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	v := env.newDraftWith(t, "Facial")
	first, err := env.billing.Save(ctx, env.userID, v.ID)
	require.NoError(t, err)

	_, err = env.billing.Save(ctx, env.userID, v.ID)
	requireAppError(t, err, http.StatusConflict)
	_, err = env.billing.SetExtraDiscount(env.userID, v.ID, dec("100"))
	requireAppError(t, err, http.StatusConflict)

	_, err = env.billing.Reopen(env.userID, v.ID)
	require.NoError(t, err)
	r, err := env.billing.SetExtraDiscount(env.userID, v.ID, dec("100"))
	require.NoError(t, err)
	assert.True(t, r.Summary.CalculatedTotal.Equal(dec("1316")), r.Summary.CalculatedTotal.String())

	second, err := env.billing.Save(ctx, env.userID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Bill.ID, second.Bill.ID)
	assert.True(t, second.Bill.Discount.Equal(dec("100")))

	customer, err := env.customerRepo.GetByPhone(ctx, "+919876543210")
	require.NoError(t, err)
	assert.True(t, customer.Dues.Equal(dec("1316")), customer.Dues.String())
}

func TestSaveRejectsUnresolvedItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	v := env.newDraftWith(t)
	price := dec("400")
	v, err := env.billing.AddItem(ctx, &AddItemInput{
		UserID:    env.userID,
		DraftID:   v.ID,
		Type:      enum.ItemTypeService,
		Name:      "Bridal Braid",
		UnitPrice: &price,
	})
	require.NoError(t, err)
	assert.False(t, v.Items[0].Resolved())

	_, err = env.billing.Save(ctx, env.userID, v.ID)
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	require.Len(t, appErr.Errors, 1)
	assert.Contains(t, appErr.Errors[0].Message, "Bridal Braid")

	// still held locally and savable as a hold
	kept, err := env.billing.GetDraft(env.userID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStateDraft, kept.State)
	_, err = env.billing.Hold(ctx, env.userID, v.ID)
	assert.NoError(t, err)

	// renaming to a catalog entry resolves the line
	name := "Hair Spa"
	v, err = env.billing.UpdateItem(ctx, &UpdateItemInput{
		UserID:  env.userID,
		DraftID: v.ID,
		ItemID:  v.Items[0].ID,
		Patch:   billing.ItemPatch{Name: &name},
	})
	require.NoError(t, err)
	assert.True(t, v.Items[0].Resolved())
	_, err = env.billing.Save(ctx, env.userID, v.ID)
	assert.NoError(t, err)
}

func TestSaveRequiresCustomer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	v, err := env.billing.NewDraft(ctx, &NewDraftInput{UserID: env.userID})
	require.NoError(t, err)
	_, err = env.billing.Save(ctx, env.userID, v.ID)
	requireAppError(t, err, http.StatusUnprocessableEntity)

	haircut := env.catalogItem(t, "Haircut")
	_, err = env.billing.AddItem(ctx, &AddItemInput{UserID: env.userID, DraftID: v.ID, Type: haircut.Kind, CatalogID: &haircut.ID})
	require.NoError(t, err)
	_, err = env.billing.Save(ctx, env.userID, v.ID)
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, "customer", appErr.Errors[0].Field)
}

func TestApplyCouponIsCapped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	v := env.newDraftWith(t, "Gold Membership")
	v, err := env.billing.ApplyCoupon(ctx, env.userID, v.ID, "welcome10")
	require.NoError(t, err)
	require.Len(t, v.Coupons, 1)
	assert.True(t, v.Summary.CouponDiscount.Equal(dec("200")), v.Summary.CouponDiscount.String())

	_, err = env.billing.ApplyCoupon(ctx, env.userID, v.ID, "NOPE")
	requireAppError(t, err, http.StatusNotFound)

	v, err = env.billing.RemoveCoupon(env.userID, v.ID, v.Coupons[0].ID)
	require.NoError(t, err)
	assert.True(t, v.Summary.CouponDiscount.IsZero())
}

func TestAdjustTotalKeepsPairCoupled(t *testing.T) {
	env := newTestEnv(t)

	v := env.newDraftWith(t, "Haircut")
	v, err := env.billing.SetAdjustTotal(env.userID, v.ID, dec("500"))
	require.NoError(t, err)
	assert.True(t, v.ExtraDiscount.Equal(dec("90")), v.ExtraDiscount.String())
	assert.True(t, v.Summary.CalculatedTotal.Equal(dec("500")))

	v, err = env.billing.SetTaxMode(env.userID, v.ID, true, enum.TaxTypeInclusive)
	require.NoError(t, err)
	assert.True(t, v.ExtraDiscount.Add(v.AdjustTotal).Equal(v.Summary.BaseInclTax))
}

func TestClearAdvanceZeroesStoredBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Kavya", "9000000001", 300, 0)

	v, err := env.billing.NewDraft(ctx, &NewDraftInput{UserID: env.userID})
	require.NoError(t, err)
	v, err = env.billing.SelectCustomer(ctx, env.userID, v.ID, customer.ID)
	require.NoError(t, err)
	assert.True(t, v.AdvanceAmount.Equal(dec("300")))

	v, err = env.billing.ClearAdvance(ctx, env.userID, v.ID)
	require.NoError(t, err)
	assert.True(t, v.AdvanceAmount.IsZero())
	assert.Empty(t, v.Summary.Payments)
	assert.True(t, env.reloadCustomer(t, customer.ID).AdvanceBalance.IsZero())
}

func TestSetCustomerPhoneFetchesStoredCustomer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Kavya", "9000000001", 120, 45)

	v, err := env.billing.NewDraft(ctx, &NewDraftInput{UserID: env.userID})
	require.NoError(t, err)
	v, err = env.billing.SetCustomerPhone(ctx, env.userID, v.ID, "90000-00001")
	require.NoError(t, err)

	require.NotNil(t, v.Customer.ID)
	assert.Equal(t, customer.ID, *v.Customer.ID)
	assert.Equal(t, "Kavya", v.Customer.Name)
	assert.True(t, v.AdvanceAmount.Equal(dec("120")))
	assert.True(t, v.Customer.Dues.Equal(dec("45")))

	// a different phone detaches the stored customer
	v, err = env.billing.SetCustomerPhone(ctx, env.userID, v.ID, "9111111111")
	require.NoError(t, err)
	assert.Nil(t, v.Customer.ID)
	assert.True(t, v.AdvanceAmount.IsZero())
}

type gatedCustomerRepo struct {
	repository.CustomerRepository
	started chan struct{}
	release chan struct{}
}

func (r *gatedCustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	close(r.started)
	<-r.release
	return r.CustomerRepository.GetByPhone(ctx, phone)
}

func TestSetCustomerPhoneKeepsFieldsEditedDuringLookup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Kavya", "9000000001", 0, 0)

	gated := &gatedCustomerRepo{
		CustomerRepository: env.customerRepo,
		started:            make(chan struct{}),
		release:            make(chan struct{}),
	}
	env.billing.customerRepo = gated

	v, err := env.billing.NewDraft(ctx, &NewDraftInput{UserID: env.userID})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var result *DraftView
	var lookupErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		result, lookupErr = env.billing.SetCustomerPhone(ctx, env.userID, v.ID, "9000000001")
	}()

	<-gated.started
	_, err = env.billing.UpdateCustomerField(env.userID, v.ID, billing.FieldName, "Kavya R")
	require.NoError(t, err)
	close(gated.release)
	wg.Wait()

	require.NoError(t, lookupErr)
	require.NotNil(t, result.Customer.ID)
	assert.Equal(t, customer.ID, *result.Customer.ID)
	assert.Equal(t, "Kavya R", result.Customer.Name)
}

func TestUpdateCustomerFieldParsesDates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	v, err := env.billing.NewDraft(ctx, &NewDraftInput{UserID: env.userID})
	require.NoError(t, err)

	v, err = env.billing.UpdateCustomerField(env.userID, v.ID, billing.FieldBirthday, "1994-03-21")
	require.NoError(t, err)
	require.NotNil(t, v.Customer.Birthday)
	assert.Equal(t, time.March, v.Customer.Birthday.Month())

	_, err = env.billing.UpdateCustomerField(env.userID, v.ID, billing.FieldAnniversary, "21/03/2019")
	requireAppError(t, err, http.StatusBadRequest)
	_, err = env.billing.UpdateCustomerField(env.userID, v.ID, billing.CustomerField("email"), "x@y.z")
	requireAppError(t, err, http.StatusBadRequest)
}

func TestDraftsAreScopedToTheirOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	v, err := env.billing.NewDraft(ctx, &NewDraftInput{UserID: env.userID})
	require.NoError(t, err)

	_, err = env.billing.GetDraft(uuid.New(), v.ID)
	requireAppError(t, err, http.StatusNotFound)
	requireAppError(t, env.billing.DiscardDraft(uuid.New(), v.ID), http.StatusNotFound)

	require.NoError(t, env.billing.DiscardDraft(env.userID, v.ID))
	_, err = env.billing.GetDraft(env.userID, v.ID)
	requireAppError(t, err, http.StatusNotFound)
}

func TestAddItemValidatesReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	v, err := env.billing.NewDraft(ctx, &NewDraftInput{UserID: env.userID})
	require.NoError(t, err)

	missing := uuid.New()
	_, err = env.billing.AddItem(ctx, &AddItemInput{UserID: env.userID, DraftID: v.ID, Type: enum.ItemTypeService, CatalogID: &missing})
	requireAppError(t, err, http.StatusNotFound)

	haircut := env.catalogItem(t, "Haircut")
	_, err = env.billing.AddItem(ctx, &AddItemInput{
		UserID: env.userID, DraftID: v.ID, Type: haircut.Kind, CatalogID: &haircut.ID,
		StaffIDs: []uuid.UUID{uuid.New()},
	})
	requireAppError(t, err, http.StatusNotFound)

	asha := env.staff(t, "Asha")
	v, err = env.billing.AddItem(ctx, &AddItemInput{
		UserID: env.userID, DraftID: v.ID, Type: haircut.Kind, CatalogID: &haircut.ID,
		StaffIDs: []uuid.UUID{asha.ID},
	})
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, asha.ID, v.Items[0].StaffIDs[0])
}

func TestPurgeExpiredHeld(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	v := env.newDraftWith(t, "Haircut")
	_, err := env.billing.Hold(ctx, env.userID, v.ID)
	require.NoError(t, err)

	n, err := env.billing.PurgeExpiredHeld(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, env.drafts.Len())

	env.billing.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	n, err = env.billing.PurgeExpiredHeld(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Zero(t, env.drafts.Len())
}

// newCustomerDraft opens a draft for a stored customer holding one Haircut
func (e *testEnv) newCustomerDraft(t *testing.T, customer *entity.Customer) *DraftView {
	t.Helper()
	ctx := context.Background()
	v, err := e.billing.NewDraft(ctx, &NewDraftInput{UserID: e.userID})
	require.NoError(t, err)
	_, err = e.billing.SelectCustomer(ctx, e.userID, v.ID, customer.ID)
	require.NoError(t, err)
	haircut := e.catalogItem(t, "Haircut")
	v, err = e.billing.AddItem(ctx, &AddItemInput{UserID: e.userID, DraftID: v.ID, Type: haircut.Kind, CatalogID: &haircut.ID})
	require.NoError(t, err)
	return v
}

func TestSaveKeepsSurplusAdvance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Kavya", "9000000001", 5000, 0)

	v := env.newCustomerDraft(t, customer)
	assert.True(t, v.AdvanceAmount.Equal(dec("5000")))
	advance, ok := paymentOf(v.Summary.Payments, enum.PaymentModeAdvance)
	require.True(t, ok)
	assert.True(t, advance.Amount.Equal(dec("590")), advance.Amount.String())
	assert.True(t, v.Summary.TotalPaid.Equal(dec("590")))

	saved, err := env.billing.Save(ctx, env.userID, v.ID)
	require.NoError(t, err)
	assert.True(t, saved.Bill.Total.Equal(dec("590")))
	assert.True(t, saved.Bill.AdvanceUsed.Equal(dec("590")), saved.Bill.AdvanceUsed.String())
	assert.True(t, saved.Bill.PaymentAmount.Equal(dec("590")))
	assert.True(t, saved.Bill.Dues.IsZero())

	after := env.reloadCustomer(t, customer.ID)
	assert.True(t, after.AdvanceBalance.Equal(dec("4410")), after.AdvanceBalance.String())

	// editing hands the used part back before re-applying it
	edit, err := env.billing.EditBill(ctx, env.userID, saved.Bill.ID)
	require.NoError(t, err)
	assert.True(t, edit.AdvanceAmount.Equal(dec("5000")), edit.AdvanceAmount.String())
	_, err = env.billing.Save(ctx, env.userID, edit.ID)
	require.NoError(t, err)
	after = env.reloadCustomer(t, customer.ID)
	assert.True(t, after.AdvanceBalance.Equal(dec("4410")), after.AdvanceBalance.String())
}

func TestHoldAndEditKeepDraftTaxMode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	inclusive := enum.TaxTypeInclusive
	v, err := env.billing.NewDraft(ctx, &NewDraftInput{UserID: env.userID, TaxType: &inclusive})
	require.NoError(t, err)
	_, err = env.billing.UpdateCustomerField(env.userID, v.ID, billing.FieldName, "Priya Nair")
	require.NoError(t, err)
	_, err = env.billing.SetCustomerPhone(ctx, env.userID, v.ID, "9876543210")
	require.NoError(t, err)
	haircut := env.catalogItem(t, "Haircut")
	v, err = env.billing.AddItem(ctx, &AddItemInput{UserID: env.userID, DraftID: v.ID, Type: haircut.Kind, CatalogID: &haircut.ID})
	require.NoError(t, err)
	require.True(t, v.TaxMode.Inclusive)
	// money in views is rounded to cents
	assert.Equal(t, "576.27", v.Summary.CalculatedTotal.String())

	held, err := env.billing.Hold(ctx, env.userID, v.ID)
	require.NoError(t, err)
	loaded, err := env.billing.LoadHeld(ctx, env.userID, held.HeldBill.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.TaxMode{ApplyTax: true, Inclusive: true}, loaded.TaxMode)
	assert.Equal(t, "576.27", loaded.Summary.CalculatedTotal.String())

	saved, err := env.billing.Save(ctx, env.userID, loaded.ID)
	require.NoError(t, err)
	assert.True(t, saved.Bill.ApplyTax)
	assert.True(t, saved.Bill.InclusiveTax)

	edit, err := env.billing.EditBill(ctx, env.userID, saved.Bill.ID)
	require.NoError(t, err)
	assert.True(t, edit.TaxMode.Inclusive)
	assert.True(t, edit.Summary.CalculatedTotal.Equal(saved.Bill.Total), edit.Summary.CalculatedTotal.String())
}

func TestEditBillKeepsFoldedDiscount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	v := env.newDraftWith(t, "Haircut")
	haircut := env.catalogItem(t, "Haircut")
	v, err := env.billing.AddItem(ctx, &AddItemInput{
		UserID:        env.userID,
		DraftID:       v.ID,
		Type:          haircut.Kind,
		CatalogID:     &haircut.ID,
		DiscountType:  enum.DiscountTypePercent,
		DiscountValue: dec("50"),
	})
	require.NoError(t, err)
	assert.True(t, v.Summary.CalculatedTotal.Equal(dec("930")), v.Summary.CalculatedTotal.String())

	saved, err := env.billing.Save(ctx, env.userID, v.ID)
	require.NoError(t, err)
	require.Len(t, saved.Bill.Items, 1)
	item := saved.Bill.Items[0]
	assert.Equal(t, 2, item.Qty)
	assert.Equal(t, enum.DiscountTypeFlat, item.DiscountType)
	assert.True(t, item.DiscountValue.Equal(dec("250")), item.DiscountValue.String())
	assert.True(t, saved.Bill.Total.Equal(dec("930")))

	edit, err := env.billing.EditBill(ctx, env.userID, saved.Bill.ID)
	require.NoError(t, err)
	assert.True(t, edit.Summary.CalculatedTotal.Equal(dec("930")), edit.Summary.CalculatedTotal.String())
}

func TestClearAdvanceOnEditedBill(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Kavya", "9000000001", 300, 0)

	v := env.newCustomerDraft(t, customer)
	first, err := env.billing.Save(ctx, env.userID, v.ID)
	require.NoError(t, err)
	assert.True(t, first.Bill.AdvanceUsed.Equal(dec("300")))
	assert.True(t, first.Bill.Dues.Equal(dec("290")))

	edit, err := env.billing.EditBill(ctx, env.userID, first.Bill.ID)
	require.NoError(t, err)
	edit, err = env.billing.ClearAdvance(ctx, env.userID, edit.ID)
	require.NoError(t, err)
	assert.True(t, edit.AdvanceAmount.IsZero())
	assert.True(t, edit.Summary.Dues.Equal(dec("590")))

	second, err := env.billing.Save(ctx, env.userID, edit.ID)
	require.NoError(t, err)
	assert.True(t, second.Bill.AdvanceUsed.IsZero())

	after := env.reloadCustomer(t, customer.ID)
	assert.True(t, after.AdvanceBalance.IsZero(), after.AdvanceBalance.String())
	assert.True(t, after.Dues.Equal(dec("590")), after.Dues.String())
}
