package billing

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var billedAt = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func walkInCustomer() CustomerRef {
	return CustomerRef{Name: "Meera Rao", Phone: "+91 98450-12345", Gender: "female"}
}

func TestBuildPayload_Save(t *testing.T) {
	staff := uuid.New()
	d := newTestDraft(TaxMode{ApplyTax: true})
	require.NoError(t, d.SetCustomer(walkInCustomer()))
	_, err := d.AddItem(LineItem{Type: enum.ItemTypeService, Name: "Haircut", Qty: 1, StaffIDs: []uuid.UUID{staff}}, testCatalog())
	require.NoError(t, err)
	_, err = d.AddPayment(Payment{Mode: enum.PaymentModeCard, Amount: dec("590")})
	require.NoError(t, err)
	require.NoError(t, d.SetReferralCode("REF-42"))

	p, err := BuildPayload(d, PurposeSave, billedAt)
	require.NoError(t, err)

	require.Len(t, p.Items, 1)
	item := p.Items[0]
	assert.Equal(t, 1, item.LineNo)
	assert.Equal(t, haircutID, *item.ID)
	assert.Equal(t, staff, *item.StaffID)
	assertDec(t, "590", item.Price, "exclusive price is displayed tax-inclusive")
	assertDec(t, "45", item.CGST)
	assertDec(t, "45", item.SGST)

	assert.Nil(t, p.CustomerID)
	require.NotNil(t, p.Customer)
	assert.Equal(t, "+919845012345", p.Customer.ContactNo)
	assert.Equal(t, "card", p.PaymentMode)
	assertDec(t, "590", p.PaymentAmount)
	assert.Equal(t, "REF-42", p.ReferralCode)
	assert.Equal(t, billedAt, p.BillingTimestamp)
	assert.Equal(t, "Meera Rao (+919845012345)", p.Summary(d.Customer))
}

func TestBuildPayload_ExistingCustomerSkipsValidation(t *testing.T) {
	id := uuid.New()
	d := newTestDraft(TaxMode{})
	require.NoError(t, d.SetCustomer(CustomerRef{ID: &id}))
	_, err := d.AddItem(LineItem{Type: enum.ItemTypeService, Name: "Haircut"}, testCatalog())
	require.NoError(t, err)

	p, err := BuildPayload(d, PurposeSave, billedAt)
	require.NoError(t, err)
	assert.Equal(t, id, *p.CustomerID)
	assert.Nil(t, p.Customer)
	assert.Equal(t, "none", p.PaymentMode)
}

func TestBuildPayload_RejectsIncompleteCustomer(t *testing.T) {
	for _, c := range []CustomerRef{
		{Name: "", Phone: "9876543210"},
		{Name: "Ravi", Phone: ""},
		{Name: "Ravi", Phone: "12345"},
		{Name: "Ravi", Phone: "98765abc10"},
	} {
		d := newTestDraft(TaxMode{})
		require.NoError(t, d.SetCustomer(c))
		_, err := d.AddItem(LineItem{Type: enum.ItemTypeService, Name: "Haircut"}, testCatalog())
		require.NoError(t, err)

		for _, purpose := range []Purpose{PurposeHold, PurposeSave} {
			_, err := BuildPayload(d, purpose, billedAt)
			assert.ErrorIs(t, err, ErrInvalidCustomer, "customer %+v", c)
		}
	}
}

func TestBuildPayload_UnresolvedItems(t *testing.T) {
	d := newTestDraft(TaxMode{})
	require.NoError(t, d.SetCustomer(walkInCustomer()))
	catalog := testCatalog()
	_, err := d.AddItem(LineItem{Type: enum.ItemTypeService, Name: "Haircut"}, catalog)
	require.NoError(t, err)
	_, err = d.AddItem(LineItem{Type: enum.ItemTypeService, Name: "Nail art", UnitPrice: dec("200")}, catalog)
	require.NoError(t, err)
	_, err = d.AddItem(LineItem{Type: enum.ItemTypeProduct, Name: "Serum", UnitPrice: dec("900")}, catalog)
	require.NoError(t, err)

	t.Run("save lists every unresolved item", func(t *testing.T) {
		_, err := BuildPayload(d, PurposeSave, billedAt)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnresolvedItems)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{`line 2: Service "Nail art"`, `line 3: Product "Serum"`}, verr.Details)
	})

	t.Run("hold allows them", func(t *testing.T) {
		p, err := BuildPayload(d, PurposeHold, billedAt)
		require.NoError(t, err)
		require.Len(t, p.Items, 3)
		assert.Nil(t, p.Items[1].ID)
		assert.Equal(t, 3, p.Items[2].LineNo)
	})
}

func TestBuildPayload_EmptyInvoice(t *testing.T) {
	d := newTestDraft(TaxMode{})
	require.NoError(t, d.SetCustomer(walkInCustomer()))
	_, err := BuildPayload(d, PurposeHold, billedAt)
	assert.ErrorIs(t, err, ErrEmptyInvoice)
}

func TestBuildPayload_DedupOnSave(t *testing.T) {
	staff := uuid.New()
	other := uuid.New()
	d := newTestDraft(TaxMode{ApplyTax: true})
	require.NoError(t, d.SetCustomer(walkInCustomer()))
	catalog := testCatalog()
	for _, it := range []LineItem{
		{Type: enum.ItemTypeService, Name: "Haircut", Qty: 2, StaffIDs: []uuid.UUID{staff}},
		{Type: enum.ItemTypeProduct, Name: "Shampoo", Qty: 1},
		{Type: enum.ItemTypeService, Name: "Haircut", Qty: 3, StaffIDs: []uuid.UUID{staff}},
		{Type: enum.ItemTypeService, Name: "Haircut", Qty: 1, StaffIDs: []uuid.UUID{other}},
	} {
		_, err := d.AddItem(it, catalog)
		require.NoError(t, err)
	}

	p, err := BuildPayload(d, PurposeSave, billedAt)
	require.NoError(t, err)

	require.Len(t, p.Items, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{p.Items[0].LineNo, p.Items[1].LineNo, p.Items[2].LineNo})
	merged := p.Items[0]
	assert.Equal(t, haircutID, *merged.ID)
	assert.Equal(t, 5, merged.Qty)
	assertDec(t, "225", merged.CGST)
	assertDec(t, "225", merged.SGST)
	assert.Equal(t, shampooID, *p.Items[1].ID)
	assert.Equal(t, other, *p.Items[2].StaffID)

	held, err := BuildPayload(d, PurposeHold, billedAt)
	require.NoError(t, err)
	assert.Len(t, held.Items, 4, "hold keeps lines as entered")
}

func TestDedupItems_SumsFlatDiscounts(t *testing.T) {
	id := uuid.New()
	items := []PayloadItem{
		{LineNo: 7, ID: &id, Qty: 1, DiscountType: enum.DiscountTypeFlat, DiscountValue: dec("20"), CGST: dec("1"), SGST: dec("1")},
		{LineNo: 9, ID: &id, Qty: 2, DiscountType: enum.DiscountTypeFlat, DiscountValue: dec("30"), CGST: dec("2"), SGST: dec("2")},
	}
	out := DedupItems(items, nil)
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].LineNo)
	assert.Equal(t, 3, out[0].Qty)
	assertDec(t, "50", out[0].DiscountValue)
	assertDec(t, "3", out[0].CGST)
	assert.Equal(t, 7, items[0].LineNo, "input is not mutated")
}

func TestBuildPayload_AdvanceFoldedIntoPayments(t *testing.T) {
	id := uuid.New()
	d := newTestDraft(TaxMode{})
	require.NoError(t, d.SetCustomer(CustomerRef{ID: &id, AdvanceAmount: dec("300")}))
	_, err := d.AddItem(LineItem{Type: enum.ItemTypeService, Name: "Custom", UnitPrice: dec("1000")}, nil)
	require.NoError(t, err)
	_, err = d.AddPayment(Payment{Mode: enum.PaymentModeCash, Amount: dec("700")})
	require.NoError(t, err)

	p, err := BuildPayload(d, PurposeHold, billedAt)
	require.NoError(t, err)
	assert.Equal(t, "split", p.PaymentMode)
	assertDec(t, "1000", p.PaymentAmount)
	require.Len(t, p.Payments, 2)
	assert.Equal(t, "advance", p.Payments[1].Mode)
	assert.Equal(t, billedAt, p.Payments[1].PaymentTimestamp)
}

func TestPayload_JSONShape(t *testing.T) {
	id := uuid.New()
	d := newTestDraft(TaxMode{ApplyTax: true})
	require.NoError(t, d.SetCustomer(CustomerRef{ID: &id}))
	_, err := d.AddItem(LineItem{Type: enum.ItemTypeService, Name: "Haircut"}, testCatalog())
	require.NoError(t, err)

	p, err := BuildPayload(d, PurposeSave, billedAt)
	require.NoError(t, err)
	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var shape map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &shape))
	for _, key := range []string{"customer_id", "coupon_code", "coupon_codes", "referral_code", "items", "discount", "payment_mode", "payment_amount", "payments", "billing_timestamp"} {
		assert.Contains(t, shape, key)
	}
	item := shape["items"].([]interface{})[0].(map[string]interface{})
	for _, key := range []string{"line_no", "type", "id", "staff_id", "qty", "price", "discount_type", "discount_value", "cgst", "sgst"} {
		assert.Contains(t, item, key)
	}
	assert.Equal(t, "Service", item["type"])
}
