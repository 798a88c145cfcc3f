package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/sangkips/salonbill-api/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturePrinter struct {
	jobs [][]byte
	err  error
}

func (p *capturePrinter) Print(_ context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, append([]byte(nil), data...))
	return nil
}

func (p *capturePrinter) Close() error                     { return nil }
func (p *capturePrinter) IsConnected(context.Context) bool { return p.err == nil }

func sampleBill() *entity.Bill {
	return &entity.Bill{
		InvoiceNo:        "INV-20261015-0007",
		SubTotal:         dec("1000"),
		CouponDiscount:   dec("50"),
		Discount:         dec("30"),
		TotalGST:         dec("180"),
		Total:            dec("1100"),
		PaymentAmount:    dec("1000"),
		AdvanceUsed:      dec("200"),
		Dues:             dec("100"),
		BillingTimestamp: time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
		Customer: &entity.Customer{
			Name:          "Kavya",
			Phone:         "9000000001",
			WalletBalance: dec("75"),
			LoyaltyPoints: 12,
		},
		Items: []entity.BillItem{
			{
				Type: enum.ItemTypeService, Qty: 2, Price: dec("590"),
				DiscountType: enum.DiscountTypePercent, DiscountValue: dec("10"),
				CGST: dec("90"), SGST: dec("90"),
				CatalogItem: &entity.CatalogItem{Name: "Haircut"},
				Staff:       &entity.Staff{Name: "Asha"},
			},
		},
		Payments: []entity.BillPayment{
			{Mode: enum.PaymentModeCash, Amount: dec("800")},
			{Mode: enum.PaymentModeAdvance, Amount: dec("200")},
		},
	}
}

func TestBuildReceiptHonorsToggles(t *testing.T) {
	header := entity.ReceiptHeader{StoreName: "Glow Salon", ShowLogo: true}

	t.Run("defaults", func(t *testing.T) {
		r := BuildReceipt(sampleBill(), entity.DefaultInvoiceSettings(uuid.New()), header)

		assert.Equal(t, "INV-20261015-0007", r.InvoiceNo)
		assert.NotEmpty(t, r.Date)
		assert.Equal(t, "9000000001", r.CustomerPhone)
		assert.True(t, r.Header.ShowLogo)
		assert.True(t, r.CGST.Equal(dec("90")))
		assert.True(t, r.SGST.Equal(dec("90")))
		require.Len(t, r.Items, 1)
		item := r.Items[0]
		assert.Equal(t, "Haircut", item.Name)
		assert.Equal(t, "Asha", item.Artist)
		assert.True(t, item.Discount.Equal(dec("118")), item.Discount.String())
		assert.True(t, item.Total.Equal(dec("1062")), item.Total.String())
		assert.True(t, item.GST.Equal(dec("180")))
		assert.Len(t, r.Payments, 2)
		assert.Nil(t, r.WalletBalance)
		assert.Nil(t, r.LoyaltyPoints)
		assert.Empty(t, r.Notes)
	})

	t.Run("everything off", func(t *testing.T) {
		settings := &entity.InvoiceSettings{Notes: "See you soon"}
		r := BuildReceipt(sampleBill(), settings, header)

		assert.Empty(t, r.Date)
		assert.Empty(t, r.CustomerPhone)
		assert.False(t, r.Header.ShowLogo)
		assert.False(t, r.ShowGST)
		assert.False(t, r.ShowDiscount)
		assert.Empty(t, r.Items[0].Artist)
		assert.Empty(t, r.Payments)
		assert.Empty(t, r.Notes)
		assert.Equal(t, "Kavya", r.Customer)
	})

	t.Run("wallet loyalty notes", func(t *testing.T) {
		settings := &entity.InvoiceSettings{ShowWallet: true, ShowLoyalty: true, ShowNotes: true, Notes: "See you soon"}
		r := BuildReceipt(sampleBill(), settings, header)

		require.NotNil(t, r.WalletBalance)
		assert.True(t, r.WalletBalance.Equal(dec("75")))
		require.NotNil(t, r.LoyaltyPoints)
		assert.Equal(t, 12, *r.LoyaltyPoints)
		assert.Equal(t, "See you soon", r.Notes)
	})
}

func TestFormatReceipt(t *testing.T) {
	r := BuildReceipt(sampleBill(), entity.DefaultInvoiceSettings(uuid.New()), entity.ReceiptHeader{
		StoreName: "Glow Salon",
		TaxID:     "29ABCDE1234F1Z5",
	})
	out := string(FormatReceipt(r, printer.Width58mm))

	for _, want := range []string{"Glow Salon", "GSTIN: 29ABCDE1234F1Z5", "INV-20261015-0007", "2x Haircut", "CGST:", "Coupon:", "-50.00", "TOTAL:", "1100.00", "Advance:", "Due:", "by Asha"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Wallet:")

	r.ShowGST = false
	r.ShowDiscount = false
	out = string(FormatReceipt(r, printer.Width58mm))
	assert.NotContains(t, out, "CGST:")
	assert.NotContains(t, out, "Coupon:")
	assert.False(t, strings.Contains(out, "less "))
}

func TestPrintBillReceipt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	v := env.newDraftWith(t, "Facial")
	saved, err := env.billing.Save(ctx, env.userID, v.ID)
	require.NoError(t, err)

	p := &capturePrinter{}
	svc := NewPrinterService(p, env.billRepo, env.settings, PrinterOptions{
		Type:   "network",
		Width:  printer.Width80mm,
		Header: entity.ReceiptHeader{StoreName: "Glow Salon"},
	}, zap.NewNop())

	receipt, err := svc.PrintBillReceipt(ctx, env.userID, saved.Bill.ID)
	require.NoError(t, err)
	require.Len(t, p.jobs, 1)
	assert.Equal(t, saved.Bill.InvoiceNo, receipt.InvoiceNo)
	assert.Equal(t, "Facial", receipt.Items[0].Name)
	assert.True(t, receipt.Total.Equal(decimal.NewFromInt(1416)))
	assert.Contains(t, string(p.jobs[0]), saved.Bill.InvoiceNo)

	_, err = svc.PrintBillReceipt(ctx, env.userID, uuid.New())
	requireAppError(t, err, http.StatusNotFound)

	p.err = errors.New("paper out")
	receipt, err = svc.PrintBillReceipt(ctx, env.userID, saved.Bill.ID)
	requireAppError(t, err, http.StatusBadGateway)
	assert.NotNil(t, receipt)

	status := svc.GetStatus(ctx)
	assert.True(t, status.Configured)
	assert.False(t, status.Connected)
}
