package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/salonbill-api/internal/domain/billing"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/sangkips/salonbill-api/internal/domain/repository"
	"github.com/sangkips/salonbill-api/pkg/apperror"
	"github.com/sangkips/salonbill-api/pkg/printer"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	billRepo    repository.BillRepository
	settings    *SettingsService
	header      entity.ReceiptHeader
	printerType string
	width       int
	log         *zap.Logger
}

// PrinterOptions describes the attached printer and the salon header printed on receipts.
type PrinterOptions struct {
	Type   string
	Width  int
	Header entity.ReceiptHeader
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	billRepo repository.BillRepository,
	settings *SettingsService,
	opts PrinterOptions,
	log *zap.Logger,
) *PrinterService {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Header.StoreName == "" {
		opts.Header.StoreName = "Salon"
	}
	return &PrinterService{
		printer:     p,
		billRepo:    billRepo,
		settings:    settings,
		header:      opts.Header,
		printerType: opts.Type,
		width:       opts.Width,
		log:         log.Named("printer"),
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printerType,
	}
}

// TestPrint sends a test page to the printer.
// The receipt is returned either way so callers without a printer can show it.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	price := decimal.NewFromInt(590)
	cgst, sgst := billing.SplitGST(decimal.NewFromInt(90))
	receipt := &entity.Receipt{
		Header:    s.header,
		InvoiceNo: "TEST-0001",
		Date:      time.Now().Format("2006-01-02 15:04"),
		Items: []entity.ReceiptItem{
			{Name: "Test Service", Quantity: 1, UnitPrice: price, GST: cgst.Add(sgst), Total: price},
		},
		SubTotal: decimal.NewFromInt(500),
		CGST:     cgst,
		SGST:     sgst,
		ShowGST:  true,
		Total:    price,
		Payments: []entity.ReceiptPayment{{Mode: enum.PaymentModeCash.String(), Amount: price}},
		Paid:     price,
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		return receipt, apperror.NewTransportError("test print", err)
	}
	return receipt, nil
}

// PrintBillReceipt renders a saved bill with the user's invoice settings and prints it.
func (s *PrinterService) PrintBillReceipt(ctx context.Context, userID, billID uuid.UUID) (*entity.Receipt, error) {
	bill, err := s.billRepo.GetWithDetails(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	settings, err := s.settings.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	receipt := BuildReceipt(bill, settings, s.header)
	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		s.log.Warn("receipt print failed", zap.String("bill_id", billID.String()), zap.Error(err))
		return receipt, apperror.NewTransportError("print receipt", err)
	}
	return receipt, nil
}

// BuildReceipt composes the printable view of a bill. Toggled-off sections are left empty.
func BuildReceipt(bill *entity.Bill, settings *entity.InvoiceSettings, header entity.ReceiptHeader) *entity.Receipt {
	header.ShowLogo = header.ShowLogo && settings.ShowLogo
	cgst, sgst := billing.SplitGST(bill.TotalGST)

	r := &entity.Receipt{
		Header:         header,
		InvoiceNo:      bill.InvoiceNo,
		SubTotal:       bill.SubTotal,
		CGST:           cgst,
		SGST:           sgst,
		ShowGST:        settings.ShowGST,
		CouponDiscount: bill.CouponDiscount,
		Discount:       bill.Discount,
		ShowDiscount:   settings.ShowDiscount,
		Total:          bill.Total,
		AdvanceUsed:    bill.AdvanceUsed,
		Paid:           bill.PaymentAmount,
		Due:            bill.Dues,
	}
	if settings.ShowDateTime {
		r.Date = bill.BillingTimestamp.Local().Format("2006-01-02 15:04")
	}
	if c := bill.Customer; c != nil {
		r.Customer = c.Name
		if settings.ShowClientMobile {
			r.CustomerPhone = c.Phone
		}
		if settings.ShowWallet {
			r.WalletBalance = lo.ToPtr(c.WalletBalance)
		}
		if settings.ShowLoyalty {
			r.LoyaltyPoints = lo.ToPtr(c.LoyaltyPoints)
		}
	}
	if settings.ShowNotes {
		r.Notes = settings.Notes
	}
	if settings.ShowPaymentMethod {
		r.Payments = lo.Map(bill.Payments, func(p entity.BillPayment, _ int) entity.ReceiptPayment {
			return entity.ReceiptPayment{Mode: p.Mode.String(), Amount: p.Amount}
		})
	}

	r.Items = lo.Map(bill.Items, func(i entity.BillItem, _ int) entity.ReceiptItem {
		gross := i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
		discount := i.DiscountValue
		if i.DiscountType == enum.DiscountTypePercent {
			discount = gross.Mul(i.DiscountValue).Div(decimal.NewFromInt(100))
		}
		item := entity.ReceiptItem{
			Name:      i.Type.String(),
			Quantity:  i.Qty,
			UnitPrice: i.Price,
			Discount:  billing.Round2(discount),
			GST:       i.CGST.Add(i.SGST),
			Total:     billing.Round2(decimal.Max(decimal.Zero, gross.Sub(discount))),
		}
		if i.CatalogItem != nil {
			item.Name = i.CatalogItem.Name
		}
		if settings.ShowArtist && i.Staff != nil {
			item.Artist = i.Staff.Name
		}
		return item
	})
	return r
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func modeLabel(mode string) string {
	switch mode {
	case "":
		return "Paid:"
	case enum.PaymentModeUPI.String():
		return "UPI:"
	}
	return strings.ToUpper(mode[:1]) + mode[1:] + ":"
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("GSTIN: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Invoice info
	doc.KeyValue("Invoice:", r.InvoiceNo)
	if r.Date != "" {
		doc.KeyValue("Date:", r.Date)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.CustomerPhone != "" {
		doc.KeyValue("Mobile:", r.CustomerPhone)
	}

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, money(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", money(item.UnitPrice))
		}
		if r.ShowDiscount && item.Discount.IsPositive() {
			doc.TextF("  less %s", money(item.Discount))
		}
		if item.Artist != "" {
			doc.TextF("  by %s", item.Artist)
		}
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", money(r.SubTotal))
	if r.ShowGST && (r.CGST.IsPositive() || r.SGST.IsPositive()) {
		doc.KeyValue("CGST:", money(r.CGST)).
			KeyValue("SGST:", money(r.SGST))
	}
	if r.ShowDiscount {
		if r.CouponDiscount.IsPositive() {
			doc.KeyValue("Coupon:", "-"+money(r.CouponDiscount))
		}
		if r.Discount.IsPositive() {
			doc.KeyValue("Discount:", "-"+money(r.Discount))
		}
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", money(r.Total)).
		SetBold(false)

	for _, p := range r.Payments {
		doc.KeyValue(modeLabel(p.Mode), money(p.Amount))
	}
	if len(r.Payments) == 0 && r.AdvanceUsed.IsPositive() {
		doc.KeyValue("Advance:", money(r.AdvanceUsed))
	}
	if r.Paid.IsPositive() {
		doc.KeyValue("Paid:", money(r.Paid))
	}
	if r.Due.IsPositive() {
		doc.KeyValue("Due:", money(r.Due))
	}
	if r.WalletBalance != nil {
		doc.KeyValue("Wallet:", money(*r.WalletBalance))
	}
	if r.LoyaltyPoints != nil {
		doc.KeyValue("Loyalty points:", fmt.Sprintf("%d", *r.LoyaltyPoints))
	}

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed()
	if r.Notes != "" {
		doc.Text(r.Notes)
	}
	doc.Text("Thank you for visiting!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
