package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/salonbill-api/internal/domain/billing"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/sangkips/salonbill-api/internal/domain/repository"
	"github.com/sangkips/salonbill-api/pkg/apperror"
	applog "github.com/sangkips/salonbill-api/pkg/logger"
	"github.com/sangkips/salonbill-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// BillingOptions are the defaults applied to drafts
type BillingOptions struct {
	TaxMode        billing.TaxMode
	DefaultGSTRate decimal.Decimal
	HeldBillTTL    time.Duration
}

// BillingService drives working drafts and persists them as held or finalized bills
type BillingService struct {
	drafts       *DraftStore
	catalog      *CatalogService
	coupons      *CouponService
	customerRepo repository.CustomerRepository
	couponRepo   repository.CouponRepository
	heldRepo     repository.HeldBillRepository
	billRepo     repository.BillRepository
	opts         BillingOptions
	log          *zap.Logger

	now   func() time.Time
	idGen func() string
}

// NewBillingService creates a new billing service
func NewBillingService(
	drafts *DraftStore,
	catalog *CatalogService,
	coupons *CouponService,
	customerRepo repository.CustomerRepository,
	couponRepo repository.CouponRepository,
	heldRepo repository.HeldBillRepository,
	billRepo repository.BillRepository,
	opts BillingOptions,
	log *zap.Logger,
) *BillingService {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.DefaultGSTRate.IsZero() {
		opts.DefaultGSTRate = billing.DefaultGSTRate
	}
	return &BillingService{
		drafts:       drafts,
		catalog:      catalog,
		coupons:      coupons,
		customerRepo: customerRepo,
		couponRepo:   couponRepo,
		heldRepo:     heldRepo,
		billRepo:     billRepo,
		opts:         opts,
		log:          log.Named("billing"),
		now:          time.Now,
	}
}

// DraftView is a copy of a draft with its derived totals
type DraftView struct {
	billing.Draft
	Summary billing.Totals `json:"totals"`
}

func viewOf(d *billing.Draft) *DraftView {
	c := *d
	c.Items = lo.Map(d.Items, func(i billing.LineItem, _ int) billing.LineItem {
		i.StaffIDs = lo.Map(i.StaffIDs, func(id uuid.UUID, _ int) uuid.UUID { return id })
		return i
	})
	c.Coupons = lo.Map(d.Coupons, func(x billing.Coupon, _ int) billing.Coupon { return x })
	c.Payments = lo.Map(d.Payments, func(p billing.Payment, _ int) billing.Payment { return p })
	summary := billing.Recompute(&c).Rounded()
	c.ExtraDiscount = billing.Round2(c.ExtraDiscount)
	c.AdjustTotal = billing.Round2(c.AdjustTotal)
	return &DraftView{Draft: c, Summary: summary}
}

// logger prefers the request logger so entries carry the request id
func (s *BillingService) logger(ctx context.Context) *zap.Logger {
	if l := applog.FromContext(ctx); l.Core().Enabled(zap.ErrorLevel) {
		return l.Named("billing")
	}
	return s.log
}

// withDraft runs fn on the caller's draft while holding its lock
func (s *BillingService) withDraft(userID uuid.UUID, draftID string, fn func(e *draftEntry) error) (*DraftView, error) {
	e, ok := s.drafts.get(userID, draftID)
	if !ok {
		return nil, apperror.NewNotFoundError("Draft")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed = s.now()
	if err := fn(e); err != nil {
		return nil, mapBillingError(err)
	}
	return viewOf(e.draft), nil
}

// NewDraftInput selects the tax policy of a new draft; nil fields take the configured default
type NewDraftInput struct {
	UserID   uuid.UUID
	ApplyTax *bool
	TaxType  *enum.TaxType
}

// NewDraft opens an empty draft
func (s *BillingService) NewDraft(ctx context.Context, input *NewDraftInput) (*DraftView, error) {
	mode := s.opts.TaxMode
	if input.ApplyTax != nil {
		mode.ApplyTax = *input.ApplyTax
	}
	if input.TaxType != nil {
		mode.Inclusive = input.TaxType.IsInclusive()
	}
	d := billing.NewDraft(mode, s.idGen)
	e := s.drafts.put(input.UserID, d, s.now())
	s.logger(ctx).Debug("draft opened", zap.String("draft_id", d.ID))
	return viewOf(e.draft), nil
}

// GetDraft returns the caller's draft with fresh totals
func (s *BillingService) GetDraft(userID uuid.UUID, draftID string) (*DraftView, error) {
	return s.withDraft(userID, draftID, func(*draftEntry) error { return nil })
}

// DiscardDraft drops a draft without persisting it
func (s *BillingService) DiscardDraft(userID uuid.UUID, draftID string) error {
	if _, ok := s.drafts.get(userID, draftID); !ok {
		return apperror.NewNotFoundError("Draft")
	}
	s.drafts.delete(draftID)
	return nil
}

// AddItemInput represents a new line. Either CatalogID or Name identifies the catalog entry;
// an unmatched name becomes a manual line priced from UnitPrice.
type AddItemInput struct {
	UserID         uuid.UUID
	DraftID        string
	Type           enum.ItemType
	Name           string
	CatalogID      *uuid.UUID
	Qty            int
	UnitPrice      *decimal.Decimal
	DiscountValue  decimal.Decimal
	DiscountType   enum.DiscountType
	TaxRatePercent *decimal.Decimal
	StaffIDs       []uuid.UUID
}

// AddItem appends a line to the draft
func (s *BillingService) AddItem(ctx context.Context, input *AddItemInput) (*DraftView, error) {
	catalog, err := s.catalog.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.CheckStaff(ctx, input.StaffIDs); err != nil {
		return nil, err
	}

	item := billing.LineItem{
		Type:           input.Type,
		Name:           strings.TrimSpace(input.Name),
		Qty:            input.Qty,
		UnitPrice:      lo.FromPtr(input.UnitPrice),
		DiscountValue:  input.DiscountValue,
		DiscountType:   input.DiscountType,
		TaxRatePercent: s.opts.DefaultGSTRate,
		StaffIDs:       input.StaffIDs,
	}
	if input.TaxRatePercent != nil {
		item.TaxRatePercent = *input.TaxRatePercent
	}
	if input.CatalogID != nil {
		entry, ok := lo.Find(catalog.Entries(input.Type), func(e billing.CatalogEntry) bool {
			return e.ID == *input.CatalogID
		})
		if !ok {
			return nil, apperror.NewNotFoundError("Catalog item")
		}
		item.CatalogID = entry.ID
		item.Name = entry.Name
		item.UnitPrice = entry.UnitPrice
		item.TaxRatePercent = entry.TaxRatePercent
	}
	if item.Qty < 0 {
		return nil, apperror.NewBadRequestError("Quantity cannot be negative")
	}

	return s.withDraft(input.UserID, input.DraftID, func(e *draftEntry) error {
		_, err := e.draft.AddItem(item, catalog)
		return err
	})
}

// UpdateItemInput carries a line edit
type UpdateItemInput struct {
	UserID  uuid.UUID
	DraftID string
	ItemID  string
	Patch   billing.ItemPatch
}

// UpdateItem edits one line. Renaming re-resolves it against the catalog.
func (s *BillingService) UpdateItem(ctx context.Context, input *UpdateItemInput) (*DraftView, error) {
	if input.Patch.Qty != nil && *input.Patch.Qty < 0 {
		return nil, apperror.NewBadRequestError("Quantity cannot be negative")
	}
	var catalog *billing.Catalog
	if input.Patch.Name != nil || input.Patch.Type != nil {
		var err error
		if catalog, err = s.catalog.LoadCatalog(ctx); err != nil {
			return nil, err
		}
	}
	if input.Patch.StaffIDs != nil {
		if err := s.catalog.CheckStaff(ctx, input.Patch.StaffIDs); err != nil {
			return nil, err
		}
	}
	return s.withDraft(input.UserID, input.DraftID, func(e *draftEntry) error {
		_, err := e.draft.UpdateItem(input.ItemID, input.Patch, catalog)
		return err
	})
}

// RemoveItem deletes a line
func (s *BillingService) RemoveItem(userID uuid.UUID, draftID, itemID string) (*DraftView, error) {
	return s.withDraft(userID, draftID, func(e *draftEntry) error {
		return e.draft.RemoveItem(itemID)
	})
}

// ApplyCoupon applies a coupon by code
func (s *BillingService) ApplyCoupon(ctx context.Context, userID uuid.UUID, draftID, code string) (*DraftView, error) {
	if _, ok := s.drafts.get(userID, draftID); !ok {
		return nil, apperror.NewNotFoundError("Draft")
	}
	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.withDraft(userID, draftID, func(e *draftEntry) error {
		return e.draft.ApplyCoupon(toCoupon(*coupon))
	})
}

// RemoveCoupon drops an applied coupon
func (s *BillingService) RemoveCoupon(userID uuid.UUID, draftID string, couponID uuid.UUID) (*DraftView, error) {
	return s.withDraft(userID, draftID, func(e *draftEntry) error {
		return e.draft.RemoveCoupon(couponID)
	})
}

// SetExtraDiscount edits the extra discount; the adjusted total follows
func (s *BillingService) SetExtraDiscount(userID uuid.UUID, draftID string, v decimal.Decimal) (*DraftView, error) {
	return s.withDraft(userID, draftID, func(e *draftEntry) error {
		return e.draft.SetExtraDiscount(v)
	})
}

// SetAdjustTotal edits the adjusted total; the extra discount follows
func (s *BillingService) SetAdjustTotal(userID uuid.UUID, draftID string, v decimal.Decimal) (*DraftView, error) {
	return s.withDraft(userID, draftID, func(e *draftEntry) error {
		return e.draft.SetAdjustTotal(v)
	})
}

// SetTaxMode switches the draft's tax policy
func (s *BillingService) SetTaxMode(userID uuid.UUID, draftID string, applyTax bool, taxType enum.TaxType) (*DraftView, error) {
	return s.withDraft(userID, draftID, func(e *draftEntry) error {
		return e.draft.SetTaxMode(billing.TaxMode{ApplyTax: applyTax, Inclusive: taxType.IsInclusive()})
	})
}

// AddPaymentInput represents a tender. Mode is free text such as "GPay" or "Card".
type AddPaymentInput struct {
	UserID    uuid.UUID
	DraftID   string
	Mode      string
	Amount    decimal.Decimal
	Reference string
}

// AddPayment records a tender against the draft
func (s *BillingService) AddPayment(input *AddPaymentInput) (*DraftView, error) {
	return s.withDraft(input.UserID, input.DraftID, func(e *draftEntry) error {
		_, err := e.draft.AddPayment(billing.Payment{
			Mode:      billing.NormalizePaymentMode(input.Mode),
			Amount:    input.Amount,
			Reference: strings.TrimSpace(input.Reference),
			Timestamp: s.now().UTC(),
		})
		return err
	})
}

// RemovePayment deletes a recorded tender
func (s *BillingService) RemovePayment(userID uuid.UUID, draftID, paymentID string) (*DraftView, error) {
	return s.withDraft(userID, draftID, func(e *draftEntry) error {
		return e.draft.RemovePayment(paymentID)
	})
}

// ClearAdvance stops applying the customer's advance and zeroes it on the stored customer
func (s *BillingService) ClearAdvance(ctx context.Context, userID uuid.UUID, draftID string) (*DraftView, error) {
	return s.withDraft(userID, draftID, func(e *draftEntry) error {
		if e.draft.State == enum.InvoiceStateFinalized {
			return billing.ErrDraftFinalized
		}
		if e.draft.Customer.Existing() {
			if err := s.customerRepo.ClearAdvance(ctx, *e.draft.Customer.ID); err != nil {
				return apperror.NewTransportError("clear advance", err)
			}
		}
		return e.draft.ClearAdvance()
	})
}

// SetCustomerPhone changes the phone on the draft and looks the customer up by it.
// The draft is unlocked during the lookup; the result is merged through the
// draft's fetch guard so a newer phone or a manual edit made meanwhile wins.
func (s *BillingService) SetCustomerPhone(ctx context.Context, userID uuid.UUID, draftID, phone string) (*DraftView, error) {
	e, ok := s.drafts.get(userID, draftID)
	if !ok {
		return nil, apperror.NewNotFoundError("Draft")
	}

	e.mu.Lock()
	e.lastUsed = s.now()
	cur := e.draft.Customer
	if billing.NormalizePhone(cur.Phone) != billing.NormalizePhone(phone) {
		cur.ID = nil
		cur.AdvanceAmount = decimal.Zero
		cur.Dues = decimal.Zero
		cur.WalletBalance = decimal.Zero
		cur.LoyaltyPoints = 0
	}
	cur.Phone = strings.TrimSpace(phone)
	if err := e.draft.SetCustomer(cur); err != nil {
		e.mu.Unlock()
		return nil, mapBillingError(err)
	}
	token, key, fetch := e.guard.Begin(phone)
	e.mu.Unlock()

	if fetch {
		found, err := s.customerRepo.GetByPhone(ctx, key)

		e.mu.Lock()
		switch {
		case err != nil:
			e.guard.Abort(token)
			s.logger(ctx).Warn("customer lookup failed", zap.String("draft_id", draftID), zap.Error(err))
		case found != nil:
			merged := e.draft.Customer
			if e.guard.Apply(token, &merged, toCustomerRef(found)) {
				if err := e.draft.SetCustomer(merged); err != nil {
					s.logger(ctx).Debug("customer lookup result dropped", zap.Error(err))
				}
			}
		}
		e.mu.Unlock()
	}

	return s.GetDraft(userID, draftID)
}

// UpdateCustomerField edits one customer detail by hand. Phone changes go through SetCustomerPhone.
func (s *BillingService) UpdateCustomerField(userID uuid.UUID, draftID string, field billing.CustomerField, value string) (*DraftView, error) {
	return s.withDraft(userID, draftID, func(e *draftEntry) error {
		cur := e.draft.Customer
		value = strings.TrimSpace(value)
		switch field {
		case billing.FieldName:
			cur.Name = value
		case billing.FieldGender:
			cur.Gender = value
		case billing.FieldAddress:
			cur.Address = value
		case billing.FieldBirthday, billing.FieldAnniversary:
			var date *time.Time
			if value != "" {
				t, err := time.Parse(time.DateOnly, value)
				if err != nil {
					return apperror.NewBadRequestError(string(field) + " must be a YYYY-MM-DD date")
				}
				date = &t
			}
			if field == billing.FieldBirthday {
				cur.Birthday = date
			} else {
				cur.Anniversary = date
			}
		default:
			return apperror.NewBadRequestError("Unknown customer field " + string(field))
		}
		if err := e.draft.SetCustomer(cur); err != nil {
			return err
		}
		e.guard.Touch(field)
		return nil
	})
}

// SelectCustomer attaches a stored customer with live balances
func (s *BillingService) SelectCustomer(ctx context.Context, userID uuid.UUID, draftID string, customerID uuid.UUID) (*DraftView, error) {
	if _, ok := s.drafts.get(userID, draftID); !ok {
		return nil, apperror.NewNotFoundError("Draft")
	}
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, apperror.NewTransportError("load customer", err)
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return s.withDraft(userID, draftID, func(e *draftEntry) error {
		if err := e.draft.SetCustomer(toCustomerRef(customer)); err != nil {
			return err
		}
		e.guard.Reset()
		return nil
	})
}

// SetReferralCode records the referral code carried onto the bill
func (s *BillingService) SetReferralCode(userID uuid.UUID, draftID, code string) (*DraftView, error) {
	return s.withDraft(userID, draftID, func(e *draftEntry) error {
		return e.draft.SetReferralCode(strings.TrimSpace(code))
	})
}

// Reopen makes a finalized draft editable again; saving it updates the same bill
func (s *BillingService) Reopen(userID uuid.UUID, draftID string) (*DraftView, error) {
	return s.withDraft(userID, draftID, func(e *draftEntry) error {
		return e.draft.Reopen()
	})
}

// HoldResult is the outcome of parking a draft
type HoldResult struct {
	HeldBill *entity.HeldBill `json:"held_bill"`
	Draft    *DraftView       `json:"draft"`
}

// Hold persists the draft as a held bill. The draft stays open; holding it
// again updates the same held bill.
func (s *BillingService) Hold(ctx context.Context, userID uuid.UUID, draftID string) (*HoldResult, error) {
	result := &HoldResult{}
	view, err := s.withDraft(userID, draftID, func(e *draftEntry) error {
		d := e.draft
		if d.State == enum.InvoiceStateFinalized {
			return billing.ErrDraftFinalized
		}
		payload, err := billing.BuildPayload(d, billing.PurposeHold, s.now())
		if err != nil {
			return err
		}
		totals := d.Totals()

		var held *entity.HeldBill
		if d.HeldBillID != nil {
			if held, err = s.heldRepo.GetByID(ctx, *d.HeldBillID); err != nil {
				return apperror.NewTransportError("hold bill", err)
			}
		}
		isNew := held == nil
		if isNew {
			held = &entity.HeldBill{CreatedBy: userID}
		}
		held.CustomerID = payload.CustomerID
		held.CustomerSummary = payload.Summary(d.Customer)
		held.Payload = datatypes.NewJSONType(*payload)
		held.Total = billing.Round2(totals.CalculatedTotal)

		if isNew {
			err = s.heldRepo.Create(ctx, held)
		} else {
			err = s.heldRepo.Update(ctx, held)
		}
		if err != nil {
			return apperror.NewTransportError("hold bill", err)
		}
		if err := d.MarkHeld(held.ID); err != nil {
			return err
		}
		result.HeldBill = held
		s.logger(ctx).Info("bill held",
			zap.String("draft_id", d.ID),
			zap.String("held_bill_id", held.ID.String()),
			zap.Int("items", len(payload.Items)),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Draft = view
	return result, nil
}

// SaveResult is the outcome of finalizing a draft
type SaveResult struct {
	Bill  *entity.Bill `json:"bill"`
	Draft *DraftView   `json:"draft"`
}

// Save finalizes the draft as a bill. A draft opened from a saved bill
// updates that bill instead of creating a new one.
func (s *BillingService) Save(ctx context.Context, userID uuid.UUID, draftID string) (*SaveResult, error) {
	result := &SaveResult{}
	view, err := s.withDraft(userID, draftID, func(e *draftEntry) error {
		d := e.draft
		if d.State == enum.InvoiceStateFinalized {
			return billing.ErrDraftFinalized
		}
		if err := d.CheckInvariants(); err != nil {
			return err
		}
		payload, err := billing.BuildPayload(d, billing.PurposeSave, s.now())
		if err != nil {
			return err
		}
		totals := d.Totals()

		customerID, err := s.resolveCustomer(ctx, d.Customer)
		if err != nil {
			return err
		}
		bill := billFromPayload(payload, totals, customerID, userID)

		if d.SourceBillID != nil {
			err = s.replaceBill(ctx, *d.SourceBillID, bill, d.AdvanceClearedFor)
		} else {
			err = s.billRepo.Create(ctx, bill, repository.CustomerAdjustment{
				CustomerID:   customerID,
				AdvanceDelta: bill.AdvanceUsed.Neg(),
				DuesDelta:    bill.Dues,
			})
			if err != nil {
				err = apperror.NewTransportError("save bill", err)
			}
		}
		if err != nil {
			return err
		}

		if d.HeldBillID != nil {
			if err := s.heldRepo.Delete(ctx, *d.HeldBillID); err != nil {
				s.logger(ctx).Warn("failed to delete held bill after save",
					zap.String("held_bill_id", d.HeldBillID.String()), zap.Error(err))
			}
		}
		d.Customer.ID = lo.ToPtr(customerID)
		if err := d.MarkFinalized(bill.ID); err != nil {
			return err
		}

		saved, err := s.billRepo.GetWithDetails(ctx, bill.ID)
		if err != nil || saved == nil {
			saved = bill
		}
		result.Bill = saved
		s.logger(ctx).Info("bill saved",
			zap.String("draft_id", d.ID),
			zap.String("bill_id", bill.ID.String()),
			zap.String("invoice_no", bill.InvoiceNo),
			zap.String("total", bill.Total.StringFixed(2)),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Draft = view
	return result, nil
}

// resolveCustomer returns the stored customer id for the draft's customer,
// creating the record for a new walk-in.
func (s *BillingService) resolveCustomer(ctx context.Context, ref billing.CustomerRef) (uuid.UUID, error) {
	if ref.Existing() {
		return *ref.ID, nil
	}
	phone := billing.NormalizePhone(ref.Phone)
	existing, err := s.customerRepo.GetByPhone(ctx, phone)
	if err != nil {
		return uuid.Nil, apperror.NewTransportError("save bill", err)
	}
	if existing != nil {
		return existing.ID, nil
	}
	customer := newCustomerEntity(ref)
	customer.Name = strings.TrimSpace(customer.Name)
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return uuid.Nil, apperror.NewTransportError("save bill", err)
	}
	return customer.ID, nil
}

// replaceBill overwrites a saved bill and moves customer balances by the difference.
// The advance the old bill used goes back to its customer unless that customer's
// advance was cleared on the edit draft.
func (s *BillingService) replaceBill(ctx context.Context, billID uuid.UUID, bill *entity.Bill, advanceClearedFor *uuid.UUID) error {
	old, err := s.billRepo.GetWithDetails(ctx, billID)
	if err != nil {
		return apperror.NewTransportError("update bill", err)
	}
	if old == nil {
		return apperror.NewNotFoundError("Bill")
	}
	bill.ID = old.ID
	bill.InvoiceNo = old.InvoiceNo
	bill.CreatedAt = old.CreatedAt
	bill.CreatedBy = old.CreatedBy

	refund := old.AdvanceUsed
	if advanceClearedFor != nil && *advanceClearedFor == old.CustomerID {
		refund = decimal.Zero
	}

	var adjustments []repository.CustomerAdjustment
	if old.CustomerID == bill.CustomerID {
		adjustments = append(adjustments, repository.CustomerAdjustment{
			CustomerID:   bill.CustomerID,
			AdvanceDelta: refund.Sub(bill.AdvanceUsed),
			DuesDelta:    bill.Dues.Sub(old.Dues),
		})
	} else {
		adjustments = append(adjustments,
			repository.CustomerAdjustment{
				CustomerID:   old.CustomerID,
				AdvanceDelta: refund,
				DuesDelta:    old.Dues.Neg(),
			},
			repository.CustomerAdjustment{
				CustomerID:   bill.CustomerID,
				AdvanceDelta: bill.AdvanceUsed.Neg(),
				DuesDelta:    bill.Dues,
			},
		)
	}
	if err := s.billRepo.Replace(ctx, bill, adjustments...); err != nil {
		return apperror.NewTransportError("update bill", err)
	}
	return nil
}

func billFromPayload(p *billing.Payload, t billing.Totals, customerID, userID uuid.UUID) *entity.Bill {
	advance, _ := lo.Find(t.Payments, func(pm billing.Payment) bool { return pm.Mode == enum.PaymentModeAdvance })
	mode := lo.FromPtr(p.TaxMode)
	return &entity.Bill{
		CustomerID:       customerID,
		CouponCodes:      datatypes.JSONSlice[string](p.CouponCodes),
		ReferralCode:     p.ReferralCode,
		SubTotal:         billing.Round2(t.Subtotal),
		CouponDiscount:   billing.Round2(t.CouponDiscount),
		Discount:         p.Discount,
		TotalGST:         billing.Round2(t.TotalGST),
		Total:            billing.Round2(t.CalculatedTotal),
		PaymentMode:      p.PaymentMode,
		PaymentAmount:    p.PaymentAmount,
		AdvanceUsed:      billing.Round2(advance.Amount),
		Dues:             billing.Round2(t.Dues),
		BillingTimestamp: p.BillingTimestamp,
		ApplyTax:         mode.ApplyTax,
		InclusiveTax:     mode.Inclusive,
		CreatedBy:        userID,
		Items: lo.Map(p.Items, func(i billing.PayloadItem, _ int) entity.BillItem {
			return entity.BillItem{
				LineNo:        i.LineNo,
				Type:          i.Type,
				CatalogItemID: lo.FromPtr(i.ID),
				StaffID:       i.StaffID,
				Qty:           i.Qty,
				Price:         i.Price,
				DiscountType:  i.DiscountType,
				DiscountValue: i.DiscountValue,
				CGST:          i.CGST,
				SGST:          i.SGST,
			}
		}),
		Payments: lo.Map(p.Payments, func(pp billing.PayloadPayment, _ int) entity.BillPayment {
			return entity.BillPayment{
				Mode:             billing.NormalizePaymentMode(pp.Mode),
				Amount:           pp.Amount,
				Reference:        pp.Reference,
				PaymentTimestamp: pp.PaymentTimestamp,
			}
		}),
	}
}

// LoadHeld opens a new draft from a held bill. The held bill stays stored until the
// new draft is held again (which updates it) or saved (which deletes it).
func (s *BillingService) LoadHeld(ctx context.Context, userID, heldID uuid.UUID) (*DraftView, error) {
	held, err := s.heldRepo.GetByID(ctx, heldID)
	if err != nil {
		return nil, apperror.NewTransportError("load held bill", err)
	}
	if held == nil {
		return nil, apperror.NewNotFoundError("Held bill")
	}
	payload := held.Payload.Data()

	opts, err := s.restoreOptions(ctx, &payload)
	if err != nil {
		return nil, err
	}
	opts.CustomerSummary = held.CustomerSummary

	d := billing.RestoreDraft(&payload, opts)
	d.HeldBillID = lo.ToPtr(held.ID)
	e := s.drafts.put(userID, d, s.now())

	s.logger(ctx).Info("held bill loaded",
		zap.String("held_bill_id", held.ID.String()),
		zap.String("draft_id", d.ID),
	)
	return viewOf(e.draft), nil
}

// EditBill opens a new draft from a saved bill. Saving the draft updates the bill.
func (s *BillingService) EditBill(ctx context.Context, userID, billID uuid.UUID) (*DraftView, error) {
	bill, err := s.billRepo.GetWithDetails(ctx, billID)
	if err != nil {
		return nil, apperror.NewTransportError("load bill", err)
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	payload := bill.ToPayload()

	opts, err := s.restoreOptions(ctx, payload)
	if err != nil {
		return nil, err
	}
	// The bill's own advance goes back into what the customer has available.
	if opts.Customer != nil {
		opts.Customer.AdvanceAmount = opts.Customer.AdvanceAmount.Add(bill.AdvanceUsed)
	}
	opts.SourceBillID = lo.ToPtr(bill.ID)

	d := billing.RestoreDraft(payload, opts)
	e := s.drafts.put(userID, d, s.now())

	s.logger(ctx).Info("bill opened for edit",
		zap.String("bill_id", bill.ID.String()),
		zap.String("draft_id", d.ID),
	)
	return viewOf(e.draft), nil
}

// restoreOptions gathers the live catalog, coupons and customer a snapshot is rebuilt against.
// A failed customer fetch falls back to the snapshot's own customer details.
func (s *BillingService) restoreOptions(ctx context.Context, p *billing.Payload) (billing.RestoreOptions, error) {
	catalog, err := s.catalog.LoadCatalog(ctx)
	if err != nil {
		return billing.RestoreOptions{}, err
	}

	codes := p.CouponCodes
	if p.CouponCode != "" && !lo.Contains(codes, p.CouponCode) {
		codes = append([]string{p.CouponCode}, codes...)
	}
	coupons, err := s.couponRepo.GetByCodes(ctx, codes)
	if err != nil {
		return billing.RestoreOptions{}, apperror.NewTransportError("load coupons", err)
	}

	opts := billing.RestoreOptions{
		Catalog: catalog,
		Coupons: lo.Map(coupons, func(c entity.Coupon, _ int) billing.Coupon { return toCoupon(c) }),
		TaxMode: s.opts.TaxMode,
		IDGen:   s.idGen,
	}
	if p.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *p.CustomerID)
		switch {
		case err != nil:
			s.logger(ctx).Warn("customer fetch failed, using snapshot details",
				zap.String("customer_id", p.CustomerID.String()), zap.Error(err))
		case customer != nil:
			opts.Customer = lo.ToPtr(toCustomerRef(customer))
		}
	}
	return opts, nil
}

// ListHeld lists held bills, most recently updated first
func (s *BillingService) ListHeld(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.HeldBill], error) {
	held, total, err := s.heldRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(held, pag), nil
}

// GetHeld returns one held bill with its payload
func (s *BillingService) GetHeld(ctx context.Context, id uuid.UUID) (*entity.HeldBill, error) {
	held, err := s.heldRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if held == nil {
		return nil, apperror.NewNotFoundError("Held bill")
	}
	return held, nil
}

// DeleteHeld discards a held bill
func (s *BillingService) DeleteHeld(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetHeld(ctx, id); err != nil {
		return err
	}
	return s.heldRepo.Delete(ctx, id)
}

// GetBill returns a saved bill with its lines and payments
func (s *BillingService) GetBill(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// ListBills lists saved bills with filtering
func (s *BillingService) ListBills(ctx context.Context, params *repository.BillFilterParams) (*pagination.PaginatedResult[entity.Bill], error) {
	bills, total, err := s.billRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(bills, pag), nil
}

// PurgeExpiredHeld deletes held bills and idle drafts older than the held-bill TTL
func (s *BillingService) PurgeExpiredHeld(ctx context.Context) (int64, error) {
	if s.opts.HeldBillTTL <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.opts.HeldBillTTL)
	evicted := s.drafts.EvictIdle(cutoff)
	deleted, err := s.heldRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 || evicted > 0 {
		s.logger(ctx).Info("expired billing state purged",
			zap.Int64("held_bills", deleted),
			zap.Int("drafts", evicted),
		)
	}
	return deleted, nil
}
