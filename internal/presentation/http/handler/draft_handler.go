package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/application/service"
	"github.com/sangkips/salonbill-api/internal/domain/billing"
	"github.com/sangkips/salonbill-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salonbill-api/internal/presentation/http/dto/response"
)

// DraftHandler handles the open invoice drafts of a counter
type DraftHandler struct {
	billingService *service.BillingService
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(billingService *service.BillingService) *DraftHandler {
	return &DraftHandler{billingService: billingService}
}

// Create opens an empty draft
func (h *DraftHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.CreateDraftRequest
	if !bindJSON(c, &req, true) {
		return
	}

	draft, err := h.billingService.NewDraft(c.Request.Context(), &service.NewDraftInput{
		UserID:   userID,
		ApplyTax: req.ApplyTax,
		TaxType:  req.TaxType,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Draft created successfully", draft)
}

// Get returns a draft with its totals
func (h *DraftHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	draft, err := h.billingService.GetDraft(userID, c.Param("id"))
	h.respond(c, "Draft retrieved successfully", draft, err)
}

// Discard drops a draft without saving it
func (h *DraftHandler) Discard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.billingService.DiscardDraft(userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddItem appends a line item
func (h *DraftHandler) AddItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.AddItemRequest
	if !bindJSON(c, &req, false) {
		return
	}

	draft, err := h.billingService.AddItem(c.Request.Context(), &service.AddItemInput{
		UserID:         userID,
		DraftID:        c.Param("id"),
		Type:           req.Type,
		Name:           req.Name,
		CatalogID:      req.CatalogID,
		Qty:            req.Qty,
		UnitPrice:      req.UnitPrice,
		DiscountValue:  req.DiscountValue,
		DiscountType:   req.DiscountType,
		TaxRatePercent: req.TaxRatePercent,
		StaffIDs:       req.StaffIDs,
	})
	h.respond(c, "Item added", draft, err)
}

// UpdateItem edits a line item
func (h *DraftHandler) UpdateItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.UpdateItemRequest
	if !bindJSON(c, &req, false) {
		return
	}

	draft, err := h.billingService.UpdateItem(c.Request.Context(), &service.UpdateItemInput{
		UserID:  userID,
		DraftID: c.Param("id"),
		ItemID:  c.Param("item_id"),
		Patch: billing.ItemPatch{
			Type:           req.Type,
			Name:           req.Name,
			Qty:            req.Qty,
			UnitPrice:      req.UnitPrice,
			DiscountValue:  req.DiscountValue,
			DiscountType:   req.DiscountType,
			TaxRatePercent: req.TaxRatePercent,
			StaffIDs:       req.StaffIDs,
		},
	})
	h.respond(c, "Item updated", draft, err)
}

// RemoveItem deletes a line item
func (h *DraftHandler) RemoveItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	draft, err := h.billingService.RemoveItem(userID, c.Param("id"), c.Param("item_id"))
	h.respond(c, "Item removed", draft, err)
}

// ApplyCoupon applies a coupon code
func (h *DraftHandler) ApplyCoupon(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.ApplyCouponRequest
	if !bindJSON(c, &req, false) {
		return
	}
	draft, err := h.billingService.ApplyCoupon(c.Request.Context(), userID, c.Param("id"), req.Code)
	h.respond(c, "Coupon applied", draft, err)
}

// RemoveCoupon drops an applied coupon
func (h *DraftHandler) RemoveCoupon(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	couponID, ok := paramUUID(c, "coupon_id", "coupon")
	if !ok {
		return
	}
	draft, err := h.billingService.RemoveCoupon(userID, c.Param("id"), couponID)
	h.respond(c, "Coupon removed", draft, err)
}

// SetDiscount sets the extra discount
func (h *DraftHandler) SetDiscount(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.AmountRequest
	if !bindJSON(c, &req, false) {
		return
	}
	draft, err := h.billingService.SetExtraDiscount(userID, c.Param("id"), req.Value)
	h.respond(c, "Discount updated", draft, err)
}

// SetAdjustTotal sets the adjusted total
func (h *DraftHandler) SetAdjustTotal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.AmountRequest
	if !bindJSON(c, &req, false) {
		return
	}
	draft, err := h.billingService.SetAdjustTotal(userID, c.Param("id"), req.Value)
	h.respond(c, "Total adjusted", draft, err)
}

// SetTaxMode switches the tax policy
func (h *DraftHandler) SetTaxMode(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.TaxModeRequest
	if !bindJSON(c, &req, false) {
		return
	}
	draft, err := h.billingService.SetTaxMode(userID, c.Param("id"), req.ApplyTax, req.TaxType)
	h.respond(c, "Tax mode updated", draft, err)
}

// AddPayment records a tender
func (h *DraftHandler) AddPayment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.AddPaymentRequest
	if !bindJSON(c, &req, false) {
		return
	}
	draft, err := h.billingService.AddPayment(&service.AddPaymentInput{
		UserID:    userID,
		DraftID:   c.Param("id"),
		Mode:      req.Mode,
		Amount:    req.Amount,
		Reference: req.Reference,
	})
	h.respond(c, "Payment added", draft, err)
}

// RemovePayment deletes a tender
func (h *DraftHandler) RemovePayment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	draft, err := h.billingService.RemovePayment(userID, c.Param("id"), c.Param("payment_id"))
	h.respond(c, "Payment removed", draft, err)
}

// ClearAdvance stops using the customer's advance
func (h *DraftHandler) ClearAdvance(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	draft, err := h.billingService.ClearAdvance(c.Request.Context(), userID, c.Param("id"))
	h.respond(c, "Advance cleared", draft, err)
}

// UpdateCustomer attaches or edits the draft's customer
func (h *DraftHandler) UpdateCustomer(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.DraftCustomerRequest
	if !bindJSON(c, &req, false) {
		return
	}

	ctx := c.Request.Context()
	draftID := c.Param("id")
	draft, err := h.billingService.GetDraft(userID, draftID)
	if err == nil && req.CustomerID != nil {
		draft, err = h.billingService.SelectCustomer(ctx, userID, draftID, *req.CustomerID)
	}
	if err == nil && req.Phone != nil {
		draft, err = h.billingService.SetCustomerPhone(ctx, userID, draftID, *req.Phone)
	}
	fields := []struct {
		field billing.CustomerField
		value *string
	}{
		{billing.FieldName, req.Name},
		{billing.FieldGender, req.Gender},
		{billing.FieldAddress, req.Address},
		{billing.FieldBirthday, req.Birthday},
		{billing.FieldAnniversary, req.Anniversary},
	}
	for _, f := range fields {
		if err != nil {
			break
		}
		if f.value != nil {
			draft, err = h.billingService.UpdateCustomerField(userID, draftID, f.field, *f.value)
		}
	}
	h.respond(c, "Customer updated", draft, err)
}

// SetReferral records the referral code
func (h *DraftHandler) SetReferral(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.ReferralRequest
	if !bindJSON(c, &req, false) {
		return
	}
	draft, err := h.billingService.SetReferralCode(userID, c.Param("id"), req.Code)
	h.respond(c, "Referral code updated", draft, err)
}

// Reopen makes a saved draft editable again
func (h *DraftHandler) Reopen(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	draft, err := h.billingService.Reopen(userID, c.Param("id"))
	h.respond(c, "Draft reopened", draft, err)
}

// Hold parks the draft as a held bill
func (h *DraftHandler) Hold(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := h.billingService.Hold(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill held successfully", result)
}

// Save finalizes the draft into a bill
func (h *DraftHandler) Save(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := h.billingService.Save(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Bill saved successfully", result)
}

// LoadHeld opens a draft from a held bill
func (h *DraftHandler) LoadHeld(c *gin.Context) {
	h.load(c, "held_id", "held bill", h.billingService.LoadHeld)
}

// LoadBill opens a draft for editing a saved bill
func (h *DraftHandler) LoadBill(c *gin.Context) {
	h.load(c, "bill_id", "bill", h.billingService.EditBill)
}

func (h *DraftHandler) load(c *gin.Context, param, label string, fn func(ctx context.Context, userID, id uuid.UUID) (*service.DraftView, error)) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, param, label)
	if !ok {
		return
	}
	draft, err := fn(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Draft loaded successfully", draft)
}

func (h *DraftHandler) respond(c *gin.Context, message string, draft *service.DraftView, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, message, draft)
}
