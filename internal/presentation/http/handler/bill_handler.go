package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/application/service"
	"github.com/sangkips/salonbill-api/internal/domain/repository"
	"github.com/sangkips/salonbill-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salonbill-api/internal/presentation/http/dto/response"
	"github.com/sangkips/salonbill-api/pkg/pagination"
)

// BillHandler handles saved and held bills
type BillHandler struct {
	billingService *service.BillingService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billingService *service.BillingService) *BillHandler {
	return &BillHandler{billingService: billingService}
}

// List handles listing saved bills
func (h *BillHandler) List(c *gin.Context) {
	var req request.BillFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage}
	params.Validate()
	filter := &repository.BillFilterParams{
		Pagination: params,
		Search:     req.Search,
	}
	if req.CustomerID != "" {
		id, err := uuid.Parse(req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		filter.CustomerID = &id
	}

	var err error
	if filter.StartDate, err = parseDate(&req.StartDate); err != nil {
		response.BadRequest(c, "start_date must be a YYYY-MM-DD date")
		return
	}
	if filter.EndDate, err = parseDate(&req.EndDate); err != nil {
		response.BadRequest(c, "end_date must be a YYYY-MM-DD date")
		return
	}
	if filter.EndDate != nil {
		end := filter.EndDate.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	result, err := h.billingService.ListBills(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Bills retrieved successfully", result)
}

// Get handles getting a single bill with its lines and payments
func (h *BillHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id", "bill")
	if !ok {
		return
	}
	bill, err := h.billingService.GetBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill retrieved successfully", bill)
}

// ListHeld handles listing held bills
func (h *BillHandler) ListHeld(c *gin.Context) {
	result, err := h.billingService.ListHeld(c.Request.Context(), pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Held bills retrieved successfully", result)
}

// GetHeld returns a held bill's payload and customer summary
func (h *BillHandler) GetHeld(c *gin.Context) {
	id, ok := paramUUID(c, "id", "held bill")
	if !ok {
		return
	}
	held, err := h.billingService.GetHeld(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Held bill retrieved successfully", held)
}

// DeleteHeld discards a held bill
func (h *BillHandler) DeleteHeld(c *gin.Context) {
	id, ok := paramUUID(c, "id", "held bill")
	if !ok {
		return
	}
	if err := h.billingService.DeleteHeld(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
