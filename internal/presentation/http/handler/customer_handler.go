package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salonbill-api/internal/application/service"
	"github.com/sangkips/salonbill-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salonbill-api/internal/presentation/http/dto/response"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List handles listing customers
func (h *CustomerHandler) List(c *gin.Context) {
	result, err := h.customerService.ListCustomers(c.Request.Context(), pageParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Customers retrieved successfully", result)
}

// Lookup finds a customer by ?phone=
func (h *CustomerHandler) Lookup(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		response.BadRequest(c, "phone is required")
		return
	}
	customer, err := h.customerService.FindByPhone(c.Request.Context(), phone)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer retrieved successfully", customer)
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req request.CreateCustomerRequest
	if !bindJSON(c, &req, false) {
		return
	}
	birthday, err := parseDate(req.Birthday)
	if err != nil {
		response.BadRequest(c, "birthday must be a YYYY-MM-DD date")
		return
	}
	anniversary, err := parseDate(req.Anniversary)
	if err != nil {
		response.BadRequest(c, "anniversary must be a YYYY-MM-DD date")
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &service.CreateCustomerInput{
		Name:        req.Name,
		Gender:      req.Gender,
		Phone:       req.Phone,
		Address:     req.Address,
		Birthday:    birthday,
		Anniversary: anniversary,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Customer created successfully", customer)
}

// Get handles getting a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id", "customer")
	if !ok {
		return
	}
	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer retrieved successfully", customer)
}

// ClearAdvance zeroes the customer's advance balance
func (h *CustomerHandler) ClearAdvance(c *gin.Context) {
	id, ok := paramUUID(c, "id", "customer")
	if !ok {
		return
	}
	customer, err := h.customerService.ClearAdvance(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Advance cleared", customer)
}
