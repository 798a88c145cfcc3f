package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salonbill-api/internal/application/service"
	"github.com/sangkips/salonbill-api/internal/domain/enum"
	"github.com/sangkips/salonbill-api/internal/presentation/http/dto/response"
)

// CatalogHandler serves the billable catalog, staff and coupons
type CatalogHandler struct {
	catalogService *service.CatalogService
	couponService  *service.CouponService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService, couponService *service.CouponService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, couponService: couponService}
}

// ListItems lists active catalog items, filtered by ?kind=service|product|membership
func (h *CatalogHandler) ListItems(c *gin.Context) {
	var kind *enum.ItemType
	if raw := c.Query("kind"); raw != "" {
		k, ok := enum.ParseItemType(raw)
		if !ok {
			response.BadRequest(c, "Invalid kind. Use service, product, membership or package")
			return
		}
		kind = &k
	}

	items, err := h.catalogService.ListItems(c.Request.Context(), kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Catalog retrieved successfully", items)
}

// ListStaff lists active staff
func (h *CatalogHandler) ListStaff(c *gin.Context) {
	staff, err := h.catalogService.ListStaff(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Staff retrieved successfully", staff)
}

// ListCoupons lists active coupons
func (h *CatalogHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.couponService.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Coupons retrieved successfully", coupons)
}
