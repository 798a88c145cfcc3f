package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salonbill-api/internal/application/service"
	"github.com/sangkips/salonbill-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salonbill-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles invoice render settings
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings retrieves the caller's invoice settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	settings, err := h.settingsService.GetSettings(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateSettings updates the caller's invoice settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.UpdateInvoiceSettingsRequest
	if !bindJSON(c, &req, false) {
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		UserID:            userID,
		ShowLogo:          req.ShowLogo,
		ShowGST:           req.ShowGST,
		ShowArtist:        req.ShowArtist,
		ShowLoyalty:       req.ShowLoyalty,
		ShowWallet:        req.ShowWallet,
		ShowPaymentMethod: req.ShowPaymentMethod,
		ShowDateTime:      req.ShowDateTime,
		ShowClientMobile:  req.ShowClientMobile,
		ShowDiscount:      req.ShowDiscount,
		ShowNotes:         req.ShowNotes,
		Notes:             req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}
