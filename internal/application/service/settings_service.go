package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	"github.com/sangkips/salonbill-api/internal/domain/repository"
)

// SettingsService handles invoice render settings
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
	}
}

// GetSettings retrieves a user's invoice settings, creating defaults if none exist
func (s *SettingsService) GetSettings(ctx context.Context, userID uuid.UUID) (*entity.InvoiceSettings, error) {
	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if settings == nil {
		settings = entity.DefaultInvoiceSettings(userID)
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// UpdateSettingsInput carries the toggles to change; nil fields are unchanged
type UpdateSettingsInput struct {
	UserID            uuid.UUID
	ShowLogo          *bool
	ShowGST           *bool
	ShowArtist        *bool
	ShowLoyalty       *bool
	ShowWallet        *bool
	ShowPaymentMethod *bool
	ShowDateTime      *bool
	ShowClientMobile  *bool
	ShowDiscount      *bool
	ShowNotes         *bool
	Notes             *string
}

// UpdateSettings applies a partial update to a user's invoice settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.InvoiceSettings, error) {
	settings, err := s.GetSettings(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setBool(&settings.ShowLogo, input.ShowLogo)
	setBool(&settings.ShowGST, input.ShowGST)
	setBool(&settings.ShowArtist, input.ShowArtist)
	setBool(&settings.ShowLoyalty, input.ShowLoyalty)
	setBool(&settings.ShowWallet, input.ShowWallet)
	setBool(&settings.ShowPaymentMethod, input.ShowPaymentMethod)
	setBool(&settings.ShowDateTime, input.ShowDateTime)
	setBool(&settings.ShowClientMobile, input.ShowClientMobile)
	setBool(&settings.ShowDiscount, input.ShowDiscount)
	setBool(&settings.ShowNotes, input.ShowNotes)
	if input.Notes != nil {
		settings.Notes = *input.Notes
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
