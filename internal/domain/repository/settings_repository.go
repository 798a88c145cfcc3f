package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
)

// SettingsRepository defines the interface for invoice settings operations
type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.InvoiceSettings, error)
	Create(ctx context.Context, settings *entity.InvoiceSettings) error
	Update(ctx context.Context, settings *entity.InvoiceSettings) error
}
