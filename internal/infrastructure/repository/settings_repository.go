package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	"github.com/sangkips/salonbill-api/internal/domain/repository"
	"gorm.io/gorm"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

// GetByUserID retrieves invoice settings by user ID
func (r *settingsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.InvoiceSettings, error) {
	var settings entity.InvoiceSettings
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Create creates new invoice settings
func (r *settingsRepository) Create(ctx context.Context, settings *entity.InvoiceSettings) error {
	return r.db.WithContext(ctx).Create(settings).Error
}

// Update updates existing invoice settings. Save writes false toggles too.
func (r *settingsRepository) Update(ctx context.Context, settings *entity.InvoiceSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
