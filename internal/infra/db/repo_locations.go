package db

import (
	"context"
	"errors"

	"dinehub/internal/domain"

	"gorm.io/gorm"
)

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// GetByID is tenant-scoped: an id belonging to another tenant is a miss.
func (r *LocationRepository) GetByID(ctx context.Context, tenantID, locationID string) (*domain.Location, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model LocationModel
	err := r.db.WithContext(ctx).
		First(&model, "id = ? AND tenant_id = ?", locationID, tenantID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return locationFromModel(model), nil
}

func (r *LocationRepository) Create(ctx context.Context, location domain.Location) (domain.Location, error) {
	if r.db == nil {
		return domain.Location{}, errDBUnavailable
	}
	model := LocationModel{
		ID:        location.ID,
		TenantID:  location.TenantID,
		Name:      location.Name,
		CreatedAt: location.CreatedAt,
	}
	if model.ID == "" {
		model.ID = newID()
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Location{}, err
	}
	return *locationFromModel(model), nil
}

func (r *LocationRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.Location, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []LocationModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Location, 0, len(models))
	for _, model := range models {
		out = append(out, *locationFromModel(model))
	}
	return out, nil
}

func locationFromModel(model LocationModel) *domain.Location {
	return &domain.Location{
		ID:        model.ID,
		TenantID:  model.TenantID,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
	}
}
