package db

import (
	"context"
	"errors"
	"time"

	"dinehub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db, now: time.Now}
}

func (r *DeviceRepository) FindActiveByKey(ctx context.Context, tenantID, deviceKey string) (*domain.Device, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model DeviceModel
	err := r.db.WithContext(ctx).
		First(&model, "tenant_id = ? AND device_key = ? AND status = ?", tenantID, deviceKey, string(domain.DeviceActive)).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return deviceFromModel(model), nil
}

func (r *DeviceRepository) Register(ctx context.Context, device domain.Device) (domain.Device, error) {
	if r.db == nil {
		return domain.Device{}, errDBUnavailable
	}
	now := r.now().UTC()
	model := DeviceModel{
		ID:         newID(),
		TenantID:   device.TenantID,
		DeviceKey:  device.DeviceKey,
		LocationID: strPtr(device.LocationID),
		Status:     string(device.Status),
		Trust:      string(device.Trust),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Device{}, err
	}
	return *deviceFromModel(model), nil
}

// AssignLocation atomically creates or updates the device keyed on
// (tenant_id, device_key) and promotes it to active. Revoked devices are
// excluded from the conflict update so a compromised key can never be
// resurrected by an assignment race.
func (r *DeviceRepository) AssignLocation(ctx context.Context, tenantID, deviceKey, locationID string) (domain.Device, error) {
	if r.db == nil {
		return domain.Device{}, errDBUnavailable
	}
	now := r.now().UTC()
	model := DeviceModel{
		ID:         newID(),
		TenantID:   tenantID,
		DeviceKey:  deviceKey,
		LocationID: strPtr(locationID),
		Status:     string(domain.DeviceActive),
		Trust:      string(domain.DeviceTrustMedium),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "device_key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"location_id": locationID,
				"status":      string(domain.DeviceActive),
				"updated_at":  now,
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Neq{Column: clause.Column{Table: "devices", Name: "status"}, Value: string(domain.DeviceRevoked)},
			}},
		}).
		Create(&model).Error
	if err != nil {
		return domain.Device{}, err
	}

	var stored DeviceModel
	if err := r.db.WithContext(ctx).
		First(&stored, "tenant_id = ? AND device_key = ?", tenantID, deviceKey).Error; err != nil {
		return domain.Device{}, err
	}
	if stored.Status == string(domain.DeviceRevoked) {
		return domain.Device{}, domain.ErrDeviceRevoked
	}
	return *deviceFromModel(stored), nil
}

// Revoke is terminal; there is no path back to active or pending.
func (r *DeviceRepository) Revoke(ctx context.Context, tenantID, deviceKey string) error {
	if r.db == nil {
		return errDBUnavailable
	}
	result := r.db.WithContext(ctx).
		Model(&DeviceModel{}).
		Where("tenant_id = ? AND device_key = ?", tenantID, deviceKey).
		Updates(map[string]any{
			"status":     string(domain.DeviceRevoked),
			"updated_at": r.now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DeviceRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.Device, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []DeviceModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Device, 0, len(models))
	for _, model := range models {
		out = append(out, *deviceFromModel(model))
	}
	return out, nil
}

func deviceFromModel(model DeviceModel) *domain.Device {
	return &domain.Device{
		ID:         model.ID,
		TenantID:   model.TenantID,
		DeviceKey:  model.DeviceKey,
		LocationID: strValue(model.LocationID),
		Status:     domain.DeviceStatus(model.Status),
		Trust:      domain.DeviceTrust(model.Trust),
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
