package usecase

import (
	"context"
	"errors"

	"dinehub/internal/domain"
)

// DeviceBinder looks up the active device a role-less session presented a
// device key for. A miss is silent: pre-assignment "central" flows are valid
// sessions that simply are not location-bound yet. Store failures propagate.
type DeviceBinder struct {
	Devices DeviceRepository
}

func NewDeviceBinder(devices DeviceRepository) *DeviceBinder {
	return &DeviceBinder{Devices: devices}
}

func (b *DeviceBinder) Bind(ctx context.Context, tenantID, deviceKey string) (*domain.Device, error) {
	if b == nil || b.Devices == nil || tenantID == "" || deviceKey == "" {
		return nil, nil
	}
	device, err := b.Devices.FindActiveByKey(ctx, tenantID, deviceKey)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return device, nil
}
