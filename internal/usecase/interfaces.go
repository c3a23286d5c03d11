package usecase

import (
	"context"
	"time"

	"dinehub/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Upsert(ctx context.Context, user domain.User) error
}

type MembershipRepository interface {
	FindActive(ctx context.Context, tenantID, subjectID string) (*domain.Membership, error)
	Invite(ctx context.Context, membership domain.Membership) (domain.Membership, error)
	Accept(ctx context.Context, tenantID, subjectID string) (domain.Membership, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Membership, error)
}

type DeviceRepository interface {
	FindActiveByKey(ctx context.Context, tenantID, deviceKey string) (*domain.Device, error)
	Register(ctx context.Context, device domain.Device) (domain.Device, error)
	AssignLocation(ctx context.Context, tenantID, deviceKey, locationID string) (domain.Device, error)
	Revoke(ctx context.Context, tenantID, deviceKey string) error
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Device, error)
}

type LocationRepository interface {
	GetByID(ctx context.Context, tenantID, locationID string) (*domain.Location, error)
	Create(ctx context.Context, location domain.Location) (domain.Location, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Location, error)
}

type TenantRepository interface {
	Create(ctx context.Context, tenant domain.Tenant) error
	GetByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
}

type AuditEventRepository interface {
	Append(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error)
}

type AuditLogReader interface {
	ListByTenant(ctx context.Context, tenantID string) ([]domain.AuditEvent, error)
}

type Clock interface {
	Now() time.Time
}
