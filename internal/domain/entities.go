package domain

import "time"

// User is the stored account record behind a subject. DefaultTenantID is the
// subject's stored tenant association, consulted after any explicit hint.
type User struct {
	ID              string
	Email           string
	DefaultTenantID string
	CreatedAt       time.Time
}

type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type MembershipStatus string

const (
	MembershipActive  MembershipStatus = "active"
	MembershipInvited MembershipStatus = "invited"
)

// Membership binds a subject to a tenant with a role. Unique per
// (tenant, subject); only active memberships participate in authorization.
// A new invite supersedes via status transition, never deletion.
type Membership struct {
	ID        string
	TenantID  string
	SubjectID string
	Role      Role
	Status    MembershipStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type DeviceStatus string

const (
	DeviceActive  DeviceStatus = "active"
	DevicePending DeviceStatus = "pending"
	DeviceRevoked DeviceStatus = "revoked"
)

type DeviceTrust string

const (
	DeviceTrustHigh   DeviceTrust = "high"
	DeviceTrustMedium DeviceTrust = "medium"
	DeviceTrustLow    DeviceTrust = "low"
)

// Device is a piece of hardware bound to one tenant via a durable, opaque
// device key. An empty LocationID means registered but not assignable; such
// a device must fail closed, never default to all locations.
type Device struct {
	ID         string
	TenantID   string
	DeviceKey  string
	LocationID string
	Status     DeviceStatus
	Trust      DeviceTrust
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Assignable reports whether a branch session may be bound to this device.
func (d Device) Assignable() bool {
	return d.Status == DeviceActive && d.LocationID != ""
}

type Location struct {
	ID        string
	TenantID  string
	Name      string
	CreatedAt time.Time
}
