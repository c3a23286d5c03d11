package db

import "time"

type UserModel struct {
	ID              string    `gorm:"type:uuid;primaryKey"`
	Email           string    `gorm:"uniqueIndex;not null"`
	DefaultTenantID *string   `gorm:"type:uuid;index"`
	CreatedAt       time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

type TenantModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (TenantModel) TableName() string { return "tenants" }

type MembershipModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	TenantID  string    `gorm:"type:uuid;uniqueIndex:idx_memberships_tenant_subject;not null"`
	SubjectID string    `gorm:"type:uuid;uniqueIndex:idx_memberships_tenant_subject;not null"`
	Role      string    `gorm:"not null"`
	Status    string    `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (MembershipModel) TableName() string { return "memberships" }

type DeviceModel struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	TenantID   string    `gorm:"type:uuid;uniqueIndex:idx_devices_tenant_key;not null"`
	DeviceKey  string    `gorm:"uniqueIndex:idx_devices_tenant_key;not null"`
	LocationID *string   `gorm:"type:uuid;index"`
	Status     string    `gorm:"index;not null"`
	Trust      string    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (DeviceModel) TableName() string { return "devices" }

type LocationModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	TenantID  string    `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (LocationModel) TableName() string { return "locations" }

type AuditEventModel struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	TenantID    string    `gorm:"type:uuid;index"`
	ActorType   string    `gorm:"not null"`
	ActorIDHash string    `gorm:"index"`
	EventType   string    `gorm:"index;not null"`
	TargetType  string    `gorm:"not null"`
	TargetID    string    `gorm:"index"`
	Result      string    `gorm:"not null"`
	ErrorCode   string    ``
	Payload     []byte    `gorm:"type:jsonb"`
	CreatedAt   time.Time `gorm:"index;not null"`
}

func (AuditEventModel) TableName() string { return "audit_events" }
