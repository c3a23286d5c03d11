package domain

import "time"

type AuditActorType string

const (
	AuditActorMember AuditActorType = "member"
	AuditActorDevice AuditActorType = "device"
	AuditActorSystem AuditActorType = "system"
)

type AuditResult string

const (
	AuditResultSuccess AuditResult = "success"
	AuditResultDenied  AuditResult = "denied"
	AuditResultError   AuditResult = "error"
)

const (
	AuditEventSessionResolved = "session.resolved"
	AuditEventAccessDenied    = "authz.denied"
	AuditEventDeviceAssigned  = "device.assigned"
	AuditEventDeviceRevoked   = "device.revoked"
	AuditEventInviteAccepted  = "invite.accepted"
)

const (
	AuditTargetSession  = "session"
	AuditTargetDevice   = "device"
	AuditTargetMember   = "member"
	AuditTargetResource = "resource"
)

// AuditEvent records an authentication or authorization outcome. Actor ids
// are stored hashed.
type AuditEvent struct {
	ID          string
	TenantID    string
	ActorType   AuditActorType
	ActorIDHash string
	EventType   string
	TargetType  string
	TargetID    string
	Result      AuditResult
	ErrorCode   string
	Payload     map[string]any
	CreatedAt   time.Time
}
