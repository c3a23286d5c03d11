package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"dinehub/internal/domain"
)

// AuditEmitter appends authentication and authorization outcomes to the
// audit store.
type AuditEmitter struct {
	Repo  AuditEventRepository
	Clock Clock
}

func NewAuditEmitter(repo AuditEventRepository, clock Clock) *AuditEmitter {
	return &AuditEmitter{Repo: repo, Clock: clock}
}

func (e *AuditEmitter) Emit(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error) {
	if e == nil || e.Repo == nil {
		return domain.AuditEvent{}, errors.New("audit repository required")
	}
	if event.EventType == "" || event.TargetType == "" || event.Result == "" || event.ActorType == "" {
		return domain.AuditEvent{}, errors.New("audit event missing required fields")
	}
	if event.Payload == nil {
		event.Payload = map[string]any{}
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = e.now().UTC()
	} else {
		event.CreatedAt = event.CreatedAt.UTC()
	}
	return e.Repo.Append(ctx, event)
}

func (e *AuditEmitter) EmitSessionResolved(ctx context.Context, session domain.SessionContext, result domain.AuditResult, errorCode string) error {
	payload := map[string]any{
		"tenant_id":    session.TenantID,
		"session_type": string(session.SessionType),
	}
	if session.LocationID != "" {
		payload["location_id"] = session.LocationID
	}
	if session.ViewAs != "" {
		payload["view_as"] = string(session.ViewAs)
	}
	_, err := e.Emit(ctx, domain.AuditEvent{
		TenantID:    session.TenantID,
		ActorType:   actorType(session),
		ActorIDHash: hashString(session.Subject.ID),
		EventType:   domain.AuditEventSessionResolved,
		Payload:     payload,
		TargetType:  domain.AuditTargetSession,
		TargetID:    session.Subject.ID,
		Result:      result,
		ErrorCode:   errorCode,
	})
	return err
}

func (e *AuditEmitter) EmitAccessDenied(ctx context.Context, session domain.SessionContext, required []string, mode domain.RequireMode) error {
	_, err := e.Emit(ctx, domain.AuditEvent{
		TenantID:    session.TenantID,
		ActorType:   actorType(session),
		ActorIDHash: hashString(session.Subject.ID),
		EventType:   domain.AuditEventAccessDenied,
		Payload: map[string]any{
			"required": required,
			"mode":     string(mode),
		},
		TargetType: domain.AuditTargetResource,
		TargetID:   session.Subject.ID,
		Result:     domain.AuditResultDenied,
		ErrorCode:  "FORBIDDEN",
	})
	return err
}

func (e *AuditEmitter) EmitDeviceAssigned(ctx context.Context, session domain.SessionContext, device domain.Device) error {
	_, err := e.Emit(ctx, domain.AuditEvent{
		TenantID:    device.TenantID,
		ActorType:   actorType(session),
		ActorIDHash: hashString(session.Subject.ID),
		EventType:   domain.AuditEventDeviceAssigned,
		Payload: map[string]any{
			"location_id": device.LocationID,
			"status":      string(device.Status),
		},
		TargetType: domain.AuditTargetDevice,
		TargetID:   device.DeviceKey,
		Result:     domain.AuditResultSuccess,
	})
	return err
}

func (e *AuditEmitter) EmitDeviceRevoked(ctx context.Context, session domain.SessionContext, deviceKey string) error {
	_, err := e.Emit(ctx, domain.AuditEvent{
		TenantID:    session.TenantID,
		ActorType:   actorType(session),
		ActorIDHash: hashString(session.Subject.ID),
		EventType:   domain.AuditEventDeviceRevoked,
		Payload:     map[string]any{},
		TargetType:  domain.AuditTargetDevice,
		TargetID:    deviceKey,
		Result:      domain.AuditResultSuccess,
	})
	return err
}

func (e *AuditEmitter) EmitInviteAccepted(ctx context.Context, session domain.SessionContext, membership domain.Membership) error {
	_, err := e.Emit(ctx, domain.AuditEvent{
		TenantID:    membership.TenantID,
		ActorType:   domain.AuditActorMember,
		ActorIDHash: hashString(session.Subject.ID),
		EventType:   domain.AuditEventInviteAccepted,
		Payload: map[string]any{
			"role": string(membership.Role),
		},
		TargetType: domain.AuditTargetMember,
		TargetID:   membership.SubjectID,
		Result:     domain.AuditResultSuccess,
	})
	return err
}

func actorType(session domain.SessionContext) domain.AuditActorType {
	if session.SessionType == domain.SessionBranch {
		return domain.AuditActorDevice
	}
	return domain.AuditActorMember
}

func (e *AuditEmitter) now() time.Time {
	if e.Clock != nil {
		return e.Clock.Now()
	}
	return time.Now()
}

func hashString(value string) string {
	if value == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
