package db

import (
	"context"
	"encoding/json"

	"dinehub/internal/domain"

	"gorm.io/gorm"
)

type AuditEventRepository struct {
	db *gorm.DB
}

func NewAuditEventRepository(db *gorm.DB) *AuditEventRepository {
	return &AuditEventRepository{db: db}
}

func (r *AuditEventRepository) Append(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error) {
	if r.db == nil {
		return domain.AuditEvent{}, errDBUnavailable
	}
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return domain.AuditEvent{}, err
	}
	model := AuditEventModel{
		ID:          newID(),
		TenantID:    event.TenantID,
		ActorType:   string(event.ActorType),
		ActorIDHash: event.ActorIDHash,
		EventType:   event.EventType,
		TargetType:  event.TargetType,
		TargetID:    event.TargetID,
		Result:      string(event.Result),
		ErrorCode:   event.ErrorCode,
		Payload:     payload,
		CreatedAt:   event.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.AuditEvent{}, err
	}
	event.ID = model.ID
	return event, nil
}

func (r *AuditEventRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.AuditEvent, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []AuditEventModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.AuditEvent, 0, len(models))
	for _, model := range models {
		event := domain.AuditEvent{
			ID:          model.ID,
			TenantID:    model.TenantID,
			ActorType:   domain.AuditActorType(model.ActorType),
			ActorIDHash: model.ActorIDHash,
			EventType:   model.EventType,
			TargetType:  model.TargetType,
			TargetID:    model.TargetID,
			Result:      domain.AuditResult(model.Result),
			ErrorCode:   model.ErrorCode,
			CreatedAt:   model.CreatedAt,
		}
		if len(model.Payload) > 0 {
			_ = json.Unmarshal(model.Payload, &event.Payload)
		}
		out = append(out, event)
	}
	return out, nil
}
