package db

import (
	"context"
	"errors"
	"time"

	"dinehub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MembershipRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db, now: time.Now}
}

func (r *MembershipRepository) FindActive(ctx context.Context, tenantID, subjectID string) (*domain.Membership, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model MembershipModel
	err := r.db.WithContext(ctx).
		First(&model, "tenant_id = ? AND subject_id = ? AND status = ?", tenantID, subjectID, string(domain.MembershipActive)).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return membershipFromModel(model), nil
}

// Invite creates the (tenant, subject) binding in invited state. A repeat
// invite supersedes the existing row via status transition; rows are never
// deleted, so acceptance history is preserved.
func (r *MembershipRepository) Invite(ctx context.Context, membership domain.Membership) (domain.Membership, error) {
	if r.db == nil {
		return domain.Membership{}, errDBUnavailable
	}
	now := r.now().UTC()
	model := MembershipModel{
		ID:        newID(),
		TenantID:  membership.TenantID,
		SubjectID: membership.SubjectID,
		Role:      string(membership.Role),
		Status:    string(domain.MembershipInvited),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "subject_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"role":       string(membership.Role),
				"status":     string(domain.MembershipInvited),
				"updated_at": now,
			}),
		}).
		Create(&model).Error
	if err != nil {
		return domain.Membership{}, err
	}
	stored, err := r.find(ctx, membership.TenantID, membership.SubjectID)
	if err != nil {
		return domain.Membership{}, err
	}
	return *stored, nil
}

// Accept transitions an invited membership to active.
func (r *MembershipRepository) Accept(ctx context.Context, tenantID, subjectID string) (domain.Membership, error) {
	if r.db == nil {
		return domain.Membership{}, errDBUnavailable
	}
	result := r.db.WithContext(ctx).
		Model(&MembershipModel{}).
		Where("tenant_id = ? AND subject_id = ? AND status = ?", tenantID, subjectID, string(domain.MembershipInvited)).
		Updates(map[string]any{
			"status":     string(domain.MembershipActive),
			"updated_at": r.now().UTC(),
		})
	if result.Error != nil {
		return domain.Membership{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.Membership{}, domain.ErrNotFound
	}
	stored, err := r.find(ctx, tenantID, subjectID)
	if err != nil {
		return domain.Membership{}, err
	}
	return *stored, nil
}

func (r *MembershipRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.Membership, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []MembershipModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Membership, 0, len(models))
	for _, model := range models {
		out = append(out, *membershipFromModel(model))
	}
	return out, nil
}

func (r *MembershipRepository) find(ctx context.Context, tenantID, subjectID string) (*domain.Membership, error) {
	var model MembershipModel
	err := r.db.WithContext(ctx).
		First(&model, "tenant_id = ? AND subject_id = ?", tenantID, subjectID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return membershipFromModel(model), nil
}

func membershipFromModel(model MembershipModel) *domain.Membership {
	return &domain.Membership{
		ID:        model.ID,
		TenantID:  model.TenantID,
		SubjectID: model.SubjectID,
		Role:      domain.Role(model.Role),
		Status:    domain.MembershipStatus(model.Status),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
