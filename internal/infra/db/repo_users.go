package db

import (
	"context"
	"errors"
	"time"

	"dinehub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model UserModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.User{
		ID:              model.ID,
		Email:           model.Email,
		DefaultTenantID: strValue(model.DefaultTenantID),
		CreatedAt:       model.CreatedAt,
	}, nil
}

// Upsert records the subject behind a verified credential. An existing
// default tenant association is kept; the upsert never reassigns it.
func (r *UserRepository) Upsert(ctx context.Context, user domain.User) error {
	if r.db == nil {
		return errDBUnavailable
	}
	model := UserModel{
		ID:              user.ID,
		Email:           user.Email,
		DefaultTenantID: strPtr(user.DefaultTenantID),
		CreatedAt:       user.CreatedAt,
	}
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"email":             user.Email,
				"default_tenant_id": gorm.Expr("COALESCE(users.default_tenant_id, excluded.default_tenant_id)"),
			}),
		}).
		Create(&model).Error
}
