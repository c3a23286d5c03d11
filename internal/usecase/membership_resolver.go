package usecase

import (
	"context"
	"errors"

	"dinehub/internal/domain"
)

// MembershipBinding is the tenant+role pair an active membership grants. A
// zero value means the subject has no active membership among the candidate
// tenants; that is not an error.
type MembershipBinding struct {
	TenantID string
	Role     domain.Role
}

// MembershipResolver finds the active tenant binding for a subject. The
// explicit hint is tried before the subject's stored default tenant, so a
// subject belonging to multiple tenants can be routed by an explicit signal.
type MembershipResolver struct {
	Users       UserRepository
	Memberships MembershipRepository
}

func NewMembershipResolver(users UserRepository, memberships MembershipRepository) *MembershipResolver {
	return &MembershipResolver{Users: users, Memberships: memberships}
}

func (r *MembershipResolver) Resolve(ctx context.Context, subjectID, tenantHint string) (MembershipBinding, error) {
	if r == nil || r.Memberships == nil || subjectID == "" {
		return MembershipBinding{}, nil
	}

	candidates := make([]string, 0, 2)
	if tenantHint != "" {
		candidates = append(candidates, tenantHint)
	}
	if r.Users != nil {
		user, err := r.Users.GetByID(ctx, subjectID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return MembershipBinding{}, err
		}
		if err == nil && user.DefaultTenantID != "" && user.DefaultTenantID != tenantHint {
			candidates = append(candidates, user.DefaultTenantID)
		}
	}

	for _, tenantID := range candidates {
		membership, err := r.Memberships.FindActive(ctx, tenantID, subjectID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return MembershipBinding{}, err
		}
		return MembershipBinding{TenantID: tenantID, Role: membership.Role}, nil
	}
	return MembershipBinding{}, nil
}
