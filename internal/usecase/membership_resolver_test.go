package usecase

import (
	"context"
	"errors"
	"testing"

	"dinehub/internal/domain"
)

func TestResolvePrefersExplicitHint(t *testing.T) {
	users := &userRepoStub{users: map[string]domain.User{
		"u1": {ID: "u1", DefaultTenantID: "t-default"},
	}}
	memberships := &membershipRepoStub{active: map[string]domain.Membership{
		"t-hint/u1":    {TenantID: "t-hint", SubjectID: "u1", Role: domain.RoleEditor},
		"t-default/u1": {TenantID: "t-default", SubjectID: "u1", Role: domain.RoleViewer},
	}}

	resolver := NewMembershipResolver(users, memberships)
	binding, err := resolver.Resolve(context.Background(), "u1", "t-hint")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if binding.TenantID != "t-hint" || binding.Role != domain.RoleEditor {
		t.Fatalf("got %+v, want hint tenant with editor role", binding)
	}
}

func TestResolveFallsBackToDefaultTenant(t *testing.T) {
	users := &userRepoStub{users: map[string]domain.User{
		"u1": {ID: "u1", DefaultTenantID: "t-default"},
	}}
	memberships := &membershipRepoStub{active: map[string]domain.Membership{
		"t-default/u1": {TenantID: "t-default", SubjectID: "u1", Role: domain.RoleOwner},
	}}

	resolver := NewMembershipResolver(users, memberships)
	binding, err := resolver.Resolve(context.Background(), "u1", "t-other")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if binding.TenantID != "t-default" || binding.Role != domain.RoleOwner {
		t.Fatalf("got %+v, want default tenant with owner role", binding)
	}
}

func TestResolveNoMembershipIsNotAnError(t *testing.T) {
	users := &userRepoStub{users: map[string]domain.User{
		"u1": {ID: "u1", DefaultTenantID: "t-default"},
	}}
	memberships := &membershipRepoStub{active: map[string]domain.Membership{}}

	resolver := NewMembershipResolver(users, memberships)
	binding, err := resolver.Resolve(context.Background(), "u1", "t-hint")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if binding != (MembershipBinding{}) {
		t.Fatalf("got %+v, want zero binding", binding)
	}
}

func TestResolveUnknownUserStillTriesHint(t *testing.T) {
	users := &userRepoStub{users: map[string]domain.User{}}
	memberships := &membershipRepoStub{active: map[string]domain.Membership{
		"t-hint/u1": {TenantID: "t-hint", SubjectID: "u1", Role: domain.RoleAdmin},
	}}

	resolver := NewMembershipResolver(users, memberships)
	binding, err := resolver.Resolve(context.Background(), "u1", "t-hint")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if binding.Role != domain.RoleAdmin {
		t.Fatalf("got %+v, want admin binding via hint", binding)
	}
}

func TestResolveStoreFailurePropagates(t *testing.T) {
	users := &userRepoStub{users: map[string]domain.User{}}
	memberships := &membershipRepoStub{err: errStoreDown}

	resolver := NewMembershipResolver(users, memberships)
	_, err := resolver.Resolve(context.Background(), "u1", "t-hint")
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("got %v, want store error to propagate", err)
	}
}
