package usecase

import (
	"context"
	"strings"

	"dinehub/internal/domain"
)

// Credentials are the boundary inputs session resolution consumes: the
// primary bearer token, an optional tenant-override hint, and an optional
// durable device key presented alongside the token.
type Credentials struct {
	BearerToken string
	TenantHint  string
	DeviceKey   string
}

// SessionResolver validates the bearer credential and produces a normalized,
// unscoped session context. Scope enforcement happens in ScopeApplier.
type SessionResolver struct {
	Verifier    domain.TokenVerifier
	Memberships *MembershipResolver
	Devices     *DeviceBinder
}

func NewSessionResolver(verifier domain.TokenVerifier, memberships *MembershipResolver, devices *DeviceBinder) *SessionResolver {
	return &SessionResolver{Verifier: verifier, Memberships: memberships, Devices: devices}
}

// Authenticate fails with domain.ErrUnauthenticated when the credential is
// absent, malformed, expired, fails verification, or lacks subject id or
// email. Membership and device lookups that hit infrastructure failures
// propagate their errors; they are never downgraded to an anonymous session.
func (r *SessionResolver) Authenticate(ctx context.Context, creds Credentials) (domain.SessionContext, error) {
	token := strings.TrimSpace(creds.BearerToken)
	if token == "" || r.Verifier == nil {
		return domain.SessionContext{}, domain.ErrUnauthenticated
	}
	claims, err := r.Verifier.Verify(ctx, token)
	if err != nil {
		return domain.SessionContext{}, domain.ErrUnauthenticated
	}
	if claims.SubjectID == "" || claims.Email == "" {
		return domain.SessionContext{}, domain.ErrUnauthenticated
	}

	hint := strings.TrimSpace(creds.TenantHint)
	if hint == "" {
		hint = claims.TenantID
	}
	binding, err := r.Memberships.Resolve(ctx, claims.SubjectID, hint)
	if err != nil {
		return domain.SessionContext{}, err
	}

	// First non-empty wins: a subject with no membership still carries a
	// tenant identity end to end.
	tenantID := binding.TenantID
	if tenantID == "" {
		tenantID = claims.TenantID
	}
	if tenantID == "" {
		tenantID = strings.TrimSpace(creds.TenantHint)
	}

	session := domain.SessionContext{
		Subject:  domain.Subject{ID: claims.SubjectID, Email: claims.Email},
		TenantID: tenantID,
		Role:     binding.Role,
	}

	if session.Role == "" && tenantID != "" && creds.DeviceKey != "" {
		device, err := r.Devices.Bind(ctx, tenantID, creds.DeviceKey)
		if err != nil {
			return domain.SessionContext{}, err
		}
		if device != nil && device.LocationID != "" {
			session.LocationID = device.LocationID
		}
	}
	return session, nil
}
