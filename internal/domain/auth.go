package domain

import "context"

// Role is the membership role a subject holds inside one tenant.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// SessionType classifies a resolved session. A role, once granted by an
// active membership, always implies member semantics; classification never
// consults location or view-as state.
type SessionType string

const (
	SessionMember SessionType = "member"
	SessionBranch SessionType = "branch"
)

// Subject is the authenticated principal extracted from a verified bearer
// credential. Immutable for the request lifetime.
type Subject struct {
	ID    string
	Email string
}

// SessionContext is the request-scoped result of session resolution and
// scope application. It is never persisted.
type SessionContext struct {
	Subject      Subject
	TenantID     string
	Role         Role
	LocationID   string
	SessionType  SessionType
	ViewAs       SessionType
	Capabilities []string
}

// TokenClaims is the identity payload carried by a verified bearer
// credential.
type TokenClaims struct {
	SubjectID string
	Email     string
	TenantID  string
}

type TokenVerifier interface {
	Verify(ctx context.Context, bearerToken string) (TokenClaims, error)
}

// CapabilityFilter may narrow a computed capability set. Implementations
// must never add capabilities.
type CapabilityFilter interface {
	Restrict(ctx context.Context, session SessionContext, capabilities []string) ([]string, error)
}
