package usecase

import (
	"context"
	"errors"
	"strings"

	"dinehub/internal/domain"

	"github.com/google/uuid"
)

// ViewAsHeader is the only value of the view-as header that triggers the
// branch override; anything else is treated as absent.
const ViewAsHeader = "branch"

// ScopeRequest carries the two member-only request headers.
type ScopeRequest struct {
	ViewAs     string
	LocationID string
}

// ScopeApplier classifies a resolved session, enforces branch preconditions,
// applies the member view-as-branch override, and finalizes the capability
// set. Classification keys off role presence alone.
type ScopeApplier struct {
	Locations LocationRepository
	Policy    *CapabilityPolicy
	Filter    domain.CapabilityFilter
}

func NewScopeApplier(locations LocationRepository, policy *CapabilityPolicy) *ScopeApplier {
	return &ScopeApplier{Locations: locations, Policy: policy}
}

func (a *ScopeApplier) Apply(ctx context.Context, session domain.SessionContext, req ScopeRequest) (domain.SessionContext, error) {
	if session.Role != "" {
		session.SessionType = domain.SessionMember
	} else {
		session.SessionType = domain.SessionBranch
	}

	switch session.SessionType {
	case domain.SessionBranch:
		session.ViewAs = ""
		if session.TenantID == "" {
			return domain.SessionContext{}, domain.ErrTenantNotSet
		}
		if session.LocationID == "" {
			// The device authenticated but is not location-assigned:
			// hard stop, never a fallback to all locations.
			return domain.SessionContext{}, domain.ErrDeviceNotAssigned
		}
	case domain.SessionMember:
		if strings.EqualFold(strings.TrimSpace(req.ViewAs), ViewAsHeader) {
			if session.TenantID == "" {
				return domain.SessionContext{}, domain.ErrTenantNotSet
			}
			locationID := strings.TrimSpace(req.LocationID)
			if locationID == "" {
				return domain.SessionContext{}, domain.ErrLocationHeaderRequired
			}
			if _, err := uuid.Parse(locationID); err != nil {
				return domain.SessionContext{}, domain.ErrLocationHeaderRequired
			}
			location, err := a.lookupLocation(ctx, session.TenantID, locationID)
			if err != nil {
				return domain.SessionContext{}, err
			}
			session.ViewAs = domain.SessionBranch
			session.LocationID = location.ID
		} else {
			// A stray device-key cookie may have attached a location
			// during resolution; a pure member session must not keep
			// that uncontrolled scope.
			session.ViewAs = ""
			session.LocationID = ""
		}
	}

	capabilities := a.Policy.Compute(session.Role, session.SessionType, session.ViewAs)
	if a.Filter != nil {
		restricted, err := a.Filter.Restrict(ctx, session, capabilities)
		if err != nil {
			return domain.SessionContext{}, err
		}
		capabilities = restricted
	}
	session.Capabilities = capabilities
	return session, nil
}

func (a *ScopeApplier) lookupLocation(ctx context.Context, tenantID, locationID string) (*domain.Location, error) {
	if a.Locations == nil {
		return nil, domain.ErrLocationNotFound
	}
	location, err := a.Locations.GetByID(ctx, tenantID, locationID)
	if errors.Is(err, domain.ErrNotFound) {
		// Tenant-scoped lookup: a location id from another tenant must
		// never resolve.
		return nil, domain.ErrLocationNotFound
	}
	if err != nil {
		return nil, err
	}
	return location, nil
}
