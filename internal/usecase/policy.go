package usecase

import "dinehub/internal/domain"

// CapabilityPolicy maps role and effective session type to a capability set.
// Pure, deterministic, no I/O; the tables are built once at process start
// and handed out as copies.
type CapabilityPolicy struct{}

func NewCapabilityPolicy() *CapabilityPolicy {
	return &CapabilityPolicy{}
}

// branchCapabilities is the fixed set every branch (or view-as-branch)
// session gets: read-mostly plus status toggles, no catalog create/delete.
var branchCapabilities = []string{
	domain.CapDashboardView,
	domain.CapReportsView,
	domain.CapOrdersRead,
	domain.CapOrdersUpdate,
	domain.CapServiceRequestsRead,
	domain.CapServiceRequestsUpdate,
	domain.CapMenuItemsRead,
	domain.CapMenuItemsToggle,
	domain.CapCategoriesRead,
	domain.CapCategoriesToggle,
	domain.CapOffersRead,
	domain.CapOffersToggle,
}

var roleCapabilities = map[domain.Role][]string{
	domain.RoleOwner: {domain.CapabilityAll},
	domain.RoleAdmin: {domain.CapabilityAll},
	domain.RoleEditor: {
		domain.CapDashboardView,
		domain.CapReportsView,
		domain.CapMenuItemsCreate,
		domain.CapMenuItemsRead,
		domain.CapMenuItemsUpdate,
		domain.CapMenuItemsDelete,
		domain.CapMenuItemsToggle,
		domain.CapCategoriesCreate,
		domain.CapCategoriesRead,
		domain.CapCategoriesUpdate,
		domain.CapCategoriesDelete,
		domain.CapCategoriesToggle,
		domain.CapOffersCreate,
		domain.CapOffersRead,
		domain.CapOffersUpdate,
		domain.CapOffersDelete,
		domain.CapOffersToggle,
	},
	domain.RoleViewer: {
		domain.CapDashboardView,
		domain.CapReportsView,
		domain.CapMenuItemsRead,
		domain.CapCategoriesRead,
		domain.CapOffersRead,
	},
}

// Compute returns the capability set for the effective session type. When
// the effective type is branch the role is ignored entirely; a member set is
// never unioned in. Unknown or missing roles yield an empty set.
func (p *CapabilityPolicy) Compute(role domain.Role, sessionType domain.SessionType, viewAs domain.SessionType) []string {
	effective := sessionType
	if viewAs != "" {
		effective = viewAs
	}
	if effective == domain.SessionBranch {
		return cloneCapabilities(branchCapabilities)
	}
	caps, ok := roleCapabilities[role]
	if !ok {
		return []string{}
	}
	return cloneCapabilities(caps)
}

func cloneCapabilities(caps []string) []string {
	out := make([]string, len(caps))
	copy(out, caps)
	return out
}
