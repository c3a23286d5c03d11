package domain

import "strings"

// Capabilities are "resource:action" strings. The satisfies check honors a
// global wildcard and a per-resource "resource:*" wildcard; role tables only
// ever produce the global one.
const (
	CapabilityAll = "*"

	CapDashboardView = "dashboard:view"
	CapReportsView   = "reports:view"

	CapOrdersCreate = "orders:create"
	CapOrdersRead   = "orders:read"
	CapOrdersUpdate = "orders:update"

	CapServiceRequestsRead   = "serviceRequests:read"
	CapServiceRequestsUpdate = "serviceRequests:update"

	CapMenuItemsCreate = "menuItems:create"
	CapMenuItemsRead   = "menuItems:read"
	CapMenuItemsUpdate = "menuItems:update"
	CapMenuItemsDelete = "menuItems:delete"
	CapMenuItemsToggle = "menuItems:toggle"

	CapCategoriesCreate = "categories:create"
	CapCategoriesRead   = "categories:read"
	CapCategoriesUpdate = "categories:update"
	CapCategoriesDelete = "categories:delete"
	CapCategoriesToggle = "categories:toggle"

	CapOffersCreate = "offers:create"
	CapOffersRead   = "offers:read"
	CapOffersUpdate = "offers:update"
	CapOffersDelete = "offers:delete"
	CapOffersToggle = "offers:toggle"

	CapDevicesCreate = "devices:create"
	CapDevicesRead   = "devices:read"
	CapDevicesUpdate = "devices:update"

	CapLocationsCreate = "locations:create"
	CapLocationsRead   = "locations:read"

	CapMembersCreate = "members:create"
	CapMembersRead   = "members:read"

	// Not listed in any role table: only the global wildcard grants it.
	CapAuditRead = "audit:read"
)

// RequireMode selects how a list of required capabilities combines.
type RequireMode string

const (
	RequireAll RequireMode = "all"
	RequireAny RequireMode = "any"
)

// Satisfies reports whether the capability set meets the requirement under
// the given mode. An empty requirement list is satisfied by anything.
func Satisfies(capabilities []string, required []string, mode RequireMode) bool {
	if len(required) == 0 {
		return true
	}
	if mode == RequireAny {
		for _, req := range required {
			if satisfiesOne(capabilities, req) {
				return true
			}
		}
		return false
	}
	for _, req := range required {
		if !satisfiesOne(capabilities, req) {
			return false
		}
	}
	return true
}

func satisfiesOne(capabilities []string, required string) bool {
	required = strings.TrimSpace(required)
	if required == "" {
		return true
	}
	resourceWildcard := ""
	if idx := strings.IndexByte(required, ':'); idx > 0 {
		resourceWildcard = required[:idx] + ":*"
	}
	for _, cap := range capabilities {
		if cap == CapabilityAll || cap == required {
			return true
		}
		if resourceWildcard != "" && cap == resourceWildcard {
			return true
		}
	}
	return false
}
