package policyopa

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"dinehub/internal/domain"
)

func writePolicy(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "authz.rego")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}
	return path
}

func TestRestrictRemovesDeniedCapabilities(t *testing.T) {
	path := writePolicy(t, `package dinehub.authz

import rego.v1

result := {"deny": deny}

deny contains "reports:view" if {
	input.session.tenant_id == "t-restricted"
}

deny contains "offers:*" if {
	input.session.tenant_id == "t-restricted"
}
`)
	engine, err := NewEngineFromPath(context.Background(), path, "unit")
	if err != nil {
		t.Fatalf("engine init: %v", err)
	}

	session := domain.SessionContext{
		Subject:     domain.Subject{ID: "u1", Email: "a@b.co"},
		TenantID:    "t-restricted",
		Role:        domain.RoleViewer,
		SessionType: domain.SessionMember,
	}
	got, err := engine.Restrict(context.Background(), session, []string{
		domain.CapDashboardView,
		domain.CapReportsView,
		domain.CapOffersRead,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{domain.CapDashboardView}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRestrictLeavesOtherTenantsAlone(t *testing.T) {
	path := writePolicy(t, `package dinehub.authz

import rego.v1

result := {"deny": deny}

deny contains "reports:view" if {
	input.session.tenant_id == "t-restricted"
}
`)
	engine, err := NewEngineFromPath(context.Background(), path, "unit")
	if err != nil {
		t.Fatalf("engine init: %v", err)
	}

	session := domain.SessionContext{
		Subject:     domain.Subject{ID: "u1", Email: "a@b.co"},
		TenantID:    "t-open",
		SessionType: domain.SessionMember,
		Role:        domain.RoleViewer,
	}
	caps := []string{domain.CapDashboardView, domain.CapReportsView}
	got, err := engine.Restrict(context.Background(), session, caps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, caps) {
		t.Fatalf("got %v, want untouched %v", got, caps)
	}
}

func TestRestrictNeverGrants(t *testing.T) {
	// A policy that names capabilities outside the computed set has no
	// effect; the filter only removes.
	path := writePolicy(t, `package dinehub.authz

import rego.v1

result := {"deny": []}
`)
	engine, err := NewEngineFromPath(context.Background(), path, "unit")
	if err != nil {
		t.Fatalf("engine init: %v", err)
	}
	caps := []string{domain.CapOrdersRead}
	got, err := engine.Restrict(context.Background(), domain.SessionContext{}, caps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, caps) {
		t.Fatalf("got %v, want %v", got, caps)
	}
}

func TestNewEngineFromPathRejectsBadPolicy(t *testing.T) {
	path := writePolicy(t, "this is not rego")
	if _, err := NewEngineFromPath(context.Background(), path, "unit"); err == nil {
		t.Fatal("expected parse error")
	}
}
