package usecase

import (
	"context"
	"errors"
	"time"

	"dinehub/internal/domain"
)

var errStoreDown = errors.New("store down")

type userRepoStub struct {
	users map[string]domain.User
	err   error
}

func (r *userRepoStub) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (r *userRepoStub) Upsert(ctx context.Context, user domain.User) error {
	if r.err != nil {
		return r.err
	}
	if existing, ok := r.users[user.ID]; ok && existing.DefaultTenantID != "" {
		user.DefaultTenantID = existing.DefaultTenantID
	}
	r.users[user.ID] = user
	return nil
}

type membershipRepoStub struct {
	// keyed tenantID + "/" + subjectID
	active map[string]domain.Membership
	err    error
}

func (r *membershipRepoStub) FindActive(ctx context.Context, tenantID, subjectID string) (*domain.Membership, error) {
	if r.err != nil {
		return nil, r.err
	}
	membership, ok := r.active[tenantID+"/"+subjectID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &membership, nil
}

func (r *membershipRepoStub) Invite(ctx context.Context, membership domain.Membership) (domain.Membership, error) {
	membership.Status = domain.MembershipInvited
	return membership, nil
}

func (r *membershipRepoStub) Accept(ctx context.Context, tenantID, subjectID string) (domain.Membership, error) {
	return domain.Membership{}, domain.ErrNotFound
}

func (r *membershipRepoStub) ListByTenant(ctx context.Context, tenantID string) ([]domain.Membership, error) {
	return nil, nil
}

type deviceRepoStub struct {
	// keyed tenantID + "/" + deviceKey
	devices map[string]domain.Device
	err     error
}

func (r *deviceRepoStub) FindActiveByKey(ctx context.Context, tenantID, deviceKey string) (*domain.Device, error) {
	if r.err != nil {
		return nil, r.err
	}
	device, ok := r.devices[tenantID+"/"+deviceKey]
	if !ok || device.Status != domain.DeviceActive {
		return nil, domain.ErrNotFound
	}
	return &device, nil
}

func (r *deviceRepoStub) Register(ctx context.Context, device domain.Device) (domain.Device, error) {
	return device, nil
}

func (r *deviceRepoStub) AssignLocation(ctx context.Context, tenantID, deviceKey, locationID string) (domain.Device, error) {
	return domain.Device{}, domain.ErrNotFound
}

func (r *deviceRepoStub) Revoke(ctx context.Context, tenantID, deviceKey string) error {
	return domain.ErrNotFound
}

func (r *deviceRepoStub) ListByTenant(ctx context.Context, tenantID string) ([]domain.Device, error) {
	return nil, nil
}

type locationRepoStub struct {
	// keyed tenantID + "/" + locationID
	locations map[string]domain.Location
	err       error
}

func (r *locationRepoStub) GetByID(ctx context.Context, tenantID, locationID string) (*domain.Location, error) {
	if r.err != nil {
		return nil, r.err
	}
	location, ok := r.locations[tenantID+"/"+locationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &location, nil
}

func (r *locationRepoStub) Create(ctx context.Context, location domain.Location) (domain.Location, error) {
	return location, nil
}

func (r *locationRepoStub) ListByTenant(ctx context.Context, tenantID string) ([]domain.Location, error) {
	return nil, nil
}

type auditRepoStub struct {
	events []domain.AuditEvent
	err    error
}

func (r *auditRepoStub) Append(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error) {
	if r.err != nil {
		return domain.AuditEvent{}, r.err
	}
	r.events = append(r.events, event)
	return event, nil
}

type verifierStub struct {
	claims domain.TokenClaims
	err    error
}

func (v *verifierStub) Verify(ctx context.Context, bearerToken string) (domain.TokenClaims, error) {
	if v.err != nil {
		return domain.TokenClaims{}, v.err
	}
	return v.claims, nil
}

type filterStub struct {
	remove map[string]bool
	err    error
}

func (f *filterStub) Restrict(ctx context.Context, session domain.SessionContext, capabilities []string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, 0, len(capabilities))
	for _, cap := range capabilities {
		if !f.remove[cap] {
			out = append(out, cap)
		}
	}
	return out, nil
}

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }
