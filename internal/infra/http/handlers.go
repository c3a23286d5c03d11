package http

import (
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"dinehub/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type sessionResponse struct {
	SubjectID    string   `json:"subject_id"`
	Email        string   `json:"email"`
	TenantID     string   `json:"tenant_id,omitempty"`
	Role         string   `json:"role,omitempty"`
	LocationID   string   `json:"location_id,omitempty"`
	SessionType  string   `json:"session_type"`
	ViewAs       string   `json:"view_as,omitempty"`
	Capabilities []string `json:"capabilities"`
}

func toSessionResponse(session domain.SessionContext) sessionResponse {
	return sessionResponse{
		SubjectID:    session.Subject.ID,
		Email:        session.Subject.Email,
		TenantID:     session.TenantID,
		Role:         string(session.Role),
		LocationID:   session.LocationID,
		SessionType:  string(session.SessionType),
		ViewAs:       string(session.ViewAs),
		Capabilities: session.Capabilities,
	}
}

type deviceResponse struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenant_id"`
	DeviceKey  string `json:"device_key"`
	LocationID string `json:"location_id,omitempty"`
	Status     string `json:"status"`
	Trust      string `json:"trust"`
	CreatedAt  string `json:"created_at"`
}

func toDeviceResponse(device domain.Device) deviceResponse {
	return deviceResponse{
		ID:         device.ID,
		TenantID:   device.TenantID,
		DeviceKey:  device.DeviceKey,
		LocationID: device.LocationID,
		Status:     string(device.Status),
		Trust:      string(device.Trust),
		CreatedAt:  device.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// --- session introspection and forward-auth ---

func (s *Server) handleSession(c *gin.Context) {
	session, ok := SessionFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(session))
}

type authorizeRequest struct {
	Required []string `json:"required"`
	Mode     string   `json:"mode"`
}

// handleAuthorize lets sibling services delegate capability decisions to
// this core (forward-auth). The caller's own session context is evaluated.
func (s *Server) handleAuthorize(c *gin.Context) {
	session, ok := SessionFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	var req authorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Required) == 0 {
		writeError(c, http.StatusBadRequest, "required capabilities missing")
		return
	}
	mode := domain.RequireMode(strings.ToLower(strings.TrimSpace(req.Mode)))
	switch mode {
	case "":
		mode = domain.RequireAll
	case domain.RequireAll, domain.RequireAny:
	default:
		writeError(c, http.StatusBadRequest, "mode must be all or any")
		return
	}
	if !domain.Satisfies(session.Capabilities, req.Required, mode) {
		if s.audit != nil {
			if err := s.audit.EmitAccessDenied(c.Request.Context(), session, req.Required, mode); err != nil {
				log.Printf("audit append failed: %v", err)
			}
		}
		writeError(c, http.StatusForbidden, "insufficient capabilities")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "allowed": true})
}

// --- tenant bootstrap ---

type createTenantRequest struct {
	Name           string `json:"name"`
	OwnerSubjectID string `json:"owner_subject_id"`
}

// handleCreateTenant is the admin-key bootstrap path: it creates the tenant
// and, when an owner subject is named, an immediately-active owner
// membership so the tenant is manageable from the start.
func (s *Server) handleCreateTenant(c *gin.Context) {
	key := strings.TrimSpace(c.GetHeader(HeaderAdminKey))
	if s.adminAPIKey == "" || key == "" ||
		subtle.ConstantTimeCompare([]byte(key), []byte(s.adminAPIKey)) != 1 {
		writeError(c, http.StatusUnauthorized, "admin key required")
		return
	}
	if s.tenants == nil {
		writeError(c, http.StatusInternalServerError, "tenant store unavailable")
		return
	}
	var req createTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(c, http.StatusBadRequest, "name is required")
		return
	}

	tenant := domain.Tenant{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tenants.Create(c.Request.Context(), tenant); err != nil {
		abortDomainError(c, err)
		return
	}
	if req.OwnerSubjectID != "" && s.memberships != nil {
		ownerID, ok := parseUUIDField(c, "owner_subject_id", req.OwnerSubjectID)
		if !ok {
			return
		}
		if _, err := s.memberships.Invite(c.Request.Context(), domain.Membership{
			TenantID:  tenant.ID,
			SubjectID: ownerID,
			Role:      domain.RoleOwner,
		}); err != nil {
			abortDomainError(c, err)
			return
		}
		if _, err := s.memberships.Accept(c.Request.Context(), tenant.ID, ownerID); err != nil {
			abortDomainError(c, err)
			return
		}
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":         tenant.ID,
		"name":       tenant.Name,
		"created_at": tenant.CreatedAt.Format(time.RFC3339),
	})
}

// --- locations ---

type createLocationRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateLocation(c *gin.Context) {
	session, _ := SessionFromContext(c)
	if s.locations == nil {
		writeError(c, http.StatusInternalServerError, "location store unavailable")
		return
	}
	var req createLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(c, http.StatusBadRequest, "name is required")
		return
	}
	location, err := s.locations.Create(c.Request.Context(), domain.Location{
		TenantID:  session.TenantID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":        location.ID,
		"tenant_id": location.TenantID,
		"name":      location.Name,
	})
}

func (s *Server) handleListLocations(c *gin.Context) {
	session, _ := SessionFromContext(c)
	if s.locations == nil {
		writeError(c, http.StatusInternalServerError, "location store unavailable")
		return
	}
	locations, err := s.locations.ListByTenant(c.Request.Context(), session.TenantID)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	out := make([]gin.H, 0, len(locations))
	for _, location := range locations {
		out = append(out, gin.H{
			"id":        location.ID,
			"tenant_id": location.TenantID,
			"name":      location.Name,
		})
	}
	c.JSON(http.StatusOK, gin.H{"locations": out})
}

// --- devices ---

type registerDeviceRequest struct {
	DeviceKey  string `json:"device_key"`
	Trust      string `json:"trust"`
	LocationID string `json:"location_id"`
}

func (s *Server) handleRegisterDevice(c *gin.Context) {
	session, _ := SessionFromContext(c)
	if s.devices == nil {
		writeError(c, http.StatusInternalServerError, "device store unavailable")
		return
	}
	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	deviceKey := strings.TrimSpace(req.DeviceKey)
	if deviceKey == "" {
		writeError(c, http.StatusBadRequest, "device_key is required")
		return
	}
	trust := domain.DeviceTrust(req.Trust)
	if trust == "" {
		trust = domain.DeviceTrustMedium
	}
	switch trust {
	case domain.DeviceTrustHigh, domain.DeviceTrustMedium, domain.DeviceTrustLow:
	default:
		writeError(c, http.StatusBadRequest, "trust must be high, medium or low")
		return
	}

	status := domain.DevicePending
	if s.enrollOpen {
		status = domain.DeviceActive
	}
	locationID := strings.TrimSpace(req.LocationID)
	if locationID != "" {
		if _, ok := parseUUIDField(c, "location_id", locationID); !ok {
			return
		}
		if _, err := s.lookupTenantLocation(c, session.TenantID, locationID); err != nil {
			abortDomainError(c, err)
			return
		}
		status = domain.DeviceActive
	}

	device, err := s.devices.Register(c.Request.Context(), domain.Device{
		TenantID:   session.TenantID,
		DeviceKey:  deviceKey,
		LocationID: locationID,
		Status:     status,
		Trust:      trust,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDeviceResponse(device))
}

type assignDeviceRequest struct {
	LocationID string `json:"location_id"`
}

func (s *Server) handleAssignDevice(c *gin.Context) {
	session, _ := SessionFromContext(c)
	if s.devices == nil {
		writeError(c, http.StatusInternalServerError, "device store unavailable")
		return
	}
	deviceKey := strings.TrimSpace(c.Param("device_key"))
	if deviceKey == "" {
		writeError(c, http.StatusBadRequest, "device_key is required")
		return
	}
	var req assignDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	locationID, ok := parseUUIDField(c, "location_id", req.LocationID)
	if !ok {
		return
	}
	if _, err := s.lookupTenantLocation(c, session.TenantID, locationID); err != nil {
		abortDomainError(c, err)
		return
	}

	device, err := s.devices.AssignLocation(c.Request.Context(), session.TenantID, deviceKey, locationID)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	if s.audit != nil {
		if err := s.audit.EmitDeviceAssigned(c.Request.Context(), session, device); err != nil {
			log.Printf("audit append failed: %v", err)
		}
	}
	c.JSON(http.StatusOK, toDeviceResponse(device))
}

func (s *Server) handleRevokeDevice(c *gin.Context) {
	session, _ := SessionFromContext(c)
	if s.devices == nil {
		writeError(c, http.StatusInternalServerError, "device store unavailable")
		return
	}
	deviceKey := strings.TrimSpace(c.Param("device_key"))
	if deviceKey == "" {
		writeError(c, http.StatusBadRequest, "device_key is required")
		return
	}
	if err := s.devices.Revoke(c.Request.Context(), session.TenantID, deviceKey); err != nil {
		abortDomainError(c, err)
		return
	}
	if s.audit != nil {
		if err := s.audit.EmitDeviceRevoked(c.Request.Context(), session, deviceKey); err != nil {
			log.Printf("audit append failed: %v", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleListDevices(c *gin.Context) {
	session, _ := SessionFromContext(c)
	if s.devices == nil {
		writeError(c, http.StatusInternalServerError, "device store unavailable")
		return
	}
	devices, err := s.devices.ListByTenant(c.Request.Context(), session.TenantID)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	out := make([]deviceResponse, 0, len(devices))
	for _, device := range devices {
		out = append(out, toDeviceResponse(device))
	}
	c.JSON(http.StatusOK, gin.H{"devices": out})
}

// --- memberships ---

type inviteMemberRequest struct {
	SubjectID string `json:"subject_id"`
	Role      string `json:"role"`
}

func (s *Server) handleInviteMember(c *gin.Context) {
	session, _ := SessionFromContext(c)
	if s.memberships == nil {
		writeError(c, http.StatusInternalServerError, "membership store unavailable")
		return
	}
	var req inviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	subjectID, ok := parseUUIDField(c, "subject_id", req.SubjectID)
	if !ok {
		return
	}
	role := domain.Role(strings.TrimSpace(req.Role))
	if !role.Valid() {
		writeError(c, http.StatusBadRequest, "role must be owner, admin, editor or viewer")
		return
	}
	membership, err := s.memberships.Invite(c.Request.Context(), domain.Membership{
		TenantID:  session.TenantID,
		SubjectID: subjectID,
		Role:      role,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"tenant_id":  membership.TenantID,
		"subject_id": membership.SubjectID,
		"role":       string(membership.Role),
		"status":     string(membership.Status),
	})
}

func (s *Server) handleListMembers(c *gin.Context) {
	session, _ := SessionFromContext(c)
	if s.memberships == nil {
		writeError(c, http.StatusInternalServerError, "membership store unavailable")
		return
	}
	members, err := s.memberships.ListByTenant(c.Request.Context(), session.TenantID)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	out := make([]gin.H, 0, len(members))
	for _, membership := range members {
		out = append(out, gin.H{
			"subject_id": membership.SubjectID,
			"role":       string(membership.Role),
			"status":     string(membership.Status),
		})
	}
	c.JSON(http.StatusOK, gin.H{"members": out})
}

type acceptInviteRequest struct {
	TenantID string `json:"tenant_id"`
}

// handleAcceptInvite runs on the authn-only middleware: the caller is a
// verified subject who does not have an active role yet.
func (s *Server) handleAcceptInvite(c *gin.Context) {
	session, ok := SessionFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	if s.memberships == nil {
		writeError(c, http.StatusInternalServerError, "membership store unavailable")
		return
	}
	var req acceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	tenantID := strings.TrimSpace(req.TenantID)
	if tenantID == "" {
		tenantID = session.TenantID
	}
	if tenantID == "" {
		abortDomainError(c, domain.ErrTenantNotSet)
		return
	}
	membership, err := s.memberships.Accept(c.Request.Context(), tenantID, session.Subject.ID)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	// Record the subject so future resolutions can use the default
	// tenant without an explicit hint. Best effort.
	if s.users != nil {
		if err := s.users.Upsert(c.Request.Context(), domain.User{
			ID:              session.Subject.ID,
			Email:           session.Subject.Email,
			DefaultTenantID: membership.TenantID,
		}); err != nil {
			log.Printf("user upsert failed: %v", err)
		}
	}
	if s.audit != nil {
		if err := s.audit.EmitInviteAccepted(c.Request.Context(), session, membership); err != nil {
			log.Printf("audit append failed: %v", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"tenant_id":  membership.TenantID,
		"subject_id": membership.SubjectID,
		"role":       string(membership.Role),
		"status":     string(membership.Status),
	})
}

// handleListAuditEvents exposes the tenant's auth audit trail. The gating
// capability is not in any role table, so only wildcard holders reach it.
func (s *Server) handleListAuditEvents(c *gin.Context) {
	session, _ := SessionFromContext(c)
	if s.auditLog == nil {
		writeError(c, http.StatusInternalServerError, "audit store unavailable")
		return
	}
	events, err := s.auditLog.ListByTenant(c.Request.Context(), session.TenantID)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	out := make([]gin.H, 0, len(events))
	for _, event := range events {
		out = append(out, gin.H{
			"id":            event.ID,
			"actor_type":    string(event.ActorType),
			"actor_id_hash": event.ActorIDHash,
			"event_type":    event.EventType,
			"target_type":   event.TargetType,
			"target_id":     event.TargetID,
			"result":        string(event.Result),
			"error_code":    event.ErrorCode,
			"payload":       event.Payload,
			"created_at":    event.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}

func (s *Server) lookupTenantLocation(c *gin.Context, tenantID, locationID string) (*domain.Location, error) {
	if s.locations == nil {
		return nil, domain.ErrLocationNotFound
	}
	location, err := s.locations.GetByID(c.Request.Context(), tenantID, locationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrLocationNotFound
		}
		return nil, err
	}
	return location, nil
}
