package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"dinehub/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionContextKey = "session"

	// Boundary headers. The tenant header is only ever a hint; the view-as
	// pair is consumed by member sessions alone.
	HeaderTenantID   = "X-Tenant-ID"
	HeaderViewAs     = "X-View-As"
	HeaderLocationID = "X-Location-ID"
	HeaderDeviceKey  = "X-Device-Key"
	HeaderAdminKey   = "X-Admin-Key"

	deviceKeyCookie = "device_key"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, errorResponse{Success: false, Message: message})
}

func abortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Success: false, Message: message})
}

// abortDomainError maps the error taxonomy onto the uniform envelope.
// Anything outside the taxonomy is an infrastructure failure: logged with
// request context and surfaced as 500, never silently downgraded to an
// empty-capability outcome.
func abortDomainError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		status, message = http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domain.ErrForbidden):
		status, message = http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrTenantNotSet):
		status, message = http.StatusConflict, "tenant not set"
	case errors.Is(err, domain.ErrDeviceNotAssigned):
		status, message = http.StatusConflict, "device not assigned to a location"
	case errors.Is(err, domain.ErrLocationHeaderRequired):
		status, message = http.StatusBadRequest, "location id header required"
	case errors.Is(err, domain.ErrLocationNotFound):
		status, message = http.StatusNotFound, "location not found"
	case errors.Is(err, domain.ErrDeviceRevoked):
		status, message = http.StatusConflict, "device revoked"
	case errors.Is(err, domain.ErrNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrInvalidArgument):
		status, message = http.StatusBadRequest, "invalid argument"
	case errors.Is(err, domain.ErrConflict):
		status, message = http.StatusConflict, "conflict"
	default:
		log.Printf("request failed: method=%s path=%s err=%v", c.Request.Method, c.Request.URL.Path, err)
	}
	abortError(c, status, message)
}

func extractBearerToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(value), "bearer ") {
		return ""
	}
	return strings.TrimSpace(value[len("bearer "):])
}

// SessionFromContext returns the finalized session the middleware attached.
func SessionFromContext(c *gin.Context) (domain.SessionContext, bool) {
	raw, ok := c.Get(sessionContextKey)
	if !ok {
		return domain.SessionContext{}, false
	}
	session, ok := raw.(domain.SessionContext)
	return session, ok
}

func parseUUIDField(c *gin.Context, name, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		writeError(c, http.StatusBadRequest, name+" is required")
		return "", false
	}
	if _, err := uuid.Parse(value); err != nil {
		writeError(c, http.StatusBadRequest, name+" must be a UUID")
		return "", false
	}
	return value, true
}
