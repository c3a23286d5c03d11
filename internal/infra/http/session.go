package http

import (
	"errors"
	"log"
	"net/http"

	"dinehub/internal/domain"
	"dinehub/internal/usecase"

	"github.com/gin-gonic/gin"
)

// sessionMiddleware runs the full pipeline: resolve the bearer credential
// into a normalized session, then apply scope. The finalized context is
// attached for the guard and handlers downstream.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := s.resolveSession(c)
		if !ok {
			return
		}
		scoped, err := s.applier.Apply(c.Request.Context(), session, usecase.ScopeRequest{
			ViewAs:     c.GetHeader(HeaderViewAs),
			LocationID: c.GetHeader(HeaderLocationID),
		})
		if err != nil {
			s.auditSession(c, session, domain.AuditResultError, scopeErrorCode(err))
			abortDomainError(c, err)
			return
		}
		s.auditSession(c, scoped, domain.AuditResultSuccess, "")
		c.Set(sessionContextKey, scoped)
		c.Next()
	}
}

// authnMiddleware resolves the credential without applying scope. It exists
// for pre-onboarding flows (invite acceptance) where the caller is a valid
// subject that has no role and no device binding yet.
func (s *Server) authnMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := s.resolveSession(c)
		if !ok {
			return
		}
		c.Set(sessionContextKey, session)
		c.Next()
	}
}

func (s *Server) resolveSession(c *gin.Context) (domain.SessionContext, bool) {
	if s.resolver == nil {
		abortError(c, http.StatusInternalServerError, "auth misconfigured")
		return domain.SessionContext{}, false
	}
	if !s.enforceRateLimit(c) {
		return domain.SessionContext{}, false
	}
	creds := usecase.Credentials{
		BearerToken: extractBearerToken(c.GetHeader("Authorization")),
		TenantHint:  c.GetHeader(HeaderTenantID),
		DeviceKey:   deviceKeyFromRequest(c),
	}
	session, err := s.resolver.Authenticate(c.Request.Context(), creds)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			abortError(c, http.StatusUnauthorized, "authentication required")
		} else {
			abortDomainError(c, err)
		}
		return domain.SessionContext{}, false
	}
	return session, true
}

// deviceKeyFromRequest prefers the durable cookie; the header form exists
// for POS clients without a cookie jar.
func deviceKeyFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(deviceKeyCookie); err == nil && cookie != "" {
		return cookie
	}
	return c.GetHeader(HeaderDeviceKey)
}

func (s *Server) auditSession(c *gin.Context, session domain.SessionContext, result domain.AuditResult, errorCode string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.EmitSessionResolved(c.Request.Context(), session, result, errorCode); err != nil {
		log.Printf("audit append failed: %v", err)
	}
}

func scopeErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrTenantNotSet):
		return "TENANT_NOT_SET"
	case errors.Is(err, domain.ErrDeviceNotAssigned):
		return "DEVICE_NOT_ASSIGNED"
	case errors.Is(err, domain.ErrLocationHeaderRequired):
		return "LOCATION_HEADER_REQUIRED"
	case errors.Is(err, domain.ErrLocationNotFound):
		return "LOCATION_NOT_FOUND"
	default:
		return "INTERNAL"
	}
}
