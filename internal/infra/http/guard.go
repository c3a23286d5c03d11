package http

import (
	"log"
	"net/http"

	"dinehub/internal/domain"

	"github.com/gin-gonic/gin"
)

// requireCapabilities gates a route on the session's capability set. The
// missing-session check is defensive: it is unreachable when the session
// middleware ran first, and it fails as unauthenticated, not forbidden.
func (s *Server) requireCapabilities(mode domain.RequireMode, required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFromContext(c)
		if !ok {
			abortError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if !domain.Satisfies(session.Capabilities, required, mode) {
			if s.audit != nil {
				if err := s.audit.EmitAccessDenied(c.Request.Context(), session, required, mode); err != nil {
					log.Printf("audit append failed: %v", err)
				}
			}
			abortError(c, http.StatusForbidden, "insufficient capabilities")
			return
		}
		c.Next()
	}
}
