package http

import (
	"net/http"
	"strconv"
	"time"

	"dinehub/internal/domain"

	"github.com/gin-gonic/gin"
)

// enforceRateLimit throttles session resolution per client address, with an
// optional subject dimension taken from the tenant hint. Limiter outages
// fail open unless configured closed.
func (s *Server) enforceRateLimit(c *gin.Context) bool {
	if s.rateLimiter == nil || s.rateLimitRequests <= 0 {
		return true
	}
	key := "ip:" + c.ClientIP()
	if s.rateLimitWithSubject {
		if tenant := c.GetHeader(HeaderTenantID); tenant != "" {
			key = key + ":tenant:" + tenant
		}
	}

	decision, err := s.rateLimiter.Allow(c.Request.Context(), key, s.rateLimitRequests, s.rateLimitWindow)
	if err != nil {
		if s.rateLimitFailClosed {
			abortError(c, http.StatusTooManyRequests, "rate limiter unavailable")
			return false
		}
		return true
	}
	writeRateLimitHeaders(c, decision)
	if !decision.Allowed {
		abortError(c, http.StatusTooManyRequests, "rate limit exceeded")
		return false
	}
	return true
}

func writeRateLimitHeaders(c *gin.Context, decision domain.RateLimitDecision) {
	if decision.Limit > 0 {
		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
	}
	if decision.Remaining >= 0 {
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	}
	if !decision.ResetAt.IsZero() {
		c.Header("RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
		if !decision.Allowed {
			retryAfter := int64(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
		}
	}
}
