package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/djbender/lizard/config"
	"github.com/djbender/lizard/internal/ratelimit"
)

// Throttle windows. Login attempts are keyed by client IP, API calls by the
// raw bearer token before any validation, so invalid keys consume quota too.
const (
	LoginLimit  = 5
	LoginWindow = 20 * time.Second
	APILimit    = 10
	APIWindow   = time.Minute
)

// RateLimit rejects requests over the throttle limits before any auth or
// business logic runs. The response body follows the surface: JSON under
// /api/, plain text elsewhere.
func RateLimit(store ratelimit.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.RateLimit.Disable {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		switch {
		case strings.HasPrefix(path, "/api/"):
			token, _ := BearerToken(c.GetHeader("Authorization"))
			if token == "" {
				// No identity to meter; the auth gate rejects these anyway.
				break
			}
			if !store.Allow("api:"+token, APILimit, APIWindow) {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
				return
			}
		case path == "/login" && c.Request.Method == http.MethodPost:
			if !store.Allow("login:"+c.ClientIP(), LoginLimit, LoginWindow) {
				c.String(http.StatusTooManyRequests, "Retry later\n")
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
