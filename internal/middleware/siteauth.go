package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/djbender/lizard/config"
)

// Session keys and the fixed expiry window for browser sessions.
const (
	SessionKeyAuthenticated = "authenticated"
	SessionKeyLoginTime     = "login_time"
	SessionMaxAge           = 24 * time.Hour
)

// FlashExpired is shown when a stale session is cleared, so the user can
// tell a timeout apart from never having logged in.
const FlashExpired = "Your session has expired. Please log in again."

// SiteAuth gates interactive routes behind the shared-password session.
// API routes never mount this middleware; that exemption is decided at
// router construction, not here. A missing SITE_PASSWORD is a deployment
// error and beats the redirect-to-login behavior so operators can tell
// "misconfigured" apart from "not logged in".
func SiteAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Auth.DisableSiteAuth {
			c.Next()
			return
		}
		if cfg.Auth.SitePassword == "" {
			c.String(http.StatusServiceUnavailable, "Configuration Error: SITE_PASSWORD must be set")
			c.Abort()
			return
		}

		session := sessions.Default(c)
		authenticated, _ := session.Get(SessionKeyAuthenticated).(bool)
		if authenticated {
			loginUnix, _ := session.Get(SessionKeyLoginTime).(int64)
			if loginUnix > 0 && time.Since(time.Unix(loginUnix, 0)) <= SessionMaxAge {
				c.Next()
				return
			}
			// Forced expiry: clear the stale session, then treat the request
			// as anonymous.
			session.Clear()
			session.AddFlash(FlashExpired)
			_ = session.Save()
		}

		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}
