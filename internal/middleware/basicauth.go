package middleware

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/djbender/lizard/config"
	"github.com/djbender/lizard/utils"
)

// BasicAuthProduction adds an HTTP basic-auth lockdown over the whole
// interactive surface in production deployments. API paths are exempt; they
// carry their own credential. Missing credentials configuration is a 503,
// never a silent pass.
func BasicAuthProduction(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Production() || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Next()
			return
		}
		if cfg.Auth.BasicAuthUsername == "" || cfg.Auth.BasicAuthPassword == "" {
			c.String(http.StatusServiceUnavailable,
				"Configuration Error: Basic authentication credentials must be set in production")
			c.Abort()
			return
		}

		username, password, ok := parseBasicAuth(c.GetHeader("Authorization"))
		userOK := utils.SecureCompare(username, cfg.Auth.BasicAuthUsername)
		passOK := utils.SecureCompare(password, cfg.Auth.BasicAuthPassword)
		if !ok || !userOK || !passOK {
			c.Header("WWW-Authenticate", `Basic realm="Application"`)
			c.String(http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}

func parseBasicAuth(header string) (username, password string, ok bool) {
	encoded, found := strings.CutPrefix(header, "Basic ")
	if !found {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", false
	}
	username, password, ok = strings.Cut(string(decoded), ":")
	return username, password, ok
}
