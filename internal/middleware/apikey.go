package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/djbender/lizard/internal/db"
	"github.com/djbender/lizard/internal/models"
)

// ContextProjectKey holds the project resolved from the bearer token.
const ContextProjectKey = "project"

// BearerToken extracts the credential from an Authorization header of the
// form "Bearer <token>".
func BearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// APIKeyAuth authenticates API requests by resolving the bearer token to a
// project and binding it to the request context. Missing, malformed, and
// unknown credentials all get the same generic 401 body; the response never
// reveals which part of the credential was wrong. This gate never consults
// the browser session and never redirects.
func APIKeyAuth(database *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			rejectAPIKey(c)
			return
		}
		project, err := db.GetProjectByAPIKey(database, token)
		if err != nil {
			rejectAPIKey(c)
			return
		}
		c.Set(ContextProjectKey, project)
		c.Next()
	}
}

func rejectAPIKey(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
}

// ProjectFromContext returns the project bound by APIKeyAuth.
func ProjectFromContext(c *gin.Context) (*models.Project, bool) {
	value, exists := c.Get(ContextProjectKey)
	if !exists {
		return nil, false
	}
	project, ok := value.(*models.Project)
	return project, ok
}
