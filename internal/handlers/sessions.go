package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/djbender/lizard/config"
	"github.com/djbender/lizard/internal/middleware"
	"github.com/djbender/lizard/utils"
)

type SessionHandler struct {
	Cfg *config.Config
}

func NewSessionHandler(cfg *config.Config) *SessionHandler {
	return &SessionHandler{Cfg: cfg}
}

// GET /login
func (h *SessionHandler) New(c *gin.Context) {
	if h.Cfg.Auth.DisableSiteAuth {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Flashes": takeFlashes(c),
	})
}

// POST /login
func (h *SessionHandler) Create(c *gin.Context) {
	if h.Cfg.Auth.SitePassword == "" {
		c.String(http.StatusServiceUnavailable, "Configuration Error: SITE_PASSWORD must be set")
		return
	}

	password := c.PostForm("password")
	if !utils.SecureCompare(password, h.Cfg.Auth.SitePassword) {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Alert":   "Invalid password",
			"Flashes": takeFlashes(c),
		})
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionKeyAuthenticated, true)
	session.Set(middleware.SessionKeyLoginTime, time.Now().Unix())
	session.AddFlash("Successfully logged in")
	_ = session.Save()
	c.Redirect(http.StatusFound, "/")
}

// GET|POST /logout
func (h *SessionHandler) Destroy(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.AddFlash("Logged out successfully")
	_ = session.Save()
	c.Redirect(http.StatusFound, "/login")
}

// takeFlashes drains one-shot messages from the session for rendering.
func takeFlashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = session.Save()
	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages
}
