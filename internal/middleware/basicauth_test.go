package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/djbender/lizard/config"
)

func basicAuthRig(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(BasicAuthProduction(cfg))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.POST("/api/v1/test_runs", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestBasicAuthSkippedOutsideProduction(t *testing.T) {
	cfg := &config.Config{}
	r := basicAuthRig(cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBasicAuthMissingCredentialsConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Env = "production"
	r := basicAuthRig(cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Configuration Error")
}

func TestBasicAuthChallengeAndAccept(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Env = "production"
	cfg.Auth.BasicAuthUsername = "admin"
	cfg.Auth.BasicAuthPassword = "hunter2"
	r := basicAuthRig(cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Basic")

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("admin:hunter2")))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("admin:wrong")))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBasicAuthExemptsAPIPaths(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Env = "production"
	r := basicAuthRig(cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/test_runs", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
