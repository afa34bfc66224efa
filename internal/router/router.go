package router

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	gootelgin "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/djbender/lizard/config"
	"github.com/djbender/lizard/internal/handlers"
	"github.com/djbender/lizard/internal/middleware"
	"github.com/djbender/lizard/internal/ratelimit"
	"github.com/djbender/lizard/utils"
	"github.com/djbender/lizard/web"
)

// New assembles the gin engine. The three auth surfaces are fixed route
// groups decided here, at construction time: public (session lifecycle and
// health), site (session-gated HTML plus chart JSON), and api (bearer-token
// gated ingestion). The rate limiter runs globally, ahead of every gate.
func New(cfg *config.Config, database *gorm.DB, store ratelimit.Store, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.Default())
	if cfg.Telemetry.Enabled {
		r.Use(gootelgin.Middleware("lizard"))
	}
	if cfg.Telemetry.Metrics {
		prom := ginprometheus.NewPrometheus("lizard")
		prom.Use(r)
	}

	secret := cfg.Server.SessionSecret
	if secret == "" {
		// Sessions will not survive a restart without a configured secret.
		secret, _ = utils.GenerateAPIKey()
		logger.Warn("SESSION_SECRET not configured, sessions reset on restart")
	}
	r.Use(sessions.Sessions("lizard_session", cookie.NewStore([]byte(secret))))

	r.Use(middleware.RateLimit(store, cfg))
	r.Use(middleware.BasicAuthProduction(cfg))

	r.SetHTMLTemplate(template.Must(
		template.New("").Funcs(template.FuncMap{
			"coverageStatus": handlers.CoverageStatus,
			"coverageColor":  handlers.CoverageColor,
			"shortSHA":       shortSHA,
		}).ParseFS(web.Templates, "templates/*.html"),
	))

	sessionHandler := handlers.NewSessionHandler(cfg)
	dashboardHandler := handlers.NewDashboardHandler(database, logger)
	projectHandler := handlers.NewProjectHandler(database, logger)
	testRunHandler := handlers.NewTestRunHandler(database, logger)
	apiHandler := handlers.NewAPIHandler(database, logger)

	// Session lifecycle and health stay reachable in every auth state.
	r.GET("/login", sessionHandler.New)
	r.POST("/login", sessionHandler.Create)
	r.GET("/logout", sessionHandler.Destroy)
	r.POST("/logout", sessionHandler.Destroy)
	r.GET("/up", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	site := r.Group("")
	site.Use(middleware.SiteAuth(cfg))
	{
		site.GET("/", dashboardHandler.Index)
		site.POST("/generate_sample_data", dashboardHandler.GenerateSampleData)
		site.POST("/clear_sample_data", dashboardHandler.ClearSampleData)

		site.GET("/projects", projectHandler.Index)
		site.GET("/projects/new", projectHandler.New)
		site.POST("/projects", projectHandler.Create)
		site.GET("/projects/:id", projectHandler.Show)
		site.GET("/projects/:id/edit", projectHandler.Edit)
		site.PATCH("/projects/:id", projectHandler.Update)
		site.POST("/projects/:id", projectHandler.Update)
		site.DELETE("/projects/:id", projectHandler.Destroy)
		site.GET("/projects/:id/metrics", projectHandler.Metrics)

		site.DELETE("/projects/:id/test_runs/:run_id", testRunHandler.Destroy)

		// Browser forms cannot issue DELETE; these aliases serve the HTML UI.
		site.POST("/projects/:id/delete", projectHandler.Destroy)
		site.POST("/projects/:id/test_runs/:run_id/delete", testRunHandler.Destroy)
	}

	api := r.Group("/api")
	api.Use(middleware.APIKeyAuth(database))
	{
		api.POST("/v1/test_runs", apiHandler.CreateTestRun)
	}

	return r
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
