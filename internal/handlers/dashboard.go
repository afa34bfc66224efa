package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/djbender/lizard/internal/db"
)

type DashboardHandler struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewDashboardHandler(database *gorm.DB, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{DB: database, Logger: logger}
}

// GET /
func (h *DashboardHandler) Index(c *gin.Context) {
	projects, err := db.ListProjects(h.DB)
	if err != nil {
		h.serverError(c, err)
		return
	}
	counts, err := db.ProjectRunCounts(h.DB)
	if err != nil {
		h.serverError(c, err)
		return
	}
	recentRuns, err := db.RecentTestRuns(h.DB, 10)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Projects":   projects,
		"RunCounts":  counts,
		"RecentRuns": recentRuns,
		"Flashes":    takeFlashes(c),
	})
}

// POST /generate_sample_data
func (h *DashboardHandler) GenerateSampleData(c *gin.Context) {
	if err := db.GenerateSampleData(h.DB); err != nil {
		h.serverError(c, err)
		return
	}
	flashAndRedirect(c, "Sample data generated", "/")
}

// POST /clear_sample_data
func (h *DashboardHandler) ClearSampleData(c *gin.Context) {
	if err := db.ClearSampleData(h.DB); err != nil {
		h.serverError(c, err)
		return
	}
	flashAndRedirect(c, "Sample data cleared", "/")
}

func (h *DashboardHandler) serverError(c *gin.Context, err error) {
	h.Logger.Error("dashboard query failed", zap.Error(err))
	c.String(http.StatusInternalServerError, "Internal Server Error")
}

func flashAndRedirect(c *gin.Context, message, location string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	_ = session.Save()
	c.Redirect(http.StatusFound, location)
}

// CoverageStatus buckets a coverage percentage for display.
func CoverageStatus(coverage float64) string {
	switch {
	case coverage >= 90:
		return "excellent"
	case coverage >= 70:
		return "good"
	default:
		return "needs-improvement"
	}
}

// CoverageColor maps a coverage percentage to its badge color.
func CoverageColor(coverage float64) string {
	switch {
	case coverage >= 90:
		return "green"
	case coverage >= 70:
		return "orange"
	default:
		return "red"
	}
}
