package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/djbender/lizard/internal/db"
	"github.com/djbender/lizard/internal/middleware"
	"github.com/djbender/lizard/internal/models"
)

type APIHandler struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewAPIHandler(database *gorm.DB, logger *zap.Logger) *APIHandler {
	return &APIHandler{DB: database, Logger: logger}
}

// testRunPayload carries the recognized ingestion fields. Everything is
// optional; absent fields are stored zero-valued.
type testRunPayload struct {
	CommitSHA string    `json:"commit_sha"`
	Branch    string    `json:"branch"`
	RubySpecs int       `json:"ruby_specs"`
	JSSpecs   int       `json:"js_specs"`
	Runtime   float64   `json:"runtime"`
	Coverage  float64   `json:"coverage"`
	RanAt     time.Time `json:"ran_at"`
}

// POST /api/v1/test_runs
//
// The only external write path. Requires the project bound by the bearer
// token gate; applies no business validation to the payload.
func (h *APIHandler) CreateTestRun(c *gin.Context) {
	project, ok := middleware.ProjectFromContext(c)
	if !ok {
		// The gate always binds a project before this handler runs.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		return
	}

	var payload testRunPayload
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	run := models.TestRun{
		ProjectID: project.ID,
		CommitSHA: payload.CommitSHA,
		Branch:    payload.Branch,
		RubySpecs: payload.RubySpecs,
		JSSpecs:   payload.JSSpecs,
		Runtime:   payload.Runtime,
		Coverage:  payload.Coverage,
		RanAt:     payload.RanAt,
	}
	if err := db.CreateTestRun(h.DB, &run); err != nil {
		h.Logger.Error("test run insert failed",
			zap.Uint("project_id", project.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "id": run.ID})
}
