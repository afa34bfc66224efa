package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/djbender/lizard/internal/db"
)

type TestRunHandler struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewTestRunHandler(database *gorm.DB, logger *zap.Logger) *TestRunHandler {
	return &TestRunHandler{DB: database, Logger: logger}
}

// DELETE /projects/:id/test_runs/:run_id
//
// Deletes one run, 404 when the project is unknown or the run is not owned
// by it.
func (h *TestRunHandler) Destroy(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.String(http.StatusNotFound, "Not Found")
		return
	}
	runID, err := strconv.ParseUint(c.Param("run_id"), 10, 32)
	if err != nil {
		c.String(http.StatusNotFound, "Not Found")
		return
	}

	if _, err := db.GetProject(h.DB, uint(projectID)); err != nil {
		if db.IsNotFound(err) {
			c.String(http.StatusNotFound, "Not Found")
			return
		}
		h.Logger.Error("test run delete failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if err := db.DeleteTestRun(h.DB, uint(projectID), uint(runID)); err != nil {
		if db.IsNotFound(err) {
			c.String(http.StatusNotFound, "Not Found")
			return
		}
		h.Logger.Error("test run delete failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	flashAndRedirect(c, "Test run was successfully deleted.", "/projects/"+strconv.FormatUint(projectID, 10))
}
