package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/djbender/lizard/internal/db"
	"github.com/djbender/lizard/internal/models"
)

type ProjectHandler struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewProjectHandler(database *gorm.DB, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{DB: database, Logger: logger}
}

// GET /projects
func (h *ProjectHandler) Index(c *gin.Context) {
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
	c.HTML(http.StatusOK, "projects_index.html", gin.H{
		"Projects":  projects,
		"RunCounts": counts,
		"Flashes":   takeFlashes(c),
	})
}

// GET /projects/new
func (h *ProjectHandler) New(c *gin.Context) {
	c.HTML(http.StatusOK, "projects_new.html", gin.H{"Name": ""})
}

// POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.HTML(http.StatusUnprocessableEntity, "projects_new.html", gin.H{
			"Errors": []string{"Name can't be blank"},
			"Name":   name,
		})
		return
	}

	project := models.Project{Name: name}
	if err := db.CreateProject(h.DB, &project); err != nil {
		h.serverError(c, err)
		return
	}
	flashAndRedirect(c, "Project was successfully created.", "/projects/"+strconv.FormatUint(uint64(project.ID), 10))
}

// GET /projects/:id
func (h *ProjectHandler) Show(c *gin.Context) {
	project, ok := h.findProject(c)
	if !ok {
		return
	}
	recentRuns, err := db.RecentProjectRuns(h.DB, project.ID, 10)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.HTML(http.StatusOK, "projects_show.html", gin.H{
		"Project":    project,
		"RecentRuns": recentRuns,
		"Flashes":    takeFlashes(c),
	})
}

// GET /projects/:id/edit
func (h *ProjectHandler) Edit(c *gin.Context) {
	project, ok := h.findProject(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "projects_edit.html", gin.H{
		"Project": project,
	})
}

// PATCH|POST /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	project, ok := h.findProject(c)
	if !ok {
		return
	}
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.HTML(http.StatusUnprocessableEntity, "projects_edit.html", gin.H{
			"Project": project,
			"Errors":  []string{"Name can't be blank"},
		})
		return
	}
	if err := db.UpdateProject(h.DB, project.ID, map[string]interface{}{"name": name}); err != nil {
		h.serverError(c, err)
		return
	}
	flashAndRedirect(c, "Project was successfully updated.", "/projects/"+strconv.FormatUint(uint64(project.ID), 10))
}

// DELETE /projects/:id
func (h *ProjectHandler) Destroy(c *gin.Context) {
	project, ok := h.findProject(c)
	if !ok {
		return
	}
	if err := db.DeleteProject(h.DB, project.ID); err != nil {
		h.serverError(c, err)
		return
	}
	flashAndRedirect(c, "Project was successfully deleted.", "/projects")
}

// metricsDataset is one Chart.js line in the metrics payload.
type metricsDataset struct {
	Label       string    `json:"label"`
	Data        []float64 `json:"data"`
	BorderColor string    `json:"borderColor"`
	YAxisID     string    `json:"yAxisID"`
}

// GET /projects/:id/metrics?days=N
//
// Returns labels and three datasets (coverage, total specs, runtime) aligned
// index-for-index, covering runs whose ran_at falls within the last N days,
// ascending.
func (h *ProjectHandler) Metrics(c *gin.Context) {
	project, ok := h.findProject(c)
	if !ok {
		return
	}

	days := 30
	if raw := c.Query("days"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			days = n
		}
	}

	runs, err := db.ProjectRunsSince(h.DB, project.ID, time.Now().AddDate(0, 0, -days))
	if err != nil {
		h.serverError(c, err)
		return
	}

	labels := make([]string, len(runs))
	coverage := make([]float64, len(runs))
	totalSpecs := make([]float64, len(runs))
	runtime := make([]float64, len(runs))
	for i, run := range runs {
		labels[i] = run.RanAt.Format("01/02 15:04")
		coverage[i] = run.Coverage
		totalSpecs[i] = float64(run.TotalSpecs())
		runtime[i] = run.Runtime
	}

	c.JSON(http.StatusOK, gin.H{
		"labels": labels,
		"datasets": []metricsDataset{
			{Label: "Coverage %", Data: coverage, BorderColor: "rgb(75, 192, 192)", YAxisID: "y"},
			{Label: "Total Specs", Data: totalSpecs, BorderColor: "rgb(255, 99, 132)", YAxisID: "y1"},
			{Label: "Runtime (seconds)", Data: runtime, BorderColor: "rgb(255, 205, 86)", YAxisID: "y2"},
		},
	})
}

// findProject resolves :id or writes a 404.
func (h *ProjectHandler) findProject(c *gin.Context) (*models.Project, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.String(http.StatusNotFound, "Not Found")
		c.Abort()
		return nil, false
	}
	project, err := db.GetProject(h.DB, uint(id))
	if err != nil {
		if db.IsNotFound(err) {
			c.String(http.StatusNotFound, "Not Found")
		} else {
			h.serverError(c, err)
		}
		c.Abort()
		return nil, false
	}
	return project, true
}

func (h *ProjectHandler) serverError(c *gin.Context, err error) {
	h.Logger.Error("project request failed", zap.Error(err))
	c.String(http.StatusInternalServerError, "Internal Server Error")
	c.Abort()
}
