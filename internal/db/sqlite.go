package db

import (
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/djbender/lizard/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = gorm.ErrRecordNotFound

// Open connects to the SQLite database at path and migrates the schema.
// Foreign keys are enabled so deleting a project cascades to its test runs.
func Open(path string) (*gorm.DB, error) {
	dsn := path + "?_foreign_keys=on"
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(&models.Project{}, &models.TestRun{}); err != nil {
		return nil, err
	}
	return database, nil
}

func CreateProject(db *gorm.DB, p *models.Project) error {
	return db.Create(p).Error
}

func GetProject(db *gorm.DB, id uint) (*models.Project, error) {
	var p models.Project
	if err := db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProjectByAPIKey resolves a bearer token to its project. A blank token
// never matches.
func GetProjectByAPIKey(db *gorm.DB, key string) (*models.Project, error) {
	if key == "" {
		return nil, ErrNotFound
	}
	var p models.Project
	if err := db.Where("api_key = ?", key).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func ListProjects(db *gorm.DB) ([]models.Project, error) {
	var projects []models.Project
	if err := db.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func UpdateProject(db *gorm.DB, id uint, updates map[string]interface{}) error {
	res := db.Model(&models.Project{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProject removes the project and, via the cascade constraint, every
// test run it owns and no others.
func DeleteProject(db *gorm.DB, id uint) error {
	res := db.Select("TestRuns").Delete(&models.Project{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func CreateTestRun(db *gorm.DB, run *models.TestRun) error {
	return db.Create(run).Error
}

// ProjectRunCounts maps each project id to its number of test runs.
func ProjectRunCounts(db *gorm.DB) (map[uint]int64, error) {
	type row struct {
		ProjectID uint
		N         int64
	}
	var rows []row
	err := db.Model(&models.TestRun{}).
		Select("project_id, count(*) as n").
		Group("project_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.ProjectID] = r.N
	}
	return counts, nil
}

// RecentTestRuns returns the latest runs across all projects, newest first,
// with the owning project preloaded.
func RecentTestRuns(db *gorm.DB, limit int) ([]models.TestRun, error) {
	var runs []models.TestRun
	err := db.Preload("Project").
		Order("ran_at desc").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

// RecentProjectRuns returns the project's latest runs, newest first.
func RecentProjectRuns(db *gorm.DB, projectID uint, limit int) ([]models.TestRun, error) {
	var runs []models.TestRun
	err := db.Where("project_id = ?", projectID).
		Order("ran_at desc").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

// ProjectRunsSince returns the project's runs with ran_at after the cutoff,
// ascending, for charting.
func ProjectRunsSince(db *gorm.DB, projectID uint, since time.Time) ([]models.TestRun, error) {
	var runs []models.TestRun
	err := db.Where("project_id = ? AND ran_at > ?", projectID, since).
		Order("ran_at asc").
		Find(&runs).Error
	return runs, err
}

// DeleteTestRun removes one run, but only when it belongs to the given
// project. Returns ErrNotFound otherwise.
func DeleteTestRun(db *gorm.DB, projectID, runID uint) error {
	res := db.Where("project_id = ?", projectID).Delete(&models.TestRun{}, runID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsNotFound reports whether err means "no such row".
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound)
}
