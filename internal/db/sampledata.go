package db

import (
	"crypto/rand"
	"encoding/hex"
	"math"
	mrand "math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/djbender/lizard/internal/models"
)

// SampleProjectName identifies the project owned by the sample-data helpers.
const SampleProjectName = "Test Project"

// GenerateSampleData seeds one demo project with 30 test runs, one per day
// over the past month. Reuses the project row when it already exists, so
// repeated calls only add runs.
func GenerateSampleData(db *gorm.DB) error {
	var project models.Project
	err := db.Where("name = ?", SampleProjectName).First(&project).Error
	if IsNotFound(err) {
		project = models.Project{Name: SampleProjectName}
		err = CreateProject(db, &project)
	}
	if err != nil {
		return err
	}

	branches := []string{"main", "main", "main", "feature/auth", "feature/dashboard", "fix/flaky-specs"}
	now := time.Now()

	for i := 0; i < 30; i++ {
		ranAt := now.AddDate(0, 0, -(29 - i))
		// Jitter all but the newest run, which stays pinned to today.
		if i < 29 {
			ranAt = ranAt.Add(-time.Duration(mrand.Intn(6)) * time.Hour)
		}

		// Coverage trends upward across the month with some noise. Roughly
		// one run in six is a "bad run" with fewer specs and a longer runtime.
		coverage := 70 + float64(i)*0.5 + mrand.Float64()*10
		coverage = math.Min(coverage, 100)
		rubySpecs := 80 + mrand.Intn(31)
		jsSpecs := 30 + mrand.Intn(31)
		runtime := 20 + mrand.Float64()*40
		if mrand.Intn(6) == 0 {
			rubySpecs -= 20
			runtime += 20
		}

		run := models.TestRun{
			ProjectID: project.ID,
			CommitSHA: randomSHA(),
			Branch:    branches[mrand.Intn(len(branches))],
			RubySpecs: rubySpecs,
			JSSpecs:   jsSpecs,
			Runtime:   runtime,
			Coverage:  coverage,
			RanAt:     ranAt,
		}
		if err := CreateTestRun(db, &run); err != nil {
			return err
		}
	}
	return nil
}

// ClearSampleData deletes the demo project's runs. The project row itself
// survives, so its API key stays stable across clear/generate cycles. A
// no-op when the project does not exist.
func ClearSampleData(db *gorm.DB) error {
	var project models.Project
	err := db.Where("name = ?", SampleProjectName).First(&project).Error
	if IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return db.Where("project_id = ?", project.ID).Delete(&models.TestRun{}).Error
}

func randomSHA() string {
	b := make([]byte, 20)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
