package models

import "time"

// TestRun records the metrics of one CI execution for a project. All metric
// fields are optional; only the owning project is required. RanAt is supplied
// by the client and is distinct from the server-side CreatedAt.
type TestRun struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"index;not null" json:"project_id"`
	CommitSHA string    `json:"commit_sha"`
	Branch    string    `json:"branch"`
	RubySpecs int       `json:"ruby_specs"`
	JSSpecs   int       `json:"js_specs"`
	Runtime   float64   `json:"runtime"`
	Coverage  float64   `json:"coverage"`
	RanAt     time.Time `json:"ran_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Project Project `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TotalSpecs is the combined spec count charted as one dataset.
func (t *TestRun) TotalSpecs() int {
	return t.RubySpecs + t.JSSpecs
}
