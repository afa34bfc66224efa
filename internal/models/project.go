package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/djbender/lizard/utils"
)

// Project is a tracked codebase. Each project carries a unique API key that
// CI systems present as a bearer token when posting test runs.
type Project struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	APIKey    string    `gorm:"uniqueIndex;size:64" json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TestRuns []TestRun `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns the API key exactly once, immediately before the row
// is first persisted. A key set explicitly beforehand is left alone.
// Regeneration is never automatic.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.APIKey != "" {
		return nil
	}
	key, err := utils.GenerateAPIKey()
	if err != nil {
		return err
	}
	p.APIKey = key
	return nil
}
