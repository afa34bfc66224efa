package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoverageStatus(t *testing.T) {
	assert.Equal(t, "excellent", CoverageStatus(95))
	assert.Equal(t, "excellent", CoverageStatus(90))
	assert.Equal(t, "good", CoverageStatus(75))
	assert.Equal(t, "good", CoverageStatus(70))
	assert.Equal(t, "needs-improvement", CoverageStatus(69.9))
	assert.Equal(t, "needs-improvement", CoverageStatus(0))
}

func TestCoverageColor(t *testing.T) {
	assert.Equal(t, "green", CoverageColor(92.5))
	assert.Equal(t, "orange", CoverageColor(80))
	assert.Equal(t, "red", CoverageColor(42))
}
