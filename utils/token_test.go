package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKey(t *testing.T) {
	key, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.Len(t, key, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", key)

	other, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, SecureCompare("hunter2", "hunter2"))
	assert.False(t, SecureCompare("hunter2", "hunter3"))
	assert.False(t, SecureCompare("hunter2", "hunter22"))
	assert.True(t, SecureCompare("", ""))
}
