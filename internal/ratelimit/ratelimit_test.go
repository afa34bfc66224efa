package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinLimit(t *testing.T) {
	store := NewMemoryStore()

	for i := 0; i < 5; i++ {
		assert.True(t, store.Allow("ip:1.2.3.4", 5, 20*time.Second), "attempt %d", i+1)
	}
	assert.False(t, store.Allow("ip:1.2.3.4", 5, 20*time.Second), "sixth attempt")
}

func TestKeysAreIndependent(t *testing.T) {
	store := NewMemoryStore()

	for i := 0; i < 5; i++ {
		store.Allow("ip:1.2.3.4", 5, 20*time.Second)
	}
	assert.False(t, store.Allow("ip:1.2.3.4", 5, 20*time.Second))
	assert.True(t, store.Allow("ip:5.6.7.8", 5, 20*time.Second))
	assert.True(t, store.Allow("api:sometoken", 10, time.Minute))
}

func TestWindowResets(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	for i := 0; i < 6; i++ {
		store.Allow("k", 5, 20*time.Second)
	}
	assert.False(t, store.Allow("k", 5, 20*time.Second))

	now = now.Add(21 * time.Second)
	assert.True(t, store.Allow("k", 5, 20*time.Second), "fresh window")
}

func TestRejectedAttemptsConsumeQuota(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		store.Allow("k", 5, 20*time.Second)
	}
	// Still inside the same window; the rejected calls counted too.
	now = now.Add(19 * time.Second)
	assert.False(t, store.Allow("k", 5, 20*time.Second))
}
