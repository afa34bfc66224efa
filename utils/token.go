package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// GenerateAPIKey returns a fresh project API key: 32 random bytes rendered
// as a 64-character hex string (128+ bits of entropy, collisions negligible).
func GenerateAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// SecureCompare reports whether a and b are equal without leaking timing
// information. Used for the site password and basic-auth credentials.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
