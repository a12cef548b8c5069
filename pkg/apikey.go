package pkg

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateAPIKey returns a 64-character hex key for machine callers.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
