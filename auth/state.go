package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateState returns a random 16-byte hex string for the OAuth2 state parameter.
func GenerateState() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "00000000000000000000000000000000"
	}
	return hex.EncodeToString(b)
}
