package util

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a 32-character random hex identifier. Used for portal
// entities and request correlation ids.
func NewID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
