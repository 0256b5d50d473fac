package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashBytes returns the hex encoded SHA-256 digest of data
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SameContent reports whether two payloads hash identically
func SameContent(a, b []byte) bool {
	return len(a) == len(b) && HashBytes(a) == HashBytes(b)
}
