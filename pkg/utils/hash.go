package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash identifies file content independently of where it was uploaded.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
