package account

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashPassword returns the hex-encoded SHA-256 digest of the plaintext.
// Deterministic and unsalted; login compares stored and computed
// digests directly.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
