// Package identity derives stable project identifiers from paths.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// IDLength is the number of hex characters in a derived ID.
const IDLength = 16

// DeriveID returns the first IDLength hex characters of the SHA-256 digest
// of path. The input is hashed as given; callers canonicalize first.
func DeriveID(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])[:IDLength]
}
