package audit

import (
	"crypto/sha256"
	"encoding/hex"
)

// MaxHashSize is the maximum number of bytes hashed from large content.
// Hashing only the first 1MB keeps memory bounded while still providing
// collision resistance adequate for integrity verification.
const MaxHashSize = 1024 * 1024

// HashContent computes the SHA-256 hash of content and returns it
// hex-encoded. Content beyond MaxHashSize is not hashed. Returns an empty
// string for empty content.
func HashContent(content []byte) string {
	if len(content) == 0 {
		return ""
	}

	if len(content) > MaxHashSize {
		content = content[:MaxHashSize]
	}

	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// HashString hashes a string and returns the hex-encoded SHA-256 hash.
func HashString(content string) string {
	return HashContent([]byte(content))
}
