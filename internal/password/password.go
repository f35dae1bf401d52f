// Package password implements salted password hashing for stored credentials.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Changing them invalidates previously stored hashes,
// since the record format does not encode them.
const (
	saltLen   = 16
	timeCost  = 1
	memoryKiB = 64 * 1024
	threads   = 4
	keyLen    = 32
)

const separator = "$"

// Hash derives an Argon2id digest for the password under a fresh random salt
// and returns "hex(salt)$hex(digest)".
func Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, timeCost, memoryKiB, threads, keyLen)

	return hex.EncodeToString(salt) + separator + hex.EncodeToString(digest), nil
}

// Verify reports whether password matches the stored hash record. A malformed
// record (wrong part count, bad hex) is a mismatch, never an error.
func Verify(password, record string) bool {
	parts := strings.Split(record, separator)
	if len(parts) != 2 {
		return false
	}

	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	// A digest of any other length cannot have been produced by Hash, and
	// argon2 does not accept a zero output length.
	expected, err := hex.DecodeString(parts[1])
	if err != nil || len(expected) != keyLen {
		return false
	}

	digest := argon2.IDKey([]byte(password), salt, timeCost, memoryKiB, threads, keyLen)

	return subtle.ConstantTimeCompare(digest, expected) == 1
}
