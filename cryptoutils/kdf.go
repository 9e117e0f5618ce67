package cryptoutils

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/tasknest/vault-backend/interfaces"
)

const (
	// SaltSize is the KDF salt length in bytes.
	SaltSize = 16

	// KeySize is the derived key length in bytes, sized for AES-256.
	KeySize = 32

	// DefaultIterations is the PBKDF2 iteration count for new vaults.
	DefaultIterations = 600_000

	// MinIterations is the lowest iteration count the service accepts.
	// Records may carry higher counts for future cost migration.
	MinIterations = 100_000
)

// NewSalt generates a fresh random KDF salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	return salt, nil
}

// DeriveKey derives a 32-byte wrapping key from a password using
// PBKDF2-HMAC-SHA256. It is deterministic for fixed inputs and runs in time
// proportional to iterations; the cost is the point, so callers must not
// cache or shortcut it.
func DeriveKey(password, salt []byte, iterations int) ([]byte, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: iterations must be positive", interfaces.ErrInvalidParameter)
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", interfaces.ErrInvalidParameter, SaltSize, len(salt))
	}
	return pbkdf2.Key(password, salt, iterations, KeySize, sha256.New), nil
}

// Zero wipes a byte slice holding secret material.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
