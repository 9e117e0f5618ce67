package interfaces

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidCredentials is returned on any login failure. It is
	// deliberately non-specific: an unknown username and a wrong password
	// produce the same error so responses cannot be used for enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrConflict is returned when a user or vault record already exists.
	ErrConflict = errors.New("record already exists")

	// ErrNotFound is returned when a record is absent, owned by a different
	// user, or tagged with a different object type. The three cases are
	// indistinguishable to the caller by design.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidParameter is returned for malformed input: missing
	// ciphertext, bad KDF parameters, an over-long object type.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrAuthenticationFailure is returned by the AEAD cipher when the
	// authentication tag does not verify: wrong key, wrong nonce, or
	// tampered ciphertext.
	ErrAuthenticationFailure = errors.New("message authentication failed")
)

// UserID identifies a user account.
type UserID int64

// CryptoVersionAESGCM is the only key-wrapping scheme currently in use:
// PBKDF2-HMAC-SHA256 derivation, AES-256-GCM wrap, X25519 keypair.
const CryptoVersionAESGCM = 1

// MaxObjectTypeLen bounds the object type tag, matching the storage column.
const MaxObjectTypeLen = 32

// ObjectType partitions a user's encrypted objects. The server treats it as
// an opaque key and never inspects its semantics; clients typically use tags
// like "task", "note" or "settings".
type ObjectType string

// Validate checks the tag is non-empty and fits the storage column.
func (t ObjectType) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: empty object type", ErrInvalidParameter)
	}
	if len(t) > MaxObjectTypeLen {
		return fmt.Errorf("%w: object type longer than %d bytes", ErrInvalidParameter, MaxObjectTypeLen)
	}
	return nil
}

// User is an account identity. PasswordHash is the bcrypt hash used for
// authentication only; it plays no role in key derivation.
type User struct {
	ID           UserID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// VaultRecord holds one user's key material. The private key is stored
// wrapped as nonce||ciphertext||tag under a key derived from the user's
// password; the server holds no path to the plaintext.
//
// Invariant: PublicKey and EncryptedPrivateKey are set together, atomically,
// at registration. A record with one but not the other indicates a bug.
type VaultRecord struct {
	UserID              UserID
	KDFSalt             []byte
	KDFIterations       int
	PublicKey           []byte
	EncryptedPrivateKey []byte
	CryptoVersion       int
	CreatedAt           time.Time
}

// HasKeys reports whether the keypair has been generated and persisted.
func (v *VaultRecord) HasKeys() bool {
	return len(v.PublicKey) > 0 && len(v.EncryptedPrivateKey) > 0
}

// EncryptedObject is an opaque ciphertext blob. The server never decrypts or
// validates Ciphertext; corruption is detected client-side by the AEAD tag.
type EncryptedObject struct {
	ID         int64
	OwnerID    UserID
	ObjectType ObjectType
	Ciphertext []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
