package api

import "time"

// RegisterRequest creates a new user identity and vault.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse returns everything the client must retain to ever recover
// its private key: the KDF parameters, the wrapped key material, and the
// single-use wrap nonce. The server keeps no other path to the plaintext.
type RegisterResponse struct {
	Message             string `json:"message"`
	KDFSalt             string `json:"kdf_salt"`
	KDFIterations       int    `json:"kdf_iterations"`
	PublicKey           string `json:"public_key"`
	EncryptedPrivateKey string `json:"encrypted_private_key"`
	IV                  string `json:"iv"`
}

// LoginRequest authenticates an existing user.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// EncryptionInfo is the wrap material block in the login response, returned
// verbatim from the vault record. The nonce is embedded at the front of
// EncryptedPrivateKey.
type EncryptionInfo struct {
	KDFSalt             string `json:"kdf_salt"`
	KDFIterations       int    `json:"kdf_iterations"`
	PublicKey           string `json:"public_key"`
	EncryptedPrivateKey string `json:"encrypted_private_key"`
}

// UserInfo identifies the authenticated account.
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResponse carries the session credentials and the encryption block.
type LoginResponse struct {
	User       UserInfo       `json:"user"`
	Access     string         `json:"access"`
	Refresh    string         `json:"refresh"`
	Encryption EncryptionInfo `json:"encryption"`
}

// RefreshRequest exchanges a refresh token for a new access token.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse carries the new access token.
type RefreshResponse struct {
	Access string `json:"access"`
}

// ObjectRequest creates or replaces an encrypted object. Ciphertext is
// base64; the object type is a path parameter, not a body field.
type ObjectRequest struct {
	Ciphertext string `json:"ciphertext"`
}

// ObjectResponse is one encrypted object on the wire.
type ObjectResponse struct {
	ID         int64     `json:"id"`
	Ciphertext string    `json:"ciphertext"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StatusResponse acknowledges a mutation with no other payload.
type StatusResponse struct {
	Status string `json:"status"`
}
