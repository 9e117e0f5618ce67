// Package interfaces defines the shared domain types, error taxonomy, and
// persistence contracts used across the vault backend.
//
// The package contains no business logic. It exists so that the service layer
// (vault), the persistence layer (storage), and the HTTP handlers (api/*) can
// agree on types without importing each other.
//
// # Domain Types
//
//   - User: account identity with the authenticating password hash.
//   - VaultRecord: per-user key material - KDF parameters, the X25519 public
//     key, and the wrapped private key. The server can never open the wrapped
//     key; it only stores and serves it.
//   - EncryptedObject: an opaque ciphertext blob owned by one user and
//     partitioned by a caller-defined object type.
//
// # Error Taxonomy
//
// All failures surface as one of the sentinel errors declared here, wrapped
// with context at call sites. HTTP handlers map sentinels to status codes:
// ErrInvalidCredentials to 401, ErrConflict to 409, ErrNotFound to 404,
// ErrInvalidParameter to 400. ErrAuthenticationFailure is produced by the
// AEAD cipher on tag mismatch and only ever occurs client-side in this
// deployment, since the server never unwraps anything.
package interfaces
