// Package cryptoutils provides the cryptographic primitives behind the
// zero-knowledge storage scheme: password-based key derivation (PBKDF2),
// authenticated key wrapping (AES-256-GCM), and X25519 keypair generation.
//
// The primitives are deliberately thin wrappers over well-reviewed
// constructions. The package never performs I/O and never persists anything;
// callers own the lifecycle of all key material. Buffers holding secrets
// should be wiped with Zero once they are no longer needed.
//
// Server-side code calls Wrap exactly once per user, at registration, to
// protect the freshly generated private key under the password-derived key.
// Unwrap exists for clients (and tests): the server holds no password and
// therefore no unwrap path.
package cryptoutils
