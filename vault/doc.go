// Package vault orchestrates registration and login for the zero-knowledge
// key scheme.
//
// Registration runs the full pipeline in one shot: fresh KDF salt, wrapping
// key derived from the submitted password, X25519 keypair, private key
// wrapped under the derived key with a fresh nonce, and a single atomic
// persist of user plus vault record. The derived key and the plaintext
// private key are wiped before Register returns.
//
// Login verifies credentials and hands back the stored wrap material
// verbatim. Nothing is ever decrypted server-side: only a client holding the
// password can re-derive the wrapping key and recover the private key.
package vault
