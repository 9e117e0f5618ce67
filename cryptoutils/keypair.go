package cryptoutils

import (
	"crypto/ecdh"
	"crypto/rand"
	"fmt"
)

// KeypairSize is the raw X25519 key length in bytes, for both halves.
const KeypairSize = 32

// GenerateKeypair produces a fresh X25519 keypair as raw 32-byte strings.
// The private key must be wrapped before it is handed to persistence; the
// generator itself never persists anything.
func GenerateKeypair() (privateKey, publicKey []byte, err error) {
	key, err := ecdh.X25519().GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("generating X25519 keypair: %w", err)
	}
	return key.Bytes(), key.PublicKey().Bytes(), nil
}

// PublicKeyFor recomputes the public half from raw private key bytes.
// Clients use it after unwrapping to verify the recovered key against the
// public key on record.
func PublicKeyFor(privateKey []byte) ([]byte, error) {
	key, err := ecdh.X25519().NewPrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("parsing X25519 private key: %w", err)
	}
	return key.PublicKey().Bytes(), nil
}
