package cryptoutils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/tasknest/vault-backend/interfaces"
)

// NonceSize is the AES-GCM nonce length in bytes.
const NonceSize = 12

// Wrap encrypts plaintext under a 32-byte key with AES-256-GCM and a fresh
// random nonce. The returned ciphertext carries the appended authentication
// tag. Nonce reuse under the same key is a protocol violation; freshness per
// call is the only thing preventing it, which is acceptable for the single
// wrap-per-user-lifetime use this backend makes of it.
func Wrap(key, plaintext []byte) (nonce, ciphertext []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("generating nonce: %w", err)
	}
	return nonce, aead.Seal(nil, nonce, plaintext, nil), nil
}

// Unwrap decrypts and authenticates ciphertext produced by Wrap. Any bit
// flip, wrong key, or wrong nonce yields ErrAuthenticationFailure; it never
// returns garbage plaintext silently.
func Unwrap(key, nonce, ciphertext []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d", interfaces.ErrInvalidParameter, NonceSize, len(nonce))
	}
	pt, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, interfaces.ErrAuthenticationFailure
	}
	return pt, nil
}

// JoinWrapped concatenates nonce and ciphertext into the single blob layout
// used at rest: nonce||ciphertext||tag.
func JoinWrapped(nonce, ciphertext []byte) []byte {
	out := make([]byte, 0, len(nonce)+len(ciphertext))
	out = append(out, nonce...)
	return append(out, ciphertext...)
}

// SplitWrapped splits a blob stored by JoinWrapped back into nonce and
// ciphertext. The tag stays appended to the ciphertext.
func SplitWrapped(blob []byte) (nonce, ciphertext []byte, err error) {
	if len(blob) <= NonceSize {
		return nil, nil, fmt.Errorf("%w: wrapped blob too short", interfaces.ErrInvalidParameter)
	}
	return blob[:NonceSize], blob[NonceSize:], nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", interfaces.ErrInvalidParameter, KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
