package cryptoutils

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/vault-backend/interfaces"
)

func randKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestWrapUnwrapRoundTrip(t *testing.T) {
	key := randKey(t)
	plaintext := []byte("raw x25519 private key bytes....")

	nonce, ct, err := Wrap(key, plaintext)
	require.NoError(t, err)
	assert.Len(t, nonce, NonceSize)
	assert.Greater(t, len(ct), len(plaintext)) // appended tag

	out, err := Unwrap(key, nonce, ct)
	require.NoError(t, err)
	assert.Equal(t, plaintext, out)
}

func TestUnwrapWrongKey(t *testing.T) {
	key := randKey(t)
	nonce, ct, err := Wrap(key, []byte("secret"))
	require.NoError(t, err)

	_, err = Unwrap(randKey(t), nonce, ct)
	assert.ErrorIs(t, err, interfaces.ErrAuthenticationFailure)
}

func TestUnwrapWrongNonce(t *testing.T) {
	key := randKey(t)
	nonce, ct, err := Wrap(key, []byte("secret"))
	require.NoError(t, err)

	bad := append([]byte(nil), nonce...)
	bad[0] ^= 0x01
	_, err = Unwrap(key, bad, ct)
	assert.ErrorIs(t, err, interfaces.ErrAuthenticationFailure)
}

func TestUnwrapTamperedCiphertext(t *testing.T) {
	key := randKey(t)
	nonce, ct, err := Wrap(key, []byte("secret"))
	require.NoError(t, err)

	for i := range ct {
		mut := append([]byte(nil), ct...)
		mut[i] ^= 0xFF
		_, err := Unwrap(key, nonce, mut)
		assert.ErrorIs(t, err, interfaces.ErrAuthenticationFailure, "flip at byte %d", i)
	}
}

func TestWrapFreshNonce(t *testing.T) {
	key := randKey(t)
	n1, _, err := Wrap(key, []byte("same plaintext"))
	require.NoError(t, err)
	n2, _, err := Wrap(key, []byte("same plaintext"))
	require.NoError(t, err)
	assert.NotEqual(t, n1, n2)
}

func TestWrapBadKeySize(t *testing.T) {
	_, _, err := Wrap([]byte("short"), []byte("pt"))
	assert.ErrorIs(t, err, interfaces.ErrInvalidParameter)
}

func TestJoinSplitWrapped(t *testing.T) {
	key := randKey(t)
	nonce, ct, err := Wrap(key, []byte("secret"))
	require.NoError(t, err)

	blob := JoinWrapped(nonce, ct)
	gotNonce, gotCT, err := SplitWrapped(blob)
	require.NoError(t, err)
	assert.Equal(t, nonce, gotNonce)
	assert.Equal(t, ct, gotCT)

	out, err := Unwrap(key, gotNonce, gotCT)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), out)

	_, _, err = SplitWrapped(blob[:NonceSize])
	assert.ErrorIs(t, err, interfaces.ErrInvalidParameter)
}

func TestGenerateKeypair(t *testing.T) {
	priv, pub, err := GenerateKeypair()
	require.NoError(t, err)
	assert.Len(t, priv, KeypairSize)
	assert.Len(t, pub, KeypairSize)

	derived, err := PublicKeyFor(priv)
	require.NoError(t, err)
	assert.Equal(t, pub, derived)

	priv2, pub2, err := GenerateKeypair()
	require.NoError(t, err)
	assert.NotEqual(t, priv, priv2)
	assert.NotEqual(t, pub, pub2)
}
