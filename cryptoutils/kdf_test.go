package cryptoutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/vault-backend/interfaces"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)
	require.Len(t, salt, SaltSize)

	k1, err := DeriveKey([]byte("p@ss"), salt, 1000)
	require.NoError(t, err)
	k2, err := DeriveKey([]byte("p@ss"), salt, 1000)
	require.NoError(t, err)

	assert.Len(t, k1, KeySize)
	assert.Equal(t, k1, k2)
}

func TestDeriveKeyInputSensitivity(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)

	base, err := DeriveKey([]byte("p@ss"), salt, 1000)
	require.NoError(t, err)

	otherPassword, err := DeriveKey([]byte("p@ss2"), salt, 1000)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherPassword)

	otherIterations, err := DeriveKey([]byte("p@ss"), salt, 1001)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherIterations)

	otherSalt, err := NewSalt()
	require.NoError(t, err)
	otherSaltKey, err := DeriveKey([]byte("p@ss"), otherSalt, 1000)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherSaltKey)
}

func TestDeriveKeyInvalidParameters(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)

	_, err = DeriveKey([]byte("p@ss"), salt, 0)
	assert.ErrorIs(t, err, interfaces.ErrInvalidParameter)

	_, err = DeriveKey([]byte("p@ss"), salt[:SaltSize-1], 1000)
	assert.ErrorIs(t, err, interfaces.ErrInvalidParameter)

	_, err = DeriveKey([]byte("p@ss"), nil, 1000)
	assert.ErrorIs(t, err, interfaces.ErrInvalidParameter)
}

func TestNewSaltUnique(t *testing.T) {
	s1, err := NewSalt()
	require.NoError(t, err)
	s2, err := NewSalt()
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	Zero(b)
	assert.Equal(t, []byte{0, 0, 0, 0}, b)
}
