package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/vault-backend/interfaces"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := Open("sqlite://:memory:", log)
	require.NoError(t, err)
	return store
}

func newTestUser(t *testing.T, store *Store, username string) *interfaces.User {
	t.Helper()
	user := &interfaces.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$10$fakefakefakefakefakefak",
	}
	vault := &interfaces.VaultRecord{
		KDFSalt:             []byte("0123456789abcdef"),
		KDFIterations:       600_000,
		PublicKey:           make([]byte, 32),
		EncryptedPrivateKey: make([]byte, 60),
		CryptoVersion:       interfaces.CryptoVersionAESGCM,
	}
	require.NoError(t, store.CreateUserWithVault(context.Background(), user, vault))
	return user
}

func TestCreateUserWithVault(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := newTestUser(t, store, "alice")
	assert.NotZero(t, user.ID)

	got, err := store.UserByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "alice@example.com", got.Email)

	vault, err := store.VaultFor(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 600_000, vault.KDFIterations)
	assert.True(t, vault.HasKeys())
	assert.Equal(t, interfaces.CryptoVersionAESGCM, vault.CryptoVersion)
}

func TestCreateUserConflict(t *testing.T) {
	store := newTestStore(t)
	newTestUser(t, store, "alice")

	dup := &interfaces.User{Username: "alice", PasswordHash: "x"}
	err := store.CreateUserWithVault(context.Background(), dup, &interfaces.VaultRecord{
		KDFSalt:       []byte("0123456789abcdef"),
		KDFIterations: 600_000,
		CryptoVersion: interfaces.CryptoVersionAESGCM,
	})
	assert.ErrorIs(t, err, interfaces.ErrConflict)
}

func TestUserLookupNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.UserByName(ctx, "nobody")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	_, err = store.UserByID(ctx, 42)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	_, err = store.VaultFor(ctx, 42)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestObjectCreateAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := newTestUser(t, store, "alice")

	obj := &interfaces.EncryptedObject{
		OwnerID:    alice.ID,
		ObjectType: "task",
		Ciphertext: []byte{0, 0, 0},
	}
	require.NoError(t, store.Create(ctx, obj))
	assert.NotZero(t, obj.ID)

	second := &interfaces.EncryptedObject{OwnerID: alice.ID, ObjectType: "task", Ciphertext: []byte{1}}
	require.NoError(t, store.Create(ctx, second))

	objects, err := store.List(ctx, alice.ID, "task")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	// insertion order
	assert.Equal(t, obj.ID, objects[0].ID)
	assert.Equal(t, second.ID, objects[1].ID)
	assert.Equal(t, []byte{0, 0, 0}, objects[0].Ciphertext)
}

func TestListScopedByOwnerAndType(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := newTestUser(t, store, "alice")
	bob := newTestUser(t, store, "bob")

	require.NoError(t, store.Create(ctx, &interfaces.EncryptedObject{OwnerID: alice.ID, ObjectType: "task", Ciphertext: []byte("a")}))
	require.NoError(t, store.Create(ctx, &interfaces.EncryptedObject{OwnerID: alice.ID, ObjectType: "settings", Ciphertext: []byte("b")}))
	require.NoError(t, store.Create(ctx, &interfaces.EncryptedObject{OwnerID: bob.ID, ObjectType: "task", Ciphertext: []byte("c")}))

	objects, err := store.List(ctx, alice.ID, "task")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, []byte("a"), objects[0].Ciphertext)

	objects, err = store.List(ctx, bob.ID, "settings")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestUpdateEnforcesIdentity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := newTestUser(t, store, "alice")
	bob := newTestUser(t, store, "bob")

	obj := &interfaces.EncryptedObject{OwnerID: alice.ID, ObjectType: "task", Ciphertext: []byte("v1")}
	require.NoError(t, store.Create(ctx, obj))

	// foreign owner
	_, err := store.Update(ctx, bob.ID, "task", obj.ID, []byte("evil"))
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	// wrong partition
	_, err = store.Update(ctx, alice.ID, "settings", obj.ID, []byte("evil"))
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	// nonexistent id
	_, err = store.Update(ctx, alice.ID, "task", obj.ID+1000, []byte("evil"))
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	// record untouched by the failed attempts
	objects, err := store.List(ctx, alice.ID, "task")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, []byte("v1"), objects[0].Ciphertext)

	updated, err := store.Update(ctx, alice.ID, "task", obj.ID, []byte("v2"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), updated.Ciphertext)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestDeleteEnforcesIdentity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := newTestUser(t, store, "alice")
	bob := newTestUser(t, store, "bob")

	obj := &interfaces.EncryptedObject{OwnerID: alice.ID, ObjectType: "task", Ciphertext: []byte("x")}
	require.NoError(t, store.Create(ctx, obj))

	assert.ErrorIs(t, store.Delete(ctx, bob.ID, "task", obj.ID), interfaces.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, alice.ID, "fifo", obj.ID), interfaces.ErrNotFound)

	require.NoError(t, store.Delete(ctx, alice.ID, "task", obj.ID))

	// idempotent failure on the second delete
	assert.ErrorIs(t, store.Delete(ctx, alice.ID, "task", obj.ID), interfaces.ErrNotFound)
}

func TestOpenRejectsUnknownScheme(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := Open("postgres://localhost/db", log)
	assert.ErrorIs(t, err, interfaces.ErrInvalidParameter)
}
