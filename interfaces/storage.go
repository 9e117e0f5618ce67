package interfaces

import "context"

// UserStore persists accounts and their vault records.
type UserStore interface {
	// CreateUserWithVault persists a new user and its vault record in a
	// single transaction. Returns ErrConflict if the username is taken.
	// After a failure neither record is observable.
	CreateUserWithVault(ctx context.Context, user *User, vault *VaultRecord) error

	// UserByName loads a user by username. Returns ErrNotFound if absent.
	UserByName(ctx context.Context, username string) (*User, error)

	// UserByID loads a user by id. Returns ErrNotFound if absent.
	UserByID(ctx context.Context, id UserID) (*User, error)

	// VaultFor loads the vault record for a user. Returns ErrNotFound if no
	// vault exists yet.
	VaultFor(ctx context.Context, id UserID) (*VaultRecord, error)
}

// ObjectStore persists encrypted objects. Every operation scopes by owner and
// object type as part of record identity, not as separate checks: an id that
// exists under a different owner or type behaves exactly like a missing id.
type ObjectStore interface {
	// List returns all objects for one owner and type in insertion order.
	List(ctx context.Context, owner UserID, objectType ObjectType) ([]EncryptedObject, error)

	// Create stores a new object and fills in its ID and timestamps.
	Create(ctx context.Context, obj *EncryptedObject) error

	// Update replaces an object's ciphertext wholesale (last writer wins)
	// and returns the updated record. Returns ErrNotFound if the id does not
	// exist under this owner and type.
	Update(ctx context.Context, owner UserID, objectType ObjectType, id int64, ciphertext []byte) (*EncryptedObject, error)

	// Delete removes an object immediately and irreversibly. Returns
	// ErrNotFound if the id does not exist under this owner and type.
	Delete(ctx context.Context, owner UserID, objectType ObjectType, id int64) error
}
