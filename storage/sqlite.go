package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/tasknest/vault-backend/interfaces"
)

// Store is the SQLite-backed implementation of interfaces.UserStore and
// interfaces.ObjectStore.
type Store struct {
	db  *gorm.DB
	log *slog.Logger
}

type userRow struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:150;not null"`
	Email        string `gorm:"size:254"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

type vaultRow struct {
	UserID              int64  `gorm:"primaryKey"`
	KDFSalt             []byte `gorm:"not null"`
	KDFIterations       int    `gorm:"not null;default:600000"`
	PublicKey           []byte
	EncryptedPrivateKey []byte
	CryptoVersion       int `gorm:"not null;default:1"`
	CreatedAt           time.Time
}

func (vaultRow) TableName() string { return "vault_records" }

type objectRow struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	UserID     int64  `gorm:"index:idx_owner_type;not null"`
	ObjectType string `gorm:"index:idx_owner_type;size:32;not null"`
	Ciphertext []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (objectRow) TableName() string { return "encrypted_objects" }

// NewStore wraps an open GORM handle and migrates the schema.
func NewStore(db *gorm.DB, log *slog.Logger) (*Store, error) {
	if err := db.AutoMigrate(&userRow{}, &vaultRow{}, &objectRow{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// CreateUserWithVault persists the user and vault record in one transaction
// so no reader ever observes a vault with a salt but no keys, or a user
// without a vault.
func (s *Store) CreateUserWithVault(ctx context.Context, user *interfaces.User, vault *interfaces.VaultRecord) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u := userRow{
			Username:     user.Username,
			Email:        user.Email,
			PasswordHash: user.PasswordHash,
		}
		if err := tx.Create(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: username %q", interfaces.ErrConflict, user.Username)
			}
			return err
		}

		v := vaultRow{
			UserID:              u.ID,
			KDFSalt:             vault.KDFSalt,
			KDFIterations:       vault.KDFIterations,
			PublicKey:           vault.PublicKey,
			EncryptedPrivateKey: vault.EncryptedPrivateKey,
			CryptoVersion:       vault.CryptoVersion,
		}
		if err := tx.Create(&v).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: vault for user %d", interfaces.ErrConflict, u.ID)
			}
			return err
		}

		user.ID = interfaces.UserID(u.ID)
		user.CreatedAt = u.CreatedAt
		vault.UserID = interfaces.UserID(u.ID)
		vault.CreatedAt = v.CreatedAt
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Debug("Created user with vault", "userID", user.ID, "username", user.Username)
	return nil
}

// UserByName loads a user by username.
func (s *Store) UserByName(ctx context.Context, username string) (*interfaces.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %q", interfaces.ErrNotFound, username)
		}
		return nil, err
	}
	return row.toUser(), nil
}

// UserByID loads a user by id.
func (s *Store) UserByID(ctx context.Context, id interfaces.UserID) (*interfaces.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).First(&row, int64(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", interfaces.ErrNotFound, id)
		}
		return nil, err
	}
	return row.toUser(), nil
}

// VaultFor loads the vault record for a user.
func (s *Store) VaultFor(ctx context.Context, id interfaces.UserID) (*interfaces.VaultRecord, error) {
	var row vaultRow
	if err := s.db.WithContext(ctx).Where("user_id = ?", int64(id)).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: vault for user %d", interfaces.ErrNotFound, id)
		}
		return nil, err
	}
	return &interfaces.VaultRecord{
		UserID:              interfaces.UserID(row.UserID),
		KDFSalt:             row.KDFSalt,
		KDFIterations:       row.KDFIterations,
		PublicKey:           row.PublicKey,
		EncryptedPrivateKey: row.EncryptedPrivateKey,
		CryptoVersion:       row.CryptoVersion,
		CreatedAt:           row.CreatedAt,
	}, nil
}

// List returns all objects for one owner and type, ordered by insertion.
func (s *Store) List(ctx context.Context, owner interfaces.UserID, objectType interfaces.ObjectType) ([]interfaces.EncryptedObject, error) {
	var rows []objectRow
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND object_type = ?", int64(owner), string(objectType)).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	objects := make([]interfaces.EncryptedObject, 0, len(rows))
	for _, row := range rows {
		objects = append(objects, *row.toObject())
	}
	return objects, nil
}

// Create stores a new encrypted object.
func (s *Store) Create(ctx context.Context, obj *interfaces.EncryptedObject) error {
	row := objectRow{
		UserID:     int64(obj.OwnerID),
		ObjectType: string(obj.ObjectType),
		Ciphertext: obj.Ciphertext,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("creating encrypted object: %w", err)
	}
	obj.ID = row.ID
	obj.CreatedAt = row.CreatedAt
	obj.UpdatedAt = row.UpdatedAt
	return nil
}

// Update replaces an object's ciphertext. Owner and type are part of the
// WHERE clause, so a foreign or cross-partition id is indistinguishable from
// a missing one. Concurrent updates are last-writer-wins.
func (s *Store) Update(ctx context.Context, owner interfaces.UserID, objectType interfaces.ObjectType, id int64, ciphertext []byte) (*interfaces.EncryptedObject, error) {
	var row objectRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&objectRow{}).
			Where("id = ? AND user_id = ? AND object_type = ?", id, int64(owner), string(objectType)).
			Updates(map[string]interface{}{
				"ciphertext": ciphertext,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: object %d", interfaces.ErrNotFound, id)
		}
		return tx.First(&row, id).Error
	})
	if err != nil {
		return nil, err
	}
	return row.toObject(), nil
}

// Delete removes an object. No soft-delete; the row is gone.
func (s *Store) Delete(ctx context.Context, owner interfaces.UserID, objectType interfaces.ObjectType, id int64) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND object_type = ?", id, int64(owner), string(objectType)).
		Delete(&objectRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: object %d", interfaces.ErrNotFound, id)
	}
	return nil
}

func (row *userRow) toUser() *interfaces.User {
	return &interfaces.User{
		ID:           interfaces.UserID(row.ID),
		Username:     row.Username,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
	}
}

func (row *objectRow) toObject() *interfaces.EncryptedObject {
	return &interfaces.EncryptedObject{
		ID:         row.ID,
		OwnerID:    interfaces.UserID(row.UserID),
		ObjectType: interfaces.ObjectType(row.ObjectType),
		Ciphertext: row.Ciphertext,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
