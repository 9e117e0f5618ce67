// Package storage implements the persistence contracts from the interfaces
// package on SQLite via GORM.
//
// Three tables back the system: users, vault_records (1:1 with users, created
// in the same transaction), and encrypted_objects (many per user, keyed by
// owner + object type + id). Ciphertext and key material are stored as raw
// bytes; base64 is strictly a wire concern handled by the api packages.
//
// Open accepts either a plain file path or a sqlite:// DSN and returns a
// Store implementing both interfaces.UserStore and interfaces.ObjectStore.
package storage
