package vault

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/tasknest/vault-backend/cryptoutils"
	"github.com/tasknest/vault-backend/interfaces"
)

// Service implements the registration and login protocols over a UserStore.
type Service struct {
	store      interfaces.UserStore
	iterations int
	log        *slog.Logger
}

// Registration is the result of a successful Register call. Nonce is the
// single-use wrap nonce, surfaced separately in the registration response;
// it is also embedded at the front of Vault.EncryptedPrivateKey.
type Registration struct {
	User  *interfaces.User
	Vault *interfaces.VaultRecord
	Nonce []byte
}

// NewService creates a vault service using the given iteration count for new
// records. Counts below the configured minimum are rejected.
func NewService(store interfaces.UserStore, iterations int, log *slog.Logger) (*Service, error) {
	if iterations < cryptoutils.MinIterations {
		return nil, fmt.Errorf("%w: kdf iterations %d below minimum %d",
			interfaces.ErrInvalidParameter, iterations, cryptoutils.MinIterations)
	}
	return &Service{store: store, iterations: iterations, log: log}, nil
}

// Register creates a user identity together with its fully populated vault
// record. The password is used twice, for different things: bcrypt-hashed for
// authentication, and fed through PBKDF2 to derive the key that wraps the
// freshly generated X25519 private key. Neither the password, the derived
// key, nor the plaintext private key survives the call.
func (s *Service) Register(ctx context.Context, username, email, password string) (*Registration, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", interfaces.ErrInvalidParameter)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	salt, err := cryptoutils.NewSalt()
	if err != nil {
		return nil, err
	}

	wrapKey, err := cryptoutils.DeriveKey([]byte(password), salt, s.iterations)
	if err != nil {
		return nil, err
	}
	defer cryptoutils.Zero(wrapKey)

	privateKey, publicKey, err := cryptoutils.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	defer cryptoutils.Zero(privateKey)

	nonce, wrapped, err := cryptoutils.Wrap(wrapKey, privateKey)
	if err != nil {
		return nil, err
	}

	user := &interfaces.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(passwordHash),
	}
	record := &interfaces.VaultRecord{
		KDFSalt:             salt,
		KDFIterations:       s.iterations,
		PublicKey:           publicKey,
		EncryptedPrivateKey: cryptoutils.JoinWrapped(nonce, wrapped),
		CryptoVersion:       interfaces.CryptoVersionAESGCM,
	}

	if err := s.store.CreateUserWithVault(ctx, user, record); err != nil {
		return nil, err
	}

	s.log.Info("Registered user vault", "userID", user.ID, "username", username, "kdfIterations", s.iterations)
	return &Registration{User: user, Vault: record, Nonce: nonce}, nil
}

// Login authenticates a username/password pair and returns the user together
// with the vault record exactly as stored. Unknown usernames and wrong
// passwords both surface as ErrInvalidCredentials; a missing vault record
// after successful authentication indicates a data-integrity bug and is
// reported as ErrNotFound.
func (s *Service) Login(ctx context.Context, username, password string) (*interfaces.User, *interfaces.VaultRecord, error) {
	user, err := s.store.UserByName(ctx, username)
	if err != nil {
		// Burn roughly a hash-comparison's worth of time anyway so unknown
		// usernames aren't distinguishable by latency.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000uGZvRLZxQzn1MCGwtzqgNGP0bKC9HqW"), []byte(password))
		return nil, nil, interfaces.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, interfaces.ErrInvalidCredentials
	}

	record, err := s.store.VaultFor(ctx, user.ID)
	if err != nil {
		s.log.Error("Vault record missing for authenticated user", "userID", user.ID, "err", err)
		return nil, nil, err
	}

	if record.CryptoVersion != interfaces.CryptoVersionAESGCM {
		return nil, nil, fmt.Errorf("unsupported crypto version %d for user %d", record.CryptoVersion, user.ID)
	}

	return user, record, nil
}

// Params exposes the KDF parameters for a user without any key material.
// Returns ErrNotFound if no vault exists yet.
func (s *Service) Params(ctx context.Context, id interfaces.UserID) (salt []byte, iterations int, err error) {
	record, err := s.store.VaultFor(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return record.KDFSalt, record.KDFIterations, nil
}
