package storage

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tasknest/vault-backend/interfaces"
)

// Open creates a Store from a DSN. Accepted forms:
//
//	vault.db            plain file path
//	sqlite://vault.db   explicit scheme
//	sqlite://:memory:   in-memory database (tests)
//
// GORM's own logging is silenced; the Store logs through slog like the rest
// of the system.
func Open(dsn string, log *slog.Logger) (*Store, error) {
	path := dsn
	if strings.Contains(dsn, "://") {
		scheme, rest, _ := strings.Cut(dsn, "://")
		if scheme != "sqlite" {
			return nil, fmt.Errorf("%w: unsupported database scheme %q", interfaces.ErrInvalidParameter, scheme)
		}
		path = rest
	}
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", interfaces.ErrInvalidParameter)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", path, err)
	}

	log.Info("Database connection established", "path", path)
	return NewStore(db, log)
}
