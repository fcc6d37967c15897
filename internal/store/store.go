package store

import (
	"context"
	"database/sql"

	"github.com/dukerupert/chapters/internal"
)

// Store defines the interface for the client's persisted key-value state:
// the cart mirror, tokens and the cached user profile.
// Implementations can use a flat directory of files or an embedded sqlite
// database. No cross-process locking; the store is single-writer.
type Store interface {
	// Get retrieves the value for key.
	// Returns ErrKeyNotFound when the key has never been set.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes a key. Returns nil if the key doesn't exist (idempotent).
	Delete(ctx context.Context, key string) error

	// Close releases any underlying resources.
	Close() error
}

// New creates a Store implementation based on configuration.
// Returns FileStore for "file" provider, SQLiteStore for "sqlite" provider.
func New(cfg internal.StoreConfig) (Store, error) {
	switch cfg.Provider {
	case "file", "":
		return NewFileStore(cfg.Path)
	case "sqlite":
		db, err := sql.Open("sqlite", cfg.DSN)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(db)
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}
