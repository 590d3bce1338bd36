package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation owns its own migration files and strategy, so the
// backing store can be swapped without touching the services.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}

// KeyValueStore is the persistence primitive every typed store sits on.
// It mirrors the browser's local storage: opaque values under string keys,
// no transactions, last writer wins.
type KeyValueStore interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for absent keys.
	Delete(ctx context.Context, key string) error
}

// FileStore abstracts raw image byte storage.
type FileStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
