package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/msomdec/campus-market/internal/domain"
	"github.com/msomdec/campus-market/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle and hands out the stores built on it.
type DB struct {
	SqlDB *sql.DB
}

var _ domain.Database = (*DB)(nil)

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// SQLite allows one writer; a single connection also keeps ":memory:"
	// databases from splitting across connections.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies pending schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	n, err := migrations.Run(ctx, d.SqlDB)
	if err != nil {
		return err
	}
	slog.Debug("schema up to date", "applied", n)
	return nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.SqlDB.Close()
}

// KV returns the key-value store backed by the kv_entries table.
func (d *DB) KV() domain.KeyValueStore {
	return newKVStore(d.SqlDB)
}

// FileStore returns the image byte store backed by the file_blobs table.
func (d *DB) FileStore() domain.FileStore {
	return newFileStore(d.SqlDB)
}
