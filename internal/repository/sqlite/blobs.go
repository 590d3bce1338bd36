package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/campus-market/internal/domain"
)

// blobTable is a two-column key/BLOB table with an updated_at stamp.
// Both kv_entries and file_blobs share this shape.
type blobTable struct {
	db     *sql.DB
	name   string
	keyCol string
	valCol string
}

func (t blobTable) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := t.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", t.valCol, t.name, t.keyCol), key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get %s %q: %w", t.name, key, err)
	}
	return value, nil
}

func (t blobTable) put(ctx context.Context, key string, value []byte) error {
	query := fmt.Sprintf(
		`INSERT INTO %[1]s (%[2]s, %[3]s, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(%[2]s) DO UPDATE SET %[3]s = excluded.%[3]s, updated_at = excluded.updated_at`,
		t.name, t.keyCol, t.valCol,
	)
	if _, err := t.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("put %s %q: %w", t.name, key, err)
	}
	return nil
}

func (t blobTable) remove(ctx context.Context, key string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", t.name, t.keyCol)
	if _, err := t.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete %s %q: %w", t.name, key, err)
	}
	return nil
}

// kvStore implements domain.KeyValueStore on kv_entries.
type kvStore struct {
	table blobTable
}

func newKVStore(db *sql.DB) *kvStore {
	return &kvStore{table: blobTable{db: db, name: "kv_entries", keyCol: "key", valCol: "value"}}
}

func (s *kvStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.table.get(ctx, key)
}

func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	return s.table.put(ctx, key, value)
}

func (s *kvStore) Delete(ctx context.Context, key string) error {
	return s.table.remove(ctx, key)
}

// fileStore implements domain.FileStore using SQLite BLOBs in file_blobs.
type fileStore struct {
	table blobTable
}

func newFileStore(db *sql.DB) *fileStore {
	return &fileStore{table: blobTable{db: db, name: "file_blobs", keyCol: "storage_key", valCol: "data"}}
}

func (s *fileStore) Save(ctx context.Context, key string, data []byte) error {
	return s.table.put(ctx, key, data)
}

func (s *fileStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.table.get(ctx, key)
}

func (s *fileStore) Delete(ctx context.Context, key string) error {
	return s.table.remove(ctx, key)
}
