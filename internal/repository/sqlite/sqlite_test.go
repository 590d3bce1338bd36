package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/msomdec/campus-market/internal/domain"
	"github.com/msomdec/campus-market/internal/repository/sqlite"
)

// Verify that *sqlite.DB implements domain.Database at compile time.
var _ domain.Database = (*sqlite.DB)(nil)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNew(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file was not created")
	}

	var mode string
	if err := db.SqlDB.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("check journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("expected journal_mode=wal, got %q", mode)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate (idempotent): %v", err)
	}

	var count int
	if err := db.SqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 migration records, got %d", count)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := db.KV().Set(ctx, "session/default", []byte(`{"email":"a@student.csulb.edu"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	db.Close()

	reopened, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if err := reopened.Migrate(ctx); err != nil {
		t.Fatalf("Migrate after reopen: %v", err)
	}

	got, err := reopened.KV().Get(ctx, "session/default")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != `{"email":"a@student.csulb.edu"}` {
		t.Fatalf("unexpected value after reopen: %s", got)
	}
}
