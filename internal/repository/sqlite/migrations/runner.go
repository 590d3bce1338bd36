package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
)

// Run applies every embedded migration that is not yet recorded in the
// schema_migrations table. Each file runs in its own transaction.
// It returns the number of files applied.
func Run(ctx context.Context, db *sql.DB) (int, error) {
	if err := ensureMigrationsTable(ctx, db); err != nil {
		return 0, fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("get applied migrations: %w", err)
	}

	files, err := fs.Glob(FS, "*.sql")
	if err != nil {
		return 0, fmt.Errorf("list migration files: %w", err)
	}
	slices.Sort(files)

	count := 0
	for _, filename := range files {
		if applied[filename] {
			slog.Debug("migration already applied", "file", filename)
			continue
		}

		if err := applyMigration(ctx, db, filename); err != nil {
			return count, fmt.Errorf("apply migration %s: %w", filename, err)
		}
		slog.Info("migration applied", "file", path.Base(filename))
		count++
	}

	return count, nil
}

func ensureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func appliedMigrations(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, err
		}
		applied[filename] = true
	}
	return applied, rows.Err()
}

func applyMigration(ctx context.Context, db *sql.DB, filename string) error {
	content, err := fs.ReadFile(FS, filename)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("execute sql: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", filename); err != nil {
		return fmt.Errorf("record migration: %w", err)
	}

	return tx.Commit()
}
