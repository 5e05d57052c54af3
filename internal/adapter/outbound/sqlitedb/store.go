// Package sqlitedb provides the SQLite-backed store for maps and entities.
package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// Store implements record.MapStore and record.EntityStore over a single
// SQLite database. Use ":memory:" as the path for tests.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the SQLite database at dbPath.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// SQLite allows one writer at a time; a single pooled connection avoids
	// SQLITE_BUSY under write contention and keeps ":memory:" databases from
	// being split across pool connections.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}

	return &Store{
		db:     db,
		logger: logger.With("component", "sqlitedb"),
	}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection, for health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates tables and indexes if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS maps (
			Number TEXT PRIMARY KEY,
			Drawer TEXT NOT NULL DEFAULT '',
			PropertyDetails TEXT NOT NULL DEFAULT '',
			CreatedDate TEXT NOT NULL,
			ModifiedDate TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS entities (
			EntityID INTEGER PRIMARY KEY AUTOINCREMENT,
			EntityName TEXT NOT NULL,
			BeismanNumber TEXT NOT NULL,
			CreatedDate TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_beisman ON entities(BeismanNumber)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_name ON entities(EntityName)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// formatTime serializes a timestamp for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime deserializes a stored timestamp; returns nil for empty values.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &t
}
