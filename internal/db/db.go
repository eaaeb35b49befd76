// Package db opens the SQLite database and applies the embedded migrations.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

var (
	db     *sql.DB
	dbErr  error
	dbOnce sync.Once
	dbPath string
)

// SetPath sets the database file used by GetDB. Call it before the first GetDB.
func SetPath(path string) {
	dbPath = path
}

// GetDB returns the process-wide database connection, opening and migrating
// it on first use.
func GetDB() (*sql.DB, error) {
	dbOnce.Do(func() {
		path := dbPath
		if path == "" {
			path, dbErr = DefaultPath()
			if dbErr != nil {
				return
			}
		}
		db, dbErr = Open(path)
	})
	return db, dbErr
}

// Close closes the process-wide connection.
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// DefaultPath returns ~/.pledge/pledge.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".pledge", "pledge.db"), nil
}

// Open opens a SQLite database at path and applies pending migrations.
// ":memory:" opens a private in-memory database.
//
// Transactions take the write lock at BEGIN so that two reconciliations of
// the same sprint serialize instead of failing on lock upgrade.
func Open(path string) (*sql.DB, error) {
	memory := path == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", dsn(path, memory))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; the in-memory database also lives on a single connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := migrate(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

func dsn(path string, memory bool) string {
	params := []string{"_foreign_keys=on", "_busy_timeout=5000", "_txlock=immediate"}
	if memory {
		return "file::memory:?" + strings.Join(params, "&")
	}
	params = append(params, "_journal_mode=WAL")
	return "file:" + path + "?" + strings.Join(params, "&")
}

func migrate(conn *sql.DB) error {
	migrations, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, conn, migrations)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
