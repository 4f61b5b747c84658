// apps/go-client/internal/store/sqlite.go
//
// SQLite-backed Store.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout).
//   - Applying embedded migrations from sql/*.sql (idempotent, recorded in _migrations).
//   - Token CRUD with expiry enforced on read.
//
// Times are stored as RFC3339 UTC text.

package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed sql/*.sql
var migrations embed.FS

// SQLite is a Store persisted to a SQLite file.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (and creates if missing) the database at dsn and migrates it.
// The parent directory is created for relative paths such as ./data/client.db.
func OpenSQLite(dsn string) (*SQLite, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db, now: time.Now}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error { return s.db.Close() }

// migrate applies embedded migrations in lexical order, each in its own
// transaction, skipping those already recorded.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrations, "sql/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

// Get reads the named token. An expired row is deleted and reported as
// ErrNotFound.
func (s *SQLite) Get(ctx context.Context, name string) (Token, error) {
	var t Token
	var expires string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, value, path, expires_at FROM tokens WHERE name=?`, name,
	).Scan(&t.Name, &t.Value, &t.Path, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return Token{}, ErrNotFound
	}
	if err != nil {
		return Token{}, fmt.Errorf("get token %s: %w", name, err)
	}
	t.Expires, err = time.Parse(time.RFC3339, expires)
	if err != nil {
		return Token{}, fmt.Errorf("token %s: bad expiry %q: %w", name, expires, err)
	}
	if t.Expired(s.now()) {
		if err := s.Delete(ctx, name); err != nil {
			log.Warn().Err(err).Str("token", name).Msg("evict expired token")
		}
		return Token{}, ErrNotFound
	}
	return t, nil
}

// Set upserts t. An empty Path is stored as "/".
func (s *SQLite) Set(ctx context.Context, t Token) error {
	if t.Path == "" {
		t.Path = "/"
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO tokens (name, value, path, expires_at, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET
            value=excluded.value,
            path=excluded.path,
            expires_at=excluded.expires_at,
            updated_at=excluded.updated_at`,
		t.Name, t.Value, t.Path,
		t.Expires.UTC().Format(time.RFC3339),
		s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("set token %s: %w", t.Name, err)
	}
	return nil
}

// Delete removes the named token. Missing tokens are not an error.
func (s *SQLite) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE name=?`, name); err != nil {
		return fmt.Errorf("delete token %s: %w", name, err)
	}
	return nil
}
