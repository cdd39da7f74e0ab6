package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const currentVersion = 1

// SQLiteBackend implements Backend on a local SQLite database.
type SQLiteBackend struct {
	db   *sql.DB
	lock *flock.Flock
}

// Open opens (or creates) the SQLite database at dbPath, takes an
// exclusive lock next to it, runs migrations, and bootstraps a default
// user and personal workspace on first run.
func Open(dbPath string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	lock := flock.New(dbPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire db lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("database %s is in use by another tempo instance", dbPath)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			lock.Unlock()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	b := &SQLiteBackend{db: db, lock: lock}
	if err := b.migrate(); err != nil {
		db.Close()
		lock.Unlock()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := b.bootstrap(); err != nil {
		db.Close()
		lock.Unlock()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	return b, nil
}

// OpenMemory creates an in-memory backend for testing.
func OpenMemory() (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec pragma: %w", err)
	}
	b := &SQLiteBackend{db: db}
	if err := b.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := b.bootstrap(); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	return b, nil
}

func (b *SQLiteBackend) Close() error {
	err := b.db.Close()
	if b.lock != nil {
		b.lock.Unlock()
	}
	return err
}

func (b *SQLiteBackend) migrate() error {
	var version int
	if err := b.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := b.migrateV1(); err != nil {
			return err
		}
	}

	_, err := b.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (b *SQLiteBackend) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS workspaces (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		owner_id    TEXT NOT NULL,
		personal    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projects (
		id            TEXT PRIMARY KEY,
		workspace_id  TEXT NOT NULL REFERENCES workspaces(id),
		name          TEXT NOT NULL,
		color         TEXT NOT NULL DEFAULT '#6C63FF',
		status        TEXT NOT NULL DEFAULT 'active',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		UNIQUE(workspace_id, name)
	);

	CREATE TABLE IF NOT EXISTS time_records (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL,
		workspace_id  TEXT NOT NULL REFERENCES workspaces(id),
		project_id    TEXT REFERENCES projects(id),
		description   TEXT NOT NULL DEFAULT '',
		start_time    TEXT NOT NULL,
		end_time      TEXT,
		duration      INTEGER NOT NULL DEFAULT 0,
		billable      INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_records_user  ON time_records(user_id);
	CREATE INDEX IF NOT EXISTS idx_records_start ON time_records(start_time);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('week_start',   'monday'),
		('session_user', '');
	`
	_, err := b.db.Exec(ddl)
	return err
}

// bootstrap creates the default user and their personal workspace on a
// fresh database and signs the user in.
func (b *SQLiteBackend) bootstrap() error {
	userID, err := b.Session()
	if err != nil {
		return err
	}
	if userID != "" {
		return nil
	}

	userID = uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	wsID := uuid.NewString()
	_, err = b.db.Exec(
		`INSERT INTO workspaces (id, name, owner_id, personal, created_at, updated_at) VALUES (?, ?, ?, 1, ?, ?)`,
		wsID, "Personal", userID, now, now,
	)
	if err != nil {
		return fmt.Errorf("create personal workspace: %w", err)
	}
	return b.SetSession(userID)
}

func (b *SQLiteBackend) Session() (string, error) {
	var userID string
	err := b.db.QueryRow(`SELECT value FROM settings WHERE key = 'session_user'`).Scan(&userID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	return userID, nil
}

func (b *SQLiteBackend) SetSession(userID string) error {
	_, err := b.db.Exec(
		`INSERT INTO settings (key, value) VALUES ('session_user', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		userID,
	)
	return err
}

func (b *SQLiteBackend) GetSetting(key string) (string, error) {
	var value string
	err := b.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (b *SQLiteBackend) SetSetting(key, value string) error {
	_, err := b.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// DefaultDBPath returns ~/.config/tempo/tempo.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "tempo", "tempo.db"), nil
}
