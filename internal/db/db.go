package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/hpungsan/solefit/internal/config"
)

// FileName is the database file inside the base directory.
const FileName = "solefit.db"

// migrations are applied in order; migrations[i] moves the schema from
// user_version i to i+1.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS results (
	  id               TEXT PRIMARY KEY,
	  primary_id       TEXT,
	  primary_name     TEXT,
	  match_percentage INTEGER NOT NULL,
	  brand_preference TEXT,
	  answers_json     TEXT NOT NULL,
	  result_json      TEXT NOT NULL,
	  created_at       INTEGER NOT NULL,
	  deleted_at       INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_results_created
	ON results(created_at DESC)
	WHERE deleted_at IS NULL;

	CREATE INDEX IF NOT EXISTS idx_results_deleted
	ON results(deleted_at)
	WHERE deleted_at IS NOT NULL;`,
}

// CurrentSchemaVersion is the user_version after all migrations ran.
var CurrentSchemaVersion = len(migrations)

// Init opens (creating if needed) baseDir/solefit.db in WAL mode and brings
// its schema up to date. Tests pass t.TempDir() as baseDir.
func Init(baseDir string) (*sql.DB, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	_ = os.Chmod(baseDir, 0700)

	// DSN pragmas apply to every pooled connection.
	path := filepath.Join(baseDir, FileName)
	database, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := requireWAL(database); err != nil {
		database.Close()
		return nil, err
	}
	if err := migrate(database); err != nil {
		database.Close()
		return nil, err
	}

	_ = os.Chmod(path, 0600)
	return database, nil
}

// ConfigurePool applies non-zero pool limits from cfg.
func ConfigurePool(database *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		database.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

func migrate(database *sql.DB) error {
	current, err := GetUserVersion(database)
	if err != nil {
		return err
	}
	for v := current; v < len(migrations); v++ {
		if err := applyMigration(database, v+1, migrations[v]); err != nil {
			return err
		}
	}
	return nil
}

// applyMigration runs one schema step and bumps user_version in the same
// transaction.
func applyMigration(database *sql.DB, version int, stmt string) error {
	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("migration %d: begin: %w", version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(stmt); err != nil {
		return fmt.Errorf("migration %d: %w", version, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("migration %d: set user_version: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migration %d: commit: %w", version, err)
	}
	return nil
}

func requireWAL(database *sql.DB) error {
	var mode string
	if err := database.QueryRow("PRAGMA journal_mode;").Scan(&mode); err != nil {
		return fmt.Errorf("read journal_mode: %w", err)
	}
	if mode != "wal" {
		return fmt.Errorf("journal_mode is %q, want wal", mode)
	}
	return nil
}

// GetUserVersion reads the schema version pragma.
func GetUserVersion(database *sql.DB) (int, error) {
	var v int
	if err := database.QueryRow("PRAGMA user_version;").Scan(&v); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}
	return v, nil
}

// SetUserVersion overwrites the schema version pragma.
func SetUserVersion(database *sql.DB, version int) error {
	if _, err := database.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("write user_version: %w", err)
	}
	return nil
}
