package storage

import (
	"database/sql"
	"fmt"
	"strconv"
)

// migration represents a single schema migration. Version is the Chromium
// schema version the database reports once the migration is applied.
type migration struct {
	Version int
	Name    string
	Apply   func(tx *sql.Tx) error
}

// MigrationRunner applies pending migrations to a SQLite database and
// records the resulting schema version in the Chromium-style meta table.
type MigrationRunner struct {
	db                    *sql.DB
	migrations            []migration
	lastCompatibleVersion int
}

// NewHistoryMigrationRunner creates a MigrationRunner for the History schema.
func NewHistoryMigrationRunner(db *sql.DB) *MigrationRunner {
	return &MigrationRunner{
		db: db,
		migrations: []migration{
			{Version: HistorySchemaVersion, Name: "history_schema", Apply: migrateHistory},
		},
		lastCompatibleVersion: historyCompatibleVersion,
	}
}

// NewFaviconsMigrationRunner creates a MigrationRunner for the Favicons schema.
func NewFaviconsMigrationRunner(db *sql.DB) *MigrationRunner {
	return &MigrationRunner{
		db: db,
		migrations: []migration{
			{Version: FaviconsSchemaVersion, Name: "favicons_schema", Apply: migrateFavicons},
		},
		lastCompatibleVersion: faviconsCompatibleVersion,
	}
}

// Run creates the meta table, then applies each migration newer than the
// version recorded there.
func (r *MigrationRunner) Run() error {
	if _, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS meta (
			key   LONGVARCHAR NOT NULL UNIQUE PRIMARY KEY,
			value LONGVARCHAR
		)
	`); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}

	current, err := r.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range r.migrations {
		if m.Version <= current {
			continue
		}

		if err := r.apply(m); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Name, err)
		}
		current = m.Version
	}

	return nil
}

// Version returns the schema version recorded in the meta table, or 0.
func (r *MigrationRunner) Version() (int, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM meta WHERE key = 'version'").Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

// apply executes a migration inside a transaction and records it.
func (r *MigrationRunner) apply(m migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := m.Apply(tx); err != nil {
		return err
	}

	const upsert = `INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`
	if _, err := tx.Exec(upsert, "version", strconv.Itoa(m.Version)); err != nil {
		return fmt.Errorf("record version: %w", err)
	}
	if _, err := tx.Exec(upsert, "last_compatible_version", strconv.Itoa(r.lastCompatibleVersion)); err != nil {
		return fmt.Errorf("record compatible version: %w", err)
	}

	return tx.Commit()
}

func execAll(tx *sql.Tx, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
