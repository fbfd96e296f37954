package storage

import "database/sql"

const (
	// HistorySchemaVersion is the History version written to meta.
	HistorySchemaVersion     = 56
	historyCompatibleVersion = 16
)

// migrateHistory creates the Chromium History tables the generator writes
// to, plus the neighbouring tables browsers expect to find.
func migrateHistory(tx *sql.Tx) error {
	return execAll(tx, []string{
		`CREATE TABLE IF NOT EXISTS urls (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			url             LONGVARCHAR,
			title           LONGVARCHAR,
			visit_count     INTEGER DEFAULT 0 NOT NULL,
			typed_count     INTEGER DEFAULT 0 NOT NULL,
			last_visit_time INTEGER NOT NULL,
			hidden          INTEGER DEFAULT 0 NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS visits (
			id                              INTEGER PRIMARY KEY AUTOINCREMENT,
			url                             INTEGER NOT NULL,
			visit_time                      INTEGER NOT NULL,
			from_visit                      INTEGER,
			transition                      INTEGER DEFAULT 0 NOT NULL,
			segment_id                      INTEGER,
			visit_duration                  INTEGER DEFAULT 0 NOT NULL,
			incremented_omnibox_typed_score BOOLEAN DEFAULT FALSE NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS visit_source (
			id     INTEGER PRIMARY KEY,
			source INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS keyword_search_terms (
			keyword_id      INTEGER NOT NULL,
			url_id          INTEGER NOT NULL,
			term            LONGVARCHAR NOT NULL,
			normalized_term LONGVARCHAR NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS segments (
			id     INTEGER PRIMARY KEY,
			name   VARCHAR,
			url_id INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS segment_usage (
			id          INTEGER PRIMARY KEY,
			segment_id  INTEGER NOT NULL,
			time_slot   INTEGER NOT NULL,
			visit_count INTEGER DEFAULT 0 NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS urls_url_index ON urls (url)`,
		`CREATE INDEX IF NOT EXISTS visits_url_index ON visits (url)`,
		`CREATE INDEX IF NOT EXISTS visits_from_index ON visits (from_visit)`,
		`CREATE INDEX IF NOT EXISTS visits_time_index ON visits (visit_time)`,
		`CREATE INDEX IF NOT EXISTS keyword_search_terms_index1 ON keyword_search_terms (keyword_id, normalized_term)`,
		`CREATE INDEX IF NOT EXISTS keyword_search_terms_index2 ON keyword_search_terms (url_id)`,
		`CREATE INDEX IF NOT EXISTS segments_name ON segments (name)`,
		`CREATE INDEX IF NOT EXISTS segments_url_id ON segments (url_id)`,
		`CREATE INDEX IF NOT EXISTS segment_usage_time_slot_segment_id ON segment_usage (time_slot, segment_id)`,
	})
}
