package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Tables whose primary keys the generator allocates itself.
const (
	tableURLs           = "urls"
	tableVisits         = "visits"
	tableFavicons       = "favicons"
	tableFaviconBitmaps = "favicon_bitmaps"
	tableIconMapping    = "icon_mapping"
)

// Open opens an existing SQLite database file. The file must already exist:
// outputs are always copied from a template first.
func Open(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat database: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	singleWriter(db)
	return db, nil
}

// singleWriter pins the pool to one connection so that id allocation and
// insert run on the same connection as every other writer of the handle.
func singleWriter(db *sql.DB) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
}

// nextID allocates the next primary key of table as current max + 1 (1 on an
// empty table). It must run inside the transaction that inserts the row so a
// rollback releases the id.
func nextID(ctx context.Context, tx *sql.Tx, table string) (int64, error) {
	switch table {
	case tableURLs, tableVisits, tableFavicons, tableFaviconBitmaps, tableIconMapping:
	default:
		return 0, fmt.Errorf("no id sequence for table %q", table)
	}

	var id int64
	err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) + 1 FROM "+table).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", table, err)
	}
	return id, nil
}

// extractDomain pulls the hostname from a URL string.
func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// likeEscaper escapes LIKE wildcards so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func closeStmts(stmts ...*sql.Stmt) {
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
}
