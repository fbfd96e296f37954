package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/runnerr0/historygen/internal/chrometime"
)

// IconTypeFavicon is the favicons.icon_type of a regular page favicon.
const IconTypeFavicon = 1

// FaviconStore writes icons, bitmaps and page mappings into a Chromium
// Favicons database. It is the only writer of its *sql.DB.
type FaviconStore struct {
	db *sql.DB
	mu sync.Mutex

	lookupIcon    *sql.Stmt
	insertIcon    *sql.Stmt
	insertBitmap  *sql.Stmt
	insertMapping *sql.Stmt
}

// NewFaviconStore creates a FaviconStore from an already-opened Favicons database.
func NewFaviconStore(db *sql.DB) (*FaviconStore, error) {
	singleWriter(db)
	s := &FaviconStore{db: db}

	var err error
	s.lookupIcon, err = db.Prepare(`SELECT id FROM favicons WHERE url = ? LIMIT 1`)
	if err != nil {
		return nil, fmt.Errorf("prepare lookup icon: %w", err)
	}

	s.insertIcon, err = db.Prepare(`INSERT INTO favicons (id, url, icon_type) VALUES (?, ?, ?)`)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("prepare insert icon: %w", err)
	}

	s.insertBitmap, err = db.Prepare(`
		INSERT INTO favicon_bitmaps (id, icon_id, last_updated, image_data, width, height)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("prepare insert bitmap: %w", err)
	}

	s.insertMapping, err = db.Prepare(`INSERT INTO icon_mapping (id, page_url, icon_id) VALUES (?, ?, ?)`)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("prepare insert mapping: %w", err)
	}

	return s, nil
}

// LookupIcon returns the id of the favicon stored under iconURL.
func (s *FaviconStore) LookupIcon(ctx context.Context, iconURL string) (int64, bool, error) {
	var id int64
	err := s.lookupIcon.QueryRowContext(ctx, iconURL).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup icon: %w", err)
	}
	return id, true, nil
}

// AddIcon inserts a favicon keyed by iconURL together with its bitmap. Both
// rows commit or neither does. The bitmap's ID and IconID are ignored.
func (s *FaviconStore) AddIcon(ctx context.Context, iconURL string, bm Bitmap) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	iconID, err := nextID(ctx, tx, tableFavicons)
	if err != nil {
		return 0, err
	}
	if _, err := tx.StmtContext(ctx, s.insertIcon).ExecContext(ctx, iconID, iconURL, IconTypeFavicon); err != nil {
		return 0, fmt.Errorf("insert icon: %w", err)
	}

	bitmapID, err := nextID(ctx, tx, tableFaviconBitmaps)
	if err != nil {
		return 0, err
	}
	if _, err := tx.StmtContext(ctx, s.insertBitmap).ExecContext(ctx,
		bitmapID, iconID, chrometime.FromTime(lastUpdatedOrNow(bm.LastUpdated)), bm.Data, bm.Width, bm.Height,
	); err != nil {
		return 0, fmt.Errorf("insert bitmap: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return iconID, nil
}

// AddMapping links pageURL to iconID and returns the new mapping id.
func (s *FaviconStore) AddMapping(ctx context.Context, pageURL string, iconID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	id, err := nextID(ctx, tx, tableIconMapping)
	if err != nil {
		return 0, err
	}
	if _, err := tx.StmtContext(ctx, s.insertMapping).ExecContext(ctx, id, pageURL, iconID); err != nil {
		return 0, fmt.Errorf("insert mapping: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Icons returns every favicon ordered by id.
func (s *FaviconStore) Icons(ctx context.Context) ([]Icon, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, url, icon_type FROM favicons ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query icons: %w", err)
	}
	defer rows.Close()

	icons := []Icon{}
	for rows.Next() {
		var i Icon
		if err := rows.Scan(&i.ID, &i.URL, &i.IconType); err != nil {
			return nil, fmt.Errorf("scan icon: %w", err)
		}
		icons = append(icons, i)
	}
	return icons, rows.Err()
}

// Mappings returns every icon mapping ordered by id.
func (s *FaviconStore) Mappings(ctx context.Context) ([]IconMapping, error) {
	return s.scanMappings(ctx, `SELECT id, page_url, icon_id FROM icon_mapping ORDER BY id`)
}

// MappingsForPage returns the mappings recorded for pageURL.
func (s *FaviconStore) MappingsForPage(ctx context.Context, pageURL string) ([]IconMapping, error) {
	return s.scanMappings(ctx, `
		SELECT id, page_url, icon_id FROM icon_mapping WHERE page_url = ? ORDER BY id
	`, pageURL)
}

// Bitmaps returns the bitmaps stored for iconID.
func (s *FaviconStore) Bitmaps(ctx context.Context, iconID int64) ([]Bitmap, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, icon_id, last_updated, image_data, width, height
		FROM favicon_bitmaps WHERE icon_id = ? ORDER BY id
	`, iconID)
	if err != nil {
		return nil, fmt.Errorf("query bitmaps: %w", err)
	}
	defer rows.Close()

	bitmaps := []Bitmap{}
	for rows.Next() {
		var b Bitmap
		var ts int64
		if err := rows.Scan(&b.ID, &b.IconID, &ts, &b.Data, &b.Width, &b.Height); err != nil {
			return nil, fmt.Errorf("scan bitmap: %w", err)
		}
		b.LastUpdated = chrometime.ToTime(ts)
		bitmaps = append(bitmaps, b)
	}
	return bitmaps, rows.Err()
}

// Stats returns aggregate statistics about the Favicons database.
func (s *FaviconStore) Stats(ctx context.Context) (*FaviconStats, error) {
	stats := &FaviconStats{}

	counts := []struct {
		query string
		dst   *int64
	}{
		{"SELECT COUNT(*) FROM favicons", &stats.TotalIcons},
		{"SELECT COUNT(*) FROM favicon_bitmaps", &stats.TotalBitmaps},
		{"SELECT COUNT(*) FROM icon_mapping", &stats.TotalMappings},
		{"SELECT COALESCE(SUM(LENGTH(image_data)), 0) FROM favicon_bitmaps", &stats.BitmapBytes},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("favicon stats (%s): %w", c.query, err)
		}
	}

	return stats, nil
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *FaviconStore) Close() error {
	closeStmts(s.lookupIcon, s.insertIcon, s.insertBitmap, s.insertMapping)
	return nil
}

func (s *FaviconStore) scanMappings(ctx context.Context, query string, args ...interface{}) ([]IconMapping, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query mappings: %w", err)
	}
	defer rows.Close()

	mappings := []IconMapping{}
	for rows.Next() {
		var m IconMapping
		if err := rows.Scan(&m.ID, &m.PageURL, &m.IconID); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// lastUpdatedOrNow defaults a zero LastUpdated to the current time.
func lastUpdatedOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
