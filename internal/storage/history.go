package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/runnerr0/historygen/internal/chrometime"
)

// Constants written to every generated visit.
const (
	VisitTransition int64 = 805306368
	VisitDuration   int64 = 24020632301
)

// HistoryStore writes generated browsing history into a Chromium History
// database. It is the only writer of its *sql.DB.
type HistoryStore struct {
	db *sql.DB
	mu sync.Mutex

	insertURL   *sql.Stmt
	insertVisit *sql.Stmt
	findURL     *sql.Stmt
}

// NewHistoryStore creates a HistoryStore from an already-opened History database.
func NewHistoryStore(db *sql.DB) (*HistoryStore, error) {
	singleWriter(db)
	s := &HistoryStore{db: db}

	var err error
	s.insertURL, err = db.Prepare(`
		INSERT INTO urls (id, url, title, visit_count, last_visit_time)
		VALUES (?, ?, ?, 1, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert url: %w", err)
	}

	s.insertVisit, err = db.Prepare(`
		INSERT INTO visits (id, url, visit_time, transition, visit_duration)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("prepare insert visit: %w", err)
	}

	s.findURL, err = db.Prepare(`
		SELECT id, url, title, visit_count, last_visit_time
		FROM urls WHERE url = ? ORDER BY id DESC LIMIT 1
	`)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("prepare find url: %w", err)
	}

	return s, nil
}

// AddURL inserts a history record for rawURL and its single visit, both
// stamped with visited. The two rows are written in one transaction.
func (s *HistoryStore) AddURL(ctx context.Context, rawURL, title string, visited time.Time) (*HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ts := chrometime.FromTime(visited)

	urlID, err := nextID(ctx, tx, tableURLs)
	if err != nil {
		return nil, err
	}
	if _, err := tx.StmtContext(ctx, s.insertURL).ExecContext(ctx, urlID, rawURL, title, ts); err != nil {
		return nil, fmt.Errorf("insert url: %w", err)
	}

	visitID, err := nextID(ctx, tx, tableVisits)
	if err != nil {
		return nil, err
	}
	if _, err := tx.StmtContext(ctx, s.insertVisit).ExecContext(ctx,
		visitID, urlID, ts, VisitTransition, VisitDuration,
	); err != nil {
		return nil, fmt.Errorf("insert visit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &HistoryRecord{
		ID:            urlID,
		URL:           rawURL,
		Title:         title,
		VisitCount:    1,
		LastVisitTime: chrometime.ToTime(ts),
	}, nil
}

// FindURL returns the most recent history record for rawURL.
func (s *HistoryStore) FindURL(ctx context.Context, rawURL string) (*HistoryRecord, error) {
	var r HistoryRecord
	var ts int64
	err := s.findURL.QueryRowContext(ctx, rawURL).Scan(&r.ID, &r.URL, &r.Title, &r.VisitCount, &ts)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("url %s not found", rawURL)
		}
		return nil, fmt.Errorf("find url: %w", err)
	}
	r.LastVisitTime = chrometime.ToTime(ts)
	return &r, nil
}

// URLs returns every history record ordered by id.
func (s *HistoryStore) URLs(ctx context.Context) ([]HistoryRecord, error) {
	return s.scanURLs(ctx, `
		SELECT id, url, title, visit_count, last_visit_time FROM urls ORDER BY id
	`)
}

// Visits returns every visit ordered by id.
func (s *HistoryStore) Visits(ctx context.Context) ([]Visit, error) {
	return s.scanVisits(ctx, `
		SELECT id, url, visit_time, transition, visit_duration FROM visits ORDER BY id
	`)
}

// VisitsForURL returns the visits recorded against a urls.id.
func (s *HistoryStore) VisitsForURL(ctx context.Context, urlID int64) ([]Visit, error) {
	return s.scanVisits(ctx, `
		SELECT id, url, visit_time, transition, visit_duration
		FROM visits WHERE url = ? ORDER BY id
	`, urlID)
}

// Search lists history records newest first with optional filters.
func (s *HistoryStore) Search(ctx context.Context, q SearchQuery) ([]HistoryRecord, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}

	var clauses []string
	var args []interface{}

	if q.Query != "" {
		clauses = append(clauses, `(title LIKE ? ESCAPE '\' OR url LIKE ? ESCAPE '\')`)
		args = append(args, containsPattern(q.Query), containsPattern(q.Query))
	}
	if q.Domain != "" {
		clauses = append(clauses, `(url LIKE ? ESCAPE '\' OR url LIKE ? ESCAPE '\')`)
		d := likeEscaper.Replace(q.Domain)
		args = append(args, "%://"+d, "%://"+d+"/%")
	}
	if !q.Since.IsZero() {
		clauses = append(clauses, "last_visit_time >= ?")
		args = append(args, chrometime.FromTime(q.Since))
	}
	if !q.Until.IsZero() {
		clauses = append(clauses, "last_visit_time <= ?")
		args = append(args, chrometime.FromTime(q.Until))
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	query := `SELECT id, url, title, visit_count, last_visit_time FROM urls` +
		where + " ORDER BY last_visit_time DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	return s.scanURLs(ctx, query, args...)
}

// Stats returns aggregate statistics about the History database.
func (s *HistoryStore) Stats(ctx context.Context) (*HistoryStats, error) {
	stats := &HistoryStats{}

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM urls").Scan(&stats.TotalURLs)
	if err != nil {
		return nil, fmt.Errorf("count urls: %w", err)
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM visits").Scan(&stats.TotalVisits)
	if err != nil {
		return nil, fmt.Errorf("count visits: %w", err)
	}

	if stats.TotalVisits > 0 {
		var oldest, newest int64
		err = s.db.QueryRowContext(ctx, "SELECT MIN(visit_time), MAX(visit_time) FROM visits").Scan(&oldest, &newest)
		if err != nil {
			return nil, fmt.Errorf("visit time range: %w", err)
		}
		stats.OldestVisit = chrometime.ToTime(oldest)
		stats.NewestVisit = chrometime.ToTime(newest)
	}

	records, err := s.URLs(ctx)
	if err != nil {
		return nil, err
	}
	stats.TopDomains = topDomains(records, 10)

	return stats, nil
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *HistoryStore) Close() error {
	closeStmts(s.insertURL, s.insertVisit, s.findURL)
	return nil
}

func (s *HistoryStore) scanURLs(ctx context.Context, query string, args ...interface{}) ([]HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query urls: %w", err)
	}
	defer rows.Close()

	records := []HistoryRecord{}
	for rows.Next() {
		var r HistoryRecord
		var title sql.NullString
		var ts int64
		if err := rows.Scan(&r.ID, &r.URL, &title, &r.VisitCount, &ts); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		r.Title = title.String
		r.LastVisitTime = chrometime.ToTime(ts)
		records = append(records, r)
	}

	return records, rows.Err()
}

func (s *HistoryStore) scanVisits(ctx context.Context, query string, args ...interface{}) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query visits: %w", err)
	}
	defer rows.Close()

	visits := []Visit{}
	for rows.Next() {
		var v Visit
		var ts int64
		if err := rows.Scan(&v.ID, &v.URLID, &ts, &v.Transition, &v.VisitDuration); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		v.VisitTime = chrometime.ToTime(ts)
		visits = append(visits, v)
	}

	return visits, rows.Err()
}

// topDomains counts records per hostname and returns the n most common.
func topDomains(records []HistoryRecord, n int) []DomainCount {
	counts := make(map[string]int64)
	for _, r := range records {
		if d := extractDomain(r.URL); d != "" {
			counts[d]++
		}
	}

	out := make([]DomainCount, 0, len(counts))
	for d, c := range counts {
		out = append(out, DomainCount{Domain: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Domain < out[j].Domain
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}
