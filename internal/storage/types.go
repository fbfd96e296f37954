package storage

import "time"

// HistoryRecord is a row of the urls table.
type HistoryRecord struct {
	ID            int64
	URL           string
	Title         string
	VisitCount    int
	LastVisitTime time.Time
}

// Visit is a row of the visits table.
type Visit struct {
	ID            int64
	URLID         int64
	VisitTime     time.Time
	Transition    int64
	VisitDuration int64
}

// Icon is a row of the favicons table.
type Icon struct {
	ID       int64
	URL      string
	IconType int
}

// Bitmap is the image stored for an icon in favicon_bitmaps.
type Bitmap struct {
	ID          int64
	IconID      int64
	LastUpdated time.Time
	Data        []byte
	Width       int
	Height      int
}

// IconMapping links a page URL to an icon.
type IconMapping struct {
	ID      int64
	PageURL string
	IconID  int64
}

// SearchQuery defines filters for listing generated history.
type SearchQuery struct {
	Query  string
	Domain string
	Since  time.Time
	Until  time.Time
	Limit  int
	Offset int
}

// HistoryStats holds aggregate statistics about a History database.
type HistoryStats struct {
	TotalURLs   int64
	TotalVisits int64
	OldestVisit time.Time
	NewestVisit time.Time
	TopDomains  []DomainCount
}

// FaviconStats holds aggregate statistics about a Favicons database.
type FaviconStats struct {
	TotalIcons    int64
	TotalBitmaps  int64
	TotalMappings int64
	BitmapBytes   int64
}

// DomainCount pairs a domain with its URL count.
type DomainCount struct {
	Domain string
	Count  int64
}
