package favicon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/runnerr0/historygen/internal/storage"
)

// Store is the subset of storage.FaviconStore the writer needs.
type Store interface {
	LookupIcon(ctx context.Context, iconURL string) (int64, bool, error)
	AddIcon(ctx context.Context, iconURL string, bm storage.Bitmap) (int64, error)
	AddMapping(ctx context.Context, pageURL string, iconID int64) (int64, error)
}

// Status is how a page's favicon was resolved.
type Status int

const (
	// StatusMapped means a new icon was downloaded, stored and mapped.
	StatusMapped Status = iota
	// StatusReused means the origin's stored icon was mapped to the page.
	StatusReused
	// StatusSkipped means no usable icon was found. Not an error.
	StatusSkipped
	// StatusFailed means an error stopped the favicon from being stored.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusMapped:
		return "mapped"
	case StatusReused:
		return "reused"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText renders the status by name in JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Skip reasons.
const (
	ReasonNoFavicons = "no favicons"
	ReasonNoPNG      = "no suitable favicon"
	ReasonDisabled   = "favicons disabled"
)

// Outcome is the favicon result for one page.
type Outcome struct {
	Status Status
	IconID int64
	Reason string
	Err    error
}

// OK reports whether the page ended up with an icon mapping.
func (o Outcome) OK() bool {
	return o.Status == StatusMapped || o.Status == StatusReused
}

// Writer stores one favicon per origin and maps every page to it.
type Writer struct {
	store      Store
	discoverer Discoverer
	fetcher    Fetcher
	tempDir    string
	logger     *slog.Logger
}

// NewWriter creates a Writer. Downloads are staged in tempDir.
func NewWriter(store Store, discoverer Discoverer, fetcher Fetcher, tempDir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		store:      store,
		discoverer: discoverer,
		fetcher:    fetcher,
		tempDir:    tempDir,
		logger:     logger,
	}
}

// Add resolves the favicon of pageURL and maps the page to it. The icon of an
// origin is fetched once and reused for every later page of that origin.
// Failures are logged and returned in the Outcome, never raised.
func (w *Writer) Add(ctx context.Context, pageURL string, date time.Time) Outcome {
	out := w.add(ctx, pageURL, date)
	switch out.Status {
	case StatusSkipped:
		w.logger.Warn("no favicon stored", "url", pageURL, "reason", out.Reason)
	case StatusFailed:
		w.logger.Error("add favicon", "url", pageURL, "error", out.Err)
	default:
		w.logger.Debug("favicon mapped", "url", pageURL, "icon_id", out.IconID, "status", out.Status)
	}
	return out
}

func (w *Writer) add(ctx context.Context, pageURL string, date time.Time) Outcome {
	origin, err := ParseOrigin(pageURL)
	if err != nil {
		return failed(err)
	}
	key := origin.IndexKey()

	iconID, found, err := w.store.LookupIcon(ctx, key)
	if err != nil {
		return failed(err)
	}

	status := StatusReused
	if !found {
		icons, err := w.discoverer.Discover(ctx, origin.Host)
		if err != nil {
			return failed(fmt.Errorf("discover favicons for %s: %w", origin.Host, err))
		}
		if len(icons) == 0 {
			return Outcome{Status: StatusSkipped, Reason: ReasonNoFavicons}
		}

		candidate, ok := SelectCandidate(icons)
		if !ok {
			return Outcome{Status: StatusSkipped, Reason: ReasonNoPNG}
		}

		data, err := w.fetcher.Download(ctx, candidate.URL, w.tempDir)
		if err != nil {
			return failed(err)
		}

		iconID, err = w.store.AddIcon(ctx, key, storage.Bitmap{
			LastUpdated: date,
			Data:        data,
			Width:       candidate.Size,
			Height:      candidate.Size,
		})
		if err != nil {
			return failed(err)
		}
		status = StatusMapped
	}

	if _, err := w.store.AddMapping(ctx, pageURL, iconID); err != nil {
		return failed(err)
	}
	return Outcome{Status: status, IconID: iconID}
}

func failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}
