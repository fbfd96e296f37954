package generate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/runnerr0/historygen/internal/favicon"
	"github.com/runnerr0/historygen/internal/sources"
	"github.com/runnerr0/historygen/internal/storage"
)

// DateLayout is how visit dates are printed on the console.
const DateLayout = "Mon Jan 02 2006 15:04:05 MST"

// HistoryWriter stores a URL and its visit.
type HistoryWriter interface {
	AddURL(ctx context.Context, rawURL, title string, visited time.Time) (*storage.HistoryRecord, error)
}

// FaviconWriter maps a page to its favicon.
type FaviconWriter interface {
	Add(ctx context.Context, pageURL string, date time.Time) favicon.Outcome
}

// Result is what happened to one URL of a run.
type Result struct {
	URL        string
	Title      string
	VisitedAt  time.Time
	HistoryID  int64
	HistoryErr error
	Favicon    favicon.Outcome
}

// OK reports whether the history record was written.
func (r Result) OK() bool {
	return r.HistoryErr == nil
}

// Summary collects the results of a run in processing order.
type Summary struct {
	Results  []Result
	Started  time.Time
	Finished time.Time
}

// Added counts URLs whose history record was written.
func (s *Summary) Added() int {
	n := 0
	for _, r := range s.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

// Failed returns the results whose history write failed.
func (s *Summary) Failed() []Result {
	var out []Result
	for _, r := range s.Results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// FaviconCounts tallies favicon outcomes by status.
func (s *Summary) FaviconCounts() map[favicon.Status]int {
	counts := make(map[favicon.Status]int)
	for _, r := range s.Results {
		counts[r.Favicon.Status]++
	}
	return counts
}

// Generator writes one history record and one favicon mapping attempt per
// entry, strictly in order.
type Generator struct {
	History HistoryWriter
	// Favicons may be nil, in which case favicons are skipped.
	Favicons FaviconWriter
	Rand     *rand.Rand
	Window   time.Duration
	Now      func() time.Time
	Out      io.Writer
	Logger   *slog.Logger
}

// Run processes entries one after another, each at a random time within the
// window. A cancelled context stops the run between entries; the summary of
// the entries already processed is returned with the context error.
func (g *Generator) Run(ctx context.Context, entries []sources.Entry) (*Summary, error) {
	summary := &Summary{Started: g.now()}
	defer func() { summary.Finished = g.now() }()

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		date := RandomDate(g.Rand, g.now(), g.Window)
		summary.Results = append(summary.Results, g.Add(ctx, e, date))
	}
	return summary, nil
}

// Add writes a single entry visited at date.
func (g *Generator) Add(ctx context.Context, e sources.Entry, date time.Time) Result {
	if g.Out != nil {
		fmt.Fprintf(g.Out, "Adding %s with title %s on %s\n", e.URL, e.Title, date.Format(DateLayout))
	}

	res := Result{URL: e.URL, Title: e.Title, VisitedAt: date}

	rec, err := g.History.AddURL(ctx, e.URL, e.Title, date)
	if err != nil {
		res.HistoryErr = err
		g.logger().Error("add url", "url", e.URL, "error", err)
	} else {
		res.HistoryID = rec.ID
	}

	if g.Favicons != nil {
		res.Favicon = g.Favicons.Add(ctx, e.URL, date)
	} else {
		res.Favicon = favicon.Outcome{Status: favicon.StatusSkipped, Reason: favicon.ReasonDisabled}
	}
	return res
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}
