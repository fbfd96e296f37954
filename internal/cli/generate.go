package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/historygen/internal/config"
	"github.com/runnerr0/historygen/internal/favicon"
	"github.com/runnerr0/historygen/internal/generate"
)

type generateJSON struct {
	Requested int               `json:"requested"`
	Added     int               `json:"added"`
	Favicons  map[string]int    `json:"favicons"`
	History   string            `json:"history"`
	FaviconDB string            `json:"favicons_db"`
	Duration  string            `json:"duration"`
	Results   []generateURLJSON `json:"results"`
}

type generateURLJSON struct {
	URL           string         `json:"url"`
	Title         string         `json:"title"`
	VisitedAt     string         `json:"visited_at"`
	ID            int64          `json:"id,omitempty"`
	Error         string         `json:"error,omitempty"`
	Favicon       favicon.Status `json:"favicon"`
	FaviconReason string         `json:"favicon_reason,omitempty"`
	FaviconError  string         `json:"favicon_error,omitempty"`
}

// Execute implements the go-flags Commander interface for GenerateCommand.
func (c *GenerateCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	if err := c.apply(cfg); err != nil {
		return err
	}

	logger, closer, err := newLogger(cfg, c.globals)
	if err != nil {
		return err
	}
	defer closer.Close()

	opts := c.options
	opts.Logger = logger
	opts.Stdout = os.Stdout
	if wantJSON(c.globals) {
		// Keep stdout clean for the JSON document.
		opts.Stdout = os.Stderr
	}
	if c.Lookback != "" {
		opts.Window, err = parseDuration(c.Lookback)
		if err != nil {
			return fmt.Errorf("invalid --lookback value %q: %w", c.Lookback, err)
		}
	}

	summary, err := generate.Run(contextOrBackground(c.ctx), cfg, opts)
	if summary == nil {
		return err
	}

	if wantJSON(c.globals) {
		if perr := c.printJSON(cfg, summary); perr != nil {
			return perr
		}
	} else {
		c.printHuman(cfg, summary)
	}
	return err
}

// apply overlays command flags on the loaded config.
func (c *GenerateCommand) apply(cfg *config.Config) error {
	if c.Days < 0 {
		return fmt.Errorf("--days must be positive, got %d", c.Days)
	}
	if c.Days > 0 {
		cfg.Generator.DaysBack = c.Days
	}
	if c.Count >= 0 {
		cfg.Generator.NumberOfURLs = c.Count
	}
	if len(c.CSV) > 0 {
		cfg.Generator.URLFiles = c.CSV
	}
	if c.Seed != 0 {
		cfg.Generator.Seed = c.Seed
	}
	if c.NoFavicons {
		cfg.Favicons.Enabled = false
	}
	return nil
}

func (c *GenerateCommand) printHuman(cfg *config.Config, s *generate.Summary) {
	counts := s.FaviconCounts()

	fmt.Println()
	fmt.Printf("Added %d of %d URLs in %s\n", s.Added(), len(s.Results), s.Finished.Sub(s.Started).Round(time.Millisecond))
	fmt.Printf("History:   %s\n", cfg.Paths.HistoryOutput())
	fmt.Printf("Favicons:  %s (%d new, %d reused, %d skipped, %d failed)\n",
		cfg.Paths.FaviconsOutput(),
		counts[favicon.StatusMapped], counts[favicon.StatusReused],
		counts[favicon.StatusSkipped], counts[favicon.StatusFailed])

	if failed := s.Failed(); len(failed) > 0 {
		fmt.Println()
		fmt.Println("Failed:")
		for _, r := range failed {
			fmt.Printf("  %s: %v\n", r.URL, r.HistoryErr)
		}
	}
}

func (c *GenerateCommand) printJSON(cfg *config.Config, s *generate.Summary) error {
	out := generateJSON{
		Requested: len(s.Results),
		Added:     s.Added(),
		Favicons:  map[string]int{},
		History:   cfg.Paths.HistoryOutput(),
		FaviconDB: cfg.Paths.FaviconsOutput(),
		Duration:  s.Finished.Sub(s.Started).Round(time.Millisecond).String(),
		Results:   make([]generateURLJSON, len(s.Results)),
	}
	for status, n := range s.FaviconCounts() {
		out.Favicons[status.String()] = n
	}
	for i, r := range s.Results {
		out.Results[i] = resultJSON(r)
	}
	return printJSON(out)
}

func resultJSON(r generate.Result) generateURLJSON {
	j := generateURLJSON{
		URL:           r.URL,
		Title:         r.Title,
		VisitedAt:     r.VisitedAt.UTC().Format(time.RFC3339),
		ID:            r.HistoryID,
		Favicon:       r.Favicon.Status,
		FaviconReason: r.Favicon.Reason,
	}
	if r.HistoryErr != nil {
		j.Error = r.HistoryErr.Error()
	}
	if r.Favicon.Err != nil {
		j.FaviconError = r.Favicon.Err.Error()
	}
	return j
}
