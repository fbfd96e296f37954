package cli

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/runnerr0/historygen/internal/generate"
	"github.com/runnerr0/historygen/internal/sources"
)

// Execute implements the go-flags Commander interface for AddCommand.
func (c *AddCommand) Execute(args []string) error {
	if c.URL == "" {
		return fmt.Errorf("--url is required for add command")
	}
	if c.Title == "" {
		return fmt.Errorf("--title is required for add command")
	}

	// Validate URL format
	parsed, err := url.ParseRequestURI(c.URL)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("invalid URL: %s", c.URL)
	}

	visited := time.Now()
	if c.At != "" {
		ago, err := parseDuration(c.At)
		if err != nil {
			return fmt.Errorf("invalid --at value %q: %w", c.At, err)
		}
		visited = visited.Add(-ago)
	}

	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	if c.NoFavicons {
		cfg.Favicons.Enabled = false
	}

	logger, closer, err := newLogger(cfg, c.globals)
	if err != nil {
		return err
	}
	defer closer.Close()

	out, err := generate.OpenOutputs(cfg.Paths)
	if err != nil {
		return fmt.Errorf("%w (run generate or reset first)", err)
	}
	defer out.Close()

	opts := c.options
	opts.Logger = logger
	g := generate.NewGenerator(cfg, out, opts)
	if !wantJSON(c.globals) {
		g.Out = os.Stdout
	}

	res := g.Add(contextOrBackground(c.ctx), sources.Entry{URL: c.URL, Title: c.Title}, visited)
	if !res.OK() {
		return fmt.Errorf("storing url: %w", res.HistoryErr)
	}

	if wantJSON(c.globals) {
		return printJSON(resultJSON(res))
	}

	fmt.Printf("Added url %d (%s)\n", res.HistoryID, res.VisitedAt.Format(time.RFC3339))
	fmt.Printf("  URL: %s\n", res.URL)
	fmt.Printf("  Title: %s\n", res.Title)
	switch {
	case res.Favicon.OK():
		fmt.Printf("  Favicon: %s (icon %d)\n", res.Favicon.Status, res.Favicon.IconID)
	case res.Favicon.Err != nil:
		fmt.Printf("  Favicon: %s (%v)\n", res.Favicon.Status, res.Favicon.Err)
	default:
		fmt.Printf("  Favicon: %s (%s)\n", res.Favicon.Status, res.Favicon.Reason)
	}

	return nil
}
