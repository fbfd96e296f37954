package cli

import (
	"context"
	"io"

	"github.com/runnerr0/historygen/internal/generate"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// GenerateCommand samples URLs and writes fresh History and Favicons outputs.
type GenerateCommand struct {
	Days       int      `long:"days" description:"Spread visits over the last N days (overrides days_back)"`
	Lookback   string   `long:"lookback" description:"Spread visits over a window like 36h or 2w (overrides --days)"`
	Count      int      `long:"count" description:"Number of URLs to sample (overrides number_of_urls)" default:"-1"`
	CSV        []string `long:"csv" description:"URL list name or path (repeatable, overrides url_files)"`
	Seed       uint64   `long:"seed" description:"Random seed for a reproducible run"`
	NoFavicons bool     `long:"no-favicons" description:"Skip favicon discovery and download"`

	globals *GlobalFlags
	version string
	ctx     context.Context
	options generate.Options // collaborators injected by tests
}

// AddCommand appends one URL to the existing outputs.
type AddCommand struct {
	URL        string `long:"url" description:"URL to record (required)"`
	Title      string `long:"title" description:"Page title (required)"`
	At         string `long:"at" description:"Visit this long ago (e.g., 2d, 6h); default now"`
	NoFavicons bool   `long:"no-favicons" description:"Skip favicon discovery and download"`

	globals *GlobalFlags
	version string
	ctx     context.Context
	options generate.Options
}

// TemplatesCommand builds the empty History and Favicons template databases.
type TemplatesCommand struct {
	Force bool `long:"force" description:"Overwrite existing templates"`

	globals *GlobalFlags
	version string
}

// ResetCommand recreates the outputs from their templates.
type ResetCommand struct {
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	in      io.Reader // confirmation input; nil means os.Stdin
}

// StatusCommand shows counts and time range of the generated outputs.
type StatusCommand struct {
	Markdown bool `long:"markdown" description:"Output a Markdown report"`

	globals *GlobalFlags
	version string
	ctx     context.Context
}

// ListCommand lists generated history newest first.
type ListCommand struct {
	Domain string `long:"domain" description:"Filter by domain"`
	Since  string `long:"since" description:"Only visits newer than duration (e.g., 7d, 24h, 2w)"`
	Until  string `long:"until" description:"Only visits older than duration"`
	Limit  int    `long:"limit" description:"Maximum results" default:"20"`
	Offset int    `long:"offset" description:"Skip first N results" default:"0"`

	globals *GlobalFlags
	version string
	ctx     context.Context
}

// OpenCommand shows the stored history, visits and favicon of one URL.
type OpenCommand struct {
	URL    string `long:"url" description:"Page URL (required)"`
	Format string `long:"format" description:"Output format: metadata | url | title | icon" default:"metadata"`

	globals *GlobalFlags
	version string
	ctx     context.Context
}
