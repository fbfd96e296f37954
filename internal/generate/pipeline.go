package generate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/runnerr0/historygen/internal/config"
	"github.com/runnerr0/historygen/internal/favicon"
	"github.com/runnerr0/historygen/internal/sources"
	"github.com/runnerr0/historygen/internal/storage"
)

// Options carries the collaborators of a run. Zero values fall back to the
// network-backed defaults built from the config.
type Options struct {
	Stdout     io.Writer
	Logger     *slog.Logger
	Discoverer favicon.Discoverer
	Fetcher    favicon.Fetcher
	Now        func() time.Time
	// Window overrides the configured days_back when positive.
	Window time.Duration
}

// Run performs a full generation: load the URL lists, sample them, reset the
// outputs from their templates and write every sampled URL. Errors before the
// first URL is processed are fatal; per-URL failures end up in the summary.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loader := sources.Loader{Dir: cfg.Paths.URLsDir()}
	entries, err := loader.Load(cfg.Generator.URLFiles...)
	if err != nil {
		return nil, fmt.Errorf("load urls: %w", err)
	}

	r := NewRand(cfg.Generator.Seed)
	picked := Sample(r, entries, cfg.Generator.NumberOfURLs)
	opts.logger().Info("sampled urls", "available", len(entries), "picked", len(picked))

	if err := storage.Prepare(Templates(cfg.Paths)...); err != nil {
		return nil, fmt.Errorf("prepare outputs: %w", err)
	}

	out, err := OpenOutputs(cfg.Paths)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	g := NewGenerator(cfg, out, opts)
	g.Rand = r
	return g.Run(ctx, picked)
}

// NewGenerator wires a Generator to open outputs according to cfg.
func NewGenerator(cfg *config.Config, out *Outputs, opts Options) *Generator {
	logger := opts.logger()

	window := opts.Window
	if window <= 0 {
		window = time.Duration(cfg.Generator.DaysBack) * 24 * time.Hour
	}

	g := &Generator{
		History: out.History,
		Rand:    NewRand(cfg.Generator.Seed),
		Window:  window,
		Now:     opts.Now,
		Out:     opts.Stdout,
		Logger:  logger,
	}

	if cfg.Favicons.Enabled {
		discoverer, fetcher := opts.Discoverer, opts.Fetcher
		if discoverer == nil || fetcher == nil {
			client := favicon.NewClient(nil,
				rate.Limit(cfg.Favicons.RequestsPerSecond),
				time.Duration(cfg.Favicons.TimeoutSeconds)*time.Second,
				cfg.Favicons.UserAgent,
			)
			if discoverer == nil {
				discoverer = &favicon.HTMLDiscoverer{Client: client, Logger: logger}
			}
			if fetcher == nil {
				fetcher = client
			}
		}
		g.Favicons = favicon.NewWriter(out.Favicons, discoverer, fetcher, cfg.Paths.OutputDir, logger)
	}

	return g
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
