package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/runnerr0/historygen/internal/config"
	"github.com/runnerr0/historygen/internal/generate"
	"github.com/runnerr0/historygen/internal/storage"
)

// statusReport gathers everything the status command prints.
type statusReport struct {
	Version  string
	Paths    config.PathsConfig
	History  *storage.HistoryStats
	Favicons *storage.FaviconStats

	HistorySize    int64
	FaviconsSize   int64
	HistorySchema  int
	FaviconsSchema int
}

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version   string            `json:"version"`
	History   historyJSON       `json:"history"`
	Favicons  faviconsJSON      `json:"favicons"`
	TopDomain []domainCountJSON `json:"top_domains"`
}

type historyJSON struct {
	Path          string `json:"path"`
	SizeBytes     int64  `json:"size_bytes"`
	SchemaVersion int    `json:"schema_version"`
	URLs          int64  `json:"urls"`
	Visits        int64  `json:"visits"`
	OldestVisit   string `json:"oldest_visit,omitempty"`
	NewestVisit   string `json:"newest_visit,omitempty"`
}

type faviconsJSON struct {
	Path          string `json:"path"`
	SizeBytes     int64  `json:"size_bytes"`
	SchemaVersion int    `json:"schema_version"`
	Icons         int64  `json:"icons"`
	Bitmaps       int64  `json:"bitmaps"`
	Mappings      int64  `json:"mappings"`
	BitmapBytes   int64  `json:"bitmap_bytes"`
}

type domainCountJSON struct {
	Domain string `json:"domain"`
	Count  int64  `json:"count"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	if c.Markdown && wantJSON(c.globals) {
		return fmt.Errorf("--json and --markdown are mutually exclusive")
	}

	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	out, err := generate.OpenOutputs(cfg.Paths)
	if err != nil {
		return fmt.Errorf("%w (run generate or reset first)", err)
	}
	defer out.Close()

	report, err := c.collect(cfg.Paths, out)
	if err != nil {
		return err
	}

	switch {
	case wantJSON(c.globals):
		return c.printStatusJSON(report)
	case c.Markdown:
		return c.printStatusMarkdown(report)
	default:
		c.printStatusHuman(report)
		return nil
	}
}

func (c *StatusCommand) collect(paths config.PathsConfig, out *generate.Outputs) (*statusReport, error) {
	ctx := contextOrBackground(c.ctx)

	hist, err := out.History.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("history stats: %w", err)
	}
	favs, err := out.Favicons.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("favicon stats: %w", err)
	}
	hv, fv, err := out.SchemaVersions()
	if err != nil {
		return nil, err
	}

	return &statusReport{
		Version:        c.version,
		Paths:          paths,
		History:        hist,
		Favicons:       favs,
		HistorySize:    fileSize(paths.HistoryOutput()),
		FaviconsSize:   fileSize(paths.FaviconsOutput()),
		HistorySchema:  hv,
		FaviconsSchema: fv,
	}, nil
}

func (c *StatusCommand) printStatusHuman(r *statusReport) {
	fmt.Println("historygen Status")
	fmt.Println("=================")
	fmt.Printf("Version:       %s\n", r.Version)
	fmt.Println()
	fmt.Printf("History:       %s (%s, schema v%d)\n", r.Paths.HistoryOutput(), formatBytes(r.HistorySize), r.HistorySchema)
	fmt.Printf("URLs:          %s\n", formatNumber(r.History.TotalURLs))
	fmt.Printf("Visits:        %s\n", formatNumber(r.History.TotalVisits))
	if r.History.TotalVisits > 0 {
		fmt.Printf("Oldest:        %s\n", r.History.OldestVisit.Local().Format("2006-01-02 15:04"))
		fmt.Printf("Newest:        %s\n", r.History.NewestVisit.Local().Format("2006-01-02 15:04"))
	}
	fmt.Println()
	fmt.Printf("Favicons:      %s (%s, schema v%d)\n", r.Paths.FaviconsOutput(), formatBytes(r.FaviconsSize), r.FaviconsSchema)
	fmt.Printf("Icons:         %s\n", formatNumber(r.Favicons.TotalIcons))
	fmt.Printf("Bitmaps:       %s (%s)\n", formatNumber(r.Favicons.TotalBitmaps), formatBytes(r.Favicons.BitmapBytes))
	fmt.Printf("Mappings:      %s\n", formatNumber(r.Favicons.TotalMappings))

	// Top domains
	if len(r.History.TopDomains) > 0 {
		fmt.Println()
		fmt.Println("Top Domains:")
		for _, d := range r.History.TopDomains {
			fmt.Printf("  %-20s %s\n", d.Domain, formatNumber(d.Count))
		}
	}
}

func (c *StatusCommand) printStatusJSON(r *statusReport) error {
	out := statusJSON{
		Version: r.Version,
		History: historyJSON{
			Path:          r.Paths.HistoryOutput(),
			SizeBytes:     r.HistorySize,
			SchemaVersion: r.HistorySchema,
			URLs:          r.History.TotalURLs,
			Visits:        r.History.TotalVisits,
		},
		Favicons: faviconsJSON{
			Path:          r.Paths.FaviconsOutput(),
			SizeBytes:     r.FaviconsSize,
			SchemaVersion: r.FaviconsSchema,
			Icons:         r.Favicons.TotalIcons,
			Bitmaps:       r.Favicons.TotalBitmaps,
			Mappings:      r.Favicons.TotalMappings,
			BitmapBytes:   r.Favicons.BitmapBytes,
		},
		TopDomain: make([]domainCountJSON, len(r.History.TopDomains)),
	}

	if r.History.TotalVisits > 0 {
		out.History.OldestVisit = r.History.OldestVisit.UTC().Format(time.RFC3339)
		out.History.NewestVisit = r.History.NewestVisit.UTC().Format(time.RFC3339)
	}

	for i, d := range r.History.TopDomains {
		out.TopDomain[i] = domainCountJSON{Domain: d.Domain, Count: d.Count}
	}

	return printJSON(out)
}

func (c *StatusCommand) printStatusMarkdown(r *statusReport) error {
	md := markdown.NewMarkdown(os.Stdout)

	md.H1("historygen Status")
	md.PlainText("")
	md.PlainText("Version `" + r.Version + "`")
	md.PlainText("")

	md.H2("History")
	md.PlainText("")
	rows := [][]string{
		{"Path", "`" + r.Paths.HistoryOutput() + "`"},
		{"Size", formatBytes(r.HistorySize)},
		{"Schema Version", strconv.Itoa(r.HistorySchema)},
		{"URLs", formatNumber(r.History.TotalURLs)},
		{"Visits", formatNumber(r.History.TotalVisits)},
	}
	if r.History.TotalVisits > 0 {
		rows = append(rows,
			[]string{"Oldest Visit", r.History.OldestVisit.UTC().Format("2006-01-02 15:04:05 MST")},
			[]string{"Newest Visit", r.History.NewestVisit.UTC().Format("2006-01-02 15:04:05 MST")},
		)
	}
	md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: rows})
	md.PlainText("")

	md.H2("Favicons")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Path", "`" + r.Paths.FaviconsOutput() + "`"},
			{"Size", formatBytes(r.FaviconsSize)},
			{"Schema Version", strconv.Itoa(r.FaviconsSchema)},
			{"Icons", formatNumber(r.Favicons.TotalIcons)},
			{"Bitmaps", formatNumber(r.Favicons.TotalBitmaps)},
			{"Mappings", formatNumber(r.Favicons.TotalMappings)},
		},
	})
	md.PlainText("")

	if len(r.History.TopDomains) > 0 {
		md.H2("Top Domains")
		md.PlainText("")
		items := make([]string, len(r.History.TopDomains))
		for i, d := range r.History.TopDomains {
			items[i] = fmt.Sprintf("%s (%s)", d.Domain, formatNumber(d.Count))
		}
		md.BulletList(items...)
	}

	return md.Build()
}
