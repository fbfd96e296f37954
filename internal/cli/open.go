package cli

import (
	"fmt"
	"time"

	"github.com/runnerr0/historygen/internal/generate"
	"github.com/runnerr0/historygen/internal/storage"
)

// pageDetail is everything the outputs hold about one page URL.
type pageDetail struct {
	Record  *storage.HistoryRecord
	Visits  []storage.Visit
	IconURL string
	Bitmap  *storage.Bitmap
}

type openJSON struct {
	ID            int64           `json:"id"`
	URL           string          `json:"url"`
	Title         string          `json:"title"`
	VisitCount    int             `json:"visit_count"`
	LastVisitTime string          `json:"last_visit_time"`
	Visits        []openVisitJSON `json:"visits"`
	Icon          *openIconJSON   `json:"icon,omitempty"`
}

type openVisitJSON struct {
	ID            int64  `json:"id"`
	VisitTime     string `json:"visit_time"`
	Transition    int64  `json:"transition"`
	VisitDuration int64  `json:"visit_duration"`
}

type openIconJSON struct {
	URL         string `json:"url"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Bytes       int    `json:"bytes,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// Execute implements the go-flags Commander interface for OpenCommand.
func (c *OpenCommand) Execute(args []string) error {
	if c.URL == "" {
		return fmt.Errorf("--url is required for open command")
	}
	switch c.Format {
	case "metadata", "url", "title", "icon":
	default:
		return fmt.Errorf("unknown format %q (metadata, url, title, icon)", c.Format)
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

	detail, err := c.lookup(out)
	if err != nil {
		return err
	}

	if wantJSON(c.globals) {
		return printJSON(detailJSON(detail))
	}

	switch c.Format {
	case "url":
		fmt.Println(detail.Record.URL)
	case "title":
		fmt.Println(detail.Record.Title)
	case "icon":
		if detail.IconURL == "" {
			fmt.Println("No favicon stored")
		} else {
			fmt.Println(detail.IconURL)
		}
	default:
		c.printMetadata(detail)
	}
	return nil
}

func (c *OpenCommand) lookup(out *generate.Outputs) (*pageDetail, error) {
	ctx := contextOrBackground(c.ctx)

	rec, err := out.History.FindURL(ctx, c.URL)
	if err != nil {
		return nil, err
	}
	visits, err := out.History.VisitsForURL(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	detail := &pageDetail{Record: rec, Visits: visits}

	mappings, err := out.Favicons.MappingsForPage(ctx, c.URL)
	if err != nil {
		return nil, err
	}
	if len(mappings) == 0 {
		return detail, nil
	}

	// The latest mapping wins.
	iconID := mappings[len(mappings)-1].IconID
	icons, err := out.Favicons.Icons(ctx)
	if err != nil {
		return nil, err
	}
	for _, icon := range icons {
		if icon.ID == iconID {
			detail.IconURL = icon.URL
			break
		}
	}
	bitmaps, err := out.Favicons.Bitmaps(ctx, iconID)
	if err != nil {
		return nil, err
	}
	if len(bitmaps) > 0 {
		detail.Bitmap = &bitmaps[0]
	}
	return detail, nil
}

func (c *OpenCommand) printMetadata(d *pageDetail) {
	fmt.Printf("#%d\n", d.Record.ID)
	fmt.Printf("Title:     %s\n", d.Record.Title)
	fmt.Printf("URL:       %s\n", d.Record.URL)
	fmt.Printf("Visits:    %d\n", d.Record.VisitCount)
	fmt.Printf("Last:      %s\n", d.Record.LastVisitTime.Local().Format("2006-01-02 15:04:05"))
	for _, v := range d.Visits {
		fmt.Printf("  visit %d at %s\n", v.ID, v.VisitTime.Local().Format("2006-01-02 15:04:05"))
	}
	switch {
	case d.IconURL == "":
		fmt.Println("Favicon:   none")
	case d.Bitmap != nil:
		fmt.Printf("Favicon:   %s (%dx%d, %s)\n", d.IconURL, d.Bitmap.Width, d.Bitmap.Height, formatBytes(int64(len(d.Bitmap.Data))))
	default:
		fmt.Printf("Favicon:   %s\n", d.IconURL)
	}
}

func detailJSON(d *pageDetail) openJSON {
	out := openJSON{
		ID:            d.Record.ID,
		URL:           d.Record.URL,
		Title:         d.Record.Title,
		VisitCount:    d.Record.VisitCount,
		LastVisitTime: d.Record.LastVisitTime.UTC().Format(time.RFC3339),
		Visits:        make([]openVisitJSON, len(d.Visits)),
	}
	for i, v := range d.Visits {
		out.Visits[i] = openVisitJSON{
			ID:            v.ID,
			VisitTime:     v.VisitTime.UTC().Format(time.RFC3339),
			Transition:    v.Transition,
			VisitDuration: v.VisitDuration,
		}
	}
	if d.IconURL != "" {
		out.Icon = &openIconJSON{URL: d.IconURL}
		if d.Bitmap != nil {
			out.Icon.Width = d.Bitmap.Width
			out.Icon.Height = d.Bitmap.Height
			out.Icon.Bytes = len(d.Bitmap.Data)
			out.Icon.LastUpdated = d.Bitmap.LastUpdated.UTC().Format(time.RFC3339)
		}
	}
	return out
}
