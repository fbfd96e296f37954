package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/runnerr0/historygen/internal/generate"
	"github.com/runnerr0/historygen/internal/storage"
)

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	out, err := generate.OpenOutputs(cfg.Paths)
	if err != nil {
		return fmt.Errorf("%w (run generate or reset first)", err)
	}
	defer out.Close()

	return c.executeWithStore(out.History, args)
}

// executeWithStore runs the listing against a provided store (for testing).
func (c *ListCommand) executeWithStore(store *storage.HistoryStore, args []string) error {
	query := strings.Join(args, " ")

	now := time.Now()
	var since time.Time
	if c.Since != "" {
		dur, err := parseDuration(c.Since)
		if err != nil {
			return fmt.Errorf("invalid --since value %q: %w", c.Since, err)
		}
		since = now.Add(-dur)
	}

	var until time.Time
	if c.Until != "" {
		dur, err := parseDuration(c.Until)
		if err != nil {
			return fmt.Errorf("invalid --until value %q: %w", c.Until, err)
		}
		until = now.Add(-dur)
	}

	sq := storage.SearchQuery{
		Query:  query,
		Domain: c.Domain,
		Since:  since,
		Until:  until,
		Limit:  c.Limit,
		Offset: c.Offset,
	}

	results, err := store.Search(contextOrBackground(c.ctx), sq)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if wantJSON(c.globals) {
		return c.printJSON(query, results)
	}
	c.printHuman(query, results)
	return nil
}

func (c *ListCommand) printHuman(query string, results []storage.HistoryRecord) {
	if len(results) == 0 {
		if query != "" {
			fmt.Printf("No history found for %q\n", query)
		} else {
			fmt.Println("No history found")
		}
		return
	}

	resultWord := "entries"
	if len(results) == 1 {
		resultWord = "entry"
	}
	if query != "" {
		fmt.Printf("Found %d %s for %q\n\n", len(results), resultWord, query)
	} else {
		fmt.Printf("Found %d %s\n\n", len(results), resultWord)
	}

	for i, r := range results {
		fmt.Printf("%d. %s\n", i+1+c.Offset, r.Title)
		fmt.Printf("   %s\n", r.URL)
		fmt.Printf("   %s · #%d\n", r.LastVisitTime.Local().Format("2006-01-02 15:04"), r.ID)

		if i < len(results)-1 {
			fmt.Println()
		}
	}
}

type jsonEntry struct {
	ID            int64  `json:"id"`
	URL           string `json:"url"`
	Title         string `json:"title"`
	VisitCount    int    `json:"visit_count"`
	LastVisitTime string `json:"last_visit_time"`
}

type jsonListOutput struct {
	Count   int         `json:"count"`
	Query   string      `json:"query"`
	Results []jsonEntry `json:"results"`
}

func (c *ListCommand) printJSON(query string, results []storage.HistoryRecord) error {
	out := jsonListOutput{
		Count:   len(results),
		Query:   query,
		Results: make([]jsonEntry, len(results)),
	}

	for i, r := range results {
		out.Results[i] = jsonEntry{
			ID:            r.ID,
			URL:           r.URL,
			Title:         r.Title,
			VisitCount:    r.VisitCount,
			LastVisitTime: r.LastVisitTime.UTC().Format(time.RFC3339),
		}
	}

	return printJSON(out)
}
