package cli

import (
	"errors"
	"fmt"

	"github.com/runnerr0/historygen/internal/storage"
)

type templateJSON struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Version int    `json:"version"`
}

// Execute implements the go-flags Commander interface for TemplatesCommand.
func (c *TemplatesCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	built := []templateJSON{
		{Kind: storage.KindHistory.String(), Path: cfg.Paths.HistoryTemplate(), Version: storage.HistorySchemaVersion},
		{Kind: storage.KindFavicons.String(), Path: cfg.Paths.FaviconsTemplate(), Version: storage.FaviconsSchemaVersion},
	}
	kinds := []storage.Kind{storage.KindHistory, storage.KindFavicons}

	for i, t := range built {
		if err := storage.BuildTemplate(t.Path, kinds[i], c.Force); err != nil {
			if errors.Is(err, storage.ErrTemplateExists) {
				return fmt.Errorf("%w (use --force to overwrite)", err)
			}
			return err
		}
	}

	if wantJSON(c.globals) {
		return printJSON(map[string]interface{}{"templates": built})
	}

	for _, t := range built {
		fmt.Printf("Wrote %s template %s (schema version %d)\n", t.Kind, t.Path, t.Version)
	}
	return nil
}
