package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/runnerr0/historygen/internal/generate"
	"github.com/runnerr0/historygen/internal/storage"
)

// Execute implements the go-flags Commander interface for ResetCommand.
func (c *ResetCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	// Confirmation prompt unless --force
	if !c.Force {
		fmt.Println("⚠ WARNING: This will permanently delete the generated databases.")
		fmt.Printf("  - %s\n", cfg.Paths.HistoryOutput())
		fmt.Printf("  - %s\n", cfg.Paths.FaviconsOutput())
		fmt.Println()
		fmt.Println("They are replaced with empty copies of the templates.")
		fmt.Println()
		fmt.Print(`Type "RESET" to confirm: `)

		var in io.Reader = os.Stdin
		if c.in != nil {
			in = c.in
		}
		scanner := bufio.NewScanner(in)
		if !scanner.Scan() {
			return fmt.Errorf("aborted: no input received")
		}
		input := strings.TrimSpace(scanner.Text())
		if input != "RESET" {
			return fmt.Errorf("aborted: confirmation text did not match")
		}
	}

	if err := storage.Prepare(generate.Templates(cfg.Paths)...); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	// Output
	if wantJSON(c.globals) {
		out := map[string]interface{}{
			"reset":    true,
			"history":  cfg.Paths.HistoryOutput(),
			"favicons": cfg.Paths.FaviconsOutput(),
		}
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(out)
	}

	fmt.Println("Reset History and Favicons from templates. Outputs are empty.")
	return nil
}
