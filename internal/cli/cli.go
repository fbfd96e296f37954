package cli

import (
	"context"
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Generate  *GenerateCommand
	Add       *AddCommand
	Templates *TemplatesCommand
	Reset     *ResetCommand
	Status    *StatusCommand
	List      *ListCommand
	Open      *OpenCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(ctx context.Context, version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	// Errors are reported once by the caller, so PrintErrors is left out.
	parser := goflags.NewParser(&globals, goflags.HelpFlag|goflags.PassDoubleDash)
	parser.Name = "historygen"
	parser.LongDescription = "Generate fake Chromium History and Favicons databases from lists of URLs."

	cmds := &commands{
		Generate:  &GenerateCommand{globals: &globals, version: version, ctx: ctx},
		Add:       &AddCommand{globals: &globals, version: version, ctx: ctx},
		Templates: &TemplatesCommand{globals: &globals, version: version},
		Reset:     &ResetCommand{globals: &globals, version: version},
		Status:    &StatusCommand{globals: &globals, version: version, ctx: ctx},
		List:      &ListCommand{globals: &globals, version: version, ctx: ctx},
		Open:      &OpenCommand{globals: &globals, version: version, ctx: ctx},
	}

	parser.AddCommand("generate", "Generate History and Favicons", "Sample URLs from the configured lists and write fresh History and Favicons databases.", cmds.Generate)
	parser.AddCommand("add", "Append one URL", "Append one URL with a visit and its favicon to the existing outputs.", cmds.Add)
	parser.AddCommand("templates", "Build template databases", "Build empty History and Favicons template databases with the Chromium schema.", cmds.Templates)
	parser.AddCommand("reset", "Recreate outputs from templates", "Delete the outputs and copy fresh templates into place. Destructive operation with safety prompt.", cmds.Reset)
	parser.AddCommand("status", "Show output statistics", "Show counts, time range and schema versions of the generated databases.", cmds.Status)
	parser.AddCommand("list", "List generated history", "List generated history newest first, with optional keyword and filters.", cmds.List)
	parser.AddCommand("open", "Show one generated URL", "Show the history record, visits and favicon mapping of one URL.", cmds.Open)

	return parser, &globals, cmds
}

// Run is the main entry point for the historygen CLI using os.Args.
func Run(ctx context.Context, version string) error {
	return RunWithArgs(ctx, version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(ctx context.Context, version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("historygen %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(ctx, version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				fmt.Println(flagsErr.Message)
				return nil
			}
		}
		return err
	}

	return nil
}
