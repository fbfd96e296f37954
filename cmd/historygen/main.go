// Package main provides the entry point for the historygen CLI.
//
// historygen writes fake Chromium History and Favicons databases from lists
// of URLs.
//
// Usage:
//
//	historygen templates
//	historygen generate --days 7 --count 25
//	historygen status
//
// See --help for all available options.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/runnerr0/historygen/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Run(ctx, version)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
