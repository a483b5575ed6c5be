// Package main provides the entry point for the batuta CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/batuta/internal/cli"
	"github.com/mrz1836/batuta/internal/signal"
)

// Build information injected via ldflags.
//
//nolint:gochecknoglobals // Set at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	handler := signal.NewHandler(context.Background())
	defer handler.Stop()

	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	err := cli.Execute(handler.Context(), info)
	cli.CloseLogFile()
	if err != nil {
		handler.Stop()
		os.Exit(cli.ExitCodeForError(err)) //nolint:gocritic // deferred Stop already ran
	}
}
