// Package main is the entry point for the fuzzy-rank CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fuzzy-rank/cmd/cli/cmd"
	"fuzzy-rank/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cmd.Execute(ctx)
	stop()
	logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}
