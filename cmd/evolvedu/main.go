package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/evolvedu/internal/cmd"
	"github.com/felixgeelhaar/evolvedu/internal/exitcode"
)

func main() {
	// Create a context that listens for interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Errors are already reported by cmd; only the exit code is left.
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		exitcode.ExitWithError(err)
	}
	exitcode.Exit(exitcode.Success)
}
