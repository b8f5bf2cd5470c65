package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/movers-solution/movers/internal/cli"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Ctrl-C aborts an in-flight backend probe instead of waiting out its timeout
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx, version); err != nil {
		stop()
		os.Exit(1)
	}
}
