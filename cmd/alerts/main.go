package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"telegram-alerts/internal/cli"
	"telegram-alerts/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := logging.NewLogger()
	root := cli.NewRootCmd(logger)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		cancel()
		os.Exit(1)
	}
}
