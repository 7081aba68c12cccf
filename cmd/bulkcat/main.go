package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bulkcat/cmd"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return cmd.Execute(ctx)
}
